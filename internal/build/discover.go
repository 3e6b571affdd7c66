package build

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/temirov/codepages/internal/utils"
)

const errorWalkFormat = "walk input directory %s: %w"

// Discover returns the absolute paths of the documents in root whose
// extension is listed in extensions, skipping anything matched by
// excludePatterns. Subdirectories are only entered when recursive is set.
// Paths are returned sorted.
func Discover(root string, extensions []string, excludePatterns []string, recursive bool) ([]string, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorWalkFormat, root, absoluteError)
	}

	var documentPaths []string
	walkError := filepath.WalkDir(absoluteRoot, func(currentPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		relativePath := utils.RelativePathOrSelf(currentPath, absoluteRoot)
		if relativePath == "." {
			return nil
		}
		if entry.IsDir() {
			if !recursive || utils.ShouldIgnoreByPath(relativePath+"/", excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || !utils.HasExtension(currentPath, extensions) {
			return nil
		}
		if utils.ShouldIgnoreByPath(relativePath, excludePatterns) {
			return nil
		}
		documentPaths = append(documentPaths, currentPath)
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorWalkFormat, absoluteRoot, walkError)
	}
	sort.Strings(documentPaths)
	return documentPaths, nil
}

// Package config loads layered application configuration and the ignore
// files that exclude documents from a build.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codepages/internal/utils"
)

const ignoreCommentPrefix = "#"

// LoadIgnoreFilePatterns reads one ignore file. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, ignoreCommentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates patterns
// from every utils.IgnoreFileName found. Patterns from a nested directory are
// prefixed with that directory's path relative to the root. exclusionPatterns
// are appended after the file patterns.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, exclusionPatterns []string, useIgnoreFile bool) ([]string, error) {
	var aggregatedPatterns []string

	if useIgnoreFile {
		walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return walkError
			}
			if !directoryEntry.IsDir() {
				return nil
			}

			relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
			prefix := ""
			if relativeDirectory != "." {
				prefix = relativeDirectory + "/"
			}

			ignoreFilePath := filepath.Join(currentDirectoryPath, utils.IgnoreFileName)
			ignorePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
			if loadError != nil {
				return fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, currentDirectoryPath, loadError)
			}
			for _, pattern := range ignorePatterns {
				aggregatedPatterns = append(aggregatedPatterns, prefix+pattern)
			}
			return nil
		}

		if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
			return nil, walkError
		}
	}

	for _, pattern := range exclusionPatterns {
		if trimmedPattern := strings.TrimSpace(pattern); trimmedPattern != "" {
			aggregatedPatterns = append(aggregatedPatterns, trimmedPattern)
		}
	}

	return utils.DeduplicatePatterns(aggregatedPatterns), nil
}

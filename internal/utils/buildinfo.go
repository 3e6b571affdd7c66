package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion    = "unknown"
	develVersion      = "(devel)"
	gitDirectoryName  = ".git"
	gitNotFoundFormat = ".git directory not found in or above %s"
)

// Version is set at link time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion resolves the version from the link-time value, the Go
// build info, or git describe, in that order.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}

	gitDirectoryPath, gitDirectoryError := findGitDirectory(".")
	if gitDirectoryError != nil {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		gitCommand := exec.Command("git", describeArguments...)
		gitCommand.Dir = gitDirectoryPath
		gitOutput, gitError := gitCommand.Output()
		if gitError == nil && len(gitOutput) > 0 {
			return strings.TrimSpace(string(gitOutput))
		}
	}
	return unknownVersion
}

// findGitDirectory walks upward from startDirectory to the directory holding .git.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, errorAbsolute := filepath.Abs(startDirectory)
	if errorAbsolute != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, errorAbsolute)
	}

	currentDirectory := absoluteStartDirectory
	for {
		fileInformation, errorStat := os.Stat(filepath.Join(currentDirectory, gitDirectoryName))
		if errorStat == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf(gitNotFoundFormat, absoluteStartDirectory)
}

// Package utils contains general helper functions used across codepages.
package utils

import (
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath in
// forward-slash form. Returns the cleaned fullPath if relative calculation
// fails and "." if both resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ReplaceExtension maps a forward-slash document path onto its generated page:
// up to two trailing suffixes of the base name are dropped before extension is
// appended, so "guide/archive.tar.yaml" becomes "guide/archive.html".
func ReplaceExtension(path string, extension string) string {
	directoryEnd := strings.LastIndex(path, pathSegmentSeparator) + 1
	baseName := trimSuffix(trimSuffix(path[directoryEnd:]))
	return path[:directoryEnd] + baseName + extension
}

// trimSuffix removes the last dotted suffix of name. A leading dot or a
// trailing dot does not start a suffix.
func trimSuffix(name string) string {
	dotIndex := strings.LastIndex(name, ".")
	if dotIndex <= 0 || dotIndex == len(name)-1 {
		return name
	}
	return name[:dotIndex]
}

// HasExtension reports whether path ends with one of extensions, ignoring case.
func HasExtension(path string, extensions []string) bool {
	pathExtension := strings.ToLower(filepath.Ext(path))
	for _, extension := range extensions {
		if pathExtension == strings.ToLower(extension) {
			return true
		}
	}
	return false
}

// ShouldIgnoreByPath reports whether a path relative to the input root should
// be skipped. The candidate path and every pattern are converted to
// forward-slash form and split into segments. A pattern ending with a slash
// matches that directory and everything below it. A single-segment pattern
// matches the last path segment. Other patterns match the whole path segment
// by segment with filepath.Match semantics.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	lastSegment := pathSegments[len(pathSegments)-1]

	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(strings.TrimSpace(patternValue), "\\", pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}

		isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		patternSegments := strings.Split(trimmedPattern, pathSegmentSeparator)

		if isDirectoryPattern {
			if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
				return true
			}
			continue
		}

		if len(patternSegments) == 1 {
			isMatched, matchError := filepath.Match(patternSegments[0], lastSegment)
			if matchError == nil && isMatched {
				return true
			}
			continue
		}

		if len(pathSegments) == len(patternSegments) && segmentsMatch(pathSegments, patternSegments) {
			return true
		}
	}

	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}

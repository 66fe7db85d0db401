// Package utils contains general helper functions used across the contx tool.
package utils

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts a relative path to forward-slash form regardless of
// the host operating system separator. Ignore-rule matching always operates
// on the normalized form.
func NormalizePath(relativePath string) string {
	return strings.ReplaceAll(filepath.ToSlash(relativePath), "\\", "/")
}

// RelativePathOrSelf calculates the forward-slash relative path from root to
// fullPath. Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relativeError := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// LastPathSegment returns the final segment of a forward-slash path.
func LastPathSegment(normalizedPath string) string {
	if separatorIndex := strings.LastIndex(normalizedPath, "/"); separatorIndex >= 0 {
		return normalizedPath[separatorIndex+1:]
	}
	return normalizedPath
}

// Package utils contains general helper functions used across the promptpack tool.
package utils

import (
	"path/filepath"
)

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

// IsWithinRoot reports whether candidatePath stays inside rootPath after both
// resolve to absolute form. Used to reject explicit files escaping the root.
func IsWithinRoot(rootPath, candidatePath string) bool {
	absoluteRoot, rootError := filepath.Abs(rootPath)
	if rootError != nil {
		return false
	}
	absoluteCandidate, candidateError := filepath.Abs(candidatePath)
	if candidateError != nil {
		return false
	}
	relativePath, relError := filepath.Rel(absoluteRoot, absoluteCandidate)
	if relError != nil {
		return false
	}
	if relativePath == ".." {
		return false
	}
	return !(len(relativePath) >= 3 && relativePath[:3] == ".."+string(filepath.Separator))
}

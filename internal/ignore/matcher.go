// Package ignore decides which relative paths are excluded from traversal.
package ignore

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/bethington/contx/internal/utils"
)

// Matcher answers whether a path relative to the workspace root is excluded.
// It combines user-supplied glob patterns, optional .gitignore content, and
// an unconditional dot-file rule. A Matcher is immutable once built.
type Matcher struct {
	gitignoreMatcher *gitignore.GitIgnore
	globPatterns     []string
}

// Build constructs a Matcher from user exclude patterns and optional
// .gitignore text. Pass an empty gitignoreText when no .gitignore applies.
// The gitignore pattern language, including negation, is honored for the
// gitignore text; exclude patterns are evaluated as doublestar globs.
func Build(excludePatterns []string, gitignoreText string) *Matcher {
	matcher := &Matcher{}

	for _, pattern := range excludePatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		matcher.globPatterns = append(matcher.globPatterns, utils.NormalizePath(trimmedPattern))
	}

	gitignoreLines := splitGitignoreLines(gitignoreText)
	if len(gitignoreLines) > 0 {
		matcher.gitignoreMatcher = gitignore.CompileIgnoreLines(gitignoreLines...)
	}

	return matcher
}

// splitGitignoreLines breaks raw .gitignore content into lines. Comment and
// blank line handling is left to the gitignore compiler.
func splitGitignoreLines(gitignoreText string) []string {
	if strings.TrimSpace(gitignoreText) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(gitignoreText, "\r\n", "\n"), "\n")
}

// IsExcluded reports whether the forward-slash relative path is excluded.
// Any path whose final segment starts with "." is excluded unconditionally;
// no pattern, including a gitignore negation, can re-include it.
func (matcher *Matcher) IsExcluded(relativePath string) bool {
	normalizedPath := utils.NormalizePath(relativePath)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}

	if strings.HasPrefix(utils.LastPathSegment(normalizedPath), ".") {
		return true
	}

	if matcher.gitignoreMatcher != nil && matcher.gitignoreMatcher.MatchesPath(normalizedPath) {
		return true
	}

	for _, pattern := range matcher.globPatterns {
		if matchesGlobPattern(pattern, normalizedPath) {
			return true
		}
	}
	return false
}

// matchesGlobPattern evaluates one exclude pattern against a normalized path.
// A trailing slash marks a directory pattern matching the directory itself and
// everything beneath it. A pattern without a slash matches the final path
// segment; a pattern containing a slash matches the whole relative path.
func matchesGlobPattern(pattern string, normalizedPath string) bool {
	if strings.HasSuffix(pattern, "/") {
		directoryPattern := strings.TrimSuffix(pattern, "/")
		if globMatch(directoryPattern, normalizedPath) {
			return true
		}
		return globMatch(directoryPattern+"/**", normalizedPath)
	}

	if strings.Contains(pattern, "/") {
		return globMatch(pattern, normalizedPath)
	}
	return globMatch(pattern, utils.LastPathSegment(normalizedPath))
}

// globMatch wraps doublestar matching; malformed patterns never match.
func globMatch(pattern string, target string) bool {
	matched, matchError := doublestar.Match(pattern, target)
	return matchError == nil && matched
}

// Package transform provides stateless content transforms applied to
// collected file text before formatting.
package transform

import (
	"regexp"
	"strings"
)

var (
	// lineCommentExpression matches a // comment through the end of its line.
	lineCommentExpression = regexp.MustCompile(`//[^\n]*`)
	// blockCommentExpression matches a /* ... */ comment, non-greedy, across lines.
	blockCommentExpression = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// StripComments removes // line comments and /* */ block comments from text.
//
// This is a lexical approximation applied uniformly regardless of the file's
// language: comment-like sequences inside string literals are also removed.
// That is a known, accepted limitation of the regex approach, not a defect.
func StripComments(text string) string {
	withoutLineComments := lineCommentExpression.ReplaceAllString(text, "")
	return blockCommentExpression.ReplaceAllString(withoutLineComments, "")
}

// CompressWhitespace trims leading and trailing whitespace from every line,
// drops lines that become empty, and rejoins the remainder with newlines.
// The transform is idempotent.
func CompressWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	compressedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}
		compressedLines = append(compressedLines, trimmedLine)
	}
	return strings.Join(compressedLines, "\n")
}

// Apply runs the requested transforms in their fixed order: comments are
// stripped first, then whitespace is compressed.
func Apply(text string, removeComments bool, compressCode bool) string {
	result := text
	if removeComments {
		result = StripComments(result)
	}
	if compressCode {
		result = CompressWhitespace(result)
	}
	return result
}

// Package types defines every cross-package data structure used by the contx CLI.
package types

const (
	FormatPlainText = "plaintext"
	FormatMarkdown  = "markdown"
	FormatXML       = "xml"
)

// GitIgnoreFileName is the name of the Git ignore file read from the workspace root.
const GitIgnoreFileName = ".gitignore"

// FileRecord holds one collected file: its path relative to the workspace root
// and either the file's text or a placeholder notice. Records are immutable
// once created and ordered by traversal order.
type FileRecord struct {
	RelativePath string
	Content      string
}

// Selection identifies what the user asked to snapshot: the workspace root and
// one or more absolute paths inside it.
type Selection struct {
	WorkspaceRoot string
	Paths         []string
}

// RunConfiguration is the immutable snapshot of all settings for one
// invocation. It is constructed once at invocation start and passed by value
// into every component; no component reads ambient configuration.
type RunConfiguration struct {
	UseGitignore        bool
	MaxDepth            int
	ExcludePatterns     []string
	OutputFormat        string
	MaxFileSize         int64
	IncludeTree         bool
	CompressCode        bool
	RemoveComments      bool
	Model               string
	MaxTokens           int
	EnableTokenWarning  bool
	EnableTokenCounting bool
	TrailingInstruction string
}

// IsSupportedFormat reports whether the provided output format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatPlainText, FormatMarkdown, FormatXML:
		return true
	default:
		return false
	}
}

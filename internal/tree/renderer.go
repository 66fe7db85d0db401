// Package tree renders an indented textual directory tree.
package tree

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bethington/contx/internal/ignore"
	"github.com/bethington/contx/internal/utils"
)

const (
	branchGlyph     = "├── "
	lastBranchGlyph = "└── "
	openIndent      = "│   "
	completedIndent = "    "
)

// Renderer produces the textual tree for a directory, honoring exclusion
// rules and a maximum depth.
type Renderer struct {
	Matcher  *ignore.Matcher
	MaxDepth int
	Logger   *zap.Logger
}

// NewRenderer constructs a Renderer. A nil logger is replaced with a no-op logger.
func NewRenderer(matcher *ignore.Matcher, maxDepth int, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Matcher: matcher, MaxDepth: maxDepth, Logger: logger}
}

// Render lists rootDirectoryPath depth-first down to MaxDepth and returns the
// indented tree text. MaxDepth zero lists only the root's immediate children.
// Entries are rendered in sorted name order so output is deterministic across
// filesystems. Unreadable directories log an error and contribute no subtree;
// they never abort the render.
func (renderer *Renderer) Render(rootDirectoryPath string) string {
	var builder strings.Builder
	renderer.renderLevel(&builder, rootDirectoryPath, rootDirectoryPath, 0, "")
	return builder.String()
}

// renderLevel writes one directory level and recurses into subdirectories
// while the depth limit allows.
func (renderer *Renderer) renderLevel(builder *strings.Builder, currentDirectoryPath string, rootDirectoryPath string, currentDepth int, indentPrefix string) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		renderer.Logger.Error("unable to list directory",
			zap.String("path", currentDirectoryPath),
			zap.Error(readDirectoryError))
		return
	}

	includedEntries := make([]os.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if renderer.Matcher.IsExcluded(relativeChildPath) {
			continue
		}
		includedEntries = append(includedEntries, directoryEntry)
	}

	for entryIndex, directoryEntry := range includedEntries {
		isLastSibling := entryIndex == len(includedEntries)-1
		if isLastSibling {
			builder.WriteString(indentPrefix + lastBranchGlyph + directoryEntry.Name() + "\n")
		} else {
			builder.WriteString(indentPrefix + branchGlyph + directoryEntry.Name() + "\n")
		}

		if !directoryEntry.IsDir() || currentDepth+1 > renderer.MaxDepth {
			continue
		}

		childIndent := indentPrefix + openIndent
		if isLastSibling {
			childIndent = indentPrefix + completedIndent
		}
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		renderer.renderLevel(builder, childPath, rootDirectoryPath, currentDepth+1, childIndent)
	}
}

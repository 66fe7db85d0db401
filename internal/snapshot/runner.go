// Package snapshot orchestrates one collection run: ignore rules, optional
// tree rendering, file collection, and output formatting.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bethington/contx/internal/collector"
	"github.com/bethington/contx/internal/format"
	"github.com/bethington/contx/internal/ignore"
	"github.com/bethington/contx/internal/tree"
	"github.com/bethington/contx/internal/types"
)

var (
	// ErrEmptySelection is returned when no paths were selected.
	ErrEmptySelection = errors.New("no items selected")
	// ErrNoWorkspaceRoot is returned when the workspace root cannot be determined.
	ErrNoWorkspaceRoot = errors.New("workspace root could not be determined")
)

// Result carries the formatted snapshot plus the counts the host needs for
// user messaging.
type Result struct {
	Output    string
	FileCount int
}

// Run executes one complete collection over the selection using the provided
// configuration and returns the formatted output. Selection problems are the
// only fatal errors; every per-item failure inside the pipeline degrades to a
// placeholder or a logged skip.
func Run(ctx context.Context, selection types.Selection, configuration types.RunConfiguration, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(selection.Paths) == 0 {
		return Result{}, ErrEmptySelection
	}
	if selection.WorkspaceRoot == "" {
		return Result{}, ErrNoWorkspaceRoot
	}
	workspaceRoot, absoluteError := filepath.Abs(selection.WorkspaceRoot)
	if absoluteError != nil {
		return Result{}, fmt.Errorf("resolving workspace root %s: %w", selection.WorkspaceRoot, absoluteError)
	}

	matcher := ignore.Build(configuration.ExcludePatterns, LoadGitignoreText(workspaceRoot, configuration.UseGitignore, logger))

	treeText := ""
	if configuration.IncludeTree {
		treeRenderer := tree.NewRenderer(matcher, configuration.MaxDepth, logger)
		treeText = treeRenderer.Render(workspaceRoot)
	}

	fileCollector := collector.NewCollector(workspaceRoot, matcher, configuration, logger)
	var records []types.FileRecord
	for _, selectedPath := range selection.Paths {
		if ctx.Err() != nil {
			break
		}
		pathRecords, collectError := fileCollector.Collect(ctx, selectedPath)
		if collectError != nil {
			return Result{}, fmt.Errorf("collecting %s: %w", selectedPath, collectError)
		}
		records = append(records, pathRecords...)
	}

	output, renderError := format.Render(configuration.OutputFormat, treeText, records, configuration.TrailingInstruction)
	if renderError != nil {
		return Result{}, renderError
	}

	return Result{Output: output, FileCount: len(records)}, nil
}

// LoadGitignoreText reads the workspace root .gitignore when enabled. An
// absent or unreadable file logs and contributes zero rules; it never fails
// the run.
func LoadGitignoreText(workspaceRoot string, useGitignore bool, logger *zap.Logger) string {
	if !useGitignore {
		return ""
	}
	gitignorePath := filepath.Join(workspaceRoot, types.GitIgnoreFileName)
	gitignoreBytes, readError := os.ReadFile(gitignorePath)
	if readError != nil {
		if !os.IsNotExist(readError) {
			logger.Warn("unable to read .gitignore",
				zap.String("path", gitignorePath),
				zap.Error(readError))
		}
		return ""
	}
	return string(gitignoreBytes)
}

package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethington/contx/internal/snapshot"
	"github.com/bethington/contx/internal/types"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// testConfiguration returns a plaintext configuration with tree rendering enabled.
func testConfiguration() types.RunConfiguration {
	return types.RunConfiguration{
		UseGitignore: true,
		MaxDepth:     5,
		OutputFormat: types.FormatPlainText,
		MaxFileSize:  1024 * 1024,
		IncludeTree:  true,
	}
}

// populateWorkspace lays out a small project used by several tests.
func populateWorkspace(testingHandle *testing.T) string {
	workspaceRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "main.go"), "package main\n")
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "notes.log"), "log line\n")
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, ".env"), "SECRET=1\n")
	if makeDirectoryError := os.MkdirAll(filepath.Join(workspaceRoot, "pkg"), 0o755); makeDirectoryError != nil {
		testingHandle.Fatalf("failed to create pkg directory: %v", makeDirectoryError)
	}
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "pkg", "lib.go"), "package pkg\n")
	return workspaceRoot
}

// TestRunProducesTreeAndContents verifies the full pipeline over a small
// workspace: tree section, collected files, and exclusion invariants.
func TestRunProducesTreeAndContents(testingHandle *testing.T) {
	workspaceRoot := populateWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, ".gitignore"), "*.log\n")

	selection := types.Selection{WorkspaceRoot: workspaceRoot, Paths: []string{workspaceRoot}}
	result, runError := snapshot.Run(context.Background(), selection, testConfiguration(), nil)
	if runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}

	for _, expectedFragment := range []string{"Project Structure:", "File: main.go", "File: pkg/lib.go"} {
		if !strings.Contains(result.Output, expectedFragment) {
			testingHandle.Fatalf("output missing %q:\n%s", expectedFragment, result.Output)
		}
	}
	for _, excludedFragment := range []string{".env", "notes.log", "SECRET"} {
		if strings.Contains(result.Output, excludedFragment) {
			testingHandle.Fatalf("output must not contain %q:\n%s", excludedFragment, result.Output)
		}
	}
	if result.FileCount != 2 {
		testingHandle.Fatalf("expected 2 collected files, got %d", result.FileCount)
	}
}

// TestRunIsDeterministic verifies two runs over an unchanged workspace with
// identical configuration produce byte-identical output.
func TestRunIsDeterministic(testingHandle *testing.T) {
	workspaceRoot := populateWorkspace(testingHandle)
	selection := types.Selection{WorkspaceRoot: workspaceRoot, Paths: []string{workspaceRoot}}

	firstResult, firstError := snapshot.Run(context.Background(), selection, testConfiguration(), nil)
	secondResult, secondError := snapshot.Run(context.Background(), selection, testConfiguration(), nil)
	if firstError != nil || secondError != nil {
		testingHandle.Fatalf("run failed: %v %v", firstError, secondError)
	}
	if firstResult.Output != secondResult.Output {
		testingHandle.Fatalf("outputs differ between identical runs")
	}
}

// TestRunEmptySelection verifies that an empty selection is the fatal
// selection error.
func TestRunEmptySelection(testingHandle *testing.T) {
	selection := types.Selection{WorkspaceRoot: testingHandle.TempDir()}
	_, runError := snapshot.Run(context.Background(), selection, testConfiguration(), nil)
	if !errors.Is(runError, snapshot.ErrEmptySelection) {
		testingHandle.Fatalf("expected ErrEmptySelection, got %v", runError)
	}
}

// TestRunMissingWorkspaceRoot verifies the undeterminable-workspace error.
func TestRunMissingWorkspaceRoot(testingHandle *testing.T) {
	workspaceRoot := testingHandle.TempDir()
	selection := types.Selection{Paths: []string{workspaceRoot}}
	_, runError := snapshot.Run(context.Background(), selection, testConfiguration(), nil)
	if !errors.Is(runError, snapshot.ErrNoWorkspaceRoot) {
		testingHandle.Fatalf("expected ErrNoWorkspaceRoot, got %v", runError)
	}
}

// TestRunWithoutTree verifies the tree section is omitted when disabled.
func TestRunWithoutTree(testingHandle *testing.T) {
	workspaceRoot := populateWorkspace(testingHandle)
	configuration := testConfiguration()
	configuration.IncludeTree = false

	selection := types.Selection{WorkspaceRoot: workspaceRoot, Paths: []string{workspaceRoot}}
	result, runError := snapshot.Run(context.Background(), selection, configuration, nil)
	if runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	if strings.Contains(result.Output, "Project Structure:") {
		testingHandle.Fatalf("expected no tree section:\n%s", result.Output)
	}
}

// TestRunSingleFileSelection verifies selecting one file collects only it,
// with its path relative to the workspace root.
func TestRunSingleFileSelection(testingHandle *testing.T) {
	workspaceRoot := populateWorkspace(testingHandle)
	configuration := testConfiguration()
	configuration.IncludeTree = false

	selection := types.Selection{
		WorkspaceRoot: workspaceRoot,
		Paths:         []string{filepath.Join(workspaceRoot, "pkg", "lib.go")},
	}
	result, runError := snapshot.Run(context.Background(), selection, configuration, nil)
	if runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	if result.FileCount != 1 {
		testingHandle.Fatalf("expected a single collected file, got %d", result.FileCount)
	}
	if !strings.Contains(result.Output, "File: pkg/lib.go") {
		testingHandle.Fatalf("expected workspace-relative path in output:\n%s", result.Output)
	}
}

// TestRunMissingGitignoreIsNotFatal verifies a missing .gitignore contributes
// zero rules without failing the run.
func TestRunMissingGitignoreIsNotFatal(testingHandle *testing.T) {
	workspaceRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "only.txt"), "content\n")

	selection := types.Selection{WorkspaceRoot: workspaceRoot, Paths: []string{workspaceRoot}}
	result, runError := snapshot.Run(context.Background(), selection, testConfiguration(), nil)
	if runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	if result.FileCount != 1 {
		testingHandle.Fatalf("expected one collected file, got %d", result.FileCount)
	}
}

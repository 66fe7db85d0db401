package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// changeTestDirectory switches to the given directory for the duration of the
// test, restoring the original working directory on cleanup.
func changeTestDirectory(testingHandle *testing.T, directory string) {
	testingHandle.Helper()
	originalDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		testingHandle.Fatalf("failed to get working directory: %v", getwdError)
	}
	if chdirError := os.Chdir(directory); chdirError != nil {
		testingHandle.Fatalf("failed to chdir to %s: %v", directory, chdirError)
	}
	testingHandle.Cleanup(func() {
		if chdirError := os.Chdir(originalDirectory); chdirError != nil {
			testingHandle.Fatalf("failed to restore working directory: %v", chdirError)
		}
	})
}

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// executeCommand runs the root command with the provided arguments and
// returns captured stdout.
func executeCommand(testingHandle *testing.T, arguments ...string) string {
	testingHandle.Helper()
	var outputBuffer bytes.Buffer
	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetOut(&outputBuffer)
	rootCommand.SetErr(&outputBuffer)
	rootCommand.SetArgs(arguments)
	if executeError := rootCommand.Execute(); executeError != nil {
		testingHandle.Fatalf("command %v failed: %v", arguments, executeError)
	}
	return outputBuffer.String()
}

// TestCopyCommandToStdout verifies the copy command renders the snapshot to
// stdout when --stdout is set, honoring format and exclusion flags.
func TestCopyCommandToStdout(testingHandle *testing.T) {
	workspaceRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "main.go"), "package main\n")
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "skip.log"), "log\n")
	testingHandle.Setenv("HOME", workspaceRoot)
	changeTestDirectory(testingHandle, workspaceRoot)

	output := executeCommand(testingHandle,
		"copy", "--stdout", "--no-tokens", "--format", "markdown", "-e", "*.log", ".")

	if !strings.Contains(output, "# File Contents") {
		testingHandle.Fatalf("expected markdown contents heading, got:\n%s", output)
	}
	if !strings.Contains(output, "## main.go") {
		testingHandle.Fatalf("expected main.go section, got:\n%s", output)
	}
	if strings.Contains(output, "skip.log") {
		testingHandle.Fatalf("expected excluded file to be absent, got:\n%s", output)
	}
}

// TestCopyCommandRejectsInvalidFormat verifies format validation at the
// command boundary.
func TestCopyCommandRejectsInvalidFormat(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", workingDirectory)
	changeTestDirectory(testingHandle, workingDirectory)

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{"copy", "--stdout", "--format", "yaml", "."})
	if executeError := rootCommand.Execute(); executeError == nil {
		testingHandle.Fatalf("expected invalid format error")
	}
}

// TestTreeCommand verifies the tree command renders glyphs to stdout.
func TestTreeCommand(testingHandle *testing.T) {
	workspaceRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(workspaceRoot, "solo.txt"), "x")

	output := executeCommand(testingHandle, "tree", workspaceRoot)
	if output != "└── solo.txt\n" {
		testingHandle.Fatalf("unexpected tree output: %q", output)
	}
}

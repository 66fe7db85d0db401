package tokenizer_test

import (
	"testing"

	"github.com/bethington/contx/internal/tokenizer"
)

// TestModelTokenLimit verifies the fixed model table lookup, including
// case-insensitive names and the unknown-model fallback.
func TestModelTokenLimit(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		modelName     string
		expectedLimit int
	}{
		{name: "known model", modelName: "gpt-4o", expectedLimit: 128000},
		{name: "case insensitive", modelName: "GPT-4o", expectedLimit: 128000},
		{name: "default when empty", modelName: "", expectedLimit: 128000},
		{name: "unknown model", modelName: "mystery-model", expectedLimit: 0},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			limit := tokenizer.ModelTokenLimit(testCase.modelName)
			if limit != testCase.expectedLimit {
				subtestHandle.Fatalf("expected limit %d for %q, got %d", testCase.expectedLimit, testCase.modelName, limit)
			}
		})
	}
}

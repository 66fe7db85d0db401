// Package tokenizer estimates the token count and monetary cost of feeding
// text to a large-language-model.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncodingName is used for models without a dedicated tiktoken encoding.
const fallbackEncodingName = "cl100k_base"

// defaultModelName is assumed when no model is configured.
const defaultModelName = "gpt-4o"

// ModelInfo describes one entry of the fixed model table: the model's context
// window and its input price in USD per million tokens.
type ModelInfo struct {
	TokenLimit         int
	InputUSDPerMillion float64
}

// modelTable is the fixed model → limit/price table. Unknown models fall back
// to the cl100k_base encoding and carry no price, so their estimates report a
// token count with zero cost.
var modelTable = map[string]ModelInfo{
	"gpt-4o":        {TokenLimit: 128000, InputUSDPerMillion: 2.50},
	"gpt-4o-mini":   {TokenLimit: 128000, InputUSDPerMillion: 0.15},
	"gpt-4.1":       {TokenLimit: 1047576, InputUSDPerMillion: 2.00},
	"gpt-4.1-mini":  {TokenLimit: 1047576, InputUSDPerMillion: 0.40},
	"gpt-4-turbo":   {TokenLimit: 128000, InputUSDPerMillion: 10.00},
	"gpt-3.5-turbo": {TokenLimit: 16385, InputUSDPerMillion: 0.50},
	"o3":            {TokenLimit: 200000, InputUSDPerMillion: 2.00},
	"o4-mini":       {TokenLimit: 200000, InputUSDPerMillion: 1.10},
}

// Estimate is the result of one cost estimation.
type Estimate struct {
	Tokens  int
	CostUSD float64
}

// ModelTokenLimit returns the context-window size for the named model, or
// zero when the model is not in the table.
func ModelTokenLimit(modelName string) int {
	info, known := modelTable[normalizeModelName(modelName)]
	if !known {
		return 0
	}
	return info.TokenLimit
}

// EstimateCost counts the tokens of text for the named model and prices them
// from the model table. Encoding initialization may require downloading the
// BPE vocabulary and can therefore fail; callers must treat failure as
// non-fatal and degrade to "no cost data".
func EstimateCost(modelName string, text string) (Estimate, error) {
	normalizedModelName := normalizeModelName(modelName)

	encoding, encodingError := tiktoken.EncodingForModel(normalizedModelName)
	if encodingError != nil || encoding == nil {
		fallbackEncoding, fallbackError := tiktoken.GetEncoding(fallbackEncodingName)
		if fallbackError != nil {
			return Estimate{}, fmt.Errorf("initialize tokenizer for model %s: %w", normalizedModelName, fallbackError)
		}
		encoding = fallbackEncoding
	}

	tokenIdentifiers := encoding.Encode(text, nil, nil)
	estimate := Estimate{Tokens: len(tokenIdentifiers)}
	if info, known := modelTable[normalizedModelName]; known {
		estimate.CostUSD = float64(estimate.Tokens) / 1_000_000 * info.InputUSDPerMillion
	}
	return estimate, nil
}

// normalizeModelName lower-cases and trims the configured model name, falling
// back to the default model when empty.
func normalizeModelName(modelName string) string {
	normalized := strings.ToLower(strings.TrimSpace(modelName))
	if normalized == "" {
		return defaultModelName
	}
	return normalized
}

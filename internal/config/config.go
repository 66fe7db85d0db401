// Package config loads application defaults from an optional configuration
// file and merges them into the per-invocation RunConfiguration.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/bethington/contx/internal/types"
)

const (
	// configurationFileName is the base name of the configuration file,
	// resolved as .contx.yaml (or any extension viper supports).
	configurationFileName = ".contx"
	configurationFileType = "yaml"
)

// Default values applied when neither the configuration file nor a flag
// provides a setting.
const (
	DefaultOutputFormat = types.FormatPlainText
	DefaultMaxDepth     = 3
	DefaultMaxFileSize  = int64(1024 * 1024)
	DefaultModel        = "gpt-4o"
)

// LoadOptions controls where the configuration file is searched for.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file layout. Pointer
// fields distinguish "unset" from an explicit false or zero.
type ApplicationConfiguration struct {
	Format         string             `mapstructure:"format"`
	MaxDepth       *int               `mapstructure:"max_depth"`
	MaxFileSize    *int64             `mapstructure:"max_file_size"`
	Exclude        []string           `mapstructure:"exclude"`
	UseGitignore   *bool              `mapstructure:"use_gitignore"`
	IncludeTree    *bool              `mapstructure:"include_tree"`
	Compress       *bool              `mapstructure:"compress"`
	RemoveComments *bool              `mapstructure:"remove_comments"`
	Instruction    string             `mapstructure:"instruction"`
	Tokens         TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled   *bool  `mapstructure:"enabled"`
	Model     string `mapstructure:"model"`
	MaxTokens *int   `mapstructure:"max_tokens"`
	Warning   *bool  `mapstructure:"warning"`
}

// DefaultRunConfiguration returns the built-in defaults for one invocation.
func DefaultRunConfiguration() types.RunConfiguration {
	return types.RunConfiguration{
		UseGitignore:        true,
		MaxDepth:            DefaultMaxDepth,
		OutputFormat:        DefaultOutputFormat,
		MaxFileSize:         DefaultMaxFileSize,
		IncludeTree:         true,
		Model:               DefaultModel,
		EnableTokenWarning:  true,
		EnableTokenCounting: true,
	}
}

// Load reads the application configuration file. A missing file yields the
// zero configuration; a malformed file is a real error.
func Load(options LoadOptions) (ApplicationConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationFileType)

	if options.ExplicitFilePath != "" {
		viperInstance.SetConfigFile(options.ExplicitFilePath)
	} else {
		viperInstance.SetConfigName(configurationFileName)
		if options.WorkingDirectory != "" {
			viperInstance.AddConfigPath(options.WorkingDirectory)
		}
		viperInstance.AddConfigPath("$HOME")
	}

	if readError := viperInstance.ReadInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if errors.As(readError, &notFoundError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("reading configuration: %w", readError)
	}

	var applicationConfiguration ApplicationConfiguration
	if unmarshalError := viperInstance.Unmarshal(&applicationConfiguration); unmarshalError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("parsing configuration: %w", unmarshalError)
	}
	return applicationConfiguration, nil
}

// ApplyTo overlays every setting present in the configuration file onto the
// run configuration. Unset fields leave the existing value untouched.
func (applicationConfiguration ApplicationConfiguration) ApplyTo(runConfiguration *types.RunConfiguration) {
	if applicationConfiguration.Format != "" {
		runConfiguration.OutputFormat = applicationConfiguration.Format
	}
	if applicationConfiguration.MaxDepth != nil {
		runConfiguration.MaxDepth = *applicationConfiguration.MaxDepth
	}
	if applicationConfiguration.MaxFileSize != nil {
		runConfiguration.MaxFileSize = *applicationConfiguration.MaxFileSize
	}
	if len(applicationConfiguration.Exclude) > 0 {
		runConfiguration.ExcludePatterns = append(runConfiguration.ExcludePatterns, applicationConfiguration.Exclude...)
	}
	if applicationConfiguration.UseGitignore != nil {
		runConfiguration.UseGitignore = *applicationConfiguration.UseGitignore
	}
	if applicationConfiguration.IncludeTree != nil {
		runConfiguration.IncludeTree = *applicationConfiguration.IncludeTree
	}
	if applicationConfiguration.Compress != nil {
		runConfiguration.CompressCode = *applicationConfiguration.Compress
	}
	if applicationConfiguration.RemoveComments != nil {
		runConfiguration.RemoveComments = *applicationConfiguration.RemoveComments
	}
	if applicationConfiguration.Instruction != "" {
		runConfiguration.TrailingInstruction = applicationConfiguration.Instruction
	}
	if applicationConfiguration.Tokens.Enabled != nil {
		runConfiguration.EnableTokenCounting = *applicationConfiguration.Tokens.Enabled
	}
	if applicationConfiguration.Tokens.Model != "" {
		runConfiguration.Model = applicationConfiguration.Tokens.Model
	}
	if applicationConfiguration.Tokens.MaxTokens != nil {
		runConfiguration.MaxTokens = *applicationConfiguration.Tokens.MaxTokens
	}
	if applicationConfiguration.Tokens.Warning != nil {
		runConfiguration.EnableTokenWarning = *applicationConfiguration.Tokens.Warning
	}
}

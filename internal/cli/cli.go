// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bethington/contx/internal/config"
	"github.com/bethington/contx/internal/ignore"
	"github.com/bethington/contx/internal/notify"
	"github.com/bethington/contx/internal/services/clipboard"
	"github.com/bethington/contx/internal/snapshot"
	"github.com/bethington/contx/internal/tokenizer"
	"github.com/bethington/contx/internal/tree"
	"github.com/bethington/contx/internal/types"
	"github.com/bethington/contx/internal/utils"
)

const (
	rootUse              = "contx"
	rootShortDescription = "contx snapshots project files for LLM consumption"
	rootLongDescription  = `contx gathers the contents of selected files and directories, renders a
textual snapshot with an optional directory tree, copies it to the clipboard,
and estimates the token cost of feeding it to a large-language-model.
Use --format to select plaintext, markdown, or xml output.`

	copyUse              = "copy [paths...]"
	copyShortDescription = "collect files and copy the snapshot to the clipboard"
	copyUsageExample     = `  # Snapshot the current project in markdown
  contx copy --format markdown .

  # Snapshot two directories, skipping vendored code
  contx copy -e vendor/ src internal`

	treeUse              = "tree [path]"
	treeShortDescription = "render the directory tree only"

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "contx version: %s\n"

	formatFlagName          = "format"
	maxDepthFlagName        = "max-depth"
	maxFileSizeFlagName     = "max-file-size"
	excludeFlagName         = "exclude"
	excludeFlagShorthand    = "e"
	noGitignoreFlagName     = "no-gitignore"
	noTreeFlagName          = "no-tree"
	compressFlagName        = "compress"
	removeCommentsFlagName  = "remove-comments"
	modelFlagName           = "model"
	maxTokensFlagName       = "max-tokens"
	noTokenWarningFlagName  = "no-token-warning"
	noTokensFlagName        = "no-tokens"
	instructionFlagName     = "instruction"
	stdoutFlagName          = "stdout"
	configFileFlagName      = "config"
	defaultSelectionPath    = "."
	invalidFormatMessage    = "invalid format value %q"
	workingDirectoryMessage = "unable to determine working directory: %w"

	copiedMessageFormat         = "Copied %d file(s) to clipboard (%d tokens, $%.4f estimated for %s)"
	copiedNoCostMessageFormat   = "Copied %d file(s) to clipboard (cost estimation unavailable)"
	copiedNoTokensMessageFormat = "Copied %d file(s) to clipboard"
	tokenWarningMessageFormat   = "Snapshot is %d tokens, above the %d token limit for %s"
)

// Execute runs the contx application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createCopyCommand(logger),
		createTreeCommand(logger),
	)
	return rootCommand
}

// copyFlagValues holds the raw flag state of the copy command before it is
// merged with file configuration into a RunConfiguration.
type copyFlagValues struct {
	format          string
	maxDepth        int
	maxFileSize     int64
	excludePatterns []string
	noGitignore     bool
	noTree          bool
	compress        bool
	removeComments  bool
	model           string
	maxTokens       int
	noTokenWarning  bool
	noTokens        bool
	instruction     string
	toStdout        bool
	configFilePath  string
}

// createCopyCommand builds the copy command, the main entry point of the tool.
func createCopyCommand(logger *zap.Logger) *cobra.Command {
	var flagValues copyFlagValues

	copyCommand := &cobra.Command{
		Use:     copyUse,
		Short:   copyShortDescription,
		Example: copyUsageExample,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runCopy(command, arguments, flagValues, logger)
		},
	}

	copyFlags := copyCommand.Flags()
	copyFlags.StringVar(&flagValues.format, formatFlagName, config.DefaultOutputFormat, "output format (plaintext, markdown, xml)")
	copyFlags.IntVar(&flagValues.maxDepth, maxDepthFlagName, config.DefaultMaxDepth, "maximum tree depth")
	copyFlags.Int64Var(&flagValues.maxFileSize, maxFileSizeFlagName, config.DefaultMaxFileSize, "maximum file size in bytes")
	copyFlags.StringArrayVarP(&flagValues.excludePatterns, excludeFlagName, excludeFlagShorthand, nil, "exclude path pattern (repeatable)")
	copyFlags.BoolVar(&flagValues.noGitignore, noGitignoreFlagName, false, "do not read .gitignore")
	copyFlags.BoolVar(&flagValues.noTree, noTreeFlagName, false, "omit the project structure tree")
	copyFlags.BoolVar(&flagValues.compress, compressFlagName, false, "compress whitespace in file contents")
	copyFlags.BoolVar(&flagValues.removeComments, removeCommentsFlagName, false, "strip // and /* */ comments from file contents")
	copyFlags.StringVar(&flagValues.model, modelFlagName, config.DefaultModel, "model used for token counting")
	copyFlags.IntVar(&flagValues.maxTokens, maxTokensFlagName, 0, "token threshold for the size warning (0 uses the model limit)")
	copyFlags.BoolVar(&flagValues.noTokenWarning, noTokenWarningFlagName, false, "disable the token threshold warning")
	copyFlags.BoolVar(&flagValues.noTokens, noTokensFlagName, false, "disable token counting")
	copyFlags.StringVar(&flagValues.instruction, instructionFlagName, "", "trailing instruction appended to the snapshot")
	copyFlags.BoolVar(&flagValues.toStdout, stdoutFlagName, false, "print the snapshot instead of copying it")
	copyFlags.StringVar(&flagValues.configFilePath, configFileFlagName, "", "configuration file path")

	return copyCommand
}

// runCopy executes the copy command: resolve configuration, run the snapshot
// pipeline, hand the result to the clipboard or stdout, and report cost.
func runCopy(command *cobra.Command, arguments []string, flagValues copyFlagValues, logger *zap.Logger) error {
	notifier := notify.NewLoggerNotifier(logger)

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryMessage, workingDirectoryError)
	}

	runConfiguration, configurationError := resolveRunConfiguration(command, flagValues, workingDirectory)
	if configurationError != nil {
		return configurationError
	}
	if !types.IsSupportedFormat(runConfiguration.OutputFormat) {
		return fmt.Errorf(invalidFormatMessage, runConfiguration.OutputFormat)
	}

	selection, selectionError := buildSelection(arguments, workingDirectory)
	if selectionError != nil {
		notifier.Notify(notify.SeverityError, selectionError.Error())
		return selectionError
	}

	result, runError := snapshot.Run(command.Context(), selection, runConfiguration, logger)
	if runError != nil {
		notifier.Notify(notify.SeverityError, runError.Error())
		return runError
	}

	if flagValues.toStdout {
		fmt.Fprint(command.OutOrStdout(), result.Output)
	} else {
		if copyError := clipboard.NewService().Copy(result.Output); copyError != nil {
			notifier.Notify(notify.SeverityError, fmt.Sprintf("clipboard copy failed: %v", copyError))
			return copyError
		}
	}

	reportOutcome(notifier, runConfiguration, result)
	return nil
}

// reportOutcome notifies the user about the finished copy, including token
// and cost information when counting is enabled. Estimation failure degrades
// to a copy-succeeded message without cost data.
func reportOutcome(notifier notify.Notifier, runConfiguration types.RunConfiguration, result snapshot.Result) {
	if !runConfiguration.EnableTokenCounting {
		notifier.Notify(notify.SeverityInfo, fmt.Sprintf(copiedNoTokensMessageFormat, result.FileCount))
		return
	}

	estimate, estimateError := tokenizer.EstimateCost(runConfiguration.Model, result.Output)
	if estimateError != nil {
		notifier.Notify(notify.SeverityInfo, fmt.Sprintf(copiedNoCostMessageFormat, result.FileCount))
		return
	}

	notifier.Notify(notify.SeverityInfo, fmt.Sprintf(copiedMessageFormat,
		result.FileCount, estimate.Tokens, estimate.CostUSD, runConfiguration.Model))

	if runConfiguration.EnableTokenWarning {
		tokenThreshold := runConfiguration.MaxTokens
		if tokenThreshold <= 0 {
			tokenThreshold = tokenizer.ModelTokenLimit(runConfiguration.Model)
		}
		if tokenThreshold > 0 && estimate.Tokens > tokenThreshold {
			notifier.Notify(notify.SeverityWarning, fmt.Sprintf(tokenWarningMessageFormat,
				estimate.Tokens, tokenThreshold, runConfiguration.Model))
		}
	}
}

// resolveRunConfiguration layers built-in defaults, the configuration file,
// and explicitly set flags into one immutable RunConfiguration.
func resolveRunConfiguration(command *cobra.Command, flagValues copyFlagValues, workingDirectory string) (types.RunConfiguration, error) {
	runConfiguration := config.DefaultRunConfiguration()

	applicationConfiguration, loadError := config.Load(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flagValues.configFilePath,
	})
	if loadError != nil {
		return types.RunConfiguration{}, loadError
	}
	applicationConfiguration.ApplyTo(&runConfiguration)

	commandFlags := command.Flags()
	if commandFlags.Changed(formatFlagName) {
		runConfiguration.OutputFormat = flagValues.format
	}
	if commandFlags.Changed(maxDepthFlagName) {
		runConfiguration.MaxDepth = flagValues.maxDepth
	}
	if commandFlags.Changed(maxFileSizeFlagName) {
		runConfiguration.MaxFileSize = flagValues.maxFileSize
	}
	if len(flagValues.excludePatterns) > 0 {
		runConfiguration.ExcludePatterns = append(runConfiguration.ExcludePatterns, flagValues.excludePatterns...)
	}
	if commandFlags.Changed(noGitignoreFlagName) {
		runConfiguration.UseGitignore = !flagValues.noGitignore
	}
	if commandFlags.Changed(noTreeFlagName) {
		runConfiguration.IncludeTree = !flagValues.noTree
	}
	if commandFlags.Changed(compressFlagName) {
		runConfiguration.CompressCode = flagValues.compress
	}
	if commandFlags.Changed(removeCommentsFlagName) {
		runConfiguration.RemoveComments = flagValues.removeComments
	}
	if commandFlags.Changed(modelFlagName) {
		runConfiguration.Model = flagValues.model
	}
	if commandFlags.Changed(maxTokensFlagName) {
		runConfiguration.MaxTokens = flagValues.maxTokens
	}
	if commandFlags.Changed(noTokenWarningFlagName) {
		runConfiguration.EnableTokenWarning = !flagValues.noTokenWarning
	}
	if commandFlags.Changed(noTokensFlagName) {
		runConfiguration.EnableTokenCounting = !flagValues.noTokens
	}
	if commandFlags.Changed(instructionFlagName) {
		runConfiguration.TrailingInstruction = flagValues.instruction
	}

	return runConfiguration, nil
}

// buildSelection resolves the command arguments into an absolute-path
// selection rooted at the working directory.
func buildSelection(arguments []string, workingDirectory string) (types.Selection, error) {
	if len(arguments) == 0 {
		arguments = []string{defaultSelectionPath}
	}
	selection := types.Selection{WorkspaceRoot: workingDirectory}
	for _, argument := range arguments {
		absolutePath, absoluteError := filepath.Abs(argument)
		if absoluteError != nil {
			return types.Selection{}, fmt.Errorf("resolving path %s: %w", argument, absoluteError)
		}
		selection.Paths = append(selection.Paths, absolutePath)
	}
	return selection, nil
}

// createTreeCommand builds the tree command, which renders only the
// directory structure to stdout.
func createTreeCommand(logger *zap.Logger) *cobra.Command {
	var maxDepth int
	var excludePatterns []string
	var noGitignore bool

	treeCommand := &cobra.Command{
		Use:   treeUse,
		Short: treeShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultSelectionPath
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			rootDirectory, absoluteError := filepath.Abs(rootArgument)
			if absoluteError != nil {
				return fmt.Errorf("resolving path %s: %w", rootArgument, absoluteError)
			}

			gitignoreText := snapshot.LoadGitignoreText(rootDirectory, !noGitignore, logger)
			matcher := ignore.Build(excludePatterns, gitignoreText)
			treeRenderer := tree.NewRenderer(matcher, maxDepth, logger)
			fmt.Fprint(command.OutOrStdout(), treeRenderer.Render(rootDirectory))
			return nil
		},
	}

	treeFlags := treeCommand.Flags()
	treeFlags.IntVar(&maxDepth, maxDepthFlagName, config.DefaultMaxDepth, "maximum tree depth")
	treeFlags.StringArrayVarP(&excludePatterns, excludeFlagName, excludeFlagShorthand, nil, "exclude path pattern (repeatable)")
	treeFlags.BoolVar(&noGitignore, noGitignoreFlagName, false, "do not read .gitignore")

	return treeCommand
}

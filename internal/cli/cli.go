// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/promptpack/internal/assemble"
	"github.com/temirov/promptpack/internal/config"
	"github.com/temirov/promptpack/internal/services/clipboard"
	"github.com/temirov/promptpack/internal/tokenizer"
	"github.com/temirov/promptpack/internal/types"
	"github.com/temirov/promptpack/internal/utils"
)

const (
	explicitFileFlagName  = "file"
	explicitFileFlagShort = "f"
	exclusionFlagName     = "exclude"
	exclusionFlagShort    = "e"
	skipRelatedFlagName   = "skip-related"
	includeHiddenFlagName = "include-hidden"
	noTreeFlagName        = "no-tree"
	truncateFlagName      = "truncate-lines"
	suppressSelfFlagName  = "suppress-self"
	taskFlagName          = "task"
	outputFlagName        = "output"
	outputFlagShort       = "o"
	copyFlagName          = "copy"
	modelFlagName         = "model"
	configFlagName        = "config"
	versionFlagName       = "version"
	versionTemplate       = "promptpack version: %s\n"
	defaultPath           = "."
	rootUse               = "promptpack [paths...]"
	rootShortDescription  = "promptpack assembles repository context for language model prompts"
	rootLongDescription   = `promptpack walks one or more repository roots and assembles a single prompt
document: an instruction preamble, the directory structure, path-labeled file
contents, and a trailing task block. Ignore rule files discovered during the
walk split the tree into a primary root and related roots; related source
files are reduced to declaration digests.`

	explicitFileFlagDescription  = "assemble only the listed files, skipping the walk (repeatable)"
	exclusionFlagDescription     = "exclude a file path regardless of other settings (repeatable)"
	skipRelatedFlagDescription   = "drop related-tree files instead of summarizing them"
	includeHiddenFlagDescription = "include hidden and rule-excluded files"
	noTreeFlagDescription        = "omit the directory structure block"
	truncateFlagDescription      = "line limit applied to non-source files"
	suppressSelfFlagDescription  = "drop the receiver parameter from summarized method signatures"
	taskFlagDescription          = "task text inserted into the trailing task block"
	outputFlagDescription        = "write the document to a file instead of stdout"
	copyFlagDescription          = "copy the document to the system clipboard"
	modelFlagDescription         = "tokenizer model used for the token report"
	configFlagDescription        = "path to the configuration file"
	versionFlagDescription       = "display application version"

	totalTokensMessage      = "Total tokens"
	tokenCountFieldName     = "tokens"
	tokenizerFieldName      = "tokenizer"
	documentWrittenMessage  = "Document written"
	outputPathFieldName     = "path"
	clipboardCopiedMessage  = "Document copied to clipboard"
	warningTokenCountFormat = "Warning: failed to count tokens: %v\n"

	errorExplicitFilesMultipleRoots = "explicit files require exactly one root path"
	errorLoadConfigurationFormat    = "loading configuration: %w"
	errorWriteOutputFormat          = "writing output to %s: %w"
	errorClipboardCopyFormat        = "copying document to clipboard: %w"
)

// assembleOptions stores the flag and configuration values for one invocation.
type assembleOptions struct {
	explicitFiles         []string
	exclusionPatterns     []string
	skipRelated           bool
	includeHidden         bool
	omitTree              bool
	truncateLines         int
	suppressSelfParameter bool
	taskText              string
	outputPath            string
	copyToClipboard       bool
	tokenizerModel        string
	configFilePath        string
}

// Execute runs the promptpack application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var options assembleOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			resolvedOptions, resolveError := resolveOptions(command, options)
			if resolveError != nil {
				return resolveError
			}
			return runAssembly(logger, arguments, resolvedOptions)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.explicitFiles, explicitFileFlagName, explicitFileFlagShort, nil, explicitFileFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagShort, nil, exclusionFlagDescription)
	rootCommand.Flags().BoolVar(&options.skipRelated, skipRelatedFlagName, false, skipRelatedFlagDescription)
	rootCommand.Flags().BoolVar(&options.includeHidden, includeHiddenFlagName, false, includeHiddenFlagDescription)
	rootCommand.Flags().BoolVar(&options.omitTree, noTreeFlagName, false, noTreeFlagDescription)
	rootCommand.Flags().IntVar(&options.truncateLines, truncateFlagName, assemble.DefaultTruncateLines, truncateFlagDescription)
	rootCommand.Flags().BoolVar(&options.suppressSelfParameter, suppressSelfFlagName, false, suppressSelfFlagDescription)
	rootCommand.Flags().StringVar(&options.taskText, taskFlagName, "", taskFlagDescription)
	rootCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShort, "", outputFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, "", modelFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// resolveOptions overlays configuration file defaults under flag values.
// A flag the user set on the command line always wins over configuration.
func resolveOptions(command *cobra.Command, options assembleOptions) (assembleOptions, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configFilePath,
	})
	if loadError != nil {
		return assembleOptions{}, fmt.Errorf(errorLoadConfigurationFormat, loadError)
	}
	assembleConfiguration := applicationConfiguration.Assemble

	if !command.Flags().Changed(skipRelatedFlagName) && assembleConfiguration.SkipRelated != nil {
		options.skipRelated = *assembleConfiguration.SkipRelated
	}
	if !command.Flags().Changed(includeHiddenFlagName) && assembleConfiguration.IncludeHidden != nil {
		options.includeHidden = *assembleConfiguration.IncludeHidden
	}
	if !command.Flags().Changed(noTreeFlagName) && assembleConfiguration.OmitTree != nil {
		options.omitTree = *assembleConfiguration.OmitTree
	}
	if !command.Flags().Changed(truncateFlagName) && assembleConfiguration.TruncateLines != nil {
		options.truncateLines = *assembleConfiguration.TruncateLines
	}
	if !command.Flags().Changed(suppressSelfFlagName) && assembleConfiguration.SuppressSelfParameter != nil {
		options.suppressSelfParameter = *assembleConfiguration.SuppressSelfParameter
	}
	if !command.Flags().Changed(copyFlagName) && assembleConfiguration.Clipboard != nil {
		options.copyToClipboard = *assembleConfiguration.Clipboard
	}
	if !command.Flags().Changed(modelFlagName) && assembleConfiguration.Tokens.Model != "" {
		options.tokenizerModel = assembleConfiguration.Tokens.Model
	}
	options.exclusionPatterns = utils.DeduplicatePatterns(
		append(append([]string{}, assembleConfiguration.Exclude...), options.exclusionPatterns...),
	)
	return options, nil
}

// runAssembly assembles every root concurrently, concatenates the documents in
// argument order, and delivers the combined text.
func runAssembly(logger *zap.Logger, rootPaths []string, options assembleOptions) error {
	if len(options.explicitFiles) > 0 && len(rootPaths) != 1 {
		return fmt.Errorf(errorExplicitFilesMultipleRoots)
	}

	assemblyPolicy := assemble.Policy{
		ExplicitFiles:         options.explicitFiles,
		DenyList:              resolveDenyList(rootPaths, options.exclusionPatterns),
		SkipRelated:           options.skipRelated,
		IncludeHidden:         options.includeHidden,
		OmitTree:              options.omitTree,
		TruncateLines:         options.truncateLines,
		TaskText:              options.taskText,
		SuppressSelfParameter: options.suppressSelfParameter,
	}

	documents := make([]types.Document, len(rootPaths))
	var assemblyGroup errgroup.Group
	for rootIndex, rootPath := range rootPaths {
		rootIndex, rootPath := rootIndex, rootPath
		assemblyGroup.Go(func() error {
			document, assembleError := assemble.Assemble(rootPath, assemblyPolicy)
			if assembleError != nil {
				return assembleError
			}
			documents[rootIndex] = document
			return nil
		})
	}
	if groupError := assemblyGroup.Wait(); groupError != nil {
		return groupError
	}

	var combinedBuilder strings.Builder
	combinedTokens := 0
	for documentIndex, document := range documents {
		if documentIndex > 0 {
			combinedBuilder.WriteString("\n")
		}
		combinedBuilder.WriteString(document.Text)
		combinedTokens += document.Tokens
	}
	combinedText := combinedBuilder.String()

	if deliveryError := deliverDocument(logger, combinedText, options); deliveryError != nil {
		return deliveryError
	}
	reportTokens(logger, combinedText, combinedTokens, options.tokenizerModel)
	return nil
}

// resolveDenyList turns exclusion patterns into absolute deny-list paths
// anchored at each root.
func resolveDenyList(rootPaths []string, exclusionPatterns []string) []string {
	var denyList []string
	for _, pattern := range exclusionPatterns {
		if filepath.IsAbs(pattern) {
			denyList = append(denyList, filepath.Clean(pattern))
			continue
		}
		for _, rootPath := range rootPaths {
			denyList = append(denyList, filepath.Join(filepath.Clean(rootPath), pattern))
		}
	}
	return utils.DeduplicatePatterns(denyList)
}

// deliverDocument writes the document to the configured destination and
// optionally copies it to the clipboard.
func deliverDocument(logger *zap.Logger, documentText string, options assembleOptions) error {
	if options.outputPath != "" {
		if writeError := os.WriteFile(options.outputPath, []byte(documentText), 0o644); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, options.outputPath, writeError)
		}
		logger.Info(documentWrittenMessage, zap.String(outputPathFieldName, options.outputPath))
	} else {
		fmt.Println(documentText)
	}
	if options.copyToClipboard {
		clipboardService := clipboard.NewService()
		if copyError := clipboardService.Copy(documentText); copyError != nil {
			return fmt.Errorf(errorClipboardCopyFormat, copyError)
		}
		logger.Info(clipboardCopiedMessage)
	}
	return nil
}

// reportTokens logs the token total. When a tokenizer model is configured the
// count is model-accurate; otherwise the walk-time estimate is reported.
func reportTokens(logger *zap.Logger, documentText string, estimatedTokens int, tokenizerModel string) {
	if tokenizerModel == "" {
		logger.Info(totalTokensMessage, zap.Int(tokenCountFieldName, estimatedTokens))
		return
	}
	counter, counterName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: tokenizerModel})
	if counterError != nil {
		fmt.Fprintf(os.Stderr, warningTokenCountFormat, counterError)
		logger.Info(totalTokensMessage, zap.Int(tokenCountFieldName, estimatedTokens))
		return
	}
	exactTokens, countError := counter.CountString(documentText)
	if countError != nil {
		fmt.Fprintf(os.Stderr, warningTokenCountFormat, countError)
		logger.Info(totalTokensMessage, zap.Int(tokenCountFieldName, estimatedTokens))
		return
	}
	logger.Info(totalTokensMessage,
		zap.Int(tokenCountFieldName, exactTokens),
		zap.String(tokenizerFieldName, counterName),
	)
}

// Package assemble orchestrates the context-assembly walk: it classifies
// every surviving file as primary or related, applies the per-file content
// policy, and concatenates path-labeled blocks into a single document with a
// running token estimate.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/promptpack/internal/ignore"
	"github.com/temirov/promptpack/internal/summarize"
	"github.com/temirov/promptpack/internal/tokenizer"
	"github.com/temirov/promptpack/internal/tree"
	"github.com/temirov/promptpack/internal/types"
	"github.com/temirov/promptpack/internal/utils"
)

const (
	// DefaultTruncateLines is the line limit applied to non-source files.
	DefaultTruncateLines = 500

	// markdownExtension names the non-code extension kept in related trees.
	markdownExtension = ".md"

	fileBlockHeaderFormat   = "File: %s\n"
	readErrorFormat         = "Error reading %s: %v"
	binaryPlaceholderFormat = "(binary content omitted: %s)"

	warningAccessPathFormat = "Warning: error accessing path %s: %v\n"

	errorRootMissingFormat   = "root directory %s: %w"
	errorExplicitFileFormat  = "explicit file %s: %w"
	errorEscapesRootFormat   = "explicit file %s escapes the root %s"
	errorContentWalkFormat   = "walking %s: %w"
	errorTreeRenderingFormat = "rendering tree for %s: %w"
)

// Policy configures one assembly run. The zero value walks the whole root
// with default limits and markers.
type Policy struct {
	// ExplicitFiles bypasses the walk: each entry resolves relative to the
	// root, must stay inside it, and is read in full.
	ExplicitFiles []string
	// DenyList names files excluded regardless of overrides.
	DenyList []string
	// SkipRelated drops related-tree files entirely instead of summarizing.
	SkipRelated bool
	// IncludeHidden includes files that hidden-prefix or rule matching would
	// otherwise exclude.
	IncludeHidden bool
	// OmitTree leaves the repository structure block out of the document.
	OmitTree bool
	// TruncateLines caps non-source file content; zero means the default.
	TruncateLines int
	// Preamble replaces DefaultPreamble when non-empty. It should carry its
	// own opening input tag.
	Preamble string
	// TaskText is inserted into the trailing task block with any close-tag
	// occurrence stripped.
	TaskText string
	// SuppressSelfParameter reproduces the legacy signature behavior.
	SuppressSelfParameter bool
}

// Assemble scans rootPath under policy and returns the assembled document.
// Configuration errors (missing root, missing or escaping explicit files)
// abort before any output; read errors degrade to inline placeholders.
func Assemble(rootPath string, policy Policy) (types.Document, error) {
	cleanedRootPath := filepath.Clean(rootPath)
	if _, statError := os.Stat(cleanedRootPath); statError != nil {
		return types.Document{}, fmt.Errorf(errorRootMissingFormat, rootPath, statError)
	}
	if policy.TruncateLines <= 0 {
		policy.TruncateLines = DefaultTruncateLines
	}
	if policy.Preamble == "" {
		policy.Preamble = DefaultPreamble
	}

	registry := summarize.NewRegistry(summarize.Options{SuppressSelfParameter: policy.SuppressSelfParameter})

	if len(policy.ExplicitFiles) > 0 {
		fileRecords, readError := readExplicitFiles(cleanedRootPath, policy.ExplicitFiles)
		if readError != nil {
			return types.Document{}, readError
		}
		return renderDocument(policy, "", fileRecords), nil
	}

	matcher := ignore.NewMatcher(ignore.Options{
		IncludeHidden: policy.IncludeHidden,
		DenyList:      policy.DenyList,
	})
	ruleSets, discoveryError := ignore.DiscoverRuleSets(cleanedRootPath)
	if discoveryError != nil {
		return types.Document{}, discoveryError
	}
	for _, ruleSet := range ruleSets {
		matcher.AddRuleSet(ruleSet)
	}

	renderedTree := ""
	if !policy.OmitTree {
		treeBuilder := &tree.Builder{Matcher: matcher}
		rootNode, buildError := treeBuilder.Build(cleanedRootPath)
		if buildError != nil {
			return types.Document{}, fmt.Errorf(errorTreeRenderingFormat, rootPath, buildError)
		}
		renderedTree = tree.Render(rootNode)
	}

	fileRecords, walkError := collectFileRecords(cleanedRootPath, policy, matcher, registry)
	if walkError != nil {
		return types.Document{}, walkError
	}
	return renderDocument(policy, renderedTree, fileRecords), nil
}

// collectFileRecords walks the root and applies the per-file content policy
// to every surviving file, in walk order.
func collectFileRecords(cleanedRootPath string, policy Policy, matcher *ignore.Matcher, registry *summarize.Registry) ([]types.FileRecord, error) {
	var fileRecords []types.FileRecord

	walkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			fmt.Fprintf(os.Stderr, warningAccessPathFormat, walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if walkedPath != cleanedRootPath && ignore.ShouldPrune(directoryEntry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.IsExcluded(walkedPath) {
			return nil
		}

		classification := types.ClassificationPrimary
		if matcher.IsRelated(walkedPath) {
			classification = types.ClassificationRelated
		}
		isSource := registry.IsSourcePath(walkedPath)
		if classification == types.ClassificationRelated {
			if policy.SkipRelated {
				return nil
			}
			if !isSource && normalizedExtension(walkedPath) != markdownExtension {
				return nil
			}
		}

		fileRecords = append(fileRecords, types.FileRecord{
			Path:           walkedPath,
			Content:        fileContent(walkedPath, classification, isSource, policy, registry),
			Classification: classification,
		})
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorContentWalkFormat, cleanedRootPath, walkError)
	}
	return fileRecords, nil
}

// fileContent applies the content policy: related source files summarize to a
// declaration digest, non-source files truncate, primary source files pass
// through unmodified. Read failures degrade to an inline placeholder. Binary
// detection sniffs the leading bytes first so large binaries are never read in
// full; content that turns out binary past the sniff window is still caught
// after the read.
func fileContent(filePath string, classification string, isSource bool, policy Policy, registry *summarize.Registry) string {
	if utils.IsFileBinary(filePath) {
		return fmt.Sprintf(binaryPlaceholderFormat, utils.DetectMimeType(filePath))
	}
	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return fmt.Sprintf(readErrorFormat, filePath, readError)
	}
	if utils.IsBinary(fileBytes) {
		return fmt.Sprintf(binaryPlaceholderFormat, utils.DetectMimeType(filePath))
	}
	fileText := string(fileBytes)
	if classification == types.ClassificationRelated && isSource {
		if summarizer, found := registry.ForPath(filePath); found {
			return summarizer.Summarize(fileText)
		}
	}
	if !isSource {
		return truncateLines(fileText, policy.TruncateLines)
	}
	return fileText
}

// readExplicitFiles reads each listed file in full, bypassing the walk. A
// missing or root-escaping entry is a configuration error; a failing read of
// an existing file degrades to an inline placeholder.
func readExplicitFiles(cleanedRootPath string, explicitFiles []string) ([]types.FileRecord, error) {
	var fileRecords []types.FileRecord
	for _, explicitFile := range explicitFiles {
		resolvedPath := filepath.Join(cleanedRootPath, explicitFile)
		if !utils.IsWithinRoot(cleanedRootPath, resolvedPath) {
			return nil, fmt.Errorf(errorEscapesRootFormat, explicitFile, cleanedRootPath)
		}
		if _, statError := os.Stat(resolvedPath); statError != nil {
			return nil, fmt.Errorf(errorExplicitFileFormat, explicitFile, statError)
		}
		content := ""
		fileBytes, readError := os.ReadFile(resolvedPath)
		if readError != nil {
			content = fmt.Sprintf(readErrorFormat, resolvedPath, readError)
		} else {
			content = string(fileBytes)
		}
		fileRecords = append(fileRecords, types.FileRecord{
			Path:           resolvedPath,
			Content:        content,
			Classification: types.ClassificationPrimary,
		})
	}
	return fileRecords, nil
}

// renderDocument concatenates the preamble, the optional structure block, the
// file blocks in walk order, and the task block, summing the per-file token
// estimate as it goes.
func renderDocument(policy Policy, renderedTree string, fileRecords []types.FileRecord) types.Document {
	var documentBuilder strings.Builder
	tokenCount := 0

	documentBuilder.WriteString(policy.Preamble)
	documentBuilder.WriteString("\n\n")

	if renderedTree != "" {
		documentBuilder.WriteString(StructureOpenTag + "\n")
		documentBuilder.WriteString(renderedTree)
		documentBuilder.WriteString(StructureCloseTag + "\n\n")
	}

	documentBuilder.WriteString(FilesOpenTag + "\n\n")
	for _, fileRecord := range fileRecords {
		fmt.Fprintf(&documentBuilder, fileBlockHeaderFormat, fileRecord.Path)
		documentBuilder.WriteString(fileRecord.Content)
		if !strings.HasSuffix(fileRecord.Content, "\n") {
			documentBuilder.WriteString("\n")
		}
		documentBuilder.WriteString("\n")
		tokenCount += tokenizer.EstimateTokens(fileRecord.Content)
	}
	documentBuilder.WriteString(FilesCloseTag + "\n\n")

	documentBuilder.WriteString(InputCloseTag + "\n")
	documentBuilder.WriteString(TaskOpenTag + "\n")
	sanitizedTask := strings.ReplaceAll(policy.TaskText, TaskCloseTag, "")
	if sanitizedTask != "" {
		documentBuilder.WriteString(sanitizedTask)
		if !strings.HasSuffix(sanitizedTask, "\n") {
			documentBuilder.WriteString("\n")
		}
	}
	documentBuilder.WriteString(TaskCloseTag + "\n")

	return types.Document{Text: documentBuilder.String(), Tokens: tokenCount}
}

// truncateLines caps text at the first limit lines; shorter content is
// returned unchanged.
func truncateLines(text string, limit int) string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= limit {
		return text
	}
	return strings.Join(lines[:limit], "")
}

func normalizedExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

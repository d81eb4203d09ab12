// Package summarize produces declaration digests: signatures, base lists,
// documentation strings, and field declarations, with bodies elided. Digests
// stand in for full source when a file belongs to a related repository tree.
package summarize

import (
	"path/filepath"
	"strings"
)

const (
	// parseErrorMarkerFormat is emitted in place of a digest when a source
	// file cannot be parsed. The failure never propagates past this package.
	parseErrorMarkerFormat = "# SyntaxError while parsing: %v"

	docstringMarker   = `"""`
	selfParameterName = "self"
	indentUnit        = "    "
	parameterJoiner   = ", "
)

// Options configure signature reconstruction.
type Options struct {
	// SuppressSelfParameter drops the implicit first "self" parameter from
	// method signatures, reproducing the tool's earliest behavior. The
	// default retains it.
	SuppressSelfParameter bool
}

// Summarizer produces a declaration digest for one source language.
type Summarizer interface {
	// Extensions lists the file extensions the summarizer recognizes,
	// lowercase and dot-prefixed.
	Extensions() []string
	// Summarize returns the declaration digest for sourceText. Parse
	// failures degrade to an inline marker; Summarize never fails.
	Summarize(sourceText string) string
}

// Registry maps file extensions to language summarizers. Extensions without a
// summarizer fall back to the caller's raw or truncated policy.
type Registry struct {
	summarizersByExtension map[string]Summarizer
}

// NewRegistry constructs a registry with every supported language registered.
func NewRegistry(options Options) *Registry {
	registry := &Registry{summarizersByExtension: make(map[string]Summarizer)}
	registry.register(newPythonSummarizer(options))
	registry.register(newGoSummarizer(options))
	return registry
}

func (registry *Registry) register(summarizer Summarizer) {
	if summarizer == nil {
		return
	}
	for _, extension := range summarizer.Extensions() {
		registry.summarizersByExtension[extension] = summarizer
	}
}

// ForPath returns the summarizer responsible for the file at path, if any.
func (registry *Registry) ForPath(path string) (Summarizer, bool) {
	summarizer, found := registry.summarizersByExtension[normalizedExtension(path)]
	return summarizer, found
}

// IsSourcePath reports whether the file at path has a recognized source
// extension.
func (registry *Registry) IsSourcePath(path string) bool {
	_, found := registry.summarizersByExtension[normalizedExtension(path)]
	return found
}

func normalizedExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func indentString(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

func wrapDocstring(documentationText string) string {
	return docstringMarker + documentationText + docstringMarker
}

func formatClassSignature(className string, baseExpressions []string) string {
	if len(baseExpressions) == 0 {
		return "class " + className + ":"
	}
	return "class " + className + "(" + strings.Join(baseExpressions, parameterJoiner) + "):"
}

func formatFunctionSignature(functionName string, parameterNames []string, suppressSelf bool) string {
	if suppressSelf && len(parameterNames) > 0 && parameterNames[0] == selfParameterName {
		parameterNames = parameterNames[1:]
	}
	return "def " + functionName + "(" + strings.Join(parameterNames, parameterJoiner) + "):"
}

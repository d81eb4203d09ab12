//go:build !cgo

package summarize

// newPythonSummarizer returns the indentation-heuristic summarizer when cgo
// is unavailable and the tree-sitter bindings cannot be built.
func newPythonSummarizer(options Options) Summarizer {
	return newHeuristicPythonSummarizer(options)
}

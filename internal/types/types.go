// Package types defines every cross-package data structure used by the promptpack CLI.
package types

const (
	// ClassificationPrimary marks files that belong to the primary repository tree.
	ClassificationPrimary = "primary"
	// ClassificationRelated marks files that belong to a nested related repository tree.
	ClassificationRelated = "related"
)

// FileRecord is one file collected during the content walk. Content holds the
// raw text, a declaration digest, or an inline error placeholder depending on
// the policy applied to the file.
type FileRecord struct {
	Path           string
	Content        string
	Classification string
}

// TreeNode represents a node of the repository structure tree. Children keep
// directory-listing order; a node with IsDirectory false is a leaf file.
type TreeNode struct {
	Name        string
	IsDirectory bool
	Children    []*TreeNode
}

// Document is the assembled output of a run: the full text artifact and the
// estimated token count of the included file contents.
type Document struct {
	Text   string
	Tokens int
}

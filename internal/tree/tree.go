// Package tree builds and renders the repository structure block of the
// assembled document.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/promptpack/internal/ignore"
	"github.com/temirov/promptpack/internal/types"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be processed.
	warningSkipSubdirFormat = "Warning: Skipping subdirectory %s due to error: %v\n"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"

	branchConnector = "├── "
	branchPadding   = "│   "
	directorySuffix = "/"
)

// Builder constructs directory trees using the provided matcher.
type Builder struct {
	Matcher *ignore.Matcher
}

// Build walks rootPath depth-first and returns a tree whose single top-level
// node carries the root directory's base name. Pruned and excluded entries are
// skipped; child ordering follows directory-listing order.
func (builder *Builder) Build(rootPath string) (*types.TreeNode, error) {
	cleanedRootPath := filepath.Clean(rootPath)
	rootNode := &types.TreeNode{
		Name:        filepath.Base(cleanedRootPath),
		IsDirectory: true,
	}
	children, buildError := builder.buildNodes(cleanedRootPath)
	if buildError != nil {
		return nil, buildError
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildNodes recursively builds child nodes for the directory tree.
func (builder *Builder) buildNodes(currentDirectoryPath string) ([]*types.TreeNode, error) {
	var nodes []*types.TreeNode

	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		childPath := filepath.Join(currentDirectoryPath, entryName)
		if directoryEntry.IsDir() && ignore.ShouldPrune(entryName) {
			continue
		}
		if builder.Matcher != nil && builder.Matcher.IsExcluded(childPath) {
			continue
		}

		node := &types.TreeNode{Name: entryName}
		if directoryEntry.IsDir() {
			node.IsDirectory = true
			childNodes, buildError := builder.buildNodes(childPath)
			if buildError != nil {
				fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, childPath, buildError)
			} else {
				node.Children = childNodes
			}
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// Render produces the textual tree: one line per node, indented by depth with
// a consistent connector per level, directories suffixed with a separator.
func Render(rootNode *types.TreeNode) string {
	var builder strings.Builder
	renderNode(&builder, rootNode, 0)
	return builder.String()
}

func renderNode(builder *strings.Builder, node *types.TreeNode, depth int) {
	if node == nil {
		return
	}
	builder.WriteString(strings.Repeat(branchPadding, depth))
	builder.WriteString(branchConnector)
	builder.WriteString(node.Name)
	if node.IsDirectory {
		builder.WriteString(directorySuffix)
	}
	builder.WriteString("\n")
	for _, childNode := range node.Children {
		renderNode(builder, childNode, depth+1)
	}
}

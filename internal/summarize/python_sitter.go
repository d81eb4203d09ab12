//go:build cgo

package summarize

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	python "github.com/smacker/go-tree-sitter/python"
)

const (
	pythonFunctionNodeType   = "function_definition"
	pythonClassNodeType      = "class_definition"
	pythonDecoratedNodeType  = "decorated_definition"
	pythonExpressionNodeType = "expression_statement"
	pythonAssignmentNodeType = "assignment"
	pythonStringNodeType     = "string"
	pythonIdentifierNodeType = "identifier"

	pythonNameField         = "name"
	pythonBodyField         = "body"
	pythonParametersField   = "parameters"
	pythonSuperclassesField = "superclasses"
	pythonDefinitionField   = "definition"
	pythonLeftField         = "left"
	pythonRightField        = "right"
	pythonTypeField         = "type"

	pythonTypedParameterNodeType        = "typed_parameter"
	pythonDefaultParameterNodeType      = "default_parameter"
	pythonTypedDefaultParameterNodeType = "typed_default_parameter"
	pythonListSplatNodeType             = "list_splat_pattern"
	pythonDictionarySplatNodeType       = "dictionary_splat_pattern"

	pythonInvalidSyntaxReason = "invalid syntax"
)

// pythonSummarizer parses Python source with tree-sitter and walks the
// declaration tree. Used on cgo builds; the indentation heuristic serves as
// the fallback elsewhere.
type pythonSummarizer struct {
	options Options
	parser  *sitter.Parser
}

func newPythonSummarizer(options Options) Summarizer {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &pythonSummarizer{options: options, parser: parser}
}

func (summarizer *pythonSummarizer) Extensions() []string {
	return []string{pythonFileExtension}
}

func (summarizer *pythonSummarizer) Summarize(sourceText string) string {
	content := []byte(sourceText)
	parsedTree := summarizer.parser.Parse(nil, content)
	if parsedTree == nil {
		return fmt.Sprintf(parseErrorMarkerFormat, pythonInvalidSyntaxReason)
	}
	rootNode := parsedTree.RootNode()
	if rootNode == nil || rootNode.HasError() {
		return fmt.Sprintf(parseErrorMarkerFormat, pythonInvalidSyntaxReason)
	}
	var digestLines []string
	summarizer.walkBody(rootNode, content, 0, false, &digestLines)
	return strings.Join(digestLines, "\n")
}

// walkBody visits the statements of one block, emitting declaration lines at
// the given depth and recursing into nested bodies at depth+1.
func (summarizer *pythonSummarizer) walkBody(blockNode *sitter.Node, content []byte, depth int, insideClass bool, digestLines *[]string) {
	for childIndex := 0; childIndex < int(blockNode.NamedChildCount()); childIndex++ {
		summarizer.emitDeclaration(blockNode.NamedChild(childIndex), content, depth, insideClass, digestLines)
	}
}

func (summarizer *pythonSummarizer) emitDeclaration(declarationNode *sitter.Node, content []byte, depth int, insideClass bool, digestLines *[]string) {
	if declarationNode == nil {
		return
	}
	switch declarationNode.Type() {
	case pythonDecoratedNodeType:
		summarizer.emitDeclaration(declarationNode.ChildByFieldName(pythonDefinitionField), content, depth, insideClass, digestLines)
	case pythonFunctionNodeType:
		signature := formatFunctionSignature(
			nodeText(declarationNode.ChildByFieldName(pythonNameField), content),
			collectParameterNames(declarationNode.ChildByFieldName(pythonParametersField), content),
			summarizer.options.SuppressSelfParameter,
		)
		*digestLines = append(*digestLines, indentString(depth)+signature)
		bodyNode := declarationNode.ChildByFieldName(pythonBodyField)
		summarizer.emitBodyDocstring(bodyNode, content, depth+1, digestLines)
		if bodyNode != nil {
			summarizer.walkBody(bodyNode, content, depth+1, false, digestLines)
		}
	case pythonClassNodeType:
		signature := formatClassSignature(
			nodeText(declarationNode.ChildByFieldName(pythonNameField), content),
			collectBaseExpressions(declarationNode.ChildByFieldName(pythonSuperclassesField), content),
		)
		*digestLines = append(*digestLines, indentString(depth)+signature)
		bodyNode := declarationNode.ChildByFieldName(pythonBodyField)
		summarizer.emitBodyDocstring(bodyNode, content, depth+1, digestLines)
		if bodyNode != nil {
			summarizer.walkBody(bodyNode, content, depth+1, true, digestLines)
		}
	case pythonExpressionNodeType:
		if !insideClass {
			return
		}
		assignmentNode := declarationNode.NamedChild(0)
		if assignmentNode == nil || assignmentNode.Type() != pythonAssignmentNodeType {
			return
		}
		if fieldLine, isField := formatAssignmentField(assignmentNode, content); isField {
			*digestLines = append(*digestLines, indentString(depth)+fieldLine)
		}
	}
}

// emitBodyDocstring emits the block's docstring, when the first statement of
// the body is a bare string expression.
func (summarizer *pythonSummarizer) emitBodyDocstring(bodyNode *sitter.Node, content []byte, depth int, digestLines *[]string) {
	if bodyNode == nil || bodyNode.NamedChildCount() == 0 {
		return
	}
	firstStatement := bodyNode.NamedChild(0)
	if firstStatement == nil || firstStatement.Type() != pythonExpressionNodeType {
		return
	}
	stringNode := firstStatement.NamedChild(0)
	if stringNode == nil || stringNode.Type() != pythonStringNodeType {
		return
	}
	documentationText := stripStringQuotes(nodeText(stringNode, content))
	*digestLines = append(*digestLines, indentString(depth)+wrapDocstring(documentationText))
}

func collectParameterNames(parametersNode *sitter.Node, content []byte) []string {
	if parametersNode == nil {
		return nil
	}
	var parameterNames []string
	for parameterIndex := 0; parameterIndex < int(parametersNode.NamedChildCount()); parameterIndex++ {
		parameterNode := parametersNode.NamedChild(parameterIndex)
		parameterName := ""
		switch parameterNode.Type() {
		case pythonIdentifierNodeType:
			parameterName = nodeText(parameterNode, content)
		case pythonTypedParameterNodeType, pythonListSplatNodeType, pythonDictionarySplatNodeType:
			parameterName = nodeText(parameterNode.NamedChild(0), content)
		case pythonDefaultParameterNodeType, pythonTypedDefaultParameterNodeType:
			parameterName = nodeText(parameterNode.ChildByFieldName(pythonNameField), content)
		}
		if parameterName != "" {
			parameterNames = append(parameterNames, parameterName)
		}
	}
	return parameterNames
}

func collectBaseExpressions(superclassesNode *sitter.Node, content []byte) []string {
	if superclassesNode == nil {
		return nil
	}
	var baseExpressions []string
	for baseIndex := 0; baseIndex < int(superclassesNode.NamedChildCount()); baseIndex++ {
		if baseExpression := nodeText(superclassesNode.NamedChild(baseIndex), content); baseExpression != "" {
			baseExpressions = append(baseExpressions, baseExpression)
		}
	}
	return baseExpressions
}

// formatAssignmentField reconstructs a class-level field declaration from an
// assignment node: "target = ..." when untyped, "target: type" or
// "target: type = ..." when annotated.
func formatAssignmentField(assignmentNode *sitter.Node, content []byte) (string, bool) {
	leftNode := assignmentNode.ChildByFieldName(pythonLeftField)
	if leftNode == nil || leftNode.Type() != pythonIdentifierNodeType {
		return "", false
	}
	target := nodeText(leftNode, content)
	typeNode := assignmentNode.ChildByFieldName(pythonTypeField)
	rightNode := assignmentNode.ChildByFieldName(pythonRightField)
	if typeNode != nil {
		fieldLine := target + ": " + nodeText(typeNode, content)
		if rightNode != nil {
			fieldLine += " = ..."
		}
		return fieldLine, true
	}
	if rightNode != nil {
		return target + " = ...", true
	}
	return "", false
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(string(content[node.StartByte():node.EndByte()]))
}

// stripStringQuotes removes string prefixes and the surrounding quote tokens
// from a Python string literal's source text.
func stripStringQuotes(literal string) string {
	trimmed := strings.TrimLeft(literal, "rRbBuUfF")
	for _, token := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(trimmed, token) && strings.HasSuffix(trimmed, token) && len(trimmed) >= 2*len(token) {
			return trimmed[len(token) : len(trimmed)-len(token)]
		}
	}
	return trimmed
}

package summarize

import (
	"regexp"
	"strings"
)

const (
	pythonFileExtension  = ".py"
	pythonCommentPrefix  = "#"
	pythonClassKeyword   = "class "
	pythonDefKeyword     = "def "
	pythonAsyncKeyword   = "async "
	pythonTabIndentWidth = 4
)

var (
	plainFieldExpression     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*[^=].*$`)
	annotatedFieldExpression = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:\s*([^=]+?)\s*(=\s*.+)?$`)
)

// heuristicPythonSummarizer derives a declaration digest from indentation and
// line shape alone, without a parser. It backs non-cgo builds and keeps the
// digest format identical to the tree-sitter variant for well-formed input.
type heuristicPythonSummarizer struct {
	options Options
}

func newHeuristicPythonSummarizer(options Options) Summarizer {
	return &heuristicPythonSummarizer{options: options}
}

func (summarizer *heuristicPythonSummarizer) Extensions() []string {
	return []string{pythonFileExtension}
}

func (summarizer *heuristicPythonSummarizer) Summarize(sourceText string) string {
	normalized := strings.ReplaceAll(sourceText, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	type openBlock struct {
		indentation int
		isClass     bool
	}
	var digestLines []string
	var blockStack []openBlock

	for lineIndex := 0; lineIndex < len(lines); lineIndex++ {
		currentLine := lines[lineIndex]
		trimmedLine := strings.TrimSpace(currentLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, pythonCommentPrefix) {
			continue
		}
		indentation := countIndentation(currentLine)
		for len(blockStack) > 0 && indentation <= blockStack[len(blockStack)-1].indentation {
			blockStack = blockStack[:len(blockStack)-1]
		}
		nestingDepth := len(blockStack)

		if className, baseExpressions, isClass := matchClassDeclaration(trimmedLine); isClass {
			digestLines = append(digestLines, indentString(nestingDepth)+formatClassSignature(className, baseExpressions))
			if documentationText, consumedIndex, found := extractBlockDocstring(lines, lineIndex+1, indentation); found {
				digestLines = append(digestLines, indentString(nestingDepth+1)+wrapDocstring(documentationText))
				lineIndex = consumedIndex - 1
			}
			blockStack = append(blockStack, openBlock{indentation: indentation, isClass: true})
			continue
		}

		if functionName, parameterNames, isFunction := matchFunctionDeclaration(trimmedLine); isFunction {
			signature := formatFunctionSignature(functionName, parameterNames, summarizer.options.SuppressSelfParameter)
			digestLines = append(digestLines, indentString(nestingDepth)+signature)
			if documentationText, consumedIndex, found := extractBlockDocstring(lines, lineIndex+1, indentation); found {
				digestLines = append(digestLines, indentString(nestingDepth+1)+wrapDocstring(documentationText))
				lineIndex = consumedIndex - 1
			}
			blockStack = append(blockStack, openBlock{indentation: indentation, isClass: false})
			continue
		}

		if len(blockStack) > 0 && blockStack[len(blockStack)-1].isClass {
			if fieldLine, isField := matchFieldDeclaration(trimmedLine); isField {
				digestLines = append(digestLines, indentString(nestingDepth)+fieldLine)
			}
		}
	}

	return strings.Join(digestLines, "\n")
}

func matchClassDeclaration(trimmedLine string) (string, []string, bool) {
	if !strings.HasPrefix(trimmedLine, pythonClassKeyword) {
		return "", nil, false
	}
	declaration := strings.TrimPrefix(trimmedLine, pythonClassKeyword)
	declaration = strings.SplitN(declaration, ":", 2)[0]
	name := declaration
	var baseExpressions []string
	if parenIndex := strings.Index(declaration, "("); parenIndex >= 0 {
		name = declaration[:parenIndex]
		baseText := declaration[parenIndex+1:]
		baseText = strings.TrimSuffix(strings.TrimSpace(baseText), ")")
		for _, baseExpression := range splitTopLevel(baseText) {
			if trimmed := strings.TrimSpace(baseExpression); trimmed != "" {
				baseExpressions = append(baseExpressions, trimmed)
			}
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, false
	}
	return name, baseExpressions, true
}

func matchFunctionDeclaration(trimmedLine string) (string, []string, bool) {
	declaration := trimmedLine
	if strings.HasPrefix(declaration, pythonAsyncKeyword) {
		declaration = strings.TrimSpace(declaration[len(pythonAsyncKeyword):])
	}
	if !strings.HasPrefix(declaration, pythonDefKeyword) {
		return "", nil, false
	}
	declaration = declaration[len(pythonDefKeyword):]
	parenIndex := strings.Index(declaration, "(")
	if parenIndex < 0 {
		return "", nil, false
	}
	name := strings.TrimSpace(declaration[:parenIndex])
	if name == "" {
		return "", nil, false
	}
	parameterText := declaration[parenIndex+1:]
	if closeIndex := strings.LastIndex(parameterText, ")"); closeIndex >= 0 {
		parameterText = parameterText[:closeIndex]
	}
	var parameterNames []string
	for _, rawParameter := range splitTopLevel(parameterText) {
		if parameterName := cleanParameterName(rawParameter); parameterName != "" {
			parameterNames = append(parameterNames, parameterName)
		}
	}
	return name, parameterNames, true
}

// matchFieldDeclaration reconstructs a class-level field line: "target = ..."
// for untyped assignment, "target: type" or "target: type = ..." for
// annotated assignment.
func matchFieldDeclaration(trimmedLine string) (string, bool) {
	if matches := annotatedFieldExpression.FindStringSubmatch(trimmedLine); matches != nil {
		fieldLine := matches[1] + ": " + strings.TrimSpace(matches[2])
		if matches[3] != "" {
			fieldLine += " = ..."
		}
		return fieldLine, true
	}
	if matches := plainFieldExpression.FindStringSubmatch(trimmedLine); matches != nil {
		return matches[1] + " = ...", true
	}
	return "", false
}

// cleanParameterName strips annotations, defaults, and splat markers from one
// raw parameter, keeping the formal name. Bare separators yield an empty name.
func cleanParameterName(rawParameter string) string {
	name := strings.TrimSpace(rawParameter)
	name = strings.TrimLeft(name, "*")
	name = strings.SplitN(name, ":", 2)[0]
	name = strings.SplitN(name, "=", 2)[0]
	name = strings.TrimSpace(name)
	if name == "/" {
		return ""
	}
	return name
}

// splitTopLevel splits on commas not nested inside brackets, so defaults and
// subscripted annotations survive intact.
func splitTopLevel(text string) []string {
	var segments []string
	var current strings.Builder
	bracketDepth := 0
	for _, character := range text {
		switch character {
		case '(', '[', '{':
			bracketDepth++
		case ')', ']', '}':
			bracketDepth--
		case ',':
			if bracketDepth == 0 {
				segments = append(segments, current.String())
				current.Reset()
				continue
			}
		}
		current.WriteRune(character)
	}
	segments = append(segments, current.String())
	return segments
}

// extractBlockDocstring returns the docstring opening the block that starts
// after parentIndentation, when the first significant line is a triple-quoted
// string indented deeper than the declaration.
func extractBlockDocstring(lines []string, startIndex int, parentIndentation int) (string, int, bool) {
	currentIndex := startIndex
	for currentIndex < len(lines) {
		trimmed := strings.TrimSpace(lines[currentIndex])
		if trimmed == "" || strings.HasPrefix(trimmed, pythonCommentPrefix) {
			currentIndex++
			continue
		}
		if countIndentation(lines[currentIndex]) <= parentIndentation {
			return "", startIndex, false
		}
		return extractTripleQuotedString(lines, currentIndex)
	}
	return "", startIndex, false
}

// extractTripleQuotedString reads a triple-quoted string starting at
// startIndex, returning its content and the index of the line after it.
func extractTripleQuotedString(lines []string, startIndex int) (string, int, bool) {
	trimmed := strings.TrimSpace(lines[startIndex])
	quoteToken := ""
	for _, token := range []string{`"""`, "'''"} {
		if strings.HasPrefix(trimmed, token) {
			quoteToken = token
			break
		}
	}
	if quoteToken == "" {
		return "", startIndex, false
	}
	remainder := trimmed[len(quoteToken):]
	if closingIndex := strings.Index(remainder, quoteToken); closingIndex >= 0 {
		return remainder[:closingIndex], startIndex + 1, true
	}
	var contentBuilder strings.Builder
	contentBuilder.WriteString(remainder)
	for lineIndex := startIndex + 1; lineIndex < len(lines); lineIndex++ {
		line := lines[lineIndex]
		if closingIndex := strings.Index(line, quoteToken); closingIndex >= 0 {
			contentBuilder.WriteString("\n")
			contentBuilder.WriteString(line[:closingIndex])
			return strings.Trim(contentBuilder.String(), "\n"), lineIndex + 1, true
		}
		contentBuilder.WriteString("\n")
		contentBuilder.WriteString(line)
	}
	return "", startIndex, false
}

func countIndentation(line string) int {
	indentation := 0
	for _, character := range line {
		if character == ' ' {
			indentation++
			continue
		}
		if character == '\t' {
			indentation += pythonTabIndentWidth
			continue
		}
		break
	}
	return indentation
}

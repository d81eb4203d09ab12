package summarize

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	gotypes "go/types"
	"strings"
)

const goFileExtension = ".go"

// goSummarizer digests Go source with the standard parser: function
// signatures with formal parameter names, doc comments, type declarations
// with embedded types as the base list, and struct field lines. Files parse
// in isolation; imports are never resolved.
type goSummarizer struct {
	options Options
}

func newGoSummarizer(options Options) Summarizer {
	return &goSummarizer{options: options}
}

func (summarizer *goSummarizer) Extensions() []string {
	return []string{goFileExtension}
}

func (summarizer *goSummarizer) Summarize(sourceText string) string {
	fileSet := token.NewFileSet()
	fileNode, parseError := parser.ParseFile(fileSet, "", sourceText, parser.ParseComments)
	if parseError != nil {
		return fmt.Sprintf(parseErrorMarkerFormat, parseError)
	}

	var digestLines []string
	for _, declaration := range fileNode.Decls {
		switch typedDeclaration := declaration.(type) {
		case *ast.FuncDecl:
			digestLines = append(digestLines, formatGoFunction(typedDeclaration))
			if documentationText := commentText(typedDeclaration.Doc); documentationText != "" {
				digestLines = append(digestLines, indentString(1)+wrapDocstring(documentationText))
			}
		case *ast.GenDecl:
			for _, specification := range typedDeclaration.Specs {
				typeSpecification, isType := specification.(*ast.TypeSpec)
				if !isType {
					continue
				}
				emitGoType(typeSpecification, typedDeclaration, &digestLines)
			}
		}
	}
	return strings.Join(digestLines, "\n")
}

func emitGoType(typeSpecification *ast.TypeSpec, parentDeclaration *ast.GenDecl, digestLines *[]string) {
	typeName := typeSpecification.Name.Name
	documentation := commentText(typeSpecification.Doc)
	if documentation == "" {
		documentation = commentText(parentDeclaration.Doc)
	}

	switch typedExpression := typeSpecification.Type.(type) {
	case *ast.StructType:
		embeddedTypes, fieldLines := splitStructMembers(typedExpression)
		*digestLines = append(*digestLines, formatGoTypeHeader(typeName, "struct", embeddedTypes))
		if documentation != "" {
			*digestLines = append(*digestLines, indentString(1)+wrapDocstring(documentation))
		}
		for _, fieldLine := range fieldLines {
			*digestLines = append(*digestLines, indentString(1)+fieldLine)
		}
	case *ast.InterfaceType:
		embeddedTypes, methodLines := splitInterfaceMembers(typedExpression)
		*digestLines = append(*digestLines, formatGoTypeHeader(typeName, "interface", embeddedTypes))
		if documentation != "" {
			*digestLines = append(*digestLines, indentString(1)+wrapDocstring(documentation))
		}
		for _, methodLine := range methodLines {
			*digestLines = append(*digestLines, indentString(1)+methodLine)
		}
	default:
		*digestLines = append(*digestLines, "type "+typeName+" = "+gotypes.ExprString(typeSpecification.Type))
		if documentation != "" {
			*digestLines = append(*digestLines, indentString(1)+wrapDocstring(documentation))
		}
	}
}

func formatGoTypeHeader(typeName string, typeKind string, embeddedTypes []string) string {
	header := "type " + typeName + " " + typeKind
	if len(embeddedTypes) > 0 {
		header += "(" + strings.Join(embeddedTypes, parameterJoiner) + ")"
	}
	return header + ":"
}

func formatGoFunction(functionDeclaration *ast.FuncDecl) string {
	var signature strings.Builder
	signature.WriteString("func ")
	if functionDeclaration.Recv != nil && len(functionDeclaration.Recv.List) > 0 {
		signature.WriteString("(" + receiverLabel(functionDeclaration.Recv.List[0]) + ") ")
	}
	signature.WriteString(functionDeclaration.Name.Name)
	signature.WriteString("(" + strings.Join(parameterLabels(functionDeclaration.Type.Params), parameterJoiner) + ")")
	return signature.String()
}

// parameterLabels returns the formal parameter names in original order; an
// unnamed parameter falls back to its type expression.
func parameterLabels(parameterFields *ast.FieldList) []string {
	if parameterFields == nil {
		return nil
	}
	var labels []string
	for _, parameterField := range parameterFields.List {
		if len(parameterField.Names) == 0 {
			labels = append(labels, gotypes.ExprString(parameterField.Type))
			continue
		}
		for _, parameterName := range parameterField.Names {
			labels = append(labels, parameterName.Name)
		}
	}
	return labels
}

func receiverLabel(receiverField *ast.Field) string {
	if len(receiverField.Names) > 0 {
		return receiverField.Names[0].Name
	}
	return gotypes.ExprString(receiverField.Type)
}

func splitStructMembers(structType *ast.StructType) ([]string, []string) {
	var embeddedTypes []string
	var fieldLines []string
	if structType.Fields == nil {
		return nil, nil
	}
	for _, structField := range structType.Fields.List {
		if len(structField.Names) == 0 {
			embeddedTypes = append(embeddedTypes, gotypes.ExprString(structField.Type))
			continue
		}
		for _, fieldName := range structField.Names {
			fieldLines = append(fieldLines, fieldName.Name+": "+gotypes.ExprString(structField.Type))
		}
	}
	return embeddedTypes, fieldLines
}

func splitInterfaceMembers(interfaceType *ast.InterfaceType) ([]string, []string) {
	var embeddedTypes []string
	var methodLines []string
	if interfaceType.Methods == nil {
		return nil, nil
	}
	for _, interfaceMember := range interfaceType.Methods.List {
		if len(interfaceMember.Names) == 0 {
			embeddedTypes = append(embeddedTypes, gotypes.ExprString(interfaceMember.Type))
			continue
		}
		functionType, isFunction := interfaceMember.Type.(*ast.FuncType)
		if !isFunction {
			continue
		}
		methodLines = append(methodLines,
			interfaceMember.Names[0].Name+"("+strings.Join(parameterLabels(functionType.Params), parameterJoiner)+")")
	}
	return embeddedTypes, methodLines
}

func commentText(commentGroup *ast.CommentGroup) string {
	if commentGroup == nil {
		return ""
	}
	return strings.TrimSpace(commentGroup.Text())
}

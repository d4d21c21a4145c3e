package script

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
)

// resolveDeclaredType applies the annotation-wins rule for one declaration:
// a JSDoc @type keyword is authoritative, then an explicit TypeScript
// annotation, then the literal initializer. Anything unresolvable degrades
// to the "any" fallback; this never fails.
func resolveDeclaredType(comment *jsdoc.Comment, annotation, initializer *ts.Node, source []byte) (jsdoc.Type, any, bool) {
	if comment != nil {
		if kw, ok := jsdoc.FindKeyword(comment.Keywords, jsdoc.KeywordType); ok {
			t := jsdoc.ParseTypeExpression(kw.Description)
			if !t.IsAny() {
				_, value, hasValue := literalValue(initializer, source)
				return t, value, hasValue
			}
		}
	}

	if annotation != nil {
		t := resolveAnnotation(annotation, source, 0)
		if !t.IsAny() {
			_, value, hasValue := literalValue(initializer, source)
			return t, value, hasValue
		}
	}

	if t, value, ok := inferLiteral(initializer, source); ok {
		return t, value, t.Kind == jsdoc.KindConst
	}

	return jsdoc.AnyType(), nil, false
}

// inferLiteral resolves an initializer expression node to a type. Explicit
// literals become constants carrying their parsed value; composite literals
// keep only their runtime type name.
func inferLiteral(node *ts.Node, source []byte) (jsdoc.Type, any, bool) {
	if node == nil {
		return jsdoc.Type{}, nil, false
	}

	text := node.Utf8Text(source)

	switch node.Kind() {
	case "number":
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return jsdoc.ConstType("number", text, n), n, true
		}
		return jsdoc.NamedType("number"), nil, true

	case "string":
		value := unquote(text)
		return jsdoc.ConstType("string", text, value), value, true

	case "template_string":
		// Only substitution-free templates have a static value.
		if !strings.Contains(text, "${") {
			value := unquote(text)
			return jsdoc.ConstType("string", text, value), value, true
		}
		return jsdoc.NamedType("string"), nil, true

	case "true":
		return jsdoc.ConstType("boolean", text, true), true, true

	case "false":
		return jsdoc.ConstType("boolean", text, false), false, true

	case "null":
		// typeof null is "object" at runtime.
		return jsdoc.ConstType("object", text, nil), nil, true

	case "array":
		return jsdoc.NamedType("array"), nil, true

	case "object":
		return jsdoc.NamedType("object"), nil, true

	case "arrow_function", "function_expression", "function":
		return jsdoc.NamedType("function"), nil, true

	case "unary_expression":
		// Negative number literals parse as unary expressions.
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return jsdoc.ConstType("number", text, n), n, true
		}
		return jsdoc.Type{}, nil, false

	default:
		return jsdoc.Type{}, nil, false
	}
}

// literalValue extracts just the constant value of an initializer, for the
// case where an annotation already decided the type.
func literalValue(node *ts.Node, source []byte) (jsdoc.Type, any, bool) {
	t, value, ok := inferLiteral(node, source)
	if !ok || t.Kind != jsdoc.KindConst {
		return t, nil, false
	}
	return t, value, true
}

// resolveAnnotation resolves a TypeScript type_annotation subtree.
// Multi-member unions arrive as left-recursive binary trees and are
// flattened; nesting beyond the shared depth cap degrades to "any".
func resolveAnnotation(node *ts.Node, source []byte, depth int) jsdoc.Type {
	if node == nil || depth > 8 {
		return jsdoc.AnyType()
	}

	switch node.Kind() {
	case "type_annotation":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() != ":" {
				return resolveAnnotation(child, source, depth)
			}
		}
		return jsdoc.AnyType()

	case "predefined_type", "type_identifier":
		return jsdoc.NamedType(node.Utf8Text(source))

	case "literal_type":
		return jsdoc.ParseTypeExpression(node.Utf8Text(source))

	case "union_type":
		members := flattenUnion(node)
		types := make([]jsdoc.Type, 0, len(members))
		for _, m := range members {
			types = append(types, resolveAnnotation(m, source, depth+1))
		}
		if len(types) < 2 {
			return jsdoc.AnyType()
		}
		return jsdoc.Type{Kind: jsdoc.KindUnion, Text: node.Utf8Text(source), Types: types}

	case "parenthesized_type":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() != "(" && child.Kind() != ")" {
				return resolveAnnotation(child, source, depth+1)
			}
		}
		return jsdoc.AnyType()

	case "function_type":
		return jsdoc.NamedType("function")

	case "array_type":
		return jsdoc.NamedType("array")

	case "object_type":
		return jsdoc.NamedType("object")

	case "generic_type":
		if name := node.ChildByFieldName("name"); name != nil {
			return jsdoc.NamedType(name.Utf8Text(source))
		}
		return jsdoc.NamedType(node.Utf8Text(source))

	default:
		text := strings.TrimSpace(node.Utf8Text(source))
		if text == "" {
			return jsdoc.AnyType()
		}
		return jsdoc.NamedType(text)
	}
}

// flattenUnion flattens a binary union tree into its leaf members.
func flattenUnion(node *ts.Node) []*ts.Node {
	if node.Kind() != "union_type" {
		return []*ts.Node{node}
	}
	var members []*ts.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "|" {
			continue
		}
		members = append(members, flattenUnion(child)...)
	}
	return members
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}

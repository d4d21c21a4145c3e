package jsdoc

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TypeKind discriminates the three shapes a resolved type can take.
type TypeKind string

const (
	// KindType is a single named type ("string", "number", "MyThing").
	KindType TypeKind = "type"
	// KindUnion is an ordered list of at least two alternatives.
	KindUnion TypeKind = "union"
	// KindConst is a literal whose value was statically determinable.
	KindConst TypeKind = "const"
)

// maxUnionDepth caps recursion when resolving nested union expressions.
// Alternatives nested deeper than this degrade to the "any" fallback, which
// bounds cost on pathological inputs.
const maxUnionDepth = 8

// Type is the resolved type of a documented item.
//
// For KindType and KindConst, Name holds the type-name string. For
// KindUnion, Types holds the ordered alternatives (always two or more).
// Value is set only for KindConst.
type Type struct {
	Kind TypeKind
	// Text is the original textual representation.
	Text string
	// Name is the type name for KindType and KindConst.
	Name string
	// Types holds the alternatives for KindUnion.
	Types []Type
	// Value is the parsed literal value for KindConst.
	Value any
}

// AnyType is the fallback for absent or unresolvable types.
func AnyType() Type {
	return Type{Kind: KindType, Text: "any", Name: "any"}
}

// ConstType builds a constant type from a literal's runtime type name, its
// source text, and its parsed value.
func ConstType(typeName, text string, value any) Type {
	return Type{Kind: KindConst, Text: text, Name: typeName, Value: value}
}

// NamedType builds a plain named type.
func NamedType(name string) Type {
	return Type{Kind: KindType, Text: name, Name: name}
}

// IsAny reports whether the type is the "any" fallback.
func (t Type) IsAny() bool {
	return t.Kind == KindType && t.Name == "any"
}

// ParseTypeExpression resolves a JSDoc type expression such as
// "string", "number|string", or "'on'|'off'" into a Type.
//
// Alternatives separated by a top-level "|" produce a union; quoted
// strings, numbers, and booleans produce constants; anything else is kept
// as a named type. Resolution never fails: an empty or unreadable
// expression yields the "any" fallback.
func ParseTypeExpression(expr string) Type {
	return parseTypeExpression(expr, 0)
}

func parseTypeExpression(expr string, depth int) Type {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimPrefix(expr, "{")
	expr = strings.TrimSuffix(expr, "}")
	expr = strings.TrimSpace(expr)

	if expr == "" || depth > maxUnionDepth {
		return AnyType()
	}

	parts := splitTopLevel(expr, '|')
	if len(parts) > 1 {
		types := make([]Type, 0, len(parts))
		for _, part := range parts {
			types = append(types, parseTypeExpression(part, depth+1))
		}
		return Type{Kind: KindUnion, Text: expr, Types: types}
	}

	// Parenthesized groups just wrap a nested expression.
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return parseTypeExpression(expr[1:len(expr)-1], depth+1)
	}

	if t, ok := literalType(expr); ok {
		return t
	}

	return Type{Kind: KindType, Text: expr, Name: expr}
}

// literalType resolves a literal token (quoted string, number, boolean)
// into a constant type.
func literalType(token string) (Type, bool) {
	if isQuoted(token) {
		return ConstType("string", token, token[1:len(token)-1]), true
	}
	if token == "true" || token == "false" {
		return ConstType("boolean", token, token == "true"), true
	}
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return ConstType("number", token, n), true
	}
	return Type{}, false
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return s[0] == '\'' && s[len(s)-1] == '\'' ||
		s[0] == '"' && s[len(s)-1] == '"' ||
		s[0] == '`' && s[len(s)-1] == '`'
}

// splitTopLevel splits on sep, ignoring separators nested inside brackets
// or quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// jsonType mirrors the published schema: "type" carries either a type-name
// string or, for unions, an array of nested types. "value" appears for
// constants only, including falsy ones like 0 and false.
type jsonType struct {
	Kind  TypeKind        `json:"kind"`
	Text  string          `json:"text"`
	Type  json.RawMessage `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders the type with the schema's polymorphic "type" field.
func (t Type) MarshalJSON() ([]byte, error) {
	out := jsonType{Kind: t.Kind, Text: t.Text}

	var err error
	if t.Kind == KindUnion {
		out.Type, err = json.Marshal(t.Types)
	} else {
		out.Type, err = json.Marshal(t.Name)
	}
	if err != nil {
		return nil, err
	}

	if t.Kind == KindConst {
		out.Value, err = json.Marshal(t.Value)
		if err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON accepts both shapes of the "type" field.
func (t *Type) UnmarshalJSON(data []byte) error {
	var in jsonType
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	t.Kind = in.Kind
	t.Text = in.Text
	t.Name = ""
	t.Types = nil
	t.Value = nil

	if len(in.Value) > 0 {
		if err := json.Unmarshal(in.Value, &t.Value); err != nil {
			return err
		}
	}

	if len(in.Type) == 0 {
		return nil
	}
	if in.Kind == KindUnion {
		return json.Unmarshal(in.Type, &t.Types)
	}
	return json.Unmarshal(in.Type, &t.Name)
}

package script

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
)

// extractArguments converts a formal_parameters node into Argument entries.
// A parameter with a default-value expression becomes optional with the
// stringified expression as its default; a trailing rest parameter is
// marked repeated. The TypeScript grammar wraps parameters in
// required_parameter/optional_parameter nodes; the JavaScript grammar does
// not, so both shapes are handled.
func extractArguments(params *ts.Node, source []byte) []Argument {
	if params == nil {
		return nil
	}

	var args []Argument
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)

		switch child.Kind() {
		case "identifier":
			args = append(args, Argument{Name: child.Utf8Text(source)})

		case "assignment_pattern":
			if arg, ok := defaultedArgument(child, source); ok {
				args = append(args, arg)
			}

		case "rest_pattern":
			if name := patternName(child, source); name != "" {
				args = append(args, Argument{Name: name, Repeated: true})
			}

		case "object_pattern", "array_pattern":
			// Destructured parameters have no single documentable name.
			continue

		case "required_parameter", "optional_parameter":
			if arg, ok := typedArgument(child, source); ok {
				arg.Optional = arg.Optional || child.Kind() == "optional_parameter"
				args = append(args, arg)
			}
		}
	}
	return args
}

// typedArgument handles the TypeScript parameter wrappers, which carry
// pattern, type, and value fields.
func typedArgument(node *ts.Node, source []byte) (Argument, bool) {
	pattern := node.ChildByFieldName("pattern")
	if pattern == nil {
		return Argument{}, false
	}

	var arg Argument
	switch pattern.Kind() {
	case "identifier":
		arg.Name = pattern.Utf8Text(source)
	case "rest_pattern":
		arg.Name = patternName(pattern, source)
		arg.Repeated = true
	default:
		return Argument{}, false
	}
	if arg.Name == "" {
		return Argument{}, false
	}

	if anno := node.ChildByFieldName("type"); anno != nil {
		t := resolveAnnotation(anno, source, 0)
		arg.Type = &t
	}
	if value := node.ChildByFieldName("value"); value != nil {
		arg.Optional = true
		arg.Default = value.Utf8Text(source)
	}

	return arg, true
}

// defaultedArgument handles `name = expr` parameters.
func defaultedArgument(node *ts.Node, source []byte) (Argument, bool) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || left.Kind() != "identifier" {
		return Argument{}, false
	}

	arg := Argument{Name: left.Utf8Text(source), Optional: true}
	if right != nil {
		arg.Default = right.Utf8Text(source)
	}
	return arg, true
}

// patternName returns the identifier inside a rest_pattern.
func patternName(node *ts.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "identifier" {
			return child.Utf8Text(source)
		}
	}
	return ""
}

// mergeParamKeywords enriches extracted arguments with @param keyword
// metadata: declared types and descriptions. Keyword entries that match no
// actual parameter are ignored rather than invented.
func mergeParamKeywords(args []Argument, keywords []jsdoc.Keyword) {
	for _, kw := range keywords {
		if !jsdoc.ParamKeywordNames[kw.Name] {
			continue
		}
		p, ok := jsdoc.ParseParam(kw.Description)
		if !ok {
			continue
		}
		for i := range args {
			if args[i].Name != p.Name {
				continue
			}
			if p.HasType && args[i].Type == nil {
				t := p.Type
				args[i].Type = &t
			}
			if p.Description != "" && args[i].Description == "" {
				args[i].Description = p.Description
			}
			if p.Optional {
				args[i].Optional = true
			}
			if p.Default != "" && args[i].Default == "" {
				args[i].Default = p.Default
			}
			break
		}
	}
}

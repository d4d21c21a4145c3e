package script

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// collectDependencies walks a computed initializer expression and returns
// the names of known data/computed properties it statically reads, in
// first-use order, without duplicates. A property shadowed by a local
// binding (function parameter or inner declaration) is not a dependency,
// and a computed depending on itself is dropped rather than reported:
// dependency lists describe observable read-sets, not an acyclic contract.
func collectDependencies(expr *ts.Node, source []byte, known map[string]bool, self string) []string {
	deps := []string{}
	seen := make(map[string]bool)
	walkDependencies(expr, source, known, self, nil, seen, &deps)
	return deps
}

func walkDependencies(node *ts.Node, source []byte, known map[string]bool, self string, shadowed map[string]bool, seen map[string]bool, deps *[]string) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "identifier":
		name := node.Utf8Text(source)
		if name == self || shadowed[name] || !known[name] || seen[name] {
			return
		}
		seen[name] = true
		*deps = append(*deps, name)
		return

	case "member_expression":
		// a.b reads a; the property name is not a reference.
		walkDependencies(node.ChildByFieldName("object"), source, known, self, shadowed, seen, deps)
		return

	case "pair":
		// In {key: value} the key is not a reference unless computed.
		key := node.ChildByFieldName("key")
		if key != nil && key.Kind() == "computed_property_name" {
			walkDependencies(key, source, known, self, shadowed, seen, deps)
		}
		walkDependencies(node.ChildByFieldName("value"), source, known, self, shadowed, seen, deps)
		return

	case "arrow_function", "function_expression", "function_declaration":
		// Parameters shadow outer names for the function body.
		inner := copyShadow(shadowed)
		collectBoundNames(node.ChildByFieldName("parameters"), source, inner)
		if param := node.ChildByFieldName("parameter"); param != nil {
			// Single-parameter arrow without parentheses.
			collectBoundNames(param, source, inner)
		}
		walkDependencies(node.ChildByFieldName("body"), source, known, self, inner, seen, deps)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkDependencies(node.Child(i), source, known, self, shadowed, seen, deps)
	}
}

// collectBoundNames adds every identifier bound by a parameter list or
// pattern to the shadow set.
func collectBoundNames(node *ts.Node, source []byte, shadowed map[string]bool) {
	if node == nil {
		return
	}
	if node.Kind() == "identifier" || node.Kind() == "shorthand_property_identifier_pattern" {
		shadowed[node.Utf8Text(source)] = true
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectBoundNames(node.Child(i), source, shadowed)
	}
}

func copyShadow(shadowed map[string]bool) map[string]bool {
	inner := make(map[string]bool, len(shadowed)+4)
	for k := range shadowed {
		inner[k] = true
	}
	return inner
}

package script

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// findDispatchers returns the local names bound to createEventDispatcher()
// calls, e.g. `const dispatch = createEventDispatcher()`.
func findDispatchers(root *ts.Node, source []byte) map[string]bool {
	dispatchers := make(map[string]bool)
	walkForDispatchers(root, source, dispatchers)
	return dispatchers
}

func walkForDispatchers(node *ts.Node, source []byte, out map[string]bool) {
	if node.Kind() == "variable_declarator" {
		name := node.ChildByFieldName("name")
		value := node.ChildByFieldName("value")
		if name != nil && name.Kind() == "identifier" && isDispatcherCall(value, source) {
			out[name.Utf8Text(source)] = true
			return
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkForDispatchers(node.Child(i), source, out)
	}
}

func isDispatcherCall(node *ts.Node, source []byte) bool {
	if node == nil || node.Kind() != "call_expression" {
		return false
	}
	fn := node.ChildByFieldName("function")
	return fn != nil && fn.Kind() == "identifier" &&
		fn.Utf8Text(source) == "createEventDispatcher"
}

// collectDispatchedEvents finds dispatch('name', ...) calls anywhere in the
// script and reports each distinct event name once, at its first dispatch
// site. Only literal string event names are statically knowable.
func collectDispatchedEvents(root *ts.Node, source []byte, base uint) []EventDecl {
	dispatchers := findDispatchers(root, source)
	if len(dispatchers) == 0 {
		return nil
	}

	var events []EventDecl
	seen := make(map[string]bool)
	walkForDispatch(root, source, base, dispatchers, seen, &events)
	return events
}

func walkForDispatch(node *ts.Node, source []byte, base uint, dispatchers map[string]bool, seen map[string]bool, out *[]EventDecl) {
	if node.Kind() == "call_expression" {
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Kind() == "identifier" && dispatchers[fn.Utf8Text(source)] {
			if name, span, ok := firstStringArgument(node, source, base); ok && !seen[name] {
				seen[name] = true
				*out = append(*out, EventDecl{
					Name:       name,
					Span:       span,
					Visibility: "public",
				})
			}
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkForDispatch(node.Child(i), source, base, dispatchers, seen, out)
	}
}

func firstStringArgument(call *ts.Node, source []byte, base uint) (string, Span, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", Span{}, false
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if !arg.IsNamed() {
			continue
		}
		if arg.Kind() != "string" {
			return "", Span{}, false
		}
		name := unquote(arg.Utf8Text(source))
		span := Span{Start: base + arg.StartByte(), End: base + arg.EndByte()}
		return name, span, name != ""
	}
	return "", Span{}, false
}

package sfc

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Tree-sitter HTML node kinds used across the splitter and the markup
// analyzer.
const (
	NodeDocument    = "document"
	NodeElement     = "element"
	NodeStartTag    = "start_tag"
	NodeSelfClosing = "self_closing_tag"
	NodeTagName     = "tag_name"
	NodeText        = "text"
	NodeScript      = "script_element"
	NodeStyle       = "style_element"
	NodeRawText     = "raw_text"
	NodeAttribute   = "attribute"
	NodeAttrName    = "attribute_name"
	NodeAttrValue   = "attribute_value"
	NodeQuotedValue = "quoted_attribute_value"
	NodeComment     = "comment"
	NodeError       = "ERROR"
)

// Attribute is one attribute on a start tag, with document-absolute offsets.
type Attribute struct {
	Name  string
	Value string
	// HasValue distinguishes `on:click` from `on:click={handler}`.
	HasValue bool
	Start    uint
	End      uint
}

// TagName returns the tag name of an element, script_element, or
// style_element node. Empty for anything else.
func TagName(node *ts.Node, source []byte) string {
	tag := startTag(node)
	if tag == nil {
		return ""
	}
	for i := uint(0); i < tag.ChildCount(); i++ {
		child := tag.Child(i)
		if child.Kind() == NodeTagName {
			return child.Utf8Text(source)
		}
	}
	return ""
}

// Attributes returns the attributes declared on an element's start tag in
// source order.
func Attributes(node *ts.Node, source []byte) []Attribute {
	tag := startTag(node)
	if tag == nil {
		return nil
	}

	var attrs []Attribute
	for i := uint(0); i < tag.ChildCount(); i++ {
		child := tag.Child(i)
		if child.Kind() != NodeAttribute {
			continue
		}

		attr := Attribute{Start: child.StartByte(), End: child.EndByte()}
		for j := uint(0); j < child.ChildCount(); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case NodeAttrName:
				attr.Name = part.Utf8Text(source)
			case NodeAttrValue:
				attr.Value = part.Utf8Text(source)
				attr.HasValue = true
			case NodeQuotedValue:
				attr.Value = unquoteAttr(part.Utf8Text(source))
				attr.HasValue = true
			}
		}
		if attr.Name != "" {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// AttributeValue returns the value of a named attribute, or "" when absent.
func AttributeValue(node *ts.Node, source []byte, name string) string {
	for _, attr := range Attributes(node, source) {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// startTag returns the start_tag or self_closing_tag child of an element.
func startTag(node *ts.Node) *ts.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.Kind()
		if kind == NodeStartTag || kind == NodeSelfClosing {
			return child
		}
	}
	return nil
}

func unquoteAttr(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// ExpressionName extracts the identifier from a Svelte moustache value such
// as "{handler}". Returns the trimmed input when it is not a moustache.
func ExpressionName(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
		value = strings.TrimSpace(value[1 : len(value)-1])
	}
	return value
}

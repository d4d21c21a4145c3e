// Package sfc splits a Svelte single-file component into its script,
// markup, and style regions.
//
// The document is parsed once with the tree-sitter HTML grammar;
// script_element and style_element subtrees become the script and style
// regions, and everything else is the markup region. All offsets are
// absolute byte offsets into the original document, so downstream analyses
// can report locations against the source the caller supplied.
package sfc

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
)

// Region is a contiguous byte range of the original document.
type Region struct {
	Start   uint
	End     uint
	Content []byte
}

// Script is the script region plus the attributes that select its grammar.
type Script struct {
	Region

	// Lang is the grammar selected by the lang attribute.
	Lang parser.Language

	// Module is true for <script context="module"> blocks.
	Module bool
}

// Document is the split form of one component source text.
type Document struct {
	// Source is the full original document.
	Source []byte

	// Script is the instance script region, nil when the component has none.
	Script *Script

	// ModuleScript is the <script context="module"> region, if present.
	ModuleScript *Script

	// Styles holds the style regions in source order.
	Styles []Region
}

// Split divides raw component source into script, markup, and style
// regions. The markup region is implicit: it is Source minus the returned
// script and style ranges, and the markup analyzer re-parses Source itself
// so its offsets stay document-absolute.
func Split(source []byte, pm *parser.Manager) (*Document, error) {
	tree, err := pm.Parse(source, parser.LanguageHTML)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	doc := &Document{Source: source}
	collectRegions(tree.RootNode(), source, doc)
	return doc, nil
}

// collectRegions walks the element tree for script and style blocks.
// Svelte places them at the top level, but walking the whole tree costs
// little and tolerates wrappers emitted by preprocessors.
func collectRegions(node *ts.Node, source []byte, doc *Document) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case NodeScript:
			script := buildScript(child, source)
			if script == nil {
				continue
			}
			if script.Module {
				if doc.ModuleScript == nil {
					doc.ModuleScript = script
				}
			} else if doc.Script == nil {
				doc.Script = script
			}

		case NodeStyle:
			if region, ok := rawTextRegion(child, source); ok {
				doc.Styles = append(doc.Styles, region)
			}

		default:
			collectRegions(child, source, doc)
		}
	}
}

// buildScript extracts the raw script text and grammar selection from a
// script_element node. Returns nil for an empty <script></script> pair.
func buildScript(node *ts.Node, source []byte) *Script {
	region, ok := rawTextRegion(node, source)
	if !ok {
		return nil
	}

	return &Script{
		Region: region,
		Lang:   parser.ScriptLanguage(AttributeValue(node, source, "lang")),
		Module: AttributeValue(node, source, "context") == "module",
	}
}

// rawTextRegion returns the raw_text child of a script or style element.
func rawTextRegion(node *ts.Node, source []byte) (Region, bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == NodeRawText {
			return Region{
				Start:   child.StartByte(),
				End:     child.EndByte(),
				Content: source[child.StartByte():child.EndByte()],
			}, true
		}
	}
	return Region{}, false
}

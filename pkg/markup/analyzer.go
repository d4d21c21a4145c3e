package markup

import (
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sfc"
)

// Analyzer runs the markup branch of an extraction. Safe for concurrent
// use across documents.
type Analyzer struct {
	pm     *parser.Manager
	logger *slog.Logger
}

// NewAnalyzer creates a markup analyzer on top of a parser manager.
func NewAnalyzer(pm *parser.Manager, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{pm: pm, logger: logger}
}

// Analyze parses the whole document with the HTML grammar and walks its
// element tree, skipping the script and style subtrees. Offsets in the
// result are therefore document-absolute without translation.
//
// Template expressions ({#if ...} blocks, moustache values) are not HTML;
// the grammar recovers around them, so recoverable tree errors degrade
// gracefully instead of failing the run.
func (a *Analyzer) Analyze(source []byte, opts Options) (*Result, error) {
	tree, err := a.pm.Parse(source, parser.LanguageHTML)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	w := &markupWalker{
		source: source,
		opts:   opts,
		result: &Result{
			Actions:     make(map[string]bool),
			Transitions: make(map[string]bool),
		},
	}
	w.walk(tree.RootNode())

	a.logger.Debug("analyzed markup region",
		"components", len(w.result.Components),
		"events", len(w.result.Events),
		"slots", len(w.result.Slots),
		"refs", len(w.result.Refs))

	return w.result, nil
}

type markupWalker struct {
	source []byte
	opts   Options
	result *Result

	seenComponents map[string]bool
	seenEvents     map[string]bool
}

// walk visits elements in source order, carrying the unclaimed comment
// immediately preceding each child so it can attach to the next element.
func (w *markupWalker) walk(node *ts.Node) {
	var pending *jsdoc.Comment
	var pendingEnd uint

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case sfc.NodeComment:
			parsed := jsdoc.ParseComment(child.Utf8Text(w.source))
			pending = &parsed
			pendingEnd = child.EndByte()

		case sfc.NodeScript, sfc.NodeStyle:
			pending = nil

		case sfc.NodeElement:
			var attached *jsdoc.Comment
			if pending != nil && whitespaceOnly(w.source[pendingEnd:child.StartByte()]) {
				attached = pending
			}
			w.visitElement(child, attached)
			pending = nil
			// Recurse for nested elements; the attached comment does not
			// cascade to children.
			w.walk(child)

		case sfc.NodeText:
			if !whitespaceOnly([]byte(child.Utf8Text(w.source))) {
				pending = nil
			}

		default:
			w.walk(child)
		}
	}
}

// visitElement emits candidates for one element's tag and attributes.
func (w *markupWalker) visitElement(el *ts.Node, comment *jsdoc.Comment) {
	tag := sfc.TagName(el, w.source)
	if tag == "" {
		return
	}
	span := Span{Start: el.StartByte(), End: el.EndByte()}

	switch {
	case tag == "slot":
		w.addSlot(el, span, comment)
	case isComponentTag(tag):
		w.addComponent(tag, span, comment)
	}

	for _, attr := range sfc.Attributes(el, w.source) {
		w.visitAttribute(tag, attr, comment)
	}
}

// visitAttribute classifies one attribute by its directive prefix. For
// on: attributes only the bare form documents an event: `on:click`
// forwards the element's event out through the component's own surface,
// while `on:click={handler}` consumes it internally and exposes nothing.
func (w *markupWalker) visitAttribute(tag string, attr sfc.Attribute, comment *jsdoc.Comment) {
	name := attr.Name
	span := Span{Start: attr.Start, End: attr.End}

	switch {
	case strings.HasPrefix(name, "on:"):
		if !attr.HasValue {
			w.addEvent(stripModifiers(name[len("on:"):]), tag, span, comment)
		}

	case strings.HasPrefix(name, "use:"):
		w.result.Actions[stripModifiers(name[len("use:"):])] = true

	case strings.HasPrefix(name, "transition:"):
		w.result.Transitions[stripModifiers(name[len("transition:"):])] = true
	case strings.HasPrefix(name, "in:"):
		w.result.Transitions[stripModifiers(name[len("in:"):])] = true
	case strings.HasPrefix(name, "out:"):
		w.result.Transitions[stripModifiers(name[len("out:"):])] = true

	case !w.opts.LegacyRefs && name == "bind:this":
		if ref := sfc.ExpressionName(attr.Value); ref != "" {
			w.result.Refs = append(w.result.Refs, RefDecl{
				Name:    ref,
				Parent:  tag,
				Span:    span,
				Comment: comment,
			})
		}

	case w.opts.LegacyRefs && strings.HasPrefix(name, "ref:"):
		if ref := name[len("ref:"):]; ref != "" {
			w.result.Refs = append(w.result.Refs, RefDecl{
				Name:    ref,
				Parent:  tag,
				Span:    span,
				Comment: comment,
			})
		}
	}
}

func (w *markupWalker) addComponent(tag string, span Span, comment *jsdoc.Comment) {
	if w.seenComponents == nil {
		w.seenComponents = make(map[string]bool)
	}
	if w.seenComponents[tag] {
		return
	}
	w.seenComponents[tag] = true
	w.result.Components = append(w.result.Components, ComponentUse{
		Tag:     tag,
		Span:    span,
		Comment: comment,
	})
}

func (w *markupWalker) addEvent(name, parent string, span Span, comment *jsdoc.Comment) {
	if name == "" {
		return
	}
	if w.seenEvents == nil {
		w.seenEvents = make(map[string]bool)
	}
	// Repeated markup usage of one event name merges into a single item;
	// the first occurrence's parent is kept.
	if w.seenEvents[name] {
		return
	}
	w.seenEvents[name] = true
	w.result.Events = append(w.result.Events, EventUse{
		Name:    name,
		Parent:  parent,
		Span:    span,
		Comment: comment,
	})
}

func (w *markupWalker) addSlot(el *ts.Node, span Span, comment *jsdoc.Comment) {
	name := "default"
	var params []SlotParam

	for _, attr := range sfc.Attributes(el, w.source) {
		if attr.Name == "name" {
			if attr.Value != "" {
				name = attr.Value
			}
			continue
		}
		// Every other attribute passes a value to the slot content.
		// Shorthand {item} attributes keep their braces in the HTML tree.
		param := strings.Trim(attr.Name, "{}")
		if param != "" {
			params = append(params, SlotParam{Name: param})
		}
	}

	w.result.Slots = append(w.result.Slots, SlotDecl{
		Name:    name,
		Params:  params,
		Span:    span,
		Comment: comment,
	})
}

// isComponentTag reports whether a tag can reference a child component:
// Svelte component tags are capitalized. Whether a candidate resolves to
// an actual import binding is decided at assembly, where the script
// branch's imports are available.
func isComponentTag(tag string) bool {
	if strings.HasPrefix(tag, "svelte:") {
		return false
	}
	return tag[0] >= 'A' && tag[0] <= 'Z'
}

func stripModifiers(name string) string {
	if i := strings.IndexByte(name, '|'); i >= 0 {
		return name[:i]
	}
	return name
}

func whitespaceOnly(s []byte) bool {
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

package sveltedoc

import (
	"strings"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
	"github.com/BuddyNice/sveltedoc-parser/pkg/markup"
	"github.com/BuddyNice/sveltedoc-parser/pkg/script"
)

// assemble merges the script and markup branch results into the final
// documentation object, enforcing per-category name uniqueness.
func assemble(s *script.Result, m *markup.Result, opts Options) (*ComponentDoc, error) {
	b := &assembler{
		opts: opts,
		doc:  &ComponentDoc{Version: int(opts.Dialect)},
		seen: make(map[string]map[string]*SourceLocation),
	}

	if s.ComponentComment != nil {
		b.doc.Description = s.ComponentComment.Description
		if kw, ok := jsdoc.FindKeyword(s.ComponentComment.Keywords, jsdoc.KeywordComponent); ok {
			if fields := strings.Fields(kw.Description); len(fields) > 0 {
				b.doc.Name = fields[0]
			}
		}
	}

	if err := b.addData(s.Data); err != nil {
		return nil, err
	}
	if err := b.addComputed(s.Computed); err != nil {
		return nil, err
	}
	if err := b.addCallables(s.Callables, m); err != nil {
		return nil, err
	}
	b.addEvents(s.Events, m.Events)
	b.addComponents(m.Components, s.Imports)
	if err := b.addSlots(m.Slots); err != nil {
		return nil, err
	}
	if err := b.addRefs(m.Refs); err != nil {
		return nil, err
	}

	return b.doc, nil
}

type assembler struct {
	opts Options
	doc  *ComponentDoc

	// seen maps category then name to the first occurrence's span, kept
	// regardless of IncludeSourceLocations so collision errors can cite
	// both locations.
	seen map[string]map[string]*SourceLocation
}

// register records a name in a category, failing on collision.
func (b *assembler) register(category, name string, start, end uint) error {
	names := b.seen[category]
	if names == nil {
		names = make(map[string]*SourceLocation)
		b.seen[category] = names
	}
	loc := &SourceLocation{Start: start, End: end}
	if first, ok := names[name]; ok {
		return newDuplicateNameError(category, name, first, loc)
	}
	names[name] = loc
	return nil
}

// common builds the shared item fields from a span and its comment.
func (b *assembler) common(name string, start, end uint, comment *jsdoc.Comment) ItemCommon {
	item := ItemCommon{
		Name:       name,
		Visibility: visibilityFor(comment),
	}
	if comment != nil {
		item.Description = comment.Description
		item.Keywords = comment.Keywords
	}
	if b.opts.IncludeSourceLocations {
		item.Loc = &SourceLocation{Start: start, End: end}
	}
	return item
}

// keep reports whether an item survives the IgnorePrivate filter. Items
// are registered for uniqueness before filtering, so a hidden duplicate
// still fails the run.
func (b *assembler) keep(visibility string) bool {
	if !b.opts.IgnorePrivate {
		return true
	}
	return visibility == "public"
}

func (b *assembler) addData(decls []script.DataDecl) error {
	for _, d := range decls {
		if err := b.register("data", d.Name, d.Span.Start, d.Span.End); err != nil {
			return err
		}
		item := DataItem{ItemCommon: b.common(d.Name, d.Span.Start, d.Span.End, d.Comment)}
		if !b.keep(item.Visibility) {
			continue
		}
		typ := d.Type
		item.Type = &typ
		if d.HasValue {
			item.Value = d.Value
		}
		b.doc.Data = append(b.doc.Data, item)
	}
	return nil
}

func (b *assembler) addComputed(decls []script.ComputedDecl) error {
	for _, d := range decls {
		if err := b.register("computed", d.Name, d.Span.Start, d.Span.End); err != nil {
			return err
		}
		item := ComputedItem{
			ItemCommon:   b.common(d.Name, d.Span.Start, d.Span.End, d.Comment),
			Dependencies: d.Dependencies,
		}
		if item.Dependencies == nil {
			item.Dependencies = []string{}
		}
		if !b.keep(item.Visibility) {
			continue
		}
		b.doc.Computed = append(b.doc.Computed, item)
	}
	return nil
}

func (b *assembler) addCallables(decls []script.CallableDecl, m *markup.Result) error {
	for _, d := range decls {
		bucket := d.Bucket
		// An explicit marker keyword always wins; otherwise markup usage
		// through use: and transition: directives decides the list.
		if !d.Marked && b.opts.Dialect == Dialect3 {
			switch {
			case m.Actions[d.Name]:
				bucket = script.BucketAction
			case m.Transitions[d.Name]:
				bucket = script.BucketTransition
			}
		}

		category := bucketCategory(bucket)
		if err := b.register(category, d.Name, d.Span.Start, d.Span.End); err != nil {
			return err
		}
		item := MethodItem{
			ItemCommon: b.common(d.Name, d.Span.Start, d.Span.End, d.Comment),
			Args:       methodArguments(d.Args),
		}
		if !b.keep(item.Visibility) {
			continue
		}

		switch bucket {
		case script.BucketAction:
			b.doc.Actions = append(b.doc.Actions, item)
		case script.BucketHelper:
			b.doc.Helpers = append(b.doc.Helpers, item)
		case script.BucketTransition:
			b.doc.Transitions = append(b.doc.Transitions, item)
		default:
			b.doc.Methods = append(b.doc.Methods, item)
		}
	}
	return nil
}

// addEvents merges dispatched and forwarded events by name. A dispatched
// event and a forwarded one sharing a name collapse into the dispatched
// item; repeated names are a merge, never a collision.
func (b *assembler) addEvents(dispatched []script.EventDecl, forwarded []markup.EventUse) {
	seen := make(map[string]bool)

	for _, d := range dispatched {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		item := EventItem{ItemCommon: b.common(d.Name, d.Span.Start, d.Span.End, d.Comment)}
		if !b.keep(item.Visibility) {
			continue
		}
		b.doc.Events = append(b.doc.Events, item)
	}

	for _, f := range forwarded {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		item := EventItem{
			ItemCommon: b.common(f.Name, f.Span.Start, f.Span.End, f.Comment),
			Parent:     f.Parent,
		}
		if !b.keep(item.Visibility) {
			continue
		}
		b.doc.Events = append(b.doc.Events, item)
	}
}

// addComponents joins markup tag usage with script imports so each child
// component carries the module path it was imported from. A capitalized
// tag with no matching import binding is not a child component reference
// and emits nothing.
func (b *assembler) addComponents(uses []markup.ComponentUse, imports []script.Import) {
	sources := make(map[string]string, len(imports))
	for _, imp := range imports {
		sources[imp.Name] = imp.Source
	}

	for _, use := range uses {
		source, imported := sources[use.Tag]
		if !imported {
			continue
		}
		item := ComponentItem{
			ItemCommon: b.common(use.Tag, use.Span.Start, use.Span.End, use.Comment),
			Value:      source,
		}
		if !b.keep(item.Visibility) {
			continue
		}
		b.doc.Components = append(b.doc.Components, item)
	}
}

func (b *assembler) addSlots(decls []markup.SlotDecl) error {
	for _, d := range decls {
		if err := b.register("slot", d.Name, d.Span.Start, d.Span.End); err != nil {
			return err
		}
		item := SlotItem{ItemCommon: b.common(d.Name, d.Span.Start, d.Span.End, d.Comment)}
		for _, p := range d.Params {
			item.Parameters = append(item.Parameters, SlotParameter{
				ItemCommon: ItemCommon{Name: p.Name, Visibility: "public"},
			})
		}
		if !b.keep(item.Visibility) {
			continue
		}
		b.doc.Slots = append(b.doc.Slots, item)
	}
	return nil
}

func (b *assembler) addRefs(decls []markup.RefDecl) error {
	for _, d := range decls {
		if err := b.register("ref", d.Name, d.Span.Start, d.Span.End); err != nil {
			return err
		}
		item := RefItem{
			ItemCommon: b.common(d.Name, d.Span.Start, d.Span.End, d.Comment),
			Parent:     d.Parent,
		}
		if !b.keep(item.Visibility) {
			continue
		}
		b.doc.Refs = append(b.doc.Refs, item)
	}
	return nil
}

func bucketCategory(bucket script.CallableBucket) string {
	return string(bucket)
}

func methodArguments(args []script.Argument) []MethodArgument {
	out := make([]MethodArgument, 0, len(args))
	for _, a := range args {
		out = append(out, MethodArgument{
			Name:        a.Name,
			Type:        a.Type,
			Repeated:    a.Repeated,
			Optional:    a.Optional,
			Default:     a.Default,
			Description: a.Description,
		})
	}
	return out
}

func visibilityFor(comment *jsdoc.Comment) string {
	if comment == nil {
		return "public"
	}
	return jsdoc.Visibility(comment.Keywords)
}

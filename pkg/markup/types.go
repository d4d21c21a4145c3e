// Package markup analyzes the markup region of a Svelte component and
// emits candidate component-usage, event, slot, and ref items with their
// document offsets.
package markup

import (
	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
)

// Span is a byte range, absolute into the original component document.
type Span struct {
	Start uint
	End   uint
}

// ComponentUse marks usage of a capitalized component tag. Repeated usages
// of the same tag collapse into one record.
type ComponentUse struct {
	Tag  string
	Span Span

	Comment *jsdoc.Comment
}

// EventUse is a forwarded event declared with a bare on:name attribute.
type EventUse struct {
	Name string
	// Parent is the element or component tag the event is forwarded from.
	Parent string
	Span   Span

	Comment *jsdoc.Comment
}

// SlotParam is one value a slot element exposes to its content.
type SlotParam struct {
	Name string
}

// SlotDecl is a <slot> element. The unnamed default slot is recorded under
// the name "default".
type SlotDecl struct {
	Name   string
	Params []SlotParam
	Span   Span

	Comment *jsdoc.Comment
}

// RefDecl is a ref binding. Every occurrence is kept, including
// duplicates; uniqueness is enforced at assembly so the collision error
// can cite both locations.
type RefDecl struct {
	Name   string
	Parent string
	Span   Span

	Comment *jsdoc.Comment
}

// Result is everything the markup branch contributes to assembly.
type Result struct {
	Components []ComponentUse
	Events     []EventUse
	Slots      []SlotDecl
	Refs       []RefDecl

	// Actions and Transitions record function names referenced by use: and
	// transition:/in:/out: directives; the assembler uses them to bucket
	// unmarked callables.
	Actions     map[string]bool
	Transitions map[string]bool
}

// Options select the dialect-specific markup conventions.
type Options struct {
	// LegacyRefs enables the dialect-2 ref:name syntax instead of
	// bind:this.
	LegacyRefs bool
}

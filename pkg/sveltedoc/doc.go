// Package sveltedoc extracts structured documentation from Svelte
// single-file components.
//
// The entry point is Engine.Extract, which turns raw component source into
// a ComponentDoc describing the component's public surface: data and
// computed properties, child component usage, events, slots, refs, and
// callable members, each enriched with parsed comment metadata and
// inferred type information.
package sveltedoc

import "github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"

// SourceLocation is a byte-offset span into the original document.
// Populated on items only when Options.IncludeSourceLocations is set.
type SourceLocation struct {
	Start uint `json:"start"`
	End   uint `json:"end"`
}

// ItemCommon is the field set shared by every documented item. Concrete
// item categories embed it by value and add their own fields alongside.
type ItemCommon struct {
	Name        string          `json:"name"`
	Loc         *SourceLocation `json:"loc,omitempty"`
	Description string          `json:"description,omitempty"`
	Visibility  string          `json:"visibility,omitempty"`
	Keywords    []jsdoc.Keyword `json:"keywords,omitempty"`
}

// DataItem is a model (state) property declared in the script region.
type DataItem struct {
	ItemCommon

	// Type is the declared or inferred type.
	Type *jsdoc.Type `json:"type,omitempty"`

	// Value is the default literal, when statically determinable.
	Value any `json:"value,omitempty"`
}

// ComputedItem is a derived property recomputed from other bindings.
type ComputedItem struct {
	ItemCommon

	// Dependencies lists the data/computed property names the defining
	// expression statically reads, in first-use order, without duplicates,
	// and never including the item's own name.
	Dependencies []string `json:"dependencies"`
}

// MethodArgument is one formal parameter of a callable member.
type MethodArgument struct {
	Name string `json:"name"`

	Type *jsdoc.Type `json:"type,omitempty"`

	// Repeated marks a variadic tail parameter.
	Repeated bool `json:"repeated,omitempty"`

	// Optional without Default means the parameter may simply be omitted.
	Optional bool `json:"optional,omitempty"`

	// Default is the stringified default-value expression.
	Default string `json:"default,omitempty"`

	Description string `json:"description,omitempty"`
}

// MethodItem covers methods, actions, helpers, and transitions. They share
// one shape but live in separate lists on ComponentDoc because they are
// distinct attachment points.
type MethodItem struct {
	ItemCommon

	Args []MethodArgument `json:"args,omitempty"`
}

// ComponentItem records usage of an imported child component.
type ComponentItem struct {
	ItemCommon

	// Value is the import path the component identifier resolves to.
	Value string `json:"value"`
}

// EventItem is an event the component emits or forwards.
type EventItem struct {
	ItemCommon

	// Parent names the originating element or component for forwarded
	// native DOM events. Empty for custom-dispatched events.
	Parent string `json:"parent,omitempty"`
}

// SlotParameter is one value a slot exposes to its content.
type SlotParameter struct {
	ItemCommon
}

// SlotItem is a named content insertion point. The unnamed default slot is
// reported under the name "default".
type SlotItem struct {
	ItemCommon

	Parameters []SlotParameter `json:"parameters,omitempty"`
}

// RefItem is a named handle bound to a markup element or child component.
type RefItem struct {
	ItemCommon

	// Parent is the tag name the ref identifier is bound to.
	Parent string `json:"parent,omitempty"`
}

// ComponentDoc is the root documentation object, produced exactly once per
// extraction run. Item names are unique within each category list; the
// same name may appear across different categories.
type ComponentDoc struct {
	Name        string `json:"name,omitempty"`
	Version     int    `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Data       []DataItem      `json:"data,omitempty"`
	Computed   []ComputedItem  `json:"computed,omitempty"`
	Components []ComponentItem `json:"components,omitempty"`
	Events     []EventItem     `json:"events,omitempty"`
	Slots      []SlotItem      `json:"slots,omitempty"`
	Refs       []RefItem       `json:"refs,omitempty"`

	Methods     []MethodItem `json:"methods,omitempty"`
	Actions     []MethodItem `json:"actions,omitempty"`
	Helpers     []MethodItem `json:"helpers,omitempty"`
	Transitions []MethodItem `json:"transitions,omitempty"`
}

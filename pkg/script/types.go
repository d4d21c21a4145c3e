// Package script analyzes the script region of a Svelte component: it
// builds the syntax tree, classifies top-level declarations into data,
// computed, and callable candidates, computes reactive dependency sets, and
// detects dispatched events and imports.
package script

import (
	"fmt"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
)

// Span is a byte range, absolute into the original component document.
type Span struct {
	Start uint
	End   uint
}

// CallableBucket names the list a callable declaration belongs to.
type CallableBucket string

const (
	BucketMethod     CallableBucket = "method"
	BucketAction     CallableBucket = "action"
	BucketHelper     CallableBucket = "helper"
	BucketTransition CallableBucket = "transition"
)

// DataDecl is a candidate data (state) property.
type DataDecl struct {
	Name string
	Span Span

	// Comment is the associated preceding comment block, if any.
	Comment    *jsdoc.Comment
	Visibility string

	// Type is resolved per the annotation-wins rule; never empty, degrades
	// to the "any" fallback.
	Type jsdoc.Type

	// Value is the default literal when statically determinable.
	Value    any
	HasValue bool

	Exported bool
}

// ComputedDecl is a candidate derived property, with its dependency set
// already computed against the run's known name table.
type ComputedDecl struct {
	Name string
	Span Span

	Comment    *jsdoc.Comment
	Visibility string

	// Dependencies is in first-use order, de-duplicated, self elided.
	Dependencies []string
}

// Argument is one formal parameter of a callable.
type Argument struct {
	Name        string
	Type        *jsdoc.Type
	Optional    bool
	Default     string
	Repeated    bool
	Description string
}

// CallableDecl is a candidate method/action/helper/transition.
type CallableDecl struct {
	Name string
	Span Span

	Comment    *jsdoc.Comment
	Visibility string

	// Bucket is the classification target; Marked reports whether it came
	// from an explicit marker keyword rather than the default.
	Bucket CallableBucket
	Marked bool

	Args     []Argument
	Exported bool
}

// EventDecl is a custom event dispatched from script code.
type EventDecl struct {
	Name string
	Span Span

	Comment    *jsdoc.Comment
	Visibility string
}

// Import records one imported binding and its module source.
type Import struct {
	// Name is the local identifier.
	Name string
	// Source is the module path as written.
	Source string
	// Default is true for default imports.
	Default bool
}

// Result is everything the script branch contributes to assembly.
type Result struct {
	Data      []DataDecl
	Computed  []ComputedDecl
	Callables []CallableDecl
	Events    []EventDecl
	Imports   []Import

	// ComponentComment is the unclaimed leading comment block that
	// documents the component itself, if one exists.
	ComponentComment *jsdoc.Comment
}

// SyntaxError reports malformed script syntax with absolute offsets.
type SyntaxError struct {
	Msg  string
	Span Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script syntax error at %d..%d: %s", e.Span.Start, e.Span.End, e.Msg)
}

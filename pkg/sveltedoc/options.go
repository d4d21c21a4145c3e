package sveltedoc

// Dialect selects which source-dialect ruleset applies during extraction.
// The dialect decides how refs are written in markup (ref:name vs
// bind:this) and whether markup usage reclassifies callables (use: and
// transition: directives, dialect 3 only).
type Dialect int

const (
	// Dialect2 is the legacy component grammar (ref:name refs).
	Dialect2 Dialect = 2
	// Dialect3 is the current component grammar and the default.
	Dialect3 Dialect = 3
)

// Options control one extraction run.
type Options struct {
	// IncludeSourceLocations populates Loc on every item. When false, Loc
	// fields are omitted entirely rather than set to a sentinel.
	IncludeSourceLocations bool

	// Dialect selects the markup/marker conventions. Zero means Dialect3.
	Dialect Dialect

	// IgnorePrivate drops items classified private or protected from the
	// output.
	IgnorePrivate bool
}

// withDefaults resolves zero values to their documented defaults.
func (o Options) withDefaults() Options {
	if o.Dialect == 0 {
		o.Dialect = Dialect3
	}
	return o
}

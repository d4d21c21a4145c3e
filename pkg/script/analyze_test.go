package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sfc"
)

func analyzeFixture(t *testing.T, src string, lang parser.Language) *Result {
	t.Helper()
	pm := parser.NewManager(nil)
	t.Cleanup(func() { pm.Close() })

	a := NewAnalyzer(pm, nil)
	t.Cleanup(func() { a.Close() })

	result, err := a.Analyze(&sfc.Script{
		Region: sfc.Region{Start: 0, End: uint(len(src)), Content: []byte(src)},
		Lang:   lang,
	})
	require.NoError(t, err)
	return result
}

func analyzeJS(t *testing.T, src string) *Result {
	t.Helper()
	return analyzeFixture(t, src, parser.LanguageJavaScript)
}

func findData(t *testing.T, result *Result, name string) DataDecl {
	t.Helper()
	for _, d := range result.Data {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no data declaration named %q", name)
	return DataDecl{}
}

func findCallable(t *testing.T, result *Result, name string) CallableDecl {
	t.Helper()
	for _, c := range result.Callables {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no callable named %q", name)
	return CallableDecl{}
}

func TestAnalyze_NilScript(t *testing.T) {
	pm := parser.NewManager(nil)
	defer pm.Close()
	a := NewAnalyzer(pm, nil)
	defer a.Close()

	result, err := a.Analyze(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Empty(t, result.Callables)
	assert.Nil(t, result.ComponentComment)
}

func TestAnalyze_DataLiteralInference(t *testing.T) {
	result := analyzeJS(t, `
let count = 0;
let label = "hello";
let enabled = true;
let negative = -1.5;
let nothing = null;
let items = [];
`)
	require.Len(t, result.Data, 6)

	count := findData(t, result, "count")
	assert.Equal(t, jsdoc.KindConst, count.Type.Kind)
	assert.Equal(t, "number", count.Type.Name)
	assert.Equal(t, float64(0), count.Value)
	assert.True(t, count.HasValue)

	label := findData(t, result, "label")
	assert.Equal(t, jsdoc.KindConst, label.Type.Kind)
	assert.Equal(t, "string", label.Type.Name)
	assert.Equal(t, "hello", label.Value)

	enabled := findData(t, result, "enabled")
	assert.Equal(t, "boolean", enabled.Type.Name)
	assert.Equal(t, true, enabled.Value)

	negative := findData(t, result, "negative")
	assert.Equal(t, "number", negative.Type.Name)
	assert.Equal(t, float64(-1.5), negative.Value)

	nothing := findData(t, result, "nothing")
	assert.Equal(t, jsdoc.KindConst, nothing.Type.Kind)
	assert.Equal(t, "object", nothing.Type.Name)
	assert.Nil(t, nothing.Value)
	assert.True(t, nothing.HasValue)

	items := findData(t, result, "items")
	assert.Equal(t, jsdoc.KindType, items.Type.Kind)
	assert.Equal(t, "array", items.Type.Name)
}

func TestAnalyze_UninitializedDataIsAny(t *testing.T) {
	result := analyzeJS(t, `let value;`)
	d := findData(t, result, "value")
	assert.True(t, d.Type.IsAny())
	assert.False(t, d.HasValue)
}

func TestAnalyze_TypeKeywordWinsOverLiteral(t *testing.T) {
	result := analyzeJS(t, `
/**
 * @type {string|number}
 */
let flexible = 0;
`)
	d := findData(t, result, "flexible")
	assert.Equal(t, jsdoc.KindUnion, d.Type.Kind)
	require.Len(t, d.Type.Types, 2)
	// The literal still contributes the default value.
	assert.Equal(t, float64(0), d.Value)
	assert.True(t, d.HasValue)
}

func TestAnalyze_TypeScriptAnnotation(t *testing.T) {
	result := analyzeFixture(t, `export let size: number = 10;`, parser.LanguageTypeScript)
	d := findData(t, result, "size")
	assert.True(t, d.Exported)
	assert.Equal(t, "number", d.Type.Name)
	assert.Equal(t, float64(10), d.Value)
}

func TestAnalyze_DestructuringSkipped(t *testing.T) {
	result := analyzeJS(t, `
let { a, b } = pair();
let kept = 1;
`)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "kept", result.Data[0].Name)
}

func TestAnalyze_CommentAssociation(t *testing.T) {
	result := analyzeJS(t, `
/**
 * Number of items shown.
 * @private
 */
let shown = 5;

/** Detached by a blank line. */

let other = 1;
`)
	shown := findData(t, result, "shown")
	require.NotNil(t, shown.Comment)
	assert.Equal(t, "Number of items shown.", shown.Comment.Description)
	assert.Equal(t, "private", shown.Visibility)

	other := findData(t, result, "other")
	assert.Nil(t, other.Comment)
	assert.Equal(t, "public", other.Visibility)
}

func TestAnalyze_ExportedCommentPrecedesExportKeyword(t *testing.T) {
	result := analyzeJS(t, `
/** The current value. */
export let value = 3;
`)
	d := findData(t, result, "value")
	assert.True(t, d.Exported)
	require.NotNil(t, d.Comment)
	assert.Equal(t, "The current value.", d.Comment.Description)
}

func TestAnalyze_ComputedDependencies(t *testing.T) {
	result := analyzeJS(t, `
let count = 0;
let factor = 2;
$: doubled = count * factor;
`)
	require.Len(t, result.Computed, 1)
	c := result.Computed[0]
	assert.Equal(t, "doubled", c.Name)
	assert.Equal(t, []string{"count", "factor"}, c.Dependencies)
}

func TestAnalyze_ComputedSelfElidedAndDeduplicated(t *testing.T) {
	result := analyzeJS(t, `
let total = 0;
$: running = running + total + total;
`)
	require.Len(t, result.Computed, 1)
	assert.Equal(t, []string{"total"}, result.Computed[0].Dependencies)
}

func TestAnalyze_ComputedDependsOnComputed(t *testing.T) {
	result := analyzeJS(t, `
let count = 0;
$: doubled = count * 2;
$: quadrupled = doubled * 2;
`)
	require.Len(t, result.Computed, 2)
	assert.Equal(t, []string{"count"}, result.Computed[0].Dependencies)
	assert.Equal(t, []string{"doubled"}, result.Computed[1].Dependencies)
}

func TestAnalyze_ComputedIgnoresUnknownAndShadowedNames(t *testing.T) {
	result := analyzeJS(t, `
let items = [];
$: labels = items.map(item => item.name + window.suffix);
`)
	require.Len(t, result.Computed, 1)
	assert.Equal(t, []string{"items"}, result.Computed[0].Dependencies)
}

func TestAnalyze_ComputedEmptyDependenciesNotNil(t *testing.T) {
	result := analyzeJS(t, `$: stamp = Date.now();`)
	require.Len(t, result.Computed, 1)
	assert.NotNil(t, result.Computed[0].Dependencies)
	assert.Empty(t, result.Computed[0].Dependencies)
}

func TestAnalyze_NonReactiveLabelIgnored(t *testing.T) {
	result := analyzeJS(t, `
loop: for (;;) { break loop; }
$: console.log("side effect only");
`)
	assert.Empty(t, result.Computed)
}

func TestAnalyze_CallableShapes(t *testing.T) {
	result := analyzeJS(t, `
function declared(a, b) {}
const arrow = (x) => x;
const expr = function (y) { return y; };
`)
	require.Len(t, result.Callables, 3)

	declared := findCallable(t, result, "declared")
	assert.Equal(t, BucketMethod, declared.Bucket)
	assert.False(t, declared.Marked)
	require.Len(t, declared.Args, 2)
	assert.Equal(t, "a", declared.Args[0].Name)

	arrow := findCallable(t, result, "arrow")
	require.Len(t, arrow.Args, 1)
	assert.Equal(t, "x", arrow.Args[0].Name)

	expr := findCallable(t, result, "expr")
	require.Len(t, expr.Args, 1)
	assert.Equal(t, "y", expr.Args[0].Name)
}

func TestAnalyze_MarkerKeywords(t *testing.T) {
	result := analyzeJS(t, `
/**
 * @action
 */
function tooltip(node) {}

/** @helper */
function format(value) { return value; }

/** @transition */
function fade(node, params) {}

/** @method */
function refresh() {}
`)
	assert.Equal(t, BucketAction, findCallable(t, result, "tooltip").Bucket)
	assert.Equal(t, BucketHelper, findCallable(t, result, "format").Bucket)
	assert.Equal(t, BucketTransition, findCallable(t, result, "fade").Bucket)

	refresh := findCallable(t, result, "refresh")
	assert.Equal(t, BucketMethod, refresh.Bucket)
	assert.True(t, refresh.Marked)
}

func TestAnalyze_ArgumentDefaultsAndRest(t *testing.T) {
	result := analyzeJS(t, `function reset(force = false, ...extras) {}`)
	c := findCallable(t, result, "reset")
	require.Len(t, c.Args, 2)

	assert.Equal(t, "force", c.Args[0].Name)
	assert.True(t, c.Args[0].Optional)
	assert.Equal(t, "false", c.Args[0].Default)

	assert.Equal(t, "extras", c.Args[1].Name)
	assert.True(t, c.Args[1].Repeated)
}

func TestAnalyze_ParamKeywordsMergedIntoArguments(t *testing.T) {
	result := analyzeJS(t, `
/**
 * Moves the cursor.
 * @param {number} delta How far to move.
 * @param {boolean} [wrap=false] Wrap at the end.
 */
function move(delta, wrap) {}
`)
	c := findCallable(t, result, "move")
	require.Len(t, c.Args, 2)

	delta := c.Args[0]
	require.NotNil(t, delta.Type)
	assert.Equal(t, "number", delta.Type.Name)
	assert.Equal(t, "How far to move.", delta.Description)
	assert.False(t, delta.Optional)

	wrap := c.Args[1]
	require.NotNil(t, wrap.Type)
	assert.Equal(t, "boolean", wrap.Type.Name)
	assert.True(t, wrap.Optional)
	assert.Equal(t, "false", wrap.Default)
}

func TestAnalyze_TypeScriptParameters(t *testing.T) {
	result := analyzeFixture(t, `
function pick(index: number, fallback?: string) {}
`, parser.LanguageTypeScript)
	c := findCallable(t, result, "pick")
	require.Len(t, c.Args, 2)

	assert.Equal(t, "index", c.Args[0].Name)
	require.NotNil(t, c.Args[0].Type)
	assert.Equal(t, "number", c.Args[0].Type.Name)

	assert.Equal(t, "fallback", c.Args[1].Name)
	assert.True(t, c.Args[1].Optional)
}

func TestAnalyze_DispatchedEvents(t *testing.T) {
	result := analyzeJS(t, `
import { createEventDispatcher } from "svelte";
const dispatch = createEventDispatcher();

function notify() {
	dispatch("change", { value: 1 });
	dispatch("change");
	dispatch("close");
}
`)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "change", result.Events[0].Name)
	assert.Equal(t, "close", result.Events[1].Name)
	assert.Equal(t, "public", result.Events[0].Visibility)
}

func TestAnalyze_DynamicEventNameIgnored(t *testing.T) {
	result := analyzeJS(t, `
import { createEventDispatcher } from "svelte";
const dispatch = createEventDispatcher();
let name = "dynamic";
dispatch(name);
`)
	assert.Empty(t, result.Events)
}

func TestAnalyze_Imports(t *testing.T) {
	result := analyzeJS(t, `
import Child from "./Child.svelte";
import { onMount, onDestroy as cleanup } from "svelte";
import * as helpers from "./helpers";
`)
	require.Len(t, result.Imports, 4)

	assert.Equal(t, Import{Name: "Child", Source: "./Child.svelte", Default: true}, result.Imports[0])
	assert.Equal(t, Import{Name: "onMount", Source: "svelte"}, result.Imports[1])
	assert.Equal(t, Import{Name: "cleanup", Source: "svelte"}, result.Imports[2])
	assert.Equal(t, Import{Name: "helpers", Source: "./helpers"}, result.Imports[3])
}

func TestAnalyze_ComponentComment(t *testing.T) {
	result := analyzeJS(t, `
/**
 * A paginated list of results.
 * @component
 */

let page = 1;
`)
	require.NotNil(t, result.ComponentComment)
	assert.Equal(t, "A paginated list of results.", result.ComponentComment.Description)
}

func TestAnalyze_LeadingUnclaimedBlockIsComponentComment(t *testing.T) {
	result := analyzeJS(t, `
/** Renders the site header. */

let title = "";
`)
	require.NotNil(t, result.ComponentComment)
	assert.Equal(t, "Renders the site header.", result.ComponentComment.Description)
	assert.Nil(t, findData(t, result, "title").Comment)
}

func TestAnalyze_ClaimedCommentNotReusedAsComponentComment(t *testing.T) {
	result := analyzeJS(t, `
/** Documents the variable, not the component. */
let value = 1;
`)
	require.NotNil(t, findData(t, result, "value").Comment)
	assert.Nil(t, result.ComponentComment)
}

func TestAnalyze_SyntaxError(t *testing.T) {
	pm := parser.NewManager(nil)
	defer pm.Close()
	a := NewAnalyzer(pm, nil)
	defer a.Close()

	src := "let x = ;"
	_, err := a.Analyze(&sfc.Script{
		Region: sfc.Region{Start: 10, End: 10 + uint(len(src)), Content: []byte(src)},
		Lang:   parser.LanguageJavaScript,
	})
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.GreaterOrEqual(t, syntaxErr.Span.Start, uint(10))
}

func TestAnalyze_SpansAreAbsolute(t *testing.T) {
	pm := parser.NewManager(nil)
	defer pm.Close()
	a := NewAnalyzer(pm, nil)
	defer a.Close()

	src := "let count = 0;"
	base := uint(100)
	result, err := a.Analyze(&sfc.Script{
		Region: sfc.Region{Start: base, End: base + uint(len(src)), Content: []byte(src)},
		Lang:   parser.LanguageJavaScript,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.GreaterOrEqual(t, result.Data[0].Span.Start, base)
}

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
)

func analyzeFixture(t *testing.T, source string, opts Options) *Result {
	t.Helper()
	pm := parser.NewManager(nil)
	t.Cleanup(func() { pm.Close() })

	result, err := NewAnalyzer(pm, nil).Analyze([]byte(source), opts)
	require.NoError(t, err)
	return result
}

func TestAnalyze_ComponentsCollapseByTag(t *testing.T) {
	result := analyzeFixture(t, `
<Child a="1"></Child>
<Child a="2"></Child>
<Other/>
<div></div>
<svelte:window on:resize={handle}/>
`, Options{})

	require.Len(t, result.Components, 2)
	assert.Equal(t, "Child", result.Components[0].Tag)
	assert.Equal(t, "Other", result.Components[1].Tag)
}

func TestAnalyze_ForwardedEvents(t *testing.T) {
	result := analyzeFixture(t, `
<button on:click>Go</button>
<button on:click>Again</button>
<input on:change={onChange}/>
<div on:keydown|preventDefault></div>
`, Options{})

	// Valued on: attributes are listeners, not forwarded events.
	require.Len(t, result.Events, 2)

	click := result.Events[0]
	assert.Equal(t, "click", click.Name)
	assert.Equal(t, "button", click.Parent)

	keydown := result.Events[1]
	assert.Equal(t, "keydown", keydown.Name)
	assert.Equal(t, "div", keydown.Parent)
}

func TestAnalyze_ValuedEventAttributeIsListenerNotEvent(t *testing.T) {
	result := analyzeFixture(t, `<button on:click={handle}></button>`, Options{})
	assert.Empty(t, result.Events)
}

func TestAnalyze_Slots(t *testing.T) {
	result := analyzeFixture(t, `
<slot></slot>
<slot name="footer" year={year} {label}></slot>
`, Options{})

	require.Len(t, result.Slots, 2)
	assert.Equal(t, "default", result.Slots[0].Name)
	assert.Empty(t, result.Slots[0].Params)

	footer := result.Slots[1]
	assert.Equal(t, "footer", footer.Name)
	require.Len(t, footer.Params, 2)
	assert.Equal(t, "year", footer.Params[0].Name)
	assert.Equal(t, "label", footer.Params[1].Name)
}

func TestAnalyze_BindThisRefs(t *testing.T) {
	result := analyzeFixture(t, `<canvas bind:this={surface}></canvas>`, Options{})

	require.Len(t, result.Refs, 1)
	assert.Equal(t, "surface", result.Refs[0].Name)
	assert.Equal(t, "canvas", result.Refs[0].Parent)
}

func TestAnalyze_LegacyRefs(t *testing.T) {
	source := `<input ref:field/><canvas bind:this={surface}></canvas>`

	legacy := analyzeFixture(t, source, Options{LegacyRefs: true})
	require.Len(t, legacy.Refs, 1)
	assert.Equal(t, "field", legacy.Refs[0].Name)
	assert.Equal(t, "input", legacy.Refs[0].Parent)

	modern := analyzeFixture(t, source, Options{})
	require.Len(t, modern.Refs, 1)
	assert.Equal(t, "surface", modern.Refs[0].Name)
}

func TestAnalyze_ActionAndTransitionUsage(t *testing.T) {
	result := analyzeFixture(t, `
<div use:tooltip use:track|once></div>
<p transition:fade></p>
<p in:fly out:slide></p>
`, Options{})

	assert.True(t, result.Actions["tooltip"])
	assert.True(t, result.Actions["track"])
	assert.True(t, result.Transitions["fade"])
	assert.True(t, result.Transitions["fly"])
	assert.True(t, result.Transitions["slide"])
}

func TestAnalyze_CommentAssociation(t *testing.T) {
	result := analyzeFixture(t, `
<!-- Fired when the user confirms. -->
<button on:confirm></button>

<!-- Detached comment. -->
<p>text breaks the association</p>
<Widget/>
`, Options{})

	require.Len(t, result.Events, 1)
	require.NotNil(t, result.Events[0].Comment)
	assert.Equal(t, "Fired when the user confirms.", result.Events[0].Comment.Description)

	require.Len(t, result.Components, 1)
	assert.Nil(t, result.Components[0].Comment)
}

func TestAnalyze_CommentDoesNotCascadeToChildren(t *testing.T) {
	result := analyzeFixture(t, `
<!-- Documents the outer div only. -->
<div>
	<slot name="inner"></slot>
</div>
`, Options{})

	require.Len(t, result.Slots, 1)
	assert.Nil(t, result.Slots[0].Comment)
}

func TestAnalyze_TemplateExpressionsTolerated(t *testing.T) {
	result := analyzeFixture(t, `
{#if visible}
	<Child on:close/>
{/if}
{#each items as item}
	<li>{item.name}</li>
{/each}
`, Options{})

	require.Len(t, result.Components, 1)
	assert.Equal(t, "Child", result.Components[0].Tag)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "close", result.Events[0].Name)
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	result := analyzeFixture(t, "", Options{})

	assert.Empty(t, result.Components)
	assert.Empty(t, result.Events)
	assert.Empty(t, result.Slots)
	assert.Empty(t, result.Refs)
	assert.NotNil(t, result.Actions)
	assert.NotNil(t, result.Transitions)
}

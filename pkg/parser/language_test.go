package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptLanguage(t *testing.T) {
	assert.Equal(t, LanguageJavaScript, ScriptLanguage(""))
	assert.Equal(t, LanguageJavaScript, ScriptLanguage("js"))
	assert.Equal(t, LanguageTypeScript, ScriptLanguage("ts"))
	assert.Equal(t, LanguageTypeScript, ScriptLanguage("typescript"))
	assert.Equal(t, LanguageTypeScript, ScriptLanguage("  TS  "))
	// Unrecognized values fall back to JavaScript.
	assert.Equal(t, LanguageJavaScript, ScriptLanguage("coffeescript"))
}

func TestIsSvelteFile(t *testing.T) {
	assert.True(t, IsSvelteFile("Button.svelte"))
	assert.True(t, IsSvelteFile("/src/lib/Modal.SVELTE"))
	assert.False(t, IsSvelteFile("main.js"))
	assert.False(t, IsSvelteFile("svelte"))
}

func TestParseLanguageString(t *testing.T) {
	assert.Equal(t, LanguageJavaScript, ParseLanguageString("javascript"))
	assert.Equal(t, LanguageTypeScript, ParseLanguageString("TS"))
	assert.Equal(t, LanguageHTML, ParseLanguageString("html"))
	assert.Equal(t, LanguageUnknown, ParseLanguageString("rust"))
}

func TestLanguageString(t *testing.T) {
	assert.Equal(t, "javascript", LanguageJavaScript.String())
	assert.Equal(t, "typescript", LanguageTypeScript.String())
	assert.Equal(t, "html", LanguageHTML.String())
	assert.Equal(t, "unknown", LanguageUnknown.String())
}

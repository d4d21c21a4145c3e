package parser

import "strings"

// Language represents a grammar used to parse one region of a Svelte
// single-file component.
type Language int

const (
	// LanguageJavaScript is the default grammar for <script> content.
	LanguageJavaScript Language = iota
	// LanguageTypeScript is used for <script lang="ts"> content.
	LanguageTypeScript
	// LanguageHTML is used for the document itself and its markup region.
	LanguageHTML
	// LanguageUnknown represents an unsupported grammar.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageJavaScript:
		return "javascript"
	case LanguageTypeScript:
		return "typescript"
	case LanguageHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ScriptLanguage maps a <script> tag's lang attribute to the grammar used
// for the script region. An empty or unrecognized attribute falls back to
// JavaScript, which matches how Svelte itself treats untagged scripts.
func ScriptLanguage(langAttr string) Language {
	switch strings.ToLower(strings.TrimSpace(langAttr)) {
	case "ts", "typescript":
		return LanguageTypeScript
	default:
		return LanguageJavaScript
	}
}

// IsSvelteFile reports whether a file path looks like a Svelte component.
func IsSvelteFile(filePath string) bool {
	return strings.HasSuffix(strings.ToLower(filePath), ".svelte")
}

// ParseLanguageString converts a language string to a Language type.
// Returns LanguageUnknown if the string is not recognized.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "javascript", "js":
		return LanguageJavaScript
	case "typescript", "ts":
		return LanguageTypeScript
	case "html":
		return LanguageHTML
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageJavaScript,
		LanguageTypeScript,
		LanguageHTML,
	}
}

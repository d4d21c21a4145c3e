package jsdoc

import "strings"

// Param is the parsed form of a @param keyword description, e.g.
// "{number} count the new value" or "{string} [label=none] optional label".
type Param struct {
	Type        Type
	HasType     bool
	Name        string
	Optional    bool
	Default     string
	Repeated    bool
	Description string
}

// ParamKeywordNames are the JSDoc spellings that document a parameter.
var ParamKeywordNames = map[string]bool{
	"param":    true,
	"arg":      true,
	"argument": true,
}

// ParseParam parses the description text of a @param keyword. Returns
// ok=false when no parameter name can be found.
func ParseParam(text string) (Param, bool) {
	var p Param
	rest := strings.TrimSpace(text)

	// Optional leading {type} expression.
	if strings.HasPrefix(rest, "{") {
		if end := matchBrace(rest); end > 0 {
			expr := rest[1:end]
			if strings.HasPrefix(expr, "...") {
				p.Repeated = true
				expr = strings.TrimPrefix(expr, "...")
			}
			p.Type = ParseTypeExpression(expr)
			p.HasType = true
			rest = strings.TrimSpace(rest[end+1:])
		}
	}

	if rest == "" {
		return p, false
	}

	// Name token, possibly bracketed: [name] or [name=default].
	name := rest
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		name = rest[:i]
		p.Description = strings.TrimSpace(rest[i:])
	} else {
		p.Description = ""
	}

	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		p.Optional = true
		name = name[1 : len(name)-1]
		if eq := strings.Index(name, "="); eq >= 0 {
			p.Default = name[eq+1:]
			name = name[:eq]
		}
	}
	if strings.HasPrefix(name, "...") {
		p.Repeated = true
		name = strings.TrimPrefix(name, "...")
	}

	if name == "" {
		return p, false
	}
	p.Name = name
	return p, true
}

// matchBrace returns the index of the brace closing the one at position 0,
// or -1 when unbalanced.
func matchBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

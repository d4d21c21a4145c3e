// Package jsdoc parses JSDoc-style comment blocks and type expressions.
//
// It is the leaf of the extraction pipeline: both the script classifier and
// the markup analyzer feed raw comment text through ParseComment, and both
// resolve @type expressions through ParseTypeExpression.
package jsdoc

import "strings"

// Keyword represents one parsed @tag line from a comment block.
//
// Multiple keywords with the same name are preserved in original order;
// they are never deduplicated.
type Keyword struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Comment is the parsed form of a raw comment block: the leading free text
// plus the ordered @keyword records that follow it.
type Comment struct {
	// Description is the leading contiguous non-@ text, trimmed.
	// Empty when the block starts with a keyword.
	Description string

	// Keywords is never nil once a comment block exists.
	Keywords []Keyword
}

// ParseComment parses a raw comment block into a description and keyword
// records.
//
// Accepted delimiters are JS block comments (including the JSDoc /** form),
// JS line comments, and HTML comments; per-line leading "*" decoration is
// stripped. The leading non-@ lines become the description. Each line
// beginning with "@word" starts a keyword whose description is the rest of
// that line plus any continuation lines until the next "@word" or the end
// of the block. A line containing only "@" is ignored.
func ParseComment(raw string) Comment {
	body := stripDelimiters(raw)

	var descLines []string
	keywords := []Keyword{}
	current := -1 // index into keywords while collecting continuation lines

	for _, line := range strings.Split(body, "\n") {
		line = stripLineDecoration(line)

		name, rest, isTag := splitTagLine(line)
		switch {
		case isTag:
			keywords = append(keywords, Keyword{Name: name, Description: rest})
			current = len(keywords) - 1
		case current >= 0:
			// Continuation of the previous keyword's description.
			if line != "" {
				kw := &keywords[current]
				if kw.Description == "" {
					kw.Description = line
				} else {
					kw.Description += "\n" + line
				}
			}
		default:
			descLines = append(descLines, line)
		}
	}

	return Comment{
		Description: strings.TrimSpace(strings.Join(descLines, "\n")),
		Keywords:    keywords,
	}
}

// stripDelimiters removes the surrounding comment syntax, leaving raw lines.
func stripDelimiters(raw string) string {
	s := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(s, "<!--"):
		s = strings.TrimPrefix(s, "<!--")
		s = strings.TrimSuffix(s, "-->")
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimPrefix(s, "/*")
		// JSDoc blocks open with /**; the extra star is line decoration.
		s = strings.TrimPrefix(s, "*")
		s = strings.TrimSuffix(s, "*/")
	case strings.HasPrefix(s, "//"):
		var lines []string
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "//")
			lines = append(lines, line)
		}
		s = strings.Join(lines, "\n")
	}

	return s
}

// stripLineDecoration trims whitespace and the leading "*" used to decorate
// the interior lines of JSDoc blocks.
func stripLineDecoration(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "*/") {
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
	}
	return line
}

// splitTagLine reports whether a line starts a keyword, and if so returns
// the keyword name and the remainder of the line. A bare "@" does not start
// a keyword.
func splitTagLine(line string) (name, rest string, ok bool) {
	if !strings.HasPrefix(line, "@") {
		return "", "", false
	}

	body := line[1:]
	i := 0
	for i < len(body) && isTagNameChar(body[i]) {
		i++
	}
	if i == 0 {
		// "@" with no identifier after it.
		return "", "", false
	}

	return body[:i], strings.TrimSpace(body[i:]), true
}

func isTagNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

// Well-known keyword names used by the classifier and assembler.
const (
	KeywordType       = "type"
	KeywordComponent  = "component"
	KeywordPrivate    = "private"
	KeywordProtected  = "protected"
	KeywordPublic     = "public"
	KeywordMethod     = "method"
	KeywordAction     = "action"
	KeywordHelper     = "helper"
	KeywordTransition = "transition"
)

// Visibility derives an item's visibility from its comment keywords.
// Returns "public" when no visibility keyword is present.
func Visibility(keywords []Keyword) string {
	for _, kw := range keywords {
		switch kw.Name {
		case KeywordPrivate:
			return "private"
		case KeywordProtected:
			return "protected"
		case KeywordPublic:
			return "public"
		}
	}
	return "public"
}

// FindKeyword returns the first keyword with the given name, if any.
func FindKeyword(keywords []Keyword, name string) (Keyword, bool) {
	for _, kw := range keywords {
		if kw.Name == name {
			return kw, true
		}
	}
	return Keyword{}, false
}

package script

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
)

// commentBlock is one raw comment from the script region, tracked by offset
// so declarations can claim their preceding block.
type commentBlock struct {
	parsed  jsdoc.Comment
	start   uint
	end     uint
	block   bool // true for /* */ comments, false for // comments
	claimed bool
}

// commentIndex is the offset-sorted set of top-level comment blocks.
// Association with declarations is an ordering heuristic, not a structural
// AST link, so the index is built once per run and each declaration resolves
// against it via nearest-preceding-unclaimed-block.
type commentIndex struct {
	blocks []commentBlock
	source []byte
}

// newCommentIndex collects comment nodes that are direct children of the
// program node. Comments nested inside function bodies document local code,
// not the component surface.
func newCommentIndex(program *ts.Node, source []byte) *commentIndex {
	idx := &commentIndex{source: source}

	for i := uint(0); i < program.ChildCount(); i++ {
		child := program.Child(i)
		if child.Kind() != "comment" {
			continue
		}
		raw := child.Utf8Text(source)
		idx.blocks = append(idx.blocks, commentBlock{
			parsed: jsdoc.ParseComment(raw),
			start:  child.StartByte(),
			end:    child.EndByte(),
			block:  len(raw) >= 2 && raw[1] == '*',
		})
	}

	return idx
}

// claim resolves the comment for a declaration starting at declStart: the
// nearest preceding unclaimed block separated from the declaration by
// whitespace only, with no blank line between them. A blank line breaks the
// association, which is what lets a detached leading block document the
// component instead of its first declaration. Each block is claimed at most
// once.
func (idx *commentIndex) claim(declStart uint) *jsdoc.Comment {
	for i := len(idx.blocks) - 1; i >= 0; i-- {
		b := &idx.blocks[i]
		if b.end > declStart {
			continue
		}
		if b.claimed {
			return nil
		}
		gap := idx.source[b.end:declStart]
		if !whitespaceOnly(gap) || countNewlines(gap) > 1 {
			return nil
		}
		b.claimed = true
		parsed := b.parsed
		return &parsed
	}
	return nil
}

func countNewlines(s []byte) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

// componentComment returns the comment block documenting the component
// itself: the first block carrying a @component keyword, or else the first
// unclaimed block comment in the region.
func (idx *commentIndex) componentComment() *jsdoc.Comment {
	for i := range idx.blocks {
		b := &idx.blocks[i]
		if _, ok := jsdoc.FindKeyword(b.parsed.Keywords, jsdoc.KeywordComponent); ok {
			parsed := b.parsed
			return &parsed
		}
	}
	for i := range idx.blocks {
		b := &idx.blocks[i]
		if !b.claimed && b.block {
			parsed := b.parsed
			return &parsed
		}
	}
	return nil
}

func whitespaceOnly(s []byte) bool {
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

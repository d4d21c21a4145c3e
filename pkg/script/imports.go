package script

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
)

// importsQuery matches every import statement; the binding shapes inside
// (default, named, aliased, namespace) are resolved by walking the matched
// node.
const importsQuery = `
(import_statement) @import.statement
`

// queryCache compiles the imports query once per grammar, in the same
// double-checked style the parser manager uses for its pools.
type queryCache struct {
	pm    *parser.Manager
	mutex sync.RWMutex
	cache map[parser.Language]*ts.Query
}

func newQueryCache(pm *parser.Manager) *queryCache {
	return &queryCache{
		pm:    pm,
		cache: make(map[parser.Language]*ts.Query),
	}
}

func (qc *queryCache) get(lang parser.Language) (*ts.Query, error) {
	qc.mutex.RLock()
	q, ok := qc.cache[lang]
	qc.mutex.RUnlock()
	if ok {
		return q, nil
	}

	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if q, ok = qc.cache[lang]; ok {
		return q, nil
	}

	langPtr, err := qc.pm.LanguagePointer(lang)
	if err != nil {
		return nil, err
	}

	q, qerr := ts.NewQuery(ts.NewLanguage(langPtr), importsQuery)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile imports query for %s: %s", lang, qerr.Message)
	}

	qc.cache[lang] = q
	return q, nil
}

func (qc *queryCache) close() {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()
	for _, q := range qc.cache {
		q.Close()
	}
	qc.cache = make(map[parser.Language]*ts.Query)
}

// extractImports runs the imports query over the script tree and resolves
// each matched statement into local-name/source pairs.
func (qc *queryCache) extractImports(tree *ts.Tree, lang parser.Language, source []byte) ([]Import, error) {
	query, err := qc.get(lang)
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var imports []Import
	matches := cursor.Matches(query, tree.RootNode(), source)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			imports = append(imports, importsFromStatement(&capture.Node, source)...)
		}
	}
	return imports, nil
}

// importsFromStatement resolves one import_statement node.
func importsFromStatement(stmt *ts.Node, source []byte) []Import {
	src := ""
	if s := stmt.ChildByFieldName("source"); s != nil {
		src = unquote(s.Utf8Text(source))
	}
	if src == "" {
		return nil
	}

	var imports []Import
	for i := uint(0); i < stmt.ChildCount(); i++ {
		clause := stmt.Child(i)
		if clause.Kind() != "import_clause" {
			continue
		}
		for j := uint(0); j < clause.ChildCount(); j++ {
			part := clause.Child(j)
			switch part.Kind() {
			case "identifier":
				// import Child from './Child.svelte'
				imports = append(imports, Import{
					Name:    part.Utf8Text(source),
					Source:  src,
					Default: true,
				})
			case "named_imports":
				imports = append(imports, namedImports(part, source, src)...)
			case "namespace_import":
				if name := patternName(part, source); name != "" {
					imports = append(imports, Import{Name: name, Source: src})
				}
			}
		}
	}
	return imports
}

// namedImports resolves { Foo, Bar as Baz } specifiers; the local name is
// the alias when one is present.
func namedImports(node *ts.Node, source []byte, src string) []Import {
	var imports []Import
	for i := uint(0); i < node.ChildCount(); i++ {
		spec := node.Child(i)
		if spec.Kind() != "import_specifier" {
			continue
		}
		local := ""
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			local = alias.Utf8Text(source)
		} else if name := spec.ChildByFieldName("name"); name != nil {
			local = name.Utf8Text(source)
		}
		if local != "" {
			imports = append(imports, Import{Name: local, Source: src})
		}
	}
	return imports
}

package script

import (
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/BuddyNice/sveltedoc-parser/pkg/jsdoc"
	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sfc"
)

// Analyzer runs the script branch of an extraction: AST build,
// declaration classification, dependency analysis, event detection, and
// import extraction. Safe for concurrent use across documents.
type Analyzer struct {
	pm      *parser.Manager
	queries *queryCache
	logger  *slog.Logger
}

// NewAnalyzer creates a script analyzer on top of a parser manager.
func NewAnalyzer(pm *parser.Manager, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		pm:      pm,
		queries: newQueryCache(pm),
		logger:  logger,
	}
}

// Close frees compiled queries. The parser manager is owned by the caller.
func (a *Analyzer) Close() {
	a.queries.close()
}

// Analyze classifies the script region into candidate items. Returns a
// *SyntaxError when the script cannot be parsed cleanly; in every other
// case anomalies degrade to conservative defaults instead of failing.
func (a *Analyzer) Analyze(src *sfc.Script) (*Result, error) {
	result := &Result{}
	if src == nil {
		return result, nil
	}

	source := src.Content
	base := src.Start

	tree, err := a.pm.Parse(source, src.Lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstErrorNode(root); bad != nil {
			return nil, &SyntaxError{
				Msg:  "malformed script syntax",
				Span: Span{Start: base + bad.StartByte(), End: base + bad.EndByte()},
			}
		}
	}

	imports, err := a.queries.extractImports(tree, src.Lang, source)
	if err != nil {
		return nil, err
	}
	result.Imports = imports

	w := &walker{
		source:   source,
		base:     base,
		comments: newCommentIndex(root, source),
		result:   result,
	}
	w.walkProgram(root)

	// The dependency set needs every data/computed name, so it runs after
	// the classification pass, while the tree is still alive.
	known := make(map[string]bool, len(result.Data)+len(w.computedExprs))
	for _, d := range result.Data {
		known[d.Name] = true
	}
	for _, c := range w.computedExprs {
		known[c.decl.Name] = true
	}
	for _, c := range w.computedExprs {
		c.decl.Dependencies = collectDependencies(c.expr, source, known, c.decl.Name)
		result.Computed = append(result.Computed, *c.decl)
	}

	result.Events = collectDispatchedEvents(root, source, base)
	result.ComponentComment = w.comments.componentComment()

	a.logger.Debug("analyzed script region",
		"language", src.Lang.String(),
		"data", len(result.Data),
		"computed", len(result.Computed),
		"callables", len(result.Callables),
		"events", len(result.Events))

	return result, nil
}

// pendingComputed keeps the initializer expression alive until the
// dependency pass, which must run before the tree is closed.
type pendingComputed struct {
	decl *ComputedDecl
	expr *ts.Node
}

// walker carries the state of one classification pass over the program's
// top-level statements, in source order.
type walker struct {
	source   []byte
	base     uint
	comments *commentIndex
	result   *Result

	computedExprs []pendingComputed
}

func (w *walker) walkProgram(program *ts.Node) {
	for i := uint(0); i < program.ChildCount(); i++ {
		stmt := program.Child(i)

		switch stmt.Kind() {
		case "export_statement":
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				// The comment precedes the export keyword.
				w.classifyDeclaration(decl, stmt.StartByte(), true)
			}

		case "lexical_declaration", "variable_declaration":
			w.classifyDeclaration(stmt, stmt.StartByte(), false)

		case "function_declaration", "generator_function_declaration":
			w.classifyFunction(stmt, stmt.StartByte(), false)

		case "labeled_statement":
			w.classifyReactive(stmt)
		}
	}
}

// classifyDeclaration handles let/const/var statements: each declarator
// becomes a data item unless its initializer is a function, which makes it
// a callable.
func (w *walker) classifyDeclaration(decl *ts.Node, claimStart uint, exported bool) {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration":
		w.classifyFunction(decl, claimStart, exported)
		return
	case "lexical_declaration", "variable_declaration":
	default:
		return
	}

	for i := uint(0); i < decl.ChildCount(); i++ {
		declarator := decl.Child(i)
		if declarator.Kind() != "variable_declarator" {
			continue
		}

		name := declarator.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			// Destructuring declarators carry no single documentable name.
			continue
		}

		value := declarator.ChildByFieldName("value")
		if value != nil {
			switch value.Kind() {
			case "arrow_function", "function_expression", "function":
				w.addCallable(name.Utf8Text(w.source), declarator,
					value.ChildByFieldName("parameters"), claimStart, exported)
				continue
			}
		}

		w.addData(name.Utf8Text(w.source), declarator, value, claimStart, exported)
	}
}

// addData emits one data candidate, resolving its type with the
// annotation-wins rule.
func (w *walker) addData(name string, declarator, value *ts.Node, claimStart uint, exported bool) {
	comment := w.comments.claim(claimStart)

	t, constValue, hasValue := resolveDeclaredType(
		comment, declarator.ChildByFieldName("type"), value, w.source)

	item := DataDecl{
		Name:       name,
		Span:       w.span(declarator),
		Comment:    comment,
		Visibility: visibilityOf(comment),
		Type:       t,
		Value:      constValue,
		HasValue:   hasValue,
		Exported:   exported,
	}
	w.result.Data = append(w.result.Data, item)
}

// classifyFunction emits a callable for a top-level function declaration,
// bucketed by its marker keyword (default bucket: method).
func (w *walker) classifyFunction(decl *ts.Node, claimStart uint, exported bool) {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return
	}
	w.addCallable(name.Utf8Text(w.source), decl,
		decl.ChildByFieldName("parameters"), claimStart, exported)
}

func (w *walker) addCallable(name string, decl, params *ts.Node, claimStart uint, exported bool) {
	comment := w.comments.claim(claimStart)

	bucket, marked := callableBucket(comment)
	args := extractArguments(params, w.source)
	if comment != nil {
		mergeParamKeywords(args, comment.Keywords)
	}

	w.result.Callables = append(w.result.Callables, CallableDecl{
		Name:       name,
		Span:       w.span(decl),
		Comment:    comment,
		Visibility: visibilityOf(comment),
		Bucket:     bucket,
		Marked:     marked,
		Args:       args,
		Exported:   exported,
	})
}

// classifyReactive handles `$: name = expr` reactive statements. Labeled
// statements with other labels, and reactive statements that are not a
// plain assignment to an identifier, document nothing.
func (w *walker) classifyReactive(stmt *ts.Node) {
	label := stmt.ChildByFieldName("label")
	if label == nil || label.Utf8Text(w.source) != "$" {
		return
	}

	body := stmt.ChildByFieldName("body")
	if body == nil || body.Kind() != "expression_statement" {
		return
	}

	var assign *ts.Node
	for i := uint(0); i < body.ChildCount(); i++ {
		if child := body.Child(i); child.Kind() == "assignment_expression" {
			assign = child
			break
		}
	}
	if assign == nil {
		return
	}

	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || left.Kind() != "identifier" || right == nil {
		return
	}

	comment := w.comments.claim(stmt.StartByte())
	decl := &ComputedDecl{
		Name:       left.Utf8Text(w.source),
		Span:       w.span(stmt),
		Comment:    comment,
		Visibility: visibilityOf(comment),
	}
	w.computedExprs = append(w.computedExprs, pendingComputed{decl: decl, expr: right})
}

func (w *walker) span(node *ts.Node) Span {
	return Span{Start: w.base + node.StartByte(), End: w.base + node.EndByte()}
}

func visibilityOf(comment *jsdoc.Comment) string {
	if comment == nil {
		return "public"
	}
	return jsdoc.Visibility(comment.Keywords)
}

// callableBucket reads the explicit marker keyword from a comment block.
func callableBucket(comment *jsdoc.Comment) (CallableBucket, bool) {
	if comment == nil {
		return BucketMethod, false
	}
	for _, kw := range comment.Keywords {
		switch kw.Name {
		case jsdoc.KeywordMethod:
			return BucketMethod, true
		case jsdoc.KeywordAction:
			return BucketAction, true
		case jsdoc.KeywordHelper:
			return BucketHelper, true
		case jsdoc.KeywordTransition:
			return BucketTransition, true
		}
	}
	return BucketMethod, false
}

// firstErrorNode locates the offending range for a parse failure.
func firstErrorNode(node *ts.Node) *ts.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if bad := firstErrorNode(node.Child(i)); bad != nil {
			return bad
		}
	}
	return node
}

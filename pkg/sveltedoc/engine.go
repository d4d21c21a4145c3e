package sveltedoc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/BuddyNice/sveltedoc-parser/pkg/markup"
	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
	"github.com/BuddyNice/sveltedoc-parser/pkg/script"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sfc"
)

// Engine is the extraction entry point. One engine owns its parser pools
// and query caches and is safe for concurrent Extract calls.
type Engine struct {
	pm      *parser.Manager
	scripts *script.Analyzer
	markups *markup.Analyzer
	logger  *slog.Logger
}

// New creates an engine with its own parser manager.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	pm := parser.NewManager(logger)
	return &Engine{
		pm:      pm,
		scripts: script.NewAnalyzer(pm, logger),
		markups: markup.NewAnalyzer(pm, logger),
		logger:  logger,
	}
}

// Close releases the parser pools and compiled queries.
func (e *Engine) Close() {
	e.scripts.Close()
	e.pm.Close()
}

// Extract produces the documentation object for one component document.
// On failure the returned doc is nil and err carries a structured *Error
// for parse and duplicate-name failures.
//
// The script and markup branches run concurrently; each parses with its
// own pooled parser.
func (e *Engine) Extract(source []byte, opts Options) (*ComponentDoc, error) {
	opts = opts.withDefaults()

	doc, err := sfc.Split(source, e.pm)
	if err != nil {
		return nil, fmt.Errorf("splitting document: %w", err)
	}

	var (
		wg        sync.WaitGroup
		scriptRes *script.Result
		moduleRes *script.Result
		markupRes *markup.Result
		scriptErr error
		markupErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		scriptRes, scriptErr = e.scripts.Analyze(doc.Script)
		if scriptErr == nil && doc.ModuleScript != nil {
			moduleRes, scriptErr = e.scripts.Analyze(doc.ModuleScript)
		}
	}()
	go func() {
		defer wg.Done()
		markupRes, markupErr = e.markups.Analyze(source, markup.Options{
			LegacyRefs: opts.Dialect == Dialect2,
		})
	}()
	wg.Wait()

	if scriptErr != nil {
		var syn *script.SyntaxError
		if errors.As(scriptErr, &syn) {
			return nil, newParseError(syn.Msg, syn.Span.Start, syn.Span.End)
		}
		return nil, fmt.Errorf("analyzing script: %w", scriptErr)
	}
	if markupErr != nil {
		return nil, fmt.Errorf("analyzing markup: %w", markupErr)
	}

	if moduleRes != nil {
		scriptRes = mergeScriptResults(moduleRes, scriptRes)
	}

	out, err := assemble(scriptRes, markupRes, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted component doc",
		"data", len(out.Data),
		"computed", len(out.Computed),
		"methods", len(out.Methods),
		"events", len(out.Events))
	return out, nil
}

// ExtractFile reads a component from disk and extracts it.
func (e *Engine) ExtractFile(path string, opts Options) (*ComponentDoc, error) {
	if !parser.IsSvelteFile(path) {
		return nil, fmt.Errorf("not a svelte component: %s", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return e.Extract(source, opts)
}

// mergeScriptResults prepends the module-script contributions to the
// instance-script ones. The module block is evaluated first at runtime, so
// its declarations come first in the output too.
func mergeScriptResults(module, instance *script.Result) *script.Result {
	merged := &script.Result{
		Data:      append(module.Data, instance.Data...),
		Computed:  append(module.Computed, instance.Computed...),
		Callables: append(module.Callables, instance.Callables...),
		Events:    append(module.Events, instance.Events...),
		Imports:   append(module.Imports, instance.Imports...),
	}
	merged.ComponentComment = instance.ComponentComment
	if merged.ComponentComment == nil {
		merged.ComponentComment = module.ComponentComment
	}
	return merged
}

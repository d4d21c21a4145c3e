// Package parser manages tree-sitter parsers for the grammars needed to read
// a Svelte single-file component: HTML for the document and markup region,
// JavaScript or TypeScript for the script region.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Manager manages tree-sitter parsers for multiple grammars with lazy
// initialization and thread-safe concurrent access.
//
// Memory management:
//   - Parser pools are created lazily on first use per language
//   - Manager owns the pools and must be closed via Close()
//   - Callers own Tree instances and must call tree.Close() after use
//
// Thread safety:
//   - Multiple goroutines can parse the same language simultaneously; this is
//     what lets the script and markup branches of one extraction run in
//     parallel, and independent documents run concurrently
//
// Example:
//
//	manager := parser.NewManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("let x = 1;"), parser.LanguageJavaScript)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	// pools stores parser pools per language (lazily initialized)
	pools map[Language]*parserPool

	// mutex protects the pools map and stats
	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewManager creates a new parser Manager. The returned manager must be
// closed via Close() to free the underlying C parser resources.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		pools:  make(map[Language]*parserPool),
		logger: logger,
	}
}

// Parse parses source text using the specified language grammar.
//
// Returns a Tree that MUST be closed by the caller via tree.Close().
// A tree containing syntax errors is still returned; callers that need a
// clean tree check RootNode().HasError() themselves.
func (m *Manager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	m.mutex.Lock()
	m.stats.parsesCalled++
	m.mutex.Unlock()

	pool, err := m.getOrCreatePool(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	if tree.RootNode().HasError() {
		m.logger.Debug("parse tree contains errors", "language", lang.String())
	}

	return tree, nil
}

// Close releases all parser pool resources. After Close() the Manager
// cannot be used.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for lang, pool := range m.pools {
		if pool != nil {
			pool.close()
			m.logger.Debug("closed parser pool", "language", lang.String())
		}
	}

	m.pools = make(map[Language]*parserPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking.
func (m *Manager) getOrCreatePool(lang Language) (*parserPool, error) {
	m.mutex.RLock()
	pool, exists := m.pools[lang]
	m.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if pool, exists = m.pools[lang]; exists {
		return pool, nil
	}

	langPtr, err := m.LanguagePointer(lang)
	if err != nil {
		return nil, err
	}

	poolSize := defaultPoolSize()
	pool = newParserPool(lang, langPtr, poolSize, m.logger)
	m.pools[lang] = pool

	m.logger.Debug("created parser pool",
		"language", lang.String(),
		"maxSize", poolSize)

	return pool, nil
}

// LanguagePointer returns the unsafe.Pointer to the tree-sitter grammar.
// Exposed so other packages can compile tree-sitter queries against the
// same grammar the parser uses.
func (m *Manager) LanguagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case LanguageHTML:
		return ts_html.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// Stats returns parser usage statistics.
type Stats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int
}

// GetStats returns parser usage statistics.
func (m *Manager) GetStats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	totalParsers := 0
	for _, pool := range m.pools {
		totalParsers += pool.getCreatedCount()
	}

	return Stats{
		ParsersCreated: totalParsers,
		ParsesCalled:   m.stats.parsesCalled,
	}
}

package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/BuddyNice/sveltedoc-parser/pkg/docset"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
	"github.com/BuddyNice/sveltedoc-parser/pkg/util"
)

// Scanner extracts documentation for every component under a project
// root. One scanner owns its engine, file cache, and result cache and is
// reusable across scans of the same or different roots.
type Scanner struct {
	engine *sveltedoc.Engine
	files  *util.FileCache
	cache  *resultCache
	logger *slog.Logger
}

// NewScanner creates a scanner around an extraction engine.
func NewScanner(engine *sveltedoc.Engine, maxCachedResults int, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		engine: engine,
		files:  util.NewFileCache(util.DefaultFileCacheConfig(), logger),
		cache:  newResultCache(maxCachedResults, logger),
		logger: logger,
	}
}

// Close releases the file cache mappings. The engine is owned by the
// caller and stays open.
func (s *Scanner) Close() error {
	return s.files.Close()
}

// Scan discovers component files under rootPath, extracts them in
// parallel, and returns the resulting documentation set. Entries are
// ordered by relative path, so repeated scans of an unchanged tree
// produce identical sets.
//
// Per-file extraction failures do not abort the scan; they are reported
// in the stats.
func (s *Scanner) Scan(rootPath string, options Options, progress ProgressCallback) (*docset.Set, *Stats, error) {
	startTime := time.Now()
	stats := &Stats{
		StartTime: startTime,
		Errors:    make([]FileError, 0),
	}

	s.logger.Info("starting project scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := s.discoverFiles(rootPath, options)
	if err != nil {
		return nil, nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.logger.Info("file discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	set := &docset.Set{
		Name:        filepath.Base(rootPath),
		Root:        rootPath,
		GeneratedAt: startTime,
		Components:  make([]docset.Entry, 0, len(files)),
	}

	if len(files) == 0 {
		s.logger.Warn("no component files found")
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return set, stats, nil
	}

	extractStart := time.Now()
	if err := s.extractParallel(rootPath, files, options.withDefaults(), set, stats, progress); err != nil {
		return nil, nil, fmt.Errorf("extraction failed: %w", err)
	}
	stats.ExtractTimeMs = time.Since(extractStart).Milliseconds()

	// Worker completion order is nondeterministic; restore path order.
	sort.Slice(set.Components, func(i, j int) bool {
		return set.Components[i].Path < set.Components[j].Path
	})
	disambiguateNames(set.Components)

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()
	if stats.FilesExtracted > 0 && stats.ExtractTimeMs > 0 {
		stats.FilesPerSecond = float64(stats.FilesExtracted) / (float64(stats.ExtractTimeMs) / 1000.0)
	}
	if stats.FilesDiscovered > 0 {
		stats.SuccessRate = float64(stats.FilesExtracted) / float64(stats.FilesDiscovered)
	}

	s.logger.Info("project scan complete",
		"files_extracted", stats.FilesExtracted,
		"files_failed", stats.FilesFailed,
		"cache_hits", stats.CacheHits,
		"duration_ms", stats.TotalTimeMs)

	return set, stats, nil
}

// ExtractOne extracts a single component file, bypassing discovery but
// using the caches. Used by the watcher for incremental updates.
func (s *Scanner) ExtractOne(rootPath, path string, opts sveltedoc.Options) (*docset.Entry, error) {
	s.cache.invalidate(path)
	s.files.Invalidate(path)

	content, err := s.files.Get(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := s.engine.Extract(content, opts)
	if err != nil {
		return nil, err
	}
	return s.entryFor(rootPath, path, doc), nil
}

// discoverFiles walks the tree and returns paths matching the include
// patterns and none of the exclude patterns.
func (s *Scanner) discoverFiles(rootPath string, options Options) ([]string, error) {
	options = options.withDefaults()

	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		for _, pattern := range options.Include {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// extractParallel fans the files out over a worker pool and collects
// results into the set. The collector starts before submission so a full
// jobs queue can always drain.
func (s *Scanner) extractParallel(
	rootPath string,
	files []string,
	options Options,
	set *docset.Set,
	stats *Stats,
	progress ProgressCallback,
) error {
	totalFiles := len(files)

	numWorkers := util.GetOptimalPoolSize()
	stats.WorkerCount = numWorkers

	pool := newWorkerPool(numWorkers, s, options.Extract, s.logger)
	pool.start()
	defer pool.stop()

	var done, failed atomic.Int32
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for done.Load()+failed.Load() < int32(totalFiles) {
			select {
			case result, ok := <-pool.results:
				if !ok {
					return
				}
				set.Components = append(set.Components, *s.entryFor(rootPath, result.path, result.doc))
				stats.FilesExtracted++
				if result.fromCache {
					stats.CacheHits++
				}
				count := done.Add(1)
				if progress != nil {
					progress(int(count+failed.Load()), totalFiles, result.path)
				}

			case fileErr, ok := <-pool.errors:
				if !ok {
					return
				}
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				s.logger.Warn("component extraction failed",
					"file", fileErr.Path,
					"error", fileErr.Err)
				count := failed.Add(1)
				if progress != nil {
					progress(int(count+done.Load()), totalFiles, fileErr.Path)
				}
			}
		}
	}()

	for i, file := range files {
		if err := pool.submit(fileJob{path: file, jobID: i}); err != nil {
			return fmt.Errorf("failed to submit job for %s: %w", file, err)
		}
	}
	pool.finishSubmitting()

	<-finished
	return nil
}

func (s *Scanner) entryFor(rootPath, path string, doc *sveltedoc.ComponentDoc) *docset.Entry {
	relPath, err := filepath.Rel(rootPath, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	name := doc.Name
	if name == "" {
		name = ComponentName(path)
	}
	return &docset.Entry{Name: name, Path: relPath, Doc: doc}
}

// disambiguateNames rewrites colliding component names to their relative
// path so a saved set always validates. Entries must be path-sorted.
func disambiguateNames(entries []docset.Entry) {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Name]++
	}
	for i := range entries {
		if counts[entries[i].Name] > 1 {
			entries[i].Name = strings.TrimSuffix(entries[i].Path, filepath.Ext(entries[i].Path))
		}
	}
}

// ComponentName derives a component name from its file path.
func ComponentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// withDefaults fills zero-valued options.
func (o Options) withDefaults() Options {
	if len(o.Include) == 0 {
		o.Include = DefaultOptions().Include
	}
	if o.MaxCachedResults == 0 {
		o.MaxCachedResults = 1000
	}
	return o
}

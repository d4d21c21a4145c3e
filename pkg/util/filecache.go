// FileCache provides read access to component source files using
// memory-mapped files.
//
// Batch scans re-read the same files across extract, re-extract on watch
// events, and docset rebuilds; mapping them once keeps those reads O(1) and
// lets the OS manage residency. If mmap fails (virtual filesystems, empty
// files), the cache falls back to os.ReadFile transparently.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCacheConfig bounds the cache.
type FileCacheConfig struct {
	// MaxFiles limits the number of simultaneously mapped files
	// (0 = unlimited). Prevents file descriptor exhaustion on huge trees.
	MaxFiles int
}

// DefaultFileCacheConfig returns limits suitable for typical component
// libraries (a few thousand .svelte files).
func DefaultFileCacheConfig() FileCacheConfig {
	return FileCacheConfig{MaxFiles: 10000}
}

// FileCacheStats reports cache behavior for observability.
type FileCacheStats struct {
	Hits         int64
	Misses       int64
	MmapFailures int64
}

type mappedFile struct {
	data mmap.MMap
	file *os.File
	// raw holds the fallback copy when mmap failed
	raw []byte
}

func (mf *mappedFile) bytes() []byte {
	if mf.data != nil {
		return mf.data
	}
	return mf.raw
}

// FileCache caches file contents behind memory mappings.
//
// Thread-safe: reads don't block each other, only loads and Close block.
type FileCache struct {
	config FileCacheConfig
	logger *slog.Logger

	mutex sync.RWMutex
	files map[string]*mappedFile
	stats FileCacheStats
}

// NewFileCache creates a file cache with the given limits.
func NewFileCache(config FileCacheConfig, logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		config: config,
		logger: logger,
		files:  make(map[string]*mappedFile),
	}
}

// Get returns the contents of filePath, mapping it on first access.
//
// The returned slice aliases the mapping and must not be modified or
// retained past Close().
func (fc *FileCache) Get(filePath string) ([]byte, error) {
	fc.mutex.RLock()
	mf, ok := fc.files[filePath]
	fc.mutex.RUnlock()

	if ok {
		fc.mutex.Lock()
		fc.stats.Hits++
		fc.mutex.Unlock()
		return mf.bytes(), nil
	}

	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	// Double-check after acquiring the write lock.
	if mf, ok = fc.files[filePath]; ok {
		fc.stats.Hits++
		return mf.bytes(), nil
	}

	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return nil, fmt.Errorf("file cache limit reached (%d files)", fc.config.MaxFiles)
	}

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}

	fc.files[filePath] = mf
	fc.stats.Misses++
	return mf.bytes(), nil
}

// load maps a file, falling back to a plain read when mapping fails.
func (fc *FileCache) load(filePath string) (*mappedFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	// Zero-length files cannot be mapped.
	if info.Size() > 0 {
		data, merr := mmap.Map(f, mmap.RDONLY, 0)
		if merr == nil {
			return &mappedFile{data: data, file: f}, nil
		}
		fc.stats.MmapFailures++
		fc.logger.Debug("mmap failed, falling back to read",
			"file", filePath,
			"error", merr)
	}

	f.Close()
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return &mappedFile{raw: raw}, nil
}

// Invalidate drops a single file from the cache, unmapping it. Used by the
// watcher when a file changes on disk.
func (fc *FileCache) Invalidate(filePath string) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if mf, ok := fc.files[filePath]; ok {
		fc.unmap(filePath, mf)
		delete(fc.files, filePath)
	}
}

// Size returns the number of currently cached files.
func (fc *FileCache) Size() int {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	return len(fc.files)
}

// Stats returns a snapshot of cache metrics.
func (fc *FileCache) Stats() FileCacheStats {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	return fc.stats
}

// Close unmaps every cached file. The cache is unusable afterwards.
func (fc *FileCache) Close() error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	for path, mf := range fc.files {
		fc.unmap(path, mf)
	}
	fc.files = make(map[string]*mappedFile)
	return nil
}

func (fc *FileCache) unmap(path string, mf *mappedFile) {
	if mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "file", path, "error", err)
		}
	}
	if mf.file != nil {
		mf.file.Close()
	}
}

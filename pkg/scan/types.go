// Package scan discovers Svelte components under a project root and
// extracts their documentation in parallel.
package scan

import (
	"time"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

// Options configures a project scan.
type Options struct {
	// Include patterns (glob syntax). If empty, defaults to **/*.svelte.
	Include []string

	// Exclude patterns (glob syntax, e.g. "node_modules/**").
	Exclude []string

	// Extract options applied to every component.
	Extract sveltedoc.Options

	// MaxCachedResults bounds the extraction result cache.
	// Default: 1000 entries.
	MaxCachedResults int
}

// DefaultOptions returns recommended scan options.
func DefaultOptions() Options {
	return Options{
		Include: []string{
			"**/*.svelte",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			".svelte-kit/**",
			"coverage/**",
		},
		MaxCachedResults: 1000,
	}
}

// Stats contains statistics about one project scan.
type Stats struct {
	// FilesDiscovered is the total number of component files found.
	FilesDiscovered int

	// FilesExtracted is the number of files successfully extracted.
	FilesExtracted int

	// FilesFailed is the number of files that failed extraction.
	FilesFailed int

	// CacheHits is the number of files served from the result cache.
	CacheHits int

	// TotalTimeMs is the total scan duration in milliseconds.
	TotalTimeMs int64

	// DiscoveryTimeMs is time spent discovering files.
	DiscoveryTimeMs int64

	// ExtractTimeMs is time spent extracting documentation.
	ExtractTimeMs int64

	// FilesPerSecond is the throughput rate.
	FilesPerSecond float64

	// SuccessRate is the fraction of discovered files extracted (0.0 - 1.0).
	SuccessRate float64

	// WorkerCount is the number of workers used.
	WorkerCount int

	// Errors contains per-file failures.
	Errors []FileError

	StartTime time.Time
	EndTime   time.Time
}

// FileError is one file's extraction failure.
type FileError struct {
	Path string
	Err  error
}

// ProgressCallback is called as files finish extraction.
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures incremental re-extraction on file changes.
type WatchOptions struct {
	// DebounceMs groups rapid changes to one file into a single
	// re-extraction. Default: 200ms.
	DebounceMs int
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{DebounceMs: 200}
}

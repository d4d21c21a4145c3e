package scan

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
	"github.com/BuddyNice/sveltedoc-parser/pkg/util"
)

// fileJob is one component file queued for extraction.
type fileJob struct {
	path  string
	jobID int
}

// fileResult is one file's extraction outcome.
type fileResult struct {
	path      string
	doc       *sveltedoc.ComponentDoc
	fromCache bool
	jobID     int
}

// workerPool fans component extraction out over goroutines. Worker count
// matches the parser pool size so no worker ever blocks waiting for a
// parser.
type workerPool struct {
	numWorkers int
	jobs       chan fileJob
	results    chan fileResult
	errors     chan FileError
	wg         sync.WaitGroup

	scanner *Scanner
	opts    sveltedoc.Options
	logger  *slog.Logger

	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool
}

func newWorkerPool(numWorkers int, scanner *Scanner, opts sveltedoc.Options, logger *slog.Logger) *workerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	return &workerPool{
		numWorkers: numWorkers,
		jobs:       make(chan fileJob, numWorkers*2),
		results:    make(chan fileResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		scanner:    scanner,
		opts:       opts,
		logger:     logger,
	}
}

func (wp *workerPool) start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	wp.logger.Debug("starting scan worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *workerPool) worker(id int) {
	defer wp.wg.Done()
	for job := range wp.jobs {
		wp.processJob(id, job)
	}
}

func (wp *workerPool) processJob(workerID int, job fileJob) {
	info, err := os.Stat(job.path)
	if err != nil {
		wp.errors <- FileError{Path: job.path, Err: fmt.Errorf("stat failed: %w", err)}
		return
	}

	if doc, ok := wp.scanner.cache.get(job.path, info); ok {
		wp.results <- fileResult{path: job.path, doc: doc, fromCache: true, jobID: job.jobID}
		return
	}

	content, err := wp.scanner.files.Get(job.path)
	if err != nil {
		wp.errors <- FileError{Path: job.path, Err: fmt.Errorf("read failed: %w", err)}
		return
	}

	doc, err := wp.scanner.engine.Extract(content, wp.opts)
	if err != nil {
		wp.logger.Debug("extraction failed", "worker_id", workerID, "file", job.path, "error", err)
		wp.errors <- FileError{Path: job.path, Err: err}
		return
	}

	wp.scanner.cache.add(job.path, info, doc)
	wp.results <- fileResult{path: job.path, doc: doc, jobID: job.jobID}
}

// submit enqueues a job, blocking when the queue is full.
func (wp *workerPool) submit(job fileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	wp.jobs <- job
	return nil
}

// finishSubmitting closes the jobs channel so workers drain and exit.
// Idempotent.
func (wp *workerPool) finishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

func (wp *workerPool) stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	wp.finishSubmitting()
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
}

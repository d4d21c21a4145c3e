package scan

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

// cachedDoc is one extraction result plus the file identity it was
// computed from. A changed size or mtime invalidates the entry.
type cachedDoc struct {
	size    int64
	modTime int64
	doc     *sveltedoc.ComponentDoc
}

// resultCache keeps recent extraction results so rescans and watch-driven
// re-extractions skip unchanged files.
type resultCache struct {
	entries *lru.Cache[string, *cachedDoc]
	logger  *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

func newResultCache(maxEntries int, logger *slog.Logger) *resultCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	entries, err := lru.New[string, *cachedDoc](maxEntries)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(fmt.Sprintf("failed to create result cache: %v", err))
	}
	return &resultCache{entries: entries, logger: logger}
}

// get returns the cached doc for path when the file on disk still matches
// the cached identity.
func (rc *resultCache) get(path string, info os.FileInfo) (*sveltedoc.ComponentDoc, bool) {
	entry, ok := rc.entries.Get(path)
	if !ok || entry.size != info.Size() || entry.modTime != info.ModTime().UnixNano() {
		rc.misses.Add(1)
		return nil, false
	}
	rc.hits.Add(1)
	return entry.doc, true
}

func (rc *resultCache) add(path string, info os.FileInfo, doc *sveltedoc.ComponentDoc) {
	rc.entries.Add(path, &cachedDoc{
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
		doc:     doc,
	})
}

func (rc *resultCache) invalidate(path string) {
	rc.entries.Remove(path)
}

func (rc *resultCache) stats() (hits, misses int64) {
	return rc.hits.Load(), rc.misses.Load()
}

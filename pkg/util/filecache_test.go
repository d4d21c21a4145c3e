package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeComponent(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCache_BasicOperations(t *testing.T) {
	dir := t.TempDir()
	path := writeComponent(t, dir, "Counter.svelte", "<script>let count = 0;</script>")

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	assert.Equal(t, 0, cache.Size())

	content, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "<script>let count = 0;</script>", string(content))
	assert.Equal(t, 1, cache.Size())

	// Second Get serves the mapping.
	again, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, content, again)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestFileCache_EmptyFile(t *testing.T) {
	path := writeComponent(t, t.TempDir(), "Empty.svelte", "")

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	content, err := cache.Get(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestFileCache_MissingFile(t *testing.T) {
	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	_, err := cache.Get(filepath.Join(t.TempDir(), "absent.svelte"))
	require.Error(t, err)
}

func TestFileCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeComponent(t, dir, "App.svelte", "<p>one</p>")

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	content, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>", string(content))

	require.NoError(t, os.WriteFile(path, []byte("<p>two and longer</p>"), 0o644))
	cache.Invalidate(path)
	assert.Equal(t, 0, cache.Size())

	content, err = cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>two and longer</p>", string(content))
}

func TestFileCache_MaxFilesLimit(t *testing.T) {
	dir := t.TempDir()
	a := writeComponent(t, dir, "A.svelte", "<p>a</p>")
	b := writeComponent(t, dir, "B.svelte", "<p>b</p>")

	cache := NewFileCache(FileCacheConfig{MaxFiles: 1}, nil)
	defer cache.Close()

	_, err := cache.Get(a)
	require.NoError(t, err)

	_, err = cache.Get(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit reached")

	// A cached file stays retrievable at the limit.
	_, err = cache.Get(a)
	require.NoError(t, err)
}

func TestFileCache_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = writeComponent(t, dir, fmt.Sprintf("C%d.svelte", i), fmt.Sprintf("<p>%d</p>", i))
	}

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				path := paths[(g+i)%len(paths)]
				content, err := cache.Get(path)
				assert.NoError(t, err)
				assert.NotEmpty(t, content)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, len(paths), cache.Size())
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)

	assert.Equal(t, 7, GetOptimalPoolSizeWithOverride(7))
	assert.Equal(t, size, GetOptimalPoolSizeWithOverride(0))
}

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func scanFixture(t *testing.T) *Scanner {
	t.Helper()
	engine := sveltedoc.New(nil)
	t.Cleanup(func() { engine.Close() })

	s := NewScanner(engine, 100, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

const counterSource = `<script>
export let count = 0;
$: doubled = count * 2;
</script>

<button on:click>{doubled}</button>
`

func TestScan_Project(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Counter.svelte":            counterSource,
		"src/lib/Badge.svelte":          `<span><slot></slot></span>`,
		"src/readme.md":                 "not a component",
		"node_modules/dep/Evil.svelte":  `<script>let x = 1;</script>`,
		"dist/bundled/Counter.svelte":   counterSource,
		".svelte-kit/generated.svelte":  `<p></p>`,
	})

	s := scanFixture(t)
	set, stats, err := s.Scan(root, DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(root), set.Name)
	assert.Equal(t, root, set.Root)
	require.Len(t, set.Components, 2)

	// Entries come back sorted by relative path.
	assert.Equal(t, "src/Counter.svelte", set.Components[0].Path)
	assert.Equal(t, "Counter", set.Components[0].Name)
	assert.Equal(t, "src/lib/Badge.svelte", set.Components[1].Path)
	assert.Equal(t, "Badge", set.Components[1].Name)

	counter := set.Components[0].Doc
	require.Len(t, counter.Data, 1)
	assert.Equal(t, "count", counter.Data[0].Name)
	require.Len(t, counter.Computed, 1)

	assert.Equal(t, 2, stats.FilesDiscovered)
	assert.Equal(t, 2, stats.FilesExtracted)
	assert.Zero(t, stats.FilesFailed)
	assert.Empty(t, set.Validate())
}

func TestScan_SecondRunHitsCache(t *testing.T) {
	root := writeProject(t, map[string]string{
		"A.svelte": counterSource,
		"B.svelte": `<p><slot></slot></p>`,
	})

	s := scanFixture(t)

	_, first, err := s.Scan(root, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Zero(t, first.CacheHits)

	_, second, err := s.Scan(root, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, 2, second.FilesExtracted)
}

func TestScan_FailuresReportedNotFatal(t *testing.T) {
	root := writeProject(t, map[string]string{
		"Good.svelte":   counterSource,
		"Broken.svelte": `<script>let x = ;</script>`,
	})

	s := scanFixture(t)
	set, stats, err := s.Scan(root, DefaultOptions(), nil)
	require.NoError(t, err)

	require.Len(t, set.Components, 1)
	assert.Equal(t, "Good", set.Components[0].Name)
	assert.Equal(t, 1, stats.FilesFailed)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0].Path, "Broken.svelte")
}

func TestScan_DisambiguatesCollidingNames(t *testing.T) {
	root := writeProject(t, map[string]string{
		"forms/Input.svelte":  `<input/>`,
		"tables/Input.svelte": `<input/>`,
	})

	s := scanFixture(t)
	set, _, err := s.Scan(root, DefaultOptions(), nil)
	require.NoError(t, err)

	require.Len(t, set.Components, 2)
	assert.Equal(t, "forms/Input", set.Components[0].Name)
	assert.Equal(t, "tables/Input", set.Components[1].Name)
	assert.Empty(t, set.Validate())
}

func TestScan_CustomPatterns(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Keep.svelte":     `<p></p>`,
		"src/skip/No.svelte":  `<p></p>`,
		"other/Away.svelte":   `<p></p>`,
	})

	opts := DefaultOptions()
	opts.Include = []string{"src/**/*.svelte"}
	opts.Exclude = append(opts.Exclude, "src/skip/**")

	s := scanFixture(t)
	set, _, err := s.Scan(root, opts, nil)
	require.NoError(t, err)

	require.Len(t, set.Components, 1)
	assert.Equal(t, "src/Keep.svelte", set.Components[0].Path)
}

func TestScan_InvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.Include = []string{"[broken"}

	s := scanFixture(t)
	_, _, err := s.Scan(t.TempDir(), opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestScan_EmptyTree(t *testing.T) {
	s := scanFixture(t)
	set, stats, err := s.Scan(t.TempDir(), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, set.Components)
	assert.Zero(t, stats.FilesDiscovered)
}

func TestScan_ProgressCallback(t *testing.T) {
	root := writeProject(t, map[string]string{
		"A.svelte": `<p></p>`,
		"B.svelte": `<p></p>`,
		"C.svelte": `<p></p>`,
	})

	var calls int
	s := scanFixture(t)
	_, _, err := s.Scan(root, DefaultOptions(), func(done, total int, path string) {
		calls++
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExtractOne(t *testing.T) {
	root := writeProject(t, map[string]string{"Counter.svelte": counterSource})

	s := scanFixture(t)
	entry, err := s.ExtractOne(root, filepath.Join(root, "Counter.svelte"), sveltedoc.Options{})
	require.NoError(t, err)

	assert.Equal(t, "Counter", entry.Name)
	assert.Equal(t, "Counter.svelte", entry.Path)
	require.Len(t, entry.Doc.Data, 1)
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "Button", ComponentName("/a/b/Button.svelte"))
	assert.Equal(t, "Card", ComponentName("Card.svelte"))
}

package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_EmptyPathDisabled(t *testing.T) {
	l, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestLogger_WritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calls.jsonl")

	l, err := NewLogger(path)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Write(LogEntry{
		Ts:            "2026-08-30T12:00:00Z",
		Tool:          "list_components",
		Params:        map[string]any{"keyword": "modal"},
		DurationMs:    4,
		ResponseBytes: 128,
		TokensEst:     32,
	}))
	require.NoError(t, l.Write(LogEntry{
		Ts:   "2026-08-30T12:00:01Z",
		Tool: "get_component_doc",
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "list_components", entries[0].Tool)
	assert.Equal(t, "modal", entries[0].Params["keyword"])
	assert.Equal(t, int64(4), entries[0].DurationMs)
	assert.Equal(t, "get_component_doc", entries[1].Tool)
}

func TestSanitizeParams(t *testing.T) {
	long := strings.Repeat("x", 100)
	out := SanitizeParams(map[string]any{
		"name":    "Button",
		"source":  long,
		"version": 3,
	})

	assert.Equal(t, "Button", out["name"])
	assert.Equal(t, 3, out["version"])
	assert.NotContains(t, out, "source")
	assert.Equal(t, 100, out["source_len"])
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))

	result := mcp.NewToolResultText("hello")
	assert.Greater(t, ResponseBytes(result), 0)
}

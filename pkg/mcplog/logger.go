// Package mcplog records the documentation server's MCP tool calls as
// JSONL, one line per call. The serve command multiplexes the protocol
// over stdout, so call telemetry goes to a side file instead of a stream
// handler.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// LogEntry is one recorded tool call: which docset query or extraction
// tool ran, with what parameters, and what it cost.
type LogEntry struct {
	Ts         string         `json:"ts"`
	Tool       string         `json:"tool"`
	Params     map[string]any `json:"params"`
	DurationMs int64          `json:"duration_ms"`

	// ResponseBytes and TokensEst size the payload handed back to the
	// agent; a component doc for a large file can dominate its context.
	ResponseBytes int `json:"response_bytes"`
	TokensEst     int `json:"tokens_est"`

	Error *string `json:"error"`
}

// Logger appends entries to a single append-only file. Safe for
// concurrent use; tool handlers run in parallel under the MCP server.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewLogger opens path for appending, creating parent directories as
// needed. An empty path returns nil, nil; a nil Logger means call
// logging is off, which is the default for serve.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{file: file, enc: json.NewEncoder(file)}, nil
}

// Write appends one entry. Callers ignore the returned error so that a
// full disk never turns a successful tool call into a failed one.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// maxLoggedString bounds string parameter values in the log. Component
// names, paths, and search terms fit; an extract_component source
// payload is a whole .svelte file and must not land in the log.
const maxLoggedString = 64

// SanitizeParams copies args for logging, replacing each over-length
// string value with a "{key}_len" byte count.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > maxLoggedString {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes returns the serialized length of a CallToolResult's
// content, 0 for a nil result or on marshal error.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }

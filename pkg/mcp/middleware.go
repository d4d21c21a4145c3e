package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/BuddyNice/sveltedoc-parser/pkg/mcplog"
)

// Rough chars-per-token ratio used to estimate how much agent context a
// returned component doc consumes.
const bytesPerToken = 4

// loggingMiddleware wraps every tool handler so each docset query and
// each on-demand extraction lands in the call log. Installed only when
// the server was built with a non-nil logger.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			respBytes := mcplog.ResponseBytes(result)
			var errStr *string
			if err != nil {
				msg := err.Error()
				errStr = &msg
			}

			// Log failures are deliberately swallowed; a broken log file
			// must not fail the tool call it describes.
			_ = s.logger.Write(mcplog.LogEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    time.Since(start).Milliseconds(),
				ResponseBytes: respBytes,
				TokensEst:     respBytes / bytesPerToken,
				Error:         errStr,
			})

			return result, err
		}
	}
}

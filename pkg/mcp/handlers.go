package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

// componentSummary is the list/search row shape: enough to pick a
// component without shipping its full doc.
type componentSummary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	MatchReason string `json:"match_reason,omitempty"`
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword := req.GetString("keyword", "")

	entries := s.query.ListComponents(keyword)
	summaries := make([]componentSummary, 0, len(entries))
	for _, e := range entries {
		row := componentSummary{Name: e.Name, Path: e.Path}
		if e.Doc != nil {
			row.Description = e.Doc.Description
		}
		summaries = append(summaries, row)
	}

	return jsonResult(map[string]any{
		"total":      len(summaries),
		"components": summaries,
	})
}

func (s *Server) handleGetComponentDoc(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := s.query.GetComponent(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component %q not found", name)), nil
	}
	return jsonResult(entry)
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := s.query.SearchComponents(query)
	summaries := make([]componentSummary, 0, len(results))
	for _, r := range results {
		row := componentSummary{
			Name:        r.Entry.Name,
			Path:        r.Entry.Path,
			MatchReason: r.MatchReason,
		}
		if r.Entry.Doc != nil {
			row.Description = r.Entry.Doc.Description
		}
		summaries = append(summaries, row)
	}

	return jsonResult(map[string]any{
		"total":   len(summaries),
		"results": summaries,
	})
}

func (s *Server) handleExtractComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := sveltedoc.Options{}
	switch version := req.GetInt("version", 3); version {
	case 2:
		opts.Dialect = sveltedoc.Dialect2
	case 3:
		opts.Dialect = sveltedoc.Dialect3
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported version %d (expected 2 or 3)", version)), nil
	}

	doc, err := s.engine.Extract([]byte(source), opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

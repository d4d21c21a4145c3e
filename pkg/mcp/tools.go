package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List documented components, optionally filtered by a keyword matched against names and descriptions"),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive filter; omit to list everything"),
		),
	)
}

func getComponentDocTool() mcp.Tool {
	return mcp.NewTool("get_component_doc",
		mcp.WithDescription("Full documentation for one component: data, computed, events, slots, refs, and callable members"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component name or docset-relative file path"),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search component names, descriptions, data properties, events, methods, and slots"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search term"),
		),
	)
}

func extractComponentTool() mcp.Tool {
	return mcp.NewTool("extract_component",
		mcp.WithDescription("Extract documentation from raw Svelte component source"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Complete .svelte file contents"),
		),
		mcp.WithNumber("version",
			mcp.Description("Svelte dialect, 2 or 3 (default 3)"),
		),
	)
}

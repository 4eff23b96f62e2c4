package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexTool returns the tool definition for index
func indexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index",
		Description: "Index a C/C++ source file into the cross-reference databases",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the source file to index",
				},
				"args": map[string]interface{}{
					"type":        "array",
					"description": "Compiler arguments for the translation unit",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, reparse from source even when a cached AST exists",
					"default":     false,
				},
			},
			Required: []string{"file"},
		},
	}
}

// reindexTool returns the tool definition for reindex
func reindexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reindex",
		Description: "Reindex a previously indexed file with its stored compile arguments",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the file to reindex",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, reparse from source even when a cached AST exists",
					"default":     false,
				},
			},
			Required: []string{"file"},
		},
	}
}

// statusTool returns the tool definition for status
func statusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "status",
		Description: "Report the indexer's data directory and the files currently being indexed",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JamieCunliffe/rtags/internal/indexer"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeRejected      = -32001 // Request rejected by the coordinator
)

// handleIndex handles the index tool invocation
func (s *Server) handleIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	file, ok := args["file"].(string)
	if !ok || file == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file parameter is required", map[string]interface{}{
			"param":  "file",
			"reason": "missing or empty",
		})
	}

	compileArgs := getStringSlice(args, "args")
	mode := indexer.Normal
	if force, _ := args["force"].(bool); force {
		mode = indexer.Force
	}

	id := s.indexer.Index(file, compileArgs, mode)
	if id < 0 {
		return nil, newMCPError(ErrorCodeRejected, "file is already being indexed", map[string]interface{}{
			"file": file,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"job_id": id,
		"file":   file,
	})), nil
}

// handleReindex handles the reindex tool invocation
func (s *Server) handleReindex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	file, ok := args["file"].(string)
	if !ok || file == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file parameter is required", map[string]interface{}{
			"param":  "file",
			"reason": "missing or empty",
		})
	}

	mode := indexer.Normal
	if force, _ := args["force"].(bool); force {
		mode = indexer.Force
	}

	id := s.indexer.Reindex(file, mode)
	if id < 0 {
		return nil, newMCPError(ErrorCodeRejected, "no stored compile arguments for file", map[string]interface{}{
			"file": file,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"job_id": id,
		"file":   file,
	})), nil
}

// handleStatus handles the status tool invocation
func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := s.indexer.Active()
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"root":         s.indexer.Root(),
		"active_count": len(active),
		"active":       active,
	})), nil
}

// MCPError is a structured protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringSlice extracts a string-array parameter
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

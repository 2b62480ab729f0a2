package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerStatsInput defines the input schema for the server_stats tool.
type ServerStatsInput struct{}

// NewServerStatsHandler creates the server_stats tool handler, reporting
// uptime and per-operation timing aggregates.
func NewServerStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[ServerStatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ServerStatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		if deps.Metrics == nil {
			return ErrorResult("Metrics collection is disabled", ""), nil, nil
		}
		body, _ := json.MarshalIndent(deps.Metrics.Snapshot(), "", "  ")
		return TextResult(string(body)), nil, nil
	}
}

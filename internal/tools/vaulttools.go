package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcptools/mcptools-go/internal/metrics"
	"github.com/mcptools/mcptools-go/internal/vault"
)

// CreateNoteInput defines the input schema for the create_note tool.
type CreateNoteInput struct {
	Path        string         `json:"path" jsonschema:"required,Vault-relative note path like projects/idea.md"`
	Content     string         `json:"content" jsonschema:"required,Markdown body"`
	Frontmatter map[string]any `json:"frontmatter,omitempty" jsonschema:"YAML frontmatter fields"`
}

// NewCreateNoteHandler creates the create_note tool handler.
func NewCreateNoteHandler(deps *Dependencies) mcp.ToolHandlerFor[CreateNoteInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateNoteInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Path == "" {
			return ErrorResult("Note path is required", ""), nil, nil
		}

		start := time.Now()
		err := deps.Vault.Write(input.Path, input.Content, input.Frontmatter)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpVaultWrite, time.Since(start), err != nil)
		}
		if err != nil {
			if errors.Is(err, vault.ErrOutsideVault) {
				return ErrorResult(fmt.Sprintf("Invalid path: %v", err), "Paths must stay inside the vault"), nil, nil
			}
			return ErrorResult(fmt.Sprintf("Create note failed: %v", err), ""), nil, nil
		}

		deps.Logger.Info("note created", "path", input.Path)
		return TextResult(fmt.Sprintf("Created note %s", input.Path)), nil, nil
	}
}

// ReadNoteInput defines the input schema for the read_note tool.
type ReadNoteInput struct {
	Path string `json:"path" jsonschema:"required,Vault-relative note path"`
}

// NewReadNoteHandler creates the read_note tool handler. Returns the parsed
// note as JSON: frontmatter, content, and wiki-link targets.
func NewReadNoteHandler(deps *Dependencies) mcp.ToolHandlerFor[ReadNoteInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ReadNoteInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Path == "" {
			return ErrorResult("Note path is required", ""), nil, nil
		}

		start := time.Now()
		note, err := deps.Vault.Read(input.Path)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpVaultRead, time.Since(start), err != nil)
		}
		if err != nil {
			if errors.Is(err, vault.ErrNoteNotFound) {
				return ErrorResult(fmt.Sprintf("Note not found: %s", input.Path), "Use list_notes to see available notes"), nil, nil
			}
			return ErrorResult(fmt.Sprintf("Read note failed: %v", err), ""), nil, nil
		}

		body, _ := json.MarshalIndent(note, "", "  ")
		return TextResult(string(body)), nil, nil
	}
}

// ListNotesInput defines the input schema for the list_notes tool.
type ListNotesInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Glob pattern, default **/*.md"`
}

// NewListNotesHandler creates the list_notes tool handler.
func NewListNotesHandler(deps *Dependencies) mcp.ToolHandlerFor[ListNotesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListNotesInput) (
		*mcp.CallToolResult, any, error,
	) {
		paths, err := deps.Vault.List(input.Pattern)
		if err != nil {
			return ErrorResult(fmt.Sprintf("List notes failed: %v", err), "Check the glob pattern syntax"), nil, nil
		}
		if len(paths) == 0 {
			return TextResult("No notes found"), nil, nil
		}
		return TextResult(FormatResults(paths)), nil, nil
	}
}

// SearchNotesInput defines the input schema for the search_notes tool.
type SearchNotesInput struct {
	Query string `json:"query" jsonschema:"required,Case-insensitive text to find"`
}

// searchHit is one search result in the JSON response.
type searchHit struct {
	Path  string   `json:"path"`
	Links []string `json:"links,omitempty"`
}

// NewSearchNotesHandler creates the search_notes tool handler.
func NewSearchNotesHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchNotesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchNotesInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Query == "" {
			return ErrorResult("Query cannot be empty", ""), nil, nil
		}

		start := time.Now()
		notes, err := deps.Vault.Search(input.Query)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpVaultRead, time.Since(start), err != nil)
		}
		if err != nil {
			return ErrorResult(fmt.Sprintf("Search failed: %v", err), ""), nil, nil
		}

		hits := make([]searchHit, 0, len(notes))
		for _, n := range notes {
			hits = append(hits, searchHit{Path: n.Path, Links: n.Links})
		}
		body, _ := json.MarshalIndent(map[string]any{"hits": hits, "count": len(hits)}, "", "  ")
		return TextResult(string(body)), nil, nil
	}
}

// CreateCanvasNodeInput defines the input schema for the create_canvas_node tool.
type CreateCanvasNodeInput struct {
	CanvasPath string `json:"canvas_path" jsonschema:"required,Vault-relative .canvas file; created if absent"`
	Type       string `json:"type,omitempty" jsonschema:"text or file, default text"`
	Text       string `json:"text,omitempty" jsonschema:"Node text (for text nodes)"`
	File       string `json:"file,omitempty" jsonschema:"Linked note path (for file nodes)"`
	X          int    `json:"x,omitempty" jsonschema:"Horizontal position"`
	Y          int    `json:"y,omitempty" jsonschema:"Vertical position"`
	Width      int    `json:"width,omitempty" jsonschema:"Node width, default 250"`
	Height     int    `json:"height,omitempty" jsonschema:"Node height, default 60"`
}

// NewCreateCanvasNodeHandler creates the create_canvas_node tool handler.
func NewCreateCanvasNodeHandler(deps *Dependencies) mcp.ToolHandlerFor[CreateCanvasNodeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateCanvasNodeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.CanvasPath == "" {
			return ErrorResult("canvas_path is required", ""), nil, nil
		}

		nodeType := input.Type
		if nodeType == "" {
			nodeType = "text"
		}
		if nodeType != "text" && nodeType != "file" {
			return ErrorResult(fmt.Sprintf("Unknown node type %q", input.Type), "Use text or file"), nil, nil
		}
		if nodeType == "file" && input.File == "" {
			return ErrorResult("File nodes need a file path", ""), nil, nil
		}

		start := time.Now()
		id, err := deps.Vault.AddCanvasNode(input.CanvasPath, vault.CanvasNode{
			Type:   nodeType,
			Text:   input.Text,
			File:   input.File,
			X:      input.X,
			Y:      input.Y,
			Width:  input.Width,
			Height: input.Height,
		})
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpVaultWrite, time.Since(start), err != nil)
		}
		if err != nil {
			return ErrorResult(fmt.Sprintf("Create canvas node failed: %v", err), ""), nil, nil
		}
		return TextResult(fmt.Sprintf("Added node %s to %s", id, input.CanvasPath)), nil, nil
	}
}

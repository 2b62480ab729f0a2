package vault

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Canvas mirrors the Obsidian .canvas JSON format: a flat node list plus
// edges between node ids.
type Canvas struct {
	Nodes []CanvasNode `json:"nodes"`
	Edges []CanvasEdge `json:"edges"`
}

// CanvasNode is one box on a canvas.
type CanvasNode struct {
	ID     string `json:"id"`
	Type   string `json:"type"` // "text" or "file"
	Text   string `json:"text,omitempty"`
	File   string `json:"file,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CanvasEdge connects two nodes.
type CanvasEdge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	ToNode   string `json:"toNode"`
	Label    string `json:"label,omitempty"`
}

// ReadCanvas loads a canvas file. A missing file yields an empty canvas so
// the first AddNode call can create it.
func (s *Store) ReadCanvas(path string) (*Canvas, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return &Canvas{Nodes: []CanvasNode{}, Edges: []CanvasEdge{}}, nil
		}
		return nil, fmt.Errorf("read canvas: %w", err)
	}

	var canvas Canvas
	if err := json.Unmarshal(data, &canvas); err != nil {
		return nil, fmt.Errorf("parse canvas %s: %w", path, err)
	}
	if canvas.Nodes == nil {
		canvas.Nodes = []CanvasNode{}
	}
	if canvas.Edges == nil {
		canvas.Edges = []CanvasEdge{}
	}
	return &canvas, nil
}

// WriteCanvas serializes a canvas back to disk.
func (s *Store) WriteCanvas(path string, canvas *Canvas) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(canvas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal canvas: %w", err)
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return fmt.Errorf("write canvas: %w", err)
	}
	return nil
}

// AddCanvasNode appends a node to the canvas at path, creating the canvas if
// absent, and returns the new node's id.
func (s *Store) AddCanvasNode(path string, node CanvasNode) (string, error) {
	canvas, err := s.ReadCanvas(path)
	if err != nil {
		return "", err
	}

	if node.ID == "" {
		node.ID = uuid.New().String()[:16]
	}
	if node.Width == 0 {
		node.Width = 250
	}
	if node.Height == 0 {
		node.Height = 60
	}
	canvas.Nodes = append(canvas.Nodes, node)

	if err := s.WriteCanvas(path, canvas); err != nil {
		return "", err
	}
	return node.ID, nil
}

package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCanvasMissingFile(t *testing.T) {
	s := newTestStore(t)

	canvas, err := s.ReadCanvas("board.canvas")
	require.NoError(t, err)
	assert.Empty(t, canvas.Nodes)
	assert.Empty(t, canvas.Edges)
}

func TestAddCanvasNodeCreatesFile(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddCanvasNode("board.canvas", CanvasNode{
		Type: "text",
		Text: "first idea",
		X:    100,
		Y:    200,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	canvas, err := s.ReadCanvas("board.canvas")
	require.NoError(t, err)
	require.Len(t, canvas.Nodes, 1)

	node := canvas.Nodes[0]
	assert.Equal(t, id, node.ID)
	assert.Equal(t, "text", node.Type)
	assert.Equal(t, "first idea", node.Text)
	assert.Equal(t, 100, node.X)
	assert.Equal(t, 200, node.Y)
	// Defaults fill in the missing dimensions.
	assert.Equal(t, 250, node.Width)
	assert.Equal(t, 60, node.Height)
}

func TestAddCanvasNodeAppends(t *testing.T) {
	s := newTestStore(t)

	first, err := s.AddCanvasNode("b.canvas", CanvasNode{Type: "text", Text: "one"})
	require.NoError(t, err)
	second, err := s.AddCanvasNode("b.canvas", CanvasNode{Type: "file", File: "notes/a.md", Width: 400, Height: 300})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	canvas, err := s.ReadCanvas("b.canvas")
	require.NoError(t, err)
	require.Len(t, canvas.Nodes, 2)
	assert.Equal(t, "notes/a.md", canvas.Nodes[1].File)
	assert.Equal(t, 400, canvas.Nodes[1].Width)
}

func TestReadCanvasMalformed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "bad.canvas"), []byte("{not json"), 0644))

	_, err := s.ReadCanvas("bad.canvas")
	require.Error(t, err)
}

func TestCanvasRejectsEscapes(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddCanvasNode("../outside.canvas", CanvasNode{Type: "text"})
	assert.True(t, errors.Is(err, ErrOutsideVault))
}

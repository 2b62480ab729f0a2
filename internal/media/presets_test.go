package media

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPresetsTable(t *testing.T) {
	presets := DefaultPresets()

	for _, name := range []string{"web_optimized", "social_media", "thumbnail", "high_quality"} {
		p, ok := presets[name]
		require.True(t, ok, "missing preset %s", name)
		assert.NotEmpty(t, p.Format, "preset %s has no format", name)
		assert.Greater(t, p.Quality, 0, "preset %s has no quality", name)
	}

	assert.Equal(t, Preset{Width: 320, Height: 240, Format: "jpg", Quality: 75}, presets["thumbnail"])
}

func TestApplyPresetThumbnail(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeTestImage(t, in)

	out, err := NewImageCodec().ApplyPreset(context.Background(), in,
		filepath.Join(dir, "out.png"), DefaultPresets()["thumbnail"])
	require.NoError(t, err)

	// Output carries the preset's format extension.
	assert.True(t, strings.HasSuffix(out, ".jpg"), "got %s", out)

	w, h := openDims(t, out)
	assert.LessOrEqual(t, w, 320)
	assert.LessOrEqual(t, h, 240)
}

func TestApplyPresetNoResize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeTestImage(t, in)

	out, err := NewImageCodec().ApplyPreset(context.Background(), in,
		filepath.Join(dir, "out.x"), DefaultPresets()["high_quality"])
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, ".png"), "got %s", out)

	// Dimensions unchanged when the preset has no target size.
	w, h := openDims(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

package media

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Preset bundles a resize target with an output format and quality so a
// single call produces a ready-to-publish file.
type Preset struct {
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// DefaultPresets returns the built-in preset table. Callers may replace or
// extend it before wiring it into the tool layer.
func DefaultPresets() map[string]Preset {
	return map[string]Preset{
		"web_optimized": {Width: 1280, Format: "webp", Quality: 85},
		"social_media":  {Width: 1080, Height: 1080, Format: "jpg", Quality: 90},
		"thumbnail":     {Width: 320, Height: 240, Format: "jpg", Quality: 75},
		"high_quality":  {Format: "png", Quality: 95},
	}
}

// ApplyPreset resizes (when the preset has dimensions) and re-encodes the
// image in one pass. Returns the final output path, which carries the
// preset's format extension.
func (c *ImageCodec) ApplyPreset(ctx context.Context, inputPath, outputPath string, preset Preset) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	var out image.Image = img
	switch {
	case preset.Width > 0 && preset.Height > 0:
		out = imaging.Fit(img, preset.Width, preset.Height, imaging.Lanczos)
	case preset.Width > 0:
		out = imaging.Resize(img, preset.Width, 0, imaging.Lanczos)
	case preset.Height > 0:
		out = imaging.Resize(img, 0, preset.Height, imaging.Lanczos)
	}

	if preset.Format != "" {
		outputPath = replaceExt(outputPath, strings.ToLower(preset.Format))
	}
	if err := save(out, outputPath, preset.Quality); err != nil {
		return "", err
	}
	return outputPath, nil
}

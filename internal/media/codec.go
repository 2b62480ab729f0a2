package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcptools/mcptools-go/internal/jobs"
)

// videoExts lists extensions routed to the ffmpeg codec. Everything else is
// treated as a still image.
var videoExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".m4v":  true,
}

// Codec dispatches per-file transformations to the image or video backend
// based on the input's extension. Implements jobs.Transformer.
type Codec struct {
	image *ImageCodec
	video *FFmpegCodec
}

// NewCodec creates the dispatching codec. A missing ffmpeg binary is not
// fatal: image operations still work, video inputs fail per-file.
func NewCodec(ffmpegPath string) *Codec {
	video, err := NewFFmpegCodec(ffmpegPath)
	if err != nil {
		video = nil
	}
	return &Codec{
		image: NewImageCodec(),
		video: video,
	}
}

// FFmpegAvailable reports whether video inputs can be processed.
func (c *Codec) FFmpegAvailable() bool {
	return c.video != nil
}

// ApplyPreset runs a preset against a still image. Video inputs are not
// supported by presets.
func (c *Codec) ApplyPreset(ctx context.Context, inputPath, outputPath string, preset Preset) (string, error) {
	if videoExts[strings.ToLower(filepath.Ext(inputPath))] {
		return "", fmt.Errorf("presets apply to images only, %s is a video", filepath.Base(inputPath))
	}
	return c.image.ApplyPreset(ctx, inputPath, outputPath, preset)
}

// OutputName reports the base name a transform will produce for input.
// Convert rewrites the extension to the target format, so collision
// accounting in the job runner has to see the converted name.
func (c *Codec) OutputName(input string, op jobs.Operation, params map[string]any) string {
	base := filepath.Base(input)
	if op != jobs.OpConvert {
		return base
	}
	p := MergeParams(op, params)
	return replaceExt(base, strings.ToLower(stringParam(p, "format", "jpg")))
}

// Transform routes the file to the matching backend.
func (c *Codec) Transform(ctx context.Context, inputPath, outputPath string, op jobs.Operation, params map[string]any) error {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if videoExts[ext] {
		if c.video == nil {
			return fmt.Errorf("cannot process %s: ffmpeg is not available", filepath.Base(inputPath))
		}
		return c.video.Transform(ctx, inputPath, outputPath, op, params)
	}
	return c.image.Transform(ctx, inputPath, outputPath, op, params)
}

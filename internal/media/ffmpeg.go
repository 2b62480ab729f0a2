package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mcptools/mcptools-go/internal/jobs"
)

// FFmpegCodec applies transformations to video files by shelling out to
// ffmpeg.
type FFmpegCodec struct {
	path string
}

// NewFFmpegCodec locates the ffmpeg binary. path overrides PATH lookup when
// non-empty.
func NewFFmpegCodec(path string) (*FFmpegCodec, error) {
	if path == "" {
		path = "ffmpeg"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg is not installed or not on PATH: %w", err)
	}
	return &FFmpegCodec{path: resolved}, nil
}

// Transform applies op to inputPath and writes the result to outputPath.
func (c *FFmpegCodec) Transform(ctx context.Context, inputPath, outputPath string, op jobs.Operation, params map[string]any) error {
	p := MergeParams(op, params)

	args := []string{"-y", "-i", inputPath}

	switch op {
	case jobs.OpResize:
		width := intParam(p, "width", 800)
		height := intParam(p, "height", -2) // -2 keeps aspect, even dimension
		if boolParam(p, "maintain_aspect", true) {
			height = -2
		}
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	case jobs.OpConvert:
		format := strings.ToLower(stringParam(p, "format", "mp4"))
		outputPath = replaceExt(outputPath, format)
	case jobs.OpWatermark:
		text := stringParam(p, "text", "Watermark")
		args = append(args, "-vf", drawtextFilter(text,
			stringParam(p, "position", "bottom-right"),
			floatParam(p, "opacity", 0.5)))
	case jobs.OpCompress:
		args = append(args, "-crf", fmt.Sprintf("%d", crfForQuality(intParam(p, "quality", 75))))
	default:
		return fmt.Errorf("unsupported operation %q", op)
	}

	args = append(args, outputPath)

	cmd := exec.CommandContext(ctx, c.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

// drawtextFilter builds an ffmpeg drawtext filter for the given position.
func drawtextFilter(text, position string, opacity float64) string {
	var x, y string
	switch position {
	case "top-left":
		x, y = "10", "10"
	case "top-right":
		x, y = "w-tw-10", "10"
	case "bottom-left":
		x, y = "10", "h-th-10"
	case "center":
		x, y = "(w-tw)/2", "(h-th)/2"
	default: // bottom-right
		x, y = "w-tw-10", "h-th-10"
	}
	escaped := strings.ReplaceAll(text, "'", "\\'")
	return fmt.Sprintf("drawtext=text='%s':x=%s:y=%s:fontcolor=white:alpha=%.2f:fontsize=24", escaped, x, y, opacity)
}

// crfForQuality maps a 1-100 quality scale to ffmpeg's CRF scale, where
// lower CRF means higher quality. Quality 75 lands near the x264 default.
func crfForQuality(quality int) int {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return 51 - quality*28/100 // 100 -> 23, 75 -> 30, 1 -> 51
}

// lastLine extracts the final non-empty stderr line, which is where ffmpeg
// puts its actual error message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no output"
}

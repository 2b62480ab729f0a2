package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcptools/mcptools-go/internal/jobs"
	"github.com/mcptools/mcptools-go/internal/metrics"
)

// transform runs one single-file operation through the codec, recording
// timing in the metrics collector.
func (d *Dependencies) transform(ctx context.Context, in, out string, op jobs.Operation, params map[string]any) error {
	start := time.Now()
	err := d.Codec.Transform(ctx, in, out, op, params)
	if d.Metrics != nil {
		d.Metrics.Record(metrics.OpTransform, time.Since(start), err != nil)
	}
	return err
}

// ResizeImageInput defines the input schema for the resize_image tool.
type ResizeImageInput struct {
	InputPath      string `json:"input_path" jsonschema:"required,Source file"`
	OutputPath     string `json:"output_path" jsonschema:"required,Destination file"`
	Width          int    `json:"width,omitempty" jsonschema:"Target width in pixels, default 800"`
	Height         int    `json:"height,omitempty" jsonschema:"Target height in pixels"`
	MaintainAspect *bool  `json:"maintain_aspect,omitempty" jsonschema:"Preserve aspect ratio, default true"`
}

// NewResizeImageHandler creates the resize_image tool handler.
func NewResizeImageHandler(deps *Dependencies) mcp.ToolHandlerFor[ResizeImageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ResizeImageInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.InputPath == "" || input.OutputPath == "" {
			return ErrorResult("input_path and output_path are required", ""), nil, nil
		}

		params := map[string]any{}
		if input.Width > 0 {
			params["width"] = input.Width
		}
		if input.Height > 0 {
			params["height"] = input.Height
		}
		if input.MaintainAspect != nil {
			params["maintain_aspect"] = *input.MaintainAspect
		}

		if err := deps.transform(ctx, input.InputPath, input.OutputPath, jobs.OpResize, params); err != nil {
			return ErrorResult(fmt.Sprintf("Resize failed: %v", err), "Check the input file exists and is a supported format"), nil, nil
		}
		return TextResult(fmt.Sprintf("Resized %s -> %s", input.InputPath, input.OutputPath)), nil, nil
	}
}

// ConvertImageInput defines the input schema for the convert_image tool.
type ConvertImageInput struct {
	InputPath  string `json:"input_path" jsonschema:"required,Source file"`
	OutputPath string `json:"output_path" jsonschema:"required,Destination file; extension follows format"`
	Format     string `json:"format,omitempty" jsonschema:"Target format (jpg png webp ...), default jpg"`
	Quality    int    `json:"quality,omitempty" jsonschema:"Encoding quality 1-100, default 80"`
}

// NewConvertImageHandler creates the convert_image tool handler.
func NewConvertImageHandler(deps *Dependencies) mcp.ToolHandlerFor[ConvertImageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ConvertImageInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.InputPath == "" || input.OutputPath == "" {
			return ErrorResult("input_path and output_path are required", ""), nil, nil
		}

		params := map[string]any{}
		if input.Format != "" {
			params["format"] = input.Format
		}
		if input.Quality > 0 {
			params["quality"] = input.Quality
		}

		if err := deps.transform(ctx, input.InputPath, input.OutputPath, jobs.OpConvert, params); err != nil {
			return ErrorResult(fmt.Sprintf("Convert failed: %v", err), "Check the input file exists and the format is supported"), nil, nil
		}
		return TextResult(fmt.Sprintf("Converted %s -> %s", input.InputPath, input.OutputPath)), nil, nil
	}
}

// WatermarkImageInput defines the input schema for the watermark_image tool.
type WatermarkImageInput struct {
	InputPath  string  `json:"input_path" jsonschema:"required,Source file"`
	OutputPath string  `json:"output_path" jsonschema:"required,Destination file"`
	Text       string  `json:"text,omitempty" jsonschema:"Watermark text, default Watermark"`
	Position   string  `json:"position,omitempty" jsonschema:"top-left top-right bottom-left bottom-right center, default bottom-right"`
	Opacity    float64 `json:"opacity,omitempty" jsonschema:"Overlay opacity 0-1, default 0.5"`
}

// NewWatermarkImageHandler creates the watermark_image tool handler.
func NewWatermarkImageHandler(deps *Dependencies) mcp.ToolHandlerFor[WatermarkImageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input WatermarkImageInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.InputPath == "" || input.OutputPath == "" {
			return ErrorResult("input_path and output_path are required", ""), nil, nil
		}

		params := map[string]any{}
		if input.Text != "" {
			params["text"] = input.Text
		}
		if input.Position != "" {
			params["position"] = input.Position
		}
		if input.Opacity > 0 {
			params["opacity"] = input.Opacity
		}

		if err := deps.transform(ctx, input.InputPath, input.OutputPath, jobs.OpWatermark, params); err != nil {
			return ErrorResult(fmt.Sprintf("Watermark failed: %v", err), ""), nil, nil
		}
		return TextResult(fmt.Sprintf("Watermarked %s -> %s", input.InputPath, input.OutputPath)), nil, nil
	}
}

// CompressImageInput defines the input schema for the compress_image tool.
type CompressImageInput struct {
	InputPath  string `json:"input_path" jsonschema:"required,Source file"`
	OutputPath string `json:"output_path" jsonschema:"required,Destination file"`
	Quality    int    `json:"quality,omitempty" jsonschema:"Encoding quality 1-100, default 75"`
}

// NewCompressImageHandler creates the compress_image tool handler.
func NewCompressImageHandler(deps *Dependencies) mcp.ToolHandlerFor[CompressImageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompressImageInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.InputPath == "" || input.OutputPath == "" {
			return ErrorResult("input_path and output_path are required", ""), nil, nil
		}

		params := map[string]any{}
		if input.Quality > 0 {
			params["quality"] = input.Quality
		}

		if err := deps.transform(ctx, input.InputPath, input.OutputPath, jobs.OpCompress, params); err != nil {
			return ErrorResult(fmt.Sprintf("Compress failed: %v", err), ""), nil, nil
		}
		return TextResult(fmt.Sprintf("Compressed %s -> %s", input.InputPath, input.OutputPath)), nil, nil
	}
}

// ApplyPresetInput defines the input schema for the apply_preset tool.
type ApplyPresetInput struct {
	InputPath  string `json:"input_path" jsonschema:"required,Source image"`
	OutputPath string `json:"output_path" jsonschema:"required,Destination file; extension follows the preset format"`
	Preset     string `json:"preset" jsonschema:"required,Preset name (see tool description)"`
}

// NewApplyPresetHandler creates the apply_preset tool handler.
func NewApplyPresetHandler(deps *Dependencies) mcp.ToolHandlerFor[ApplyPresetInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ApplyPresetInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.InputPath == "" || input.OutputPath == "" {
			return ErrorResult("input_path and output_path are required", ""), nil, nil
		}

		preset, ok := deps.Presets[input.Preset]
		if !ok {
			names := presetNames(deps)
			return ErrorResult(fmt.Sprintf("Unknown preset %q", input.Preset), "Available presets: "+strings.Join(names, ", ")), nil, nil
		}

		start := time.Now()
		out, err := deps.Codec.ApplyPreset(ctx, input.InputPath, input.OutputPath, preset)
		if deps.Metrics != nil {
			deps.Metrics.Record(metrics.OpTransform, time.Since(start), err != nil)
		}
		if err != nil {
			return ErrorResult(fmt.Sprintf("Preset %s failed: %v", input.Preset, err), ""), nil, nil
		}
		return TextResult(fmt.Sprintf("Applied preset %s: %s -> %s", input.Preset, input.InputPath, out)), nil, nil
	}
}

func presetNames(deps *Dependencies) []string {
	names := make([]string, 0, len(deps.Presets))
	for name := range deps.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

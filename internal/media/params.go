// Package media implements the media-codec collaborator: per-file image and
// video transformations dispatched by file type, with caller parameters
// merged over per-operation defaults.
package media

import (
	"maps"

	"github.com/mcptools/mcptools-go/internal/jobs"
)

// DefaultParams returns the hard-coded defaults for an operation.
func DefaultParams(op jobs.Operation) map[string]any {
	switch op {
	case jobs.OpResize:
		return map[string]any{"width": 800, "maintain_aspect": true}
	case jobs.OpConvert:
		return map[string]any{"format": "jpg", "quality": 80}
	case jobs.OpWatermark:
		return map[string]any{"text": "Watermark", "position": "bottom-right", "opacity": 0.5}
	case jobs.OpCompress:
		return map[string]any{"quality": 75}
	}
	return map[string]any{}
}

// MergeParams overlays caller-supplied parameters on the operation defaults.
// Neither input map is mutated.
func MergeParams(op jobs.Operation, params map[string]any) map[string]any {
	merged := DefaultParams(op)
	maps.Copy(merged, params)
	return merged
}

// Parameter values arrive from JSON decoding, so numbers may be float64.

func intParam(p map[string]any, key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func floatParam(p map[string]any, key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

func stringParam(p map[string]any, key, fallback string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func boolParam(p map[string]any, key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

package media

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mcptools/mcptools-go/internal/jobs"
)

// ImageCodec applies transformations to still images.
type ImageCodec struct{}

// NewImageCodec creates an image codec.
func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

// Transform applies op to inputPath and writes the result to outputPath.
// params are merged over the operation defaults.
func (c *ImageCodec) Transform(ctx context.Context, inputPath, outputPath string, op jobs.Operation, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := MergeParams(op, params)

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	switch op {
	case jobs.OpResize:
		return c.resize(img, outputPath, p)
	case jobs.OpConvert:
		return c.convert(img, outputPath, p)
	case jobs.OpWatermark:
		return c.watermark(img, outputPath, p)
	case jobs.OpCompress:
		return c.compress(img, outputPath, p)
	}
	return fmt.Errorf("unsupported operation %q", op)
}

func (c *ImageCodec) resize(img image.Image, out string, p map[string]any) error {
	width := intParam(p, "width", 800)
	height := intParam(p, "height", 0)
	maintain := boolParam(p, "maintain_aspect", true)

	var resized image.Image
	switch {
	case maintain && height > 0:
		resized = imaging.Fit(img, width, height, imaging.Lanczos)
	case maintain:
		resized = imaging.Resize(img, width, 0, imaging.Lanczos)
	default:
		if height == 0 {
			height = img.Bounds().Dy()
		}
		resized = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	return save(resized, out, intParam(p, "quality", 90))
}

func (c *ImageCodec) convert(img image.Image, out string, p map[string]any) error {
	format := strings.ToLower(stringParam(p, "format", "jpg"))
	out = replaceExt(out, format)
	return save(img, out, intParam(p, "quality", 80))
}

func (c *ImageCodec) compress(img image.Image, out string, p map[string]any) error {
	return save(img, out, intParam(p, "quality", 75))
}

func (c *ImageCodec) watermark(img image.Image, out string, p map[string]any) error {
	text := stringParam(p, "text", "Watermark")
	position := stringParam(p, "position", "bottom-right")
	opacity := floatParam(p, "opacity", 0.5)

	overlay := renderText(text)
	pos, err := overlayPoint(img.Bounds(), overlay.Bounds(), position)
	if err != nil {
		return err
	}

	marked := imaging.Overlay(img, overlay, pos, opacity)
	return save(marked, out, intParam(p, "quality", 90))
}

// watermarkMargin keeps the text off the image edge.
const watermarkMargin = 10

func overlayPoint(base, overlay image.Rectangle, position string) (image.Point, error) {
	bw, bh := base.Dx(), base.Dy()
	ow, oh := overlay.Dx(), overlay.Dy()

	switch position {
	case "top-left":
		return image.Pt(watermarkMargin, watermarkMargin), nil
	case "top-right":
		return image.Pt(bw-ow-watermarkMargin, watermarkMargin), nil
	case "bottom-left":
		return image.Pt(watermarkMargin, bh-oh-watermarkMargin), nil
	case "bottom-right":
		return image.Pt(bw-ow-watermarkMargin, bh-oh-watermarkMargin), nil
	case "center":
		return image.Pt((bw-ow)/2, (bh-oh)/2), nil
	}
	return image.Point{}, fmt.Errorf("unknown watermark position %q", position)
}

// renderText rasterizes text onto a transparent image using the built-in
// bitmap face. Good enough for watermarks; no font files to ship.
func renderText(text string) image.Image {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return canvas
}

// save writes img to path, with quality applied for lossy formats. WebP is
// handled separately since imaging has no encoder for it.
func save(img image.Image, path string, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("save image: %w", err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
		return nil
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

func replaceExt(path, format string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + strings.TrimPrefix(format, ".")
}

// Package raster replays page primitives onto in-memory images and encodes
// them as PNG.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/fontmetrics"
	"github.com/tartampluch/go-mealplan/internal/layout"
)

// DefaultDPI gives a 1100x850 image for a Letter landscape page.
const DefaultDPI = 100

// ErrNoPage is returned when drawing before any page was started.
var ErrNoPage = errors.New(config.ErrRendererNotReady)

// Canvas is a layout.PageRenderer drawing onto RGBA images, one per page.
type Canvas struct {
	DPI   float64
	Fonts *fontmetrics.Measurer

	pages []*image.RGBA
}

// NewCanvas returns a canvas rendering at dpi pixels per inch.
func NewCanvas(dpi float64, fonts *fontmetrics.Measurer) *Canvas {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if fonts == nil {
		fonts = fontmetrics.New()
	}
	return &Canvas{DPI: dpi, Fonts: fonts}
}

// Pages returns the rendered pages in order.
func (c *Canvas) Pages() []*image.RGBA {
	return c.pages
}

// MeasureWidth implements layout.TextMeasurer.
func (c *Canvas) MeasureWidth(f layout.Font, text string) float64 {
	return c.Fonts.MeasureWidth(f, text)
}

// NewPage starts a white page.
func (c *Canvas) NewPage(width, height float64) error {
	img := image.NewRGBA(image.Rect(0, 0, c.px(width), c.px(height)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	c.pages = append(c.pages, img)
	return nil
}

// DrawRect fills r, then strokes its border inwards.
func (c *Canvas) DrawRect(r layout.Rect, stroke *layout.Color, fill *layout.Color, lineWidth float64) error {
	img, err := c.current()
	if err != nil {
		return err
	}

	bounds := c.rect(r)
	if fill != nil {
		draw.Draw(img, bounds, image.NewUniform(rgba(*fill)), image.Point{}, draw.Src)
	}
	if stroke == nil || lineWidth <= 0 {
		return nil
	}

	t := max(1, c.px(lineWidth))
	src := image.NewUniform(rgba(*stroke))
	edges := []image.Rectangle{
		image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+t),
		image.Rect(bounds.Min.X, bounds.Max.Y-t, bounds.Max.X, bounds.Max.Y),
		image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+t, bounds.Max.Y),
		image.Rect(bounds.Max.X-t, bounds.Min.Y, bounds.Max.X, bounds.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
	return nil
}

// DrawText draws a single line aligned in box and vertically centered.
func (c *Canvas) DrawText(box layout.Rect, text string, align layout.Align, f layout.Font, col layout.Color) error {
	img, err := c.current()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	return c.Fonts.WithFace(f, c.DPI, func(face font.Face) error {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(rgba(col)), Face: face}

		width := d.MeasureString(text)
		left := toFixed(box.X * c.DPI)
		boxWidth := toFixed(box.W * c.DPI)
		x := left
		switch align {
		case layout.AlignCenter:
			x = left + (boxWidth-width)/2
		case layout.AlignRight:
			x = left + boxWidth - width
		}

		m := face.Metrics()
		center := toFixed((box.Y + box.H/2) * c.DPI)
		d.Dot = fixed.Point26_6{X: x, Y: center + (m.Ascent-m.Descent)/2}
		d.DrawString(text)
		return nil
	})
}

// DrawWrappedText draws one line per lineHeight starting at (x, y).
func (c *Canvas) DrawWrappedText(x, y, width, lineHeight float64, lines []string, align layout.Align, f layout.Font, col layout.Color) error {
	for i, line := range lines {
		box := layout.Rect{X: x, Y: y + float64(i)*lineHeight, W: width, H: lineHeight}
		if err := c.DrawText(box, line, align, f, col); err != nil {
			return err
		}
	}
	return nil
}

// EncodePNG writes page i as PNG.
func (c *Canvas) EncodePNG(w io.Writer, i int) error {
	if i < 0 || i >= len(c.pages) {
		return fmt.Errorf("%s: %w", config.ErrRasterEncode, ErrNoPage)
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, c.pages[i]); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRasterEncode, err)
	}
	return nil
}

// RenderPNG replays prims on a fresh canvas and returns the first page as PNG.
func RenderPNG(prims []layout.Primitive, dpi float64, fonts *fontmetrics.Measurer) ([]byte, error) {
	c := NewCanvas(dpi, fonts)
	if err := layout.Replay(prims, c); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRenderFailed, err)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Canvas) current() (*image.RGBA, error) {
	if len(c.pages) == 0 {
		return nil, ErrNoPage
	}
	return c.pages[len(c.pages)-1], nil
}

func (c *Canvas) px(inches float64) int {
	return int(math.Round(inches * c.DPI))
}

func (c *Canvas) rect(r layout.Rect) image.Rectangle {
	return image.Rect(c.px(r.X), c.px(r.Y), c.px(r.X+r.W), c.px(r.Y+r.H))
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func rgba(c layout.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

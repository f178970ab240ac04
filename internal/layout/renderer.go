package layout

import (
	"fmt"
	"unicode/utf8"
)

// TextMeasurer reports the rendered width of text, in inches.
type TextMeasurer interface {
	MeasureWidth(f Font, text string) float64
}

// PageRenderer is a page backend: a PDF writer, raster canvas or preview widget.
type PageRenderer interface {
	TextMeasurer
	NewPage(width, height float64) error
	DrawRect(r Rect, stroke *Color, fill *Color, lineWidth float64) error
	DrawText(box Rect, text string, align Align, f Font, c Color) error
	DrawWrappedText(x, y, width, lineHeight float64, lines []string, align Align, f Font, c Color) error
}

// Replay sends prims to r in order.
func Replay(prims []Primitive, r PageRenderer) error {
	for i, p := range prims {
		var err error
		switch p.Kind {
		case KindNewPage:
			err = r.NewPage(p.W, p.H)
		case KindRect:
			err = r.DrawRect(p.Bounds(), p.Color, p.Fill, p.LineWidth)
		case KindText:
			err = r.DrawText(p.Bounds(), p.Text, p.Align, fontOf(p), colorOf(p))
		case KindWrappedText:
			err = r.DrawWrappedText(p.X, p.Y, p.W, p.LineHeight, p.Lines, p.Align, fontOf(p), colorOf(p))
		default:
			err = fmt.Errorf("unknown primitive kind %q", p.Kind)
		}
		if err != nil {
			return fmt.Errorf("primitive %d (%s): %w", i, p.Kind, err)
		}
	}
	return nil
}

func fontOf(p Primitive) Font {
	if p.Font == nil {
		return Font{}
	}
	return *p.Font
}

func colorOf(p Primitive) Color {
	if p.Color == nil {
		return Black
	}
	return *p.Color
}

// MonospaceMeasurer treats every character as Advance em wide.
// It is deterministic and needs no font files.
type MonospaceMeasurer struct {
	Advance float64
}

// MeasureWidth implements TextMeasurer.
func (m MonospaceMeasurer) MeasureWidth(f Font, text string) float64 {
	advance := m.Advance
	if advance == 0 {
		advance = 0.5
	}
	return float64(utf8.RuneCountInString(text)) * f.Size / pointsPerInch * advance
}

// Recorder is a PageRenderer that keeps what it is asked to draw.
type Recorder struct {
	Measurer   TextMeasurer
	Primitives []Primitive
}

// MeasureWidth implements TextMeasurer.
func (r *Recorder) MeasureWidth(f Font, text string) float64 {
	if r.Measurer == nil {
		return MonospaceMeasurer{}.MeasureWidth(f, text)
	}
	return r.Measurer.MeasureWidth(f, text)
}

func (r *Recorder) NewPage(width, height float64) error {
	r.Primitives = append(r.Primitives, NewPage(width, height))
	return nil
}

func (r *Recorder) DrawRect(rect Rect, stroke *Color, fill *Color, lineWidth float64) error {
	r.Primitives = append(r.Primitives, RectPrimitive(rect, stroke, fill, lineWidth))
	return nil
}

func (r *Recorder) DrawText(box Rect, text string, align Align, f Font, c Color) error {
	r.Primitives = append(r.Primitives, TextPrimitive(box, text, align, f, c))
	return nil
}

func (r *Recorder) DrawWrappedText(x, y, width, lineHeight float64, lines []string, align Align, f Font, c Color) error {
	r.Primitives = append(r.Primitives, WrappedTextPrimitive(x, y, width, lineHeight, lines, align, f, c))
	return nil
}

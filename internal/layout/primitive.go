package layout

// Kind identifies a drawing primitive.
type Kind string

const (
	KindNewPage     Kind = "new_page"
	KindRect        Kind = "rect"
	KindText        Kind = "text"
	KindWrappedText Kind = "wrapped_text"
)

// Rect is an axis-aligned box with its origin at the top-left, in inches.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Bottom returns the Y coordinate of the lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Primitive is one drawing instruction. Every primitive states its own position,
// font and colors; there is no ambient drawing state between primitives.
//
//   - new_page: W and H give the page size.
//   - rect: Color strokes the border when LineWidth > 0, Fill paints the inside.
//   - text: Text is drawn in the box (X, Y, W, H) with Align, vertically centered.
//   - wrapped_text: Lines are drawn from (X, Y), one per LineHeight, within width W.
type Primitive struct {
	Kind       Kind     `json:"kind"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	W          float64  `json:"w"`
	H          float64  `json:"h"`
	LineHeight float64  `json:"line_height,omitempty"`
	Text       string   `json:"text,omitempty"`
	Lines      []string `json:"lines,omitempty"`
	Align      Align    `json:"align,omitempty"`
	Font       *Font    `json:"font,omitempty"`
	Color      *Color   `json:"color,omitempty"`
	Fill       *Color   `json:"fill,omitempty"`
	LineWidth  float64  `json:"line_width,omitempty"`
}

// Bounds returns the primitive's box.
func (p Primitive) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// NewPage starts a page of the given size.
func NewPage(width, height float64) Primitive {
	return Primitive{Kind: KindNewPage, W: width, H: height}
}

// RectPrimitive draws r with an optional stroke and fill.
func RectPrimitive(r Rect, stroke *Color, fill *Color, lineWidth float64) Primitive {
	return Primitive{Kind: KindRect, X: r.X, Y: r.Y, W: r.W, H: r.H, Color: stroke, Fill: fill, LineWidth: lineWidth}
}

// TextPrimitive draws a single line of text aligned inside box.
func TextPrimitive(box Rect, text string, align Align, font Font, color Color) Primitive {
	return Primitive{Kind: KindText, X: box.X, Y: box.Y, W: box.W, H: box.H, Text: text, Align: align, Font: &font, Color: &color}
}

// WrappedTextPrimitive draws pre-wrapped lines starting at (x, y).
func WrappedTextPrimitive(x, y, width, lineHeight float64, lines []string, align Align, font Font, color Color) Primitive {
	return Primitive{
		Kind:       KindWrappedText,
		X:          x,
		Y:          y,
		W:          width,
		H:          float64(len(lines)) * lineHeight,
		LineHeight: lineHeight,
		Lines:      lines,
		Align:      align,
		Font:       &font,
		Color:      &color,
	}
}

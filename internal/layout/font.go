package layout

// Font styles are combined as in "BI" (bold italic); the empty style is regular.
const (
	StyleRegular    = ""
	StyleBold       = "B"
	StyleItalic     = "I"
	StyleBoldItalic = "BI"
)

// pointsPerInch converts font sizes (points) to page units (inches).
const pointsPerInch = 72.0

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// Font names a typeface, style and size in points.
type Font struct {
	Family string  `json:"family" mapstructure:"family"`
	Style  string  `json:"style,omitempty" mapstructure:"style"`
	Size   float64 `json:"size" mapstructure:"size"`
}

// LineHeight returns the height of one line of text set in f, in inches.
func (f Font) LineHeight() float64 {
	return f.Size / pointsPerInch * lineSpacing
}

// Bold reports whether the style includes bold.
func (f Font) Bold() bool {
	return containsStyle(f.Style, 'B')
}

// Italic reports whether the style includes italic.
func (f Font) Italic() bool {
	return containsStyle(f.Style, 'I')
}

func containsStyle(style string, c rune) bool {
	for _, s := range style {
		if s == c || s == c+('a'-'A') {
			return true
		}
	}
	return false
}

// Color is an RGB color.
type Color struct {
	R uint8 `json:"r" mapstructure:"r"`
	G uint8 `json:"g" mapstructure:"g"`
	B uint8 `json:"b" mapstructure:"b"`
}

// Black is the default text and border color.
var Black = Color{}

// Align is the horizontal alignment of text inside its box.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

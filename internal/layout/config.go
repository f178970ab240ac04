package layout

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-mealplan/internal/config"
)

// Fonts groups the typefaces used on the page.
type Fonts struct {
	Title    Font `mapstructure:"title"`
	Weekday  Font `mapstructure:"weekday"`
	Day      Font `mapstructure:"day"`
	Recipe   Font `mapstructure:"recipe"`
	Notes    Font `mapstructure:"notes"`
	Cookbook Font `mapstructure:"cookbook"`
}

// Colors groups the colors used on the page.
type Colors struct {
	Title       Color `mapstructure:"title"`
	WeekdayText Color `mapstructure:"weekday_text"`
	WeekdayFill Color `mapstructure:"weekday_fill"`
	Day         Color `mapstructure:"day"`
	Recipe      Color `mapstructure:"recipe"`
	Notes       Color `mapstructure:"notes"`
	Cookbook    Color `mapstructure:"cookbook"`
	Border      Color `mapstructure:"border"`
}

// Config holds the page constants. All lengths are in inches.
type Config struct {
	PageWidth  float64 `mapstructure:"page_width"`
	PageHeight float64 `mapstructure:"page_height"`
	MarginX    float64 `mapstructure:"margin_x"`
	MarginY    float64 `mapstructure:"margin_y"`

	HeaderHeight        float64 `mapstructure:"header_height"`
	WeekdayHeaderHeight float64 `mapstructure:"weekday_header_height"`

	// CellPadding insets cell content from the cell border.
	CellPadding float64 `mapstructure:"cell_padding"`
	// DayLabelHeight is the height of the day number line.
	DayLabelHeight float64 `mapstructure:"day_label_height"`
	// DayRecipeGap separates the day number line from the recipe name.
	DayRecipeGap float64 `mapstructure:"day_recipe_gap"`
	// RecipeNotesGap separates the recipe name from the notes.
	RecipeNotesGap float64 `mapstructure:"recipe_notes_gap"`
	BorderWidth    float64 `mapstructure:"border_width"`

	WeekStart time.Weekday `mapstructure:"week_start"`

	Fonts  Fonts  `mapstructure:"fonts"`
	Colors Colors `mapstructure:"colors"`
}

// DefaultConfig returns a US Letter landscape page.
func DefaultConfig() Config {
	return Config{
		PageWidth:  11,
		PageHeight: 8.5,
		MarginX:    0.5,
		MarginY:    0.5,

		HeaderHeight:        0.5,
		WeekdayHeaderHeight: 0.3,

		CellPadding:    0.05,
		DayLabelHeight: 0.1,
		DayRecipeGap:   0.1,
		RecipeNotesGap: 0.01,
		BorderWidth:    0.01,

		WeekStart: time.Sunday,

		Fonts: Fonts{
			Title:    Font{Family: "Arial", Style: StyleBold, Size: 22},
			Weekday:  Font{Family: "Arial", Style: StyleBold, Size: 10},
			Day:      Font{Family: "Times", Style: StyleBoldItalic, Size: 8},
			Recipe:   Font{Family: "Arial", Style: StyleRegular, Size: 10},
			Notes:    Font{Family: "Times", Style: StyleRegular, Size: 6},
			Cookbook: Font{Family: "Arial", Style: StyleItalic, Size: 8},
		},
		Colors: Colors{
			Title:       Color{R: 0, G: 96, B: 200},
			WeekdayText: Color{R: 34, G: 84, B: 8},
			WeekdayFill: Color{R: 232, G: 212, B: 155},
			Day:         Color{R: 17, G: 120, B: 125},
			Recipe:      Black,
			Notes:       Black,
			Cookbook:    Color{R: 33, G: 130, B: 63},
			Border:      Black,
		},
	}
}

// Validate checks that the page leaves room for a grid of positive cells.
func (c Config) Validate() error {
	g := NewGeometry(c)
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return fmt.Errorf("%w: page %gx%g leaves no room for the grid", ErrInvalidConfig, c.PageWidth, c.PageHeight)
	}
	if c.CellPadding < 0 || c.DayLabelHeight < 0 || c.DayRecipeGap < 0 || c.RecipeNotesGap < 0 {
		return fmt.Errorf("%w: negative spacing", ErrInvalidConfig)
	}
	fonts := []Font{c.Fonts.Title, c.Fonts.Weekday, c.Fonts.Day, c.Fonts.Recipe, c.Fonts.Notes, c.Fonts.Cookbook}
	for _, f := range fonts {
		if f.Size <= 0 {
			return fmt.Errorf("%w: font %q has size %g", ErrInvalidConfig, f.Family, f.Size)
		}
	}
	if c.WeekStart < time.Sunday || c.WeekStart > time.Saturday {
		return fmt.Errorf("%w: week start %d", ErrInvalidConfig, c.WeekStart)
	}
	return nil
}

// Geometry holds the page measurements derived from a Config.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	MarginX    float64
	MarginY    float64

	HeaderHeight        float64
	WeekdayHeaderHeight float64
	WeekdayHeaderY      float64

	CellWidth  float64
	CellHeight float64
	GridStartY float64
}

// NewGeometry divides the usable page area below the two header rows into the
// fixed 7x5 grid.
func NewGeometry(c Config) Geometry {
	usableWidth := c.PageWidth - 2*c.MarginX
	usableHeight := c.PageHeight - 2*c.MarginY - c.HeaderHeight - c.WeekdayHeaderHeight

	return Geometry{
		PageWidth:           c.PageWidth,
		PageHeight:          c.PageHeight,
		MarginX:             c.MarginX,
		MarginY:             c.MarginY,
		HeaderHeight:        c.HeaderHeight,
		WeekdayHeaderHeight: c.WeekdayHeaderHeight,
		WeekdayHeaderY:      c.MarginY + c.HeaderHeight,
		CellWidth:           usableWidth / config.DaysPerWeek,
		CellHeight:          usableHeight / config.WeeksPerGrid,
		GridStartY:          c.MarginY + c.HeaderHeight + c.WeekdayHeaderHeight,
	}
}

// Cell returns the bounds of the grid cell at (week, day).
func (g Geometry) Cell(week, day int) Rect {
	return Rect{
		X: g.MarginX + float64(day)*g.CellWidth,
		Y: g.GridStartY + float64(week)*g.CellHeight,
		W: g.CellWidth,
		H: g.CellHeight,
	}
}

// WeekdayHeader returns the bounds of the weekday header cell of column day.
func (g Geometry) WeekdayHeader(day int) Rect {
	return Rect{
		X: g.MarginX + float64(day)*g.CellWidth,
		Y: g.WeekdayHeaderY,
		W: g.CellWidth,
		H: g.WeekdayHeaderHeight,
	}
}

// Title returns the bounds of the page title.
func (g Geometry) Title() Rect {
	return Rect{X: g.MarginX, Y: g.MarginY, W: g.PageWidth - 2*g.MarginX, H: g.HeaderHeight}
}

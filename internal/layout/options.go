package layout

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-mealplan/internal/config"
)

var (
	// ErrInvalidOptions is returned for print options outside their domain.
	ErrInvalidOptions = errors.New(config.ErrInvalidOptions)

	// ErrInvalidConfig is returned for page constants that cannot hold a grid.
	ErrInvalidConfig = errors.New("invalid page configuration")
)

// Options controls what a RenderMonth call prints.
type Options struct {
	// WeeksToPrint lists the grid rows (0..4) whose meals are printed.
	// Nil prints every row. Rows left out keep their borders and day numbers.
	WeeksToPrint []int

	// MealsOnly suppresses the title, weekday header, borders and day labels,
	// leaving meal content at unchanged positions.
	MealsOnly bool

	PrintNotes bool

	// Labels supplies titles and names; nil means English.
	Labels Labeler
}

// DefaultOptions prints every week, with decoration and notes.
func DefaultOptions() Options {
	return Options{PrintNotes: true}
}

// Validate checks the week selection.
func (o Options) Validate() error {
	for _, w := range o.WeeksToPrint {
		if w < 0 || w >= config.WeeksPerGrid {
			return fmt.Errorf("%w: %s: %d", ErrInvalidOptions, config.ErrInvalidWeek, w)
		}
	}
	return nil
}

// printsWeek reports whether meals of the given row are printed.
func (o Options) printsWeek(week int) bool {
	if o.WeeksToPrint == nil {
		return true
	}
	for _, w := range o.WeeksToPrint {
		if w == week {
			return true
		}
	}
	return false
}

func (o Options) labels() Labeler {
	if o.Labels == nil {
		return EnglishLabels{}
	}
	return o.Labels
}

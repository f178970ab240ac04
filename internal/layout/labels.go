package layout

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
)

// Labeler provides the human-readable strings printed on the page.
type Labeler interface {
	Title(m calendar.Month) string
	Weekday(d time.Weekday) string
	MonthAbbr(m time.Month) string
}

// EnglishLabels is the default Labeler.
type EnglishLabels struct{}

// Title returns "Meal Plan - <Month> <Year>".
func (EnglishLabels) Title(m calendar.Month) string {
	return fmt.Sprintf(config.TitleFormat, m.Name(), m.Year)
}

// Weekday returns the full weekday name.
func (EnglishLabels) Weekday(d time.Weekday) string {
	return d.String()
}

// MonthAbbr returns the three-letter month abbreviation.
func (EnglishLabels) MonthAbbr(m time.Month) string {
	return m.String()[:3]
}

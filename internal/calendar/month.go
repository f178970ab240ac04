// Package calendar implements the month arithmetic and the fixed 5x7 grid used by
// the meal plan page layout.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-mealplan/internal/config"
)

// ErrInvalidMonthSpecification is returned when a year-month string cannot be parsed.
var ErrInvalidMonthSpecification = errors.New(config.ErrInvalidMonth)

// Month is an immutable (year, month) pair. The zero value is not meaningful;
// build values with NewMonth or ParseMonth.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns the normalized month for year and a possibly out of range
// month number: 0 is December of the previous year, 13 is January of the next.
func NewMonth(year, month int) Month {
	total := year*12 + month - 1
	y := floorDiv(total, 12)
	return Month{Year: y, Month: time.Month(total - y*12 + 1)}
}

// ParseMonth parses a "YYYY-MM" specification.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(config.DateFormatMonth, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthSpecification, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	return NewMonth(m.Year, int(m.Month)-1)
}

// Next returns the month after m.
func (m Month) Next() Month {
	return NewMonth(m.Year, int(m.Month)+1)
}

// First returns midnight UTC of the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether t falls within the month (in t's own location).
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Name returns the English month name, e.g. "March".
func (m Month) Name() string {
	return m.Month.String()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText encodes the month as "YYYY-MM".
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a "YYYY-MM" month.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package calendar

import (
	"time"

	"github.com/tartampluch/go-mealplan/internal/config"
)

// DayCell identifies one grid position.
// Day is 0 only for a padding slot that no neighbouring month could fill.
type DayCell struct {
	Month     Month
	Day       int
	Spillover bool
}

// IsPadding reports whether the cell carries no date at all.
func (c DayCell) IsPadding() bool {
	return c.Day == 0
}

// Date returns the cell's calendar date at midnight UTC.
// It must not be called on padding cells.
func (c DayCell) Date() time.Time {
	return time.Date(c.Month.Year, c.Month.Month, c.Day, 0, 0, 0, 0, time.UTC)
}

// Week is one grid row.
type Week [config.DaysPerWeek]DayCell

// Grid is the fixed 5x7 calendar for a target month.
type Grid struct {
	Month     Month
	WeekStart time.Weekday
	Weeks     [config.WeeksPerGrid]Week

	// Overflow lists target-month days that fall on a sixth calendar row.
	// The fixed grid cannot show them.
	Overflow []DayCell
}

// Cell returns the cell at the given week row and column.
func (g Grid) Cell(week, day int) DayCell {
	return g.Weeks[week][day]
}

// First returns the top-left cell.
func (g Grid) First() DayCell {
	return g.Weeks[0][0]
}

// Last returns the bottom-right cell.
func (g Grid) Last() DayCell {
	return g.Weeks[config.WeeksPerGrid-1][config.DaysPerWeek-1]
}

// Weekdays returns the column weekdays starting at the grid's week start.
func (g Grid) Weekdays() [config.DaysPerWeek]time.Weekday {
	var out [config.DaysPerWeek]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(g.WeekStart) + i) % config.DaysPerWeek)
	}
	return out
}

// BuildGrid computes the 5x7 grid for m with weekStart as column 0.
// Leading zero slots take the trailing days of the previous month and
// trailing zero slots take the leading days of the next month.
func BuildGrid(m Month, weekStart time.Weekday) Grid {
	prevMonth, nextMonth := m.Previous(), m.Next()
	current := monthMatrix(m, weekStart)
	previous := monthMatrix(prevMonth, weekStart)
	next := monthMatrix(nextMonth, weekStart)

	g := Grid{Month: m, WeekStart: weekStart}
	for w := 0; w < config.WeeksPerGrid; w++ {
		for d := 0; d < config.DaysPerWeek; d++ {
			g.Weeks[w][d] = DayCell{Month: m, Day: current[w][d]}
		}
	}

	for _, row := range current[config.WeeksPerGrid:] {
		for _, day := range row {
			if day != 0 {
				g.Overflow = append(g.Overflow, DayCell{Month: m, Day: day})
			}
		}
	}

	lastPrev := previous[len(previous)-1]
	for d := 0; d < config.DaysPerWeek; d++ {
		if g.Weeks[0][d].Day == 0 {
			g.Weeks[0][d] = spill(prevMonth, lastPrev[d])
		}
	}

	last := config.WeeksPerGrid - 1
	for d := 0; d < config.DaysPerWeek; d++ {
		if g.Weeks[last][d].Day == 0 {
			g.Weeks[last][d] = spill(nextMonth, next[0][d])
		}
	}

	return g
}

func spill(m Month, day int) DayCell {
	return DayCell{Month: m, Day: day, Spillover: day != 0}
}

// monthMatrix lays the month's days out in weeks, 0 marking slots outside the
// month. A month filling only four rows gets an extra all-zero row so that every
// matrix has at least five.
func monthMatrix(m Month, weekStart time.Weekday) [][config.DaysPerWeek]int {
	col := (int(m.First().Weekday()) - int(weekStart) + config.DaysPerWeek) % config.DaysPerWeek

	var rows [][config.DaysPerWeek]int
	var row [config.DaysPerWeek]int
	for day := 1; day <= m.Days(); day++ {
		row[col] = day
		col++
		if col == config.DaysPerWeek {
			rows = append(rows, row)
			row = [config.DaysPerWeek]int{}
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}

	// Non-leap February starting on the week start day.
	if len(rows) == config.WeeksPerGrid-1 {
		rows = append(rows, [config.DaysPerWeek]int{})
	}
	return rows
}

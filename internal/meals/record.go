// Package meals holds the planned-meal records consumed by the page layout,
// the per-day lookup index and the sources records are read from.
package meals

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-mealplan/internal/config"
)

// Record is a planned meal, denormalized with its recipe and cookbook data.
// Records are owned by the meal planner; this package only reads them.
type Record struct {
	// MealID is the planner's identifier, 0 when unknown.
	MealID int

	// ScheduledDate is the day the meal is planned for. Only the date part is used.
	ScheduledDate time.Time

	RecipeName string

	// CookbookTitle is empty when the recipe has no cookbook.
	CookbookTitle  string
	CookbookAuthor string

	// CookbookAbbr is the short cookbook code printed in calendar cells.
	// It is derived from CookbookTitle by Normalize when not supplied.
	CookbookAbbr string

	// PageNumber is the recipe page in the cookbook, 0 when not printed.
	PageNumber int

	Notes   string
	WasMade bool
}

// Normalize fills the derived fields of r.
func (r Record) Normalize() Record {
	if r.CookbookAbbr == "" {
		r.CookbookAbbr = CookbookAbbreviation(r.CookbookTitle)
	}
	return r
}

// IsPlaceholder reports whether the record stands for a day without a meal.
// The planner's month export emits one such entry per empty day.
func (r Record) IsPlaceholder() bool {
	return strings.TrimSpace(r.RecipeName) == ""
}

// Cookbook returns the cookbook title, or "Unknown".
func (r Record) Cookbook() string {
	if r.CookbookTitle == "" {
		return config.UnknownCookbook
	}
	return r.CookbookTitle
}

// Author returns the cookbook author, or "Unknown".
func (r Record) Author() string {
	if r.CookbookAuthor == "" {
		return config.UnknownCookbook
	}
	return r.CookbookAuthor
}

// PrintedAbbreviation is the abbreviation shown in a calendar cell.
// The unknown-cookbook sentinel is never printed.
func (r Record) PrintedAbbreviation() string {
	abbr := r.CookbookAbbr
	if abbr == "" {
		abbr = CookbookAbbreviation(r.CookbookTitle)
	}
	if abbr == config.UnknownAbbreviation {
		return ""
	}
	return abbr
}

// PageLabel returns "p.<n>", or "" when the page number is 0.
func (r Record) PageLabel() string {
	if r.PageNumber == 0 {
		return ""
	}
	return fmt.Sprintf(config.PageLabelFormat, r.PageNumber)
}

// CookbookAbbreviation derives the short code of a cookbook title.
// A single word keeps its first three characters, several words give their
// initials as written. An empty title yields the "Unk" sentinel.
func CookbookAbbreviation(title string) string {
	words := strings.Fields(title)
	switch len(words) {
	case 0:
		return config.UnknownAbbreviation
	case 1:
		r := []rune(words[0])
		if len(r) > config.AbbreviationLength {
			r = r[:config.AbbreviationLength]
		}
		return string(r)
	}

	var b strings.Builder
	for _, w := range words {
		for _, c := range w {
			b.WriteRune(c)
			break
		}
	}
	return b.String()
}

package meals

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-mealplan/internal/config"
)

type dayKey struct {
	month time.Month
	day   int
}

// Index answers "which meal is planned on day D of month M".
// The year is deliberately not part of the key: callers index the records of
// three consecutive months at most, so no two months collide.
type Index struct {
	byDay      map[dayKey]Record
	duplicates []Record
}

// NewIndex indexes records by (month, day). Placeholder records are ignored.
// When several records fall on the same day the first one wins; the others are
// reported through Duplicates and logged.
func NewIndex(records []Record) *Index {
	ix := &Index{byDay: make(map[dayKey]Record, len(records))}

	for _, r := range records {
		if r.IsPlaceholder() {
			continue
		}
		k := dayKey{month: r.ScheduledDate.Month(), day: r.ScheduledDate.Day()}
		if kept, ok := ix.byDay[k]; ok {
			ix.duplicates = append(ix.duplicates, r)
			slog.Warn(config.MsgAmbiguousMeal,
				config.LogKeyComponent, config.CompMeals,
				config.LogKeyDate, r.ScheduledDate.Format(config.DateFormatDay),
				config.LogKeyRecipe, r.RecipeName,
				config.LogKeyKept, kept.RecipeName,
			)
			continue
		}
		ix.byDay[k] = r.Normalize()
	}

	return ix
}

// Lookup returns the meal planned for the given month and day, if any.
func (ix *Index) Lookup(month time.Month, day int) (Record, bool) {
	if ix == nil {
		return Record{}, false
	}
	r, ok := ix.byDay[dayKey{month: month, day: day}]
	return r, ok
}

// Len returns the number of indexed days.
func (ix *Index) Len() int {
	return len(ix.byDay)
}

// Duplicates returns the records that lost to an earlier record on the same day.
func (ix *Index) Duplicates() []Record {
	return ix.duplicates
}

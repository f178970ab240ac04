package meals

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-mealplan/internal/config"
)

// EncodeICS renders records as an iCalendar feed of all-day events, one per meal.
// now stamps DTSTAMP. Placeholder records are skipped.
func EncodeICS(records []Record, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	sorted := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.IsPlaceholder() {
			sorted = append(sorted, r.Normalize())
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledDate.Before(sorted[j].ScheduledDate)
	})

	for _, r := range sorted {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, mealUID(r))
		event.Props.SetText(config.PropSummary, r.RecipeName)
		event.Props.SetText(config.PropDescription,
			fmt.Sprintf(config.FormatDescription, r.Cookbook(), r.Author(), r.PageNumber, r.Notes))
		if abbr := r.PrintedAbbreviation(); abbr != "" {
			event.Props.SetText(config.PropCategories, abbr)
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(r.ScheduledDate)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		cal.Children = append(cal.Children, event.Component)
	}

	// A month without meals still yields a valid, minimal feed.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// mealUID is stable across refreshes for the same meal.
func mealUID(r Record) string {
	input := fmt.Sprintf(config.FormatHashInput, r.ScheduledDate.Format(config.DateFormatDay), r.RecipeName, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

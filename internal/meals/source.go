package meals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"gopkg.in/yaml.v3"
)

// ErrSourceUnavailable wraps every failure to obtain records from a Source.
var ErrSourceUnavailable = errors.New(config.ErrSourceFailed)

// Source supplies the meal records planned for one month.
type Source interface {
	MealsForMonth(ctx context.Context, m calendar.Month) ([]Record, error)
}

// CollectAround returns the records of m and of its two neighbouring months,
// which the grid needs to fill spillover days.
func CollectAround(ctx context.Context, src Source, m calendar.Month) ([]Record, error) {
	var out []Record
	for _, month := range []calendar.Month{m.Previous(), m, m.Next()} {
		records, err := src.MealsForMonth(ctx, month)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, month, err)
		}
		out = append(out, records...)
	}
	return out, nil
}

// exportRecord is the wire shape of a meal in the planner's month export.
type exportRecord struct {
	MealID        int    `json:"meal_id" yaml:"meal_id"`
	ScheduledDate string `json:"scheduled_date" yaml:"scheduled_date"`
	RecipeName    string `json:"recipe_name" yaml:"recipe_name"`
	Page          int    `json:"page" yaml:"page"`
	Cookbook      string `json:"cookbook" yaml:"cookbook"`
	Author        string `json:"author" yaml:"author"`
	Abbr          string `json:"abbr" yaml:"abbr"`
	Notes         string `json:"notes" yaml:"notes"`
	WasMade       bool   `json:"was_made" yaml:"was_made"`
}

// export is either a planner month_meals response or a meal export file.
type export struct {
	Meals      []exportRecord `json:"meals" yaml:"meals"`
	MonthMeals []exportRecord `json:"month_meals" yaml:"month_meals"`
}

func (e exportRecord) record() (Record, error) {
	date, err := time.Parse(config.DateFormatDay, strings.TrimSpace(e.ScheduledDate))
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", config.ErrRecordDate, err)
	}
	r := Record{
		MealID:         e.MealID,
		ScheduledDate:  date,
		RecipeName:     e.RecipeName,
		CookbookTitle:  e.Cookbook,
		CookbookAuthor: e.Author,
		CookbookAbbr:   e.Abbr,
		PageNumber:     e.Page,
		Notes:          e.Notes,
		WasMade:        e.WasMade,
	}
	// The planner exports "Unknown" for recipes without a cookbook.
	if r.CookbookTitle == config.UnknownCookbook {
		r.CookbookTitle = ""
	}
	if r.CookbookAuthor == config.UnknownCookbook {
		r.CookbookAuthor = ""
	}
	return r.Normalize(), nil
}

// decodeExport reads an export document. yamlInput selects YAML over JSON.
// Placeholders and records with unreadable dates are skipped.
func decodeExport(r io.Reader, yamlInput bool) ([]Record, error) {
	var doc export
	var err error
	if yamlInput {
		err = yaml.NewDecoder(r).Decode(&doc)
	} else {
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", config.ErrSourceDecode, err)
	}

	var out []Record
	for _, e := range append(doc.Meals, doc.MonthMeals...) {
		rec, err := e.record()
		if err != nil {
			slog.Debug(config.MsgSkippedRecord,
				config.LogKeyComponent, config.CompMeals,
				config.LogKeyDate, e.ScheduledDate,
				config.LogKeyError, err)
			continue
		}
		if rec.IsPlaceholder() {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// FileSource reads meals from a JSON or YAML export file.
// The file is read on every call so edits are picked up without a restart.
type FileSource struct {
	Path string
}

// MealsForMonth returns the records of the file scheduled within m.
func (s FileSource) MealsForMonth(ctx context.Context, m calendar.Month) ([]Record, error) {
	if s.Path == "" {
		return nil, errors.New(config.ErrLocalPathEmpty)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSourceRead, err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(s.Path))
	all, err := decodeExport(f, ext == config.ExtYAML || ext == config.ExtYML)
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, r := range all {
		if m.Contains(r.ScheduledDate) {
			out = append(out, r)
		}
	}

	slog.Debug(config.MsgSourceLoaded,
		config.LogKeyComponent, config.CompMeals,
		config.LogKeyFile, s.Path,
		config.LogKeyMonth, m.String(),
		config.LogKeyCount, len(out))
	return out, nil
}

// StaticSource serves a fixed record list, filtering by month.
type StaticSource []Record

// MealsForMonth returns the records scheduled within m.
func (s StaticSource) MealsForMonth(_ context.Context, m calendar.Month) ([]Record, error) {
	var out []Record
	for _, r := range s {
		if m.Contains(r.ScheduledDate) {
			out = append(out, r)
		}
	}
	return out, nil
}

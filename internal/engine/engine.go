package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/fontmetrics"
	"github.com/tartampluch/go-mealplan/internal/i18n"
	"github.com/tartampluch/go-mealplan/internal/layout"
	"github.com/tartampluch/go-mealplan/internal/meals"
	"github.com/tartampluch/go-mealplan/internal/raster"
)

// ErrUnsupportedFormat is returned for output formats other than json, png and ics.
var ErrUnsupportedFormat = errors.New(config.ErrFormatUnsupport)

// SourceConfig contains all parameters required to reach the meal records.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // JSON or YAML export file
	WebURL    string // month_meals endpoint
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// OpenSource returns the meal source described by cfg.
func OpenSource(cfg SourceConfig) (meals.Source, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return meals.FileSource{Path: cfg.LocalPath}, nil
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		pass := cfg.WebPass
		if pass == "" && cfg.WebUser != "" {
			pass = meals.PasswordFromKeyring(cfg.WebUser)
		}
		return meals.NewHTTPSource(cfg.WebURL, cfg.WebUser, pass), nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// Request describes one rendering.
type Request struct {
	Month    calendar.Month
	Format   string // config.FormatJSON, config.FormatPNG or config.FormatICS
	Options  layout.Options
	Language string // empty keeps Options.Labels
}

// Output is a rendered document ready to be written or served.
type Output struct {
	Data        []byte
	ContentType string
	FileName    string
	Meals       int // meals printed in the target month
}

// Document is the JSON form of a rendered page.
type Document struct {
	Month      calendar.Month     `json:"month"`
	Primitives []layout.Primitive `json:"primitives"`
}

// Generator is the core service tying the meal source to the page layout.
type Generator struct {
	Clock  calendar.Clock // Interface for time mocking.
	Source meals.Source   // Interface for data access.
	Layout *layout.Engine

	// Catalog provides localized labels; nil keeps English.
	Catalog *i18n.Catalog
	// Fonts rasterizes PNG output; nil uses a private measurer.
	Fonts *fontmetrics.Measurer
	DPI   float64
}

// Render fetches the meals around req.Month and renders them in req.Format.
func (g *Generator) Render(ctx context.Context, req Request) (*Output, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMonth, req.Month.String(),
		config.LogKeyFormat, req.Format,
	)

	contentType, err := contentTypeOf(req.Format)
	if err != nil {
		return nil, err
	}
	opts := req.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if req.Language != "" && g.Catalog != nil {
		labels, err := g.Catalog.Labels(req.Language)
		if err != nil {
			return nil, err
		}
		opts.Labels = labels
	}

	log.InfoContext(ctx, config.MsgRenderStarted)

	records, err := meals.CollectAround(ctx, g.Source, req.Month)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Output{
		ContentType: contentType,
		FileName:    FileName(req.Month, req.Format),
		Meals:       len(inMonth(records, req.Month)),
	}

	switch req.Format {
	case config.FormatICS:
		out.Data, err = meals.EncodeICS(inMonth(records, req.Month), g.clock().Now())
	default:
		out.Data, err = g.renderPage(req.Month, req.Format, records, opts)
	}
	if err != nil {
		return nil, err
	}

	log.Debug(config.MsgRenderDone,
		config.LogKeyCount, out.Meals,
		config.LogKeySizeBytes, len(out.Data),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Meals returns the meals planned in m, sorted by date.
func (g *Generator) Meals(ctx context.Context, m calendar.Month) ([]meals.Record, error) {
	records, err := g.Source.MealsForMonth(ctx, m)
	if err != nil {
		return nil, err
	}
	return inMonth(records, m), nil
}

func (g *Generator) renderPage(m calendar.Month, format string, records []meals.Record, opts layout.Options) ([]byte, error) {
	prims, err := g.Layout.RenderMonth(m, records, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRenderFailed, err)
	}

	if format == config.FormatPNG {
		return raster.RenderPNG(prims, g.DPI, g.Fonts)
	}

	data, err := json.Marshal(Document{Month: m, Primitives: prims})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	return data, nil
}

func (g *Generator) clock() calendar.Clock {
	if g.Clock == nil {
		return calendar.RealClock{}
	}
	return g.Clock
}

// FileName returns the conventional file name of a rendering,
// e.g. MealPlan-2024-03.png.
func FileName(m calendar.Month, format string) string {
	return fmt.Sprintf(config.FileNameFormat, m.Year, int(m.Month), format)
}

func contentTypeOf(format string) (string, error) {
	switch format {
	case config.FormatJSON:
		return config.MimeJSON, nil
	case config.FormatPNG:
		return config.MimePNG, nil
	case config.FormatICS:
		return config.MimeTextCalendar, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// inMonth keeps the meals of m, placeholders excluded, sorted by date.
func inMonth(records []meals.Record, m calendar.Month) []meals.Record {
	var out []meals.Record
	for _, r := range records {
		if m.Contains(r.ScheduledDate) && !r.IsPlaceholder() {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b meals.Record) int {
		if c := a.ScheduledDate.Compare(b.ScheduledDate); c != 0 {
			return c
		}
		return strings.Compare(a.RecipeName, b.RecipeName)
	})
	return out
}

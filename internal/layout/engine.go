// Package layout turns a month of planned meals into a position-exact page
// description: a list of drawing primitives any page backend can replay.
package layout

import (
	"log/slog"
	"strconv"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/meals"
)

// CellContent is the resolved payload of one grid cell.
type CellContent struct {
	DayLabel     string
	MonthLabel   string
	RecipeLines  []string
	NotesLines   []string
	CookbookAbbr string
	PageLabel    string

	recipeY float64
	notesY  float64
	footerY float64
}

// Engine lays out monthly meal plan pages. It holds no per-call state and is
// safe for concurrent use as long as its Measurer is.
type Engine struct {
	Config   Config
	Measurer TextMeasurer
}

// NewEngine returns an engine measuring text with m.
func NewEngine(cfg Config, m TextMeasurer) *Engine {
	return &Engine{Config: cfg, Measurer: m}
}

// RenderMonthString parses a "YYYY-MM" month and renders it.
func (e *Engine) RenderMonthString(month string, records []meals.Record, opts Options) ([]Primitive, error) {
	m, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return e.RenderMonth(m, records, opts)
}

// RenderMonth lays out the meal plan page of m. records should cover m and its
// two neighbouring months. Either the whole page is returned or an error is,
// before any primitive is produced.
func (e *Engine) RenderMonth(m calendar.Month, records []meals.Record, opts Options) ([]Primitive, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := e.Config.Validate(); err != nil {
		return nil, err
	}

	log := slog.With(
		config.LogKeyComponent, config.CompLayout,
		config.LogKeyMonth, m.String(),
	)

	grid := calendar.BuildGrid(m, e.Config.WeekStart)
	if len(grid.Overflow) > 0 {
		days := make([]int, 0, len(grid.Overflow))
		for _, c := range grid.Overflow {
			days = append(days, c.Day)
		}
		log.Warn(config.MsgOverflowDays, config.LogKeyDays, days)
	}

	index := meals.NewIndex(records)
	geo := NewGeometry(e.Config)
	labels := opts.labels()

	prims := []Primitive{NewPage(geo.PageWidth, geo.PageHeight)}
	prims = append(prims, e.header(geo, grid, labels, opts)...)

	for w := 0; w < config.WeeksPerGrid; w++ {
		for d := 0; d < config.DaysPerWeek; d++ {
			cell := geo.Cell(w, d)
			content := e.resolveCell(cell, grid.Cell(w, d), m, index, labels, w, opts)
			prims = append(prims, e.drawCell(cell, content, opts)...)
		}
	}

	log.Debug(config.MsgRenderDone,
		config.LogKeyCount, index.Len(),
		config.LogKeyPrims, len(prims),
		config.LogKeyMealsOnly, opts.MealsOnly,
		config.LogKeyNotes, opts.PrintNotes,
	)
	return prims, nil
}

// header emits the title and the weekday row. In meals-only mode both are
// left blank but their space stays reserved.
func (e *Engine) header(geo Geometry, grid calendar.Grid, labels Labeler, opts Options) []Primitive {
	if opts.MealsOnly {
		return nil
	}

	c := e.Config
	prims := []Primitive{
		TextPrimitive(geo.Title(), labels.Title(grid.Month), AlignCenter, c.Fonts.Title, c.Colors.Title),
	}

	border, fill := c.Colors.Border, c.Colors.WeekdayFill
	for i, wd := range grid.Weekdays() {
		box := geo.WeekdayHeader(i)
		prims = append(prims,
			RectPrimitive(box, &border, &fill, c.BorderWidth),
			TextPrimitive(box, labels.Weekday(wd), AlignCenter, c.Fonts.Weekday, c.Colors.WeekdayText),
		)
	}
	return prims
}

// resolveCell derives the content of one cell and the vertical position of
// each of its blocks.
func (e *Engine) resolveCell(cell Rect, day calendar.DayCell, target calendar.Month, index *meals.Index, labels Labeler, week int, opts Options) CellContent {
	c := e.Config
	inner := cell.Inset(c.CellPadding)
	var content CellContent

	if !opts.MealsOnly && !day.IsPadding() {
		content.DayLabel = strconv.Itoa(day.Day)
		if day.Month != target {
			content.MonthLabel = labels.MonthAbbr(day.Month.Month)
		}
	}

	footerHeight := c.Fonts.Cookbook.LineHeight()
	content.footerY = cell.Bottom() - footerHeight
	content.recipeY = inner.Y + c.DayLabelHeight + c.DayRecipeGap

	if day.IsPadding() || !opts.printsWeek(week) {
		return content
	}
	meal, ok := index.Lookup(day.Month.Month, day.Day)
	if !ok {
		return content
	}

	content.CookbookAbbr = meal.PrintedAbbreviation()
	content.PageLabel = meal.PageLabel()

	recipeHeight := c.Fonts.Recipe.LineHeight()
	recipeBudget := MaxLines(cell.Bottom()-content.recipeY-footerHeight, recipeHeight)
	content.RecipeLines = Truncate(Wrap(e.Measurer, c.Fonts.Recipe, inner.W, meal.RecipeName), recipeBudget)

	if !opts.PrintNotes || meal.Notes == "" {
		return content
	}

	content.notesY = content.recipeY + float64(len(content.RecipeLines))*recipeHeight + c.RecipeNotesGap
	used := content.notesY - cell.Y
	maxLines := MaxLines(cell.H-used-footerHeight, c.Fonts.Notes.LineHeight())
	content.NotesLines = Truncate(Wrap(e.Measurer, c.Fonts.Notes, inner.W, meal.Notes), maxLines)

	return content
}

// drawCell emits a cell's border and content blocks, top to bottom, with the
// cookbook footer pinned to the cell bottom.
func (e *Engine) drawCell(cell Rect, content CellContent, opts Options) []Primitive {
	c := e.Config
	inner := cell.Inset(c.CellPadding)
	var prims []Primitive

	if !opts.MealsOnly {
		border := c.Colors.Border
		prims = append(prims, RectPrimitive(cell, &border, nil, c.BorderWidth))
	}

	dayBox := Rect{X: inner.X, Y: inner.Y, W: inner.W, H: c.DayLabelHeight}
	if content.MonthLabel != "" {
		prims = append(prims, TextPrimitive(dayBox, content.MonthLabel, AlignLeft, c.Fonts.Day, c.Colors.Day))
	}
	if content.DayLabel != "" {
		prims = append(prims, TextPrimitive(dayBox, content.DayLabel, AlignRight, c.Fonts.Day, c.Colors.Day))
	}

	if len(content.RecipeLines) > 0 {
		prims = append(prims, WrappedTextPrimitive(inner.X, content.recipeY, inner.W,
			c.Fonts.Recipe.LineHeight(), content.RecipeLines, AlignLeft, c.Fonts.Recipe, c.Colors.Recipe))
	}
	if len(content.NotesLines) > 0 {
		prims = append(prims, WrappedTextPrimitive(inner.X, content.notesY, inner.W,
			c.Fonts.Notes.LineHeight(), content.NotesLines, AlignLeft, c.Fonts.Notes, c.Colors.Notes))
	}

	footer := Rect{X: inner.X, Y: content.footerY, W: inner.W, H: c.Fonts.Cookbook.LineHeight()}
	if content.CookbookAbbr != "" {
		prims = append(prims, TextPrimitive(footer, content.CookbookAbbr, AlignLeft, c.Fonts.Cookbook, c.Colors.Cookbook))
	}
	if content.PageLabel != "" {
		prims = append(prims, TextPrimitive(footer, content.PageLabel, AlignRight, c.Fonts.Cookbook, c.Colors.Cookbook))
	}
	return prims
}

// CellContents resolves every cell of m without drawing it, row by row.
func (e *Engine) CellContents(m calendar.Month, records []meals.Record, opts Options) ([config.WeeksPerGrid][config.DaysPerWeek]CellContent, error) {
	var out [config.WeeksPerGrid][config.DaysPerWeek]CellContent
	if err := opts.Validate(); err != nil {
		return out, err
	}
	if err := e.Config.Validate(); err != nil {
		return out, err
	}

	grid := calendar.BuildGrid(m, e.Config.WeekStart)
	index := meals.NewIndex(records)
	geo := NewGeometry(e.Config)
	labels := opts.labels()
	for w := range out {
		for d := range out[w] {
			out[w][d] = e.resolveCell(geo.Cell(w, d), grid.Cell(w, d), m, index, labels, w, opts)
		}
	}
	return out, nil
}

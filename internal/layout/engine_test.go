package layout_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/layout"
	"github.com/tartampluch/go-mealplan/internal/meals"
)

const delta = 1e-9

func newEngine() *layout.Engine {
	return layout.NewEngine(layout.DefaultConfig(), layout.MonospaceMeasurer{})
}

func meal(year int, month time.Month, d int, recipe string) meals.Record {
	return meals.Record{
		ScheduledDate: time.Date(year, month, d, 0, 0, 0, 0, time.UTC),
		RecipeName:    recipe,
	}
}

func march2024() []meals.Record {
	chili := meal(2024, time.March, 5, "Chili")
	chili.CookbookTitle = "Joy of Cooking"
	chili.PageNumber = 42
	chili.Notes = "Double the beans"

	soup := meal(2024, time.March, 1, "Tomato soup")
	soup.CookbookTitle = "Moosewood"
	soup.PageNumber = 7

	return []meals.Record{chili, soup, meal(2024, time.March, 6, "")}
}

func textsOf(prims []layout.Primitive) []string {
	var out []string
	for _, p := range prims {
		switch p.Kind {
		case layout.KindText:
			out = append(out, p.Text)
		case layout.KindWrappedText:
			out = append(out, p.Lines...)
		}
	}
	return out
}

func findText(t *testing.T, prims []layout.Primitive, text string) layout.Primitive {
	t.Helper()
	for _, p := range prims {
		if p.Kind == layout.KindText && p.Text == text {
			return p
		}
		if p.Kind == layout.KindWrappedText && len(p.Lines) > 0 && p.Lines[0] == text {
			return p
		}
	}
	require.Failf(t, "text not found", "%q", text)
	return layout.Primitive{}
}

func TestGeometry_Default(t *testing.T) {
	g := layout.NewGeometry(layout.DefaultConfig())

	assert.InDelta(t, 10.0/7, g.CellWidth, delta)
	assert.InDelta(t, 1.34, g.CellHeight, delta)
	assert.InDelta(t, 1.0, g.WeekdayHeaderY, delta)
	assert.InDelta(t, 1.3, g.GridStartY, delta)

	last := g.Cell(4, 6)
	assert.InDelta(t, 8.0, last.Bottom(), delta, "grid ends on the bottom margin")
	assert.InDelta(t, 10.5, last.X+last.W, delta, "grid ends on the right margin")
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, layout.DefaultConfig().Validate())

	tiny := layout.DefaultConfig()
	tiny.PageHeight = 1
	assert.ErrorIs(t, tiny.Validate(), layout.ErrInvalidConfig)

	noFont := layout.DefaultConfig()
	noFont.Fonts.Notes.Size = 0
	assert.ErrorIs(t, noFont.Validate(), layout.ErrInvalidConfig)

	badStart := layout.DefaultConfig()
	badStart.WeekStart = 9
	assert.ErrorIs(t, badStart.Validate(), layout.ErrInvalidConfig)
}

func TestRenderMonth_PageStructure(t *testing.T) {
	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 2), nil, layout.DefaultOptions())
	require.NoError(t, err)

	require.NotEmpty(t, prims)
	assert.Equal(t, layout.NewPage(11, 8.5), prims[0])

	title := prims[1]
	assert.Equal(t, layout.KindText, title.Kind)
	assert.Equal(t, "Meal Plan - February 2024", title.Text)
	assert.Equal(t, layout.AlignCenter, title.Align)

	sunday := findText(t, prims, "Sunday")
	assert.InDelta(t, 1.0, sunday.Y, delta)
	assert.InDelta(t, 0.5, sunday.X, delta)

	// page + title + 7 weekday boxes and names + 35 borders + 35 day numbers
	// + 6 spillover month labels (Jan 28-31, Mar 1-2)
	assert.Len(t, prims, 1+1+14+35+35+6)
}

func TestRenderMonth_CellContent(t *testing.T) {
	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), march2024(), layout.DefaultOptions())
	require.NoError(t, err)

	g := layout.NewGeometry(layout.DefaultConfig())
	cell := g.Cell(1, 2) // Tuesday March 5th

	recipe := findText(t, prims, "Chili")
	assert.Equal(t, layout.KindWrappedText, recipe.Kind)
	assert.InDelta(t, cell.X+0.05, recipe.X, delta)
	assert.InDelta(t, cell.Y+0.25, recipe.Y, delta)

	notes := findText(t, prims, "Double the beans")
	assert.InDelta(t, cell.Y+0.25+10.0/72*1.2+0.01, notes.Y, delta)

	abbr := findText(t, prims, "JoC")
	assert.Equal(t, layout.AlignLeft, abbr.Align)
	assert.InDelta(t, cell.Bottom()-8.0/72*1.2, abbr.Y, delta)

	page := findText(t, prims, "p.42")
	assert.Equal(t, layout.AlignRight, page.Align)
	assert.InDelta(t, abbr.Y, page.Y, delta)

	texts := textsOf(prims)
	assert.Contains(t, texts, "Tomato soup")
	assert.Contains(t, texts, "Moo")
	assert.Contains(t, texts, "p.7")
}

func TestRenderMonth_Deterministic(t *testing.T) {
	e := newEngine()
	m := calendar.NewMonth(2024, 3)

	first, err := e.RenderMonth(m, march2024(), layout.DefaultOptions())
	require.NoError(t, err)
	second, err := e.RenderMonth(m, march2024(), layout.DefaultOptions())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRenderMonth_NotesTruncation(t *testing.T) {
	r := meal(2024, time.March, 5, "Chili")
	r.Notes = strings.Repeat("word ", 100)

	cells, err := newEngine().CellContents(calendar.NewMonth(2024, 3), []meals.Record{r}, layout.DefaultOptions())
	require.NoError(t, err)

	notes := cells[1][2].NotesLines
	require.Len(t, notes, 7)
	for _, l := range notes[:6] {
		assert.Equal(t, "word word word word word word", l)
	}
	assert.Equal(t, "word word word word word w...", notes[6])
}

func TestRenderMonth_RecipeTruncation(t *testing.T) {
	r := meal(2024, time.March, 5, strings.Repeat("x", 200))

	cells, err := newEngine().CellContents(calendar.NewMonth(2024, 3), []meals.Record{r}, layout.DefaultOptions())
	require.NoError(t, err)

	lines := cells[1][2].RecipeLines
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Repeat("x", 19), lines[0])
	assert.Equal(t, strings.Repeat("x", 16)+"...", lines[4])
}

func TestRenderMonth_NotesDisabled(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.PrintNotes = false

	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), march2024(), opts)
	require.NoError(t, err)
	assert.NotContains(t, textsOf(prims), "Double the beans")
	assert.Contains(t, textsOf(prims), "Chili")
}

func TestRenderMonth_MealsOnly(t *testing.T) {
	e := newEngine()
	m := calendar.NewMonth(2024, 3)

	full, err := e.RenderMonth(m, march2024(), layout.DefaultOptions())
	require.NoError(t, err)

	opts := layout.DefaultOptions()
	opts.MealsOnly = true
	only, err := e.RenderMonth(m, march2024(), opts)
	require.NoError(t, err)

	require.NotEmpty(t, only)
	assert.Equal(t, layout.KindNewPage, only[0].Kind)
	for _, p := range only[1:] {
		assert.NotEqual(t, layout.KindRect, p.Kind, "meals-only must not draw borders")
		assert.Contains(t, full, p, "meal content must keep its position")
	}

	texts := textsOf(only)
	assert.ElementsMatch(t, []string{"Chili", "Double the beans", "JoC", "p.42", "Tomato soup", "Moo", "p.7"}, texts)
}

func TestRenderMonth_MealsOnlyWithoutMeals(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.MealsOnly = true

	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), nil, opts)
	require.NoError(t, err)
	assert.Equal(t, []layout.Primitive{layout.NewPage(11, 8.5)}, prims)
}

func TestRenderMonth_Spillover(t *testing.T) {
	records := []meals.Record{
		meal(2024, time.January, 28, "Leftovers"),
		meal(2024, time.March, 2, "Pancakes"),
	}

	cells, err := newEngine().CellContents(calendar.NewMonth(2024, 2), records, layout.DefaultOptions())
	require.NoError(t, err)

	first := cells[0][0]
	assert.Equal(t, "Jan", first.MonthLabel)
	assert.Equal(t, "28", first.DayLabel)
	assert.Equal(t, []string{"Leftovers"}, first.RecipeLines)

	last := cells[4][6]
	assert.Equal(t, "Mar", last.MonthLabel)
	assert.Equal(t, "2", last.DayLabel)
	assert.Equal(t, []string{"Pancakes"}, last.RecipeLines)

	inMonth := cells[0][4]
	assert.Equal(t, "1", inMonth.DayLabel)
	assert.Empty(t, inMonth.MonthLabel)
}

func TestRenderMonth_UnknownCookbookNotPrinted(t *testing.T) {
	r := meal(2024, time.March, 5, "Mystery stew")

	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), []meals.Record{r}, layout.DefaultOptions())
	require.NoError(t, err)

	texts := textsOf(prims)
	assert.Contains(t, texts, "Mystery stew")
	assert.NotContains(t, texts, "Unk")
	assert.NotContains(t, texts, "Unknown")
	assert.NotContains(t, texts, "p.0")
}

func TestRenderMonth_WeeksToPrint(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.WeeksToPrint = []int{1}

	cells, err := newEngine().CellContents(calendar.NewMonth(2024, 3), march2024(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"Chili"}, cells[1][2].RecipeLines, "row 1 is printed")
	assert.Empty(t, cells[0][5].RecipeLines, "row 0 is skipped")
	assert.Empty(t, cells[0][5].CookbookAbbr)
	assert.Equal(t, "1", cells[0][5].DayLabel, "skipped rows keep their day numbers")
}

func TestRenderMonth_InvalidWeek(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.WeeksToPrint = []int{0, 5}

	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), march2024(), opts)
	assert.ErrorIs(t, err, layout.ErrInvalidOptions)
	assert.Nil(t, prims)
}

func TestRenderMonth_Overflow(t *testing.T) {
	r := meal(2025, time.March, 30, "Roast")

	cells, err := newEngine().CellContents(calendar.NewMonth(2025, 3), []meals.Record{r}, layout.DefaultOptions())
	require.NoError(t, err)

	for _, week := range cells {
		for _, c := range week {
			assert.NotContains(t, c.RecipeLines, "Roast")
		}
	}
	assert.Equal(t, "29", cells[4][6].DayLabel)
}

func TestRenderMonth_DuplicateDayKeepsFirst(t *testing.T) {
	records := []meals.Record{
		meal(2024, time.March, 5, "Chili"),
		meal(2024, time.March, 5, "Tacos"),
	}

	cells, err := newEngine().CellContents(calendar.NewMonth(2024, 3), records, layout.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chili"}, cells[1][2].RecipeLines)
}

func TestRenderMonthString(t *testing.T) {
	e := newEngine()

	prims, err := e.RenderMonthString("2024-03", march2024(), layout.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, textsOf(prims), "Chili")

	_, err = e.RenderMonthString("2024-13", nil, layout.DefaultOptions())
	assert.ErrorIs(t, err, calendar.ErrInvalidMonthSpecification)
}

func TestRenderMonth_MondayStart(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.WeekStart = time.Monday
	e := layout.NewEngine(cfg, layout.MonospaceMeasurer{})

	prims, err := e.RenderMonth(calendar.NewMonth(2024, 3), nil, layout.DefaultOptions())
	require.NoError(t, err)

	first := findText(t, prims, "Monday")
	assert.InDelta(t, 0.5, first.X, delta)
}

type frenchLabels struct{ layout.EnglishLabels }

func (frenchLabels) Title(m calendar.Month) string { return "Menus - " + m.String() }

func TestRenderMonth_CustomLabels(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.Labels = frenchLabels{}

	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "Menus - 2024-03", prims[1].Text)
}

func TestReplay(t *testing.T) {
	prims, err := newEngine().RenderMonth(calendar.NewMonth(2024, 3), march2024(), layout.DefaultOptions())
	require.NoError(t, err)

	rec := &layout.Recorder{}
	require.NoError(t, layout.Replay(prims, rec))
	assert.Equal(t, prims, rec.Primitives)

	err = layout.Replay([]layout.Primitive{{Kind: "circle"}}, rec)
	assert.ErrorContains(t, err, "circle")
}

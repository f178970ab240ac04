package engine_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/engine"
	"github.com/tartampluch/go-mealplan/internal/i18n"
	"github.com/tartampluch/go-mealplan/internal/layout"
	"github.com/tartampluch/go-mealplan/internal/meals"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockSource simulates the meal planner using `testify/mock`.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) MealsForMonth(ctx context.Context, month calendar.Month) ([]meals.Record, error) {
	args := m.Called(ctx, month)
	if r := args.Get(0); r != nil {
		return r.([]meals.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

var fixture = meals.StaticSource{
	{ScheduledDate: day(time.February, 26), RecipeName: "Lasagna", CookbookTitle: "Moosewood", PageNumber: 12},
	{ScheduledDate: day(time.March, 5), RecipeName: "Chili", CookbookTitle: "Joy of Cooking", PageNumber: 42, Notes: "Double the beans"},
	{ScheduledDate: day(time.March, 1), RecipeName: "Tomato soup"},
	{ScheduledDate: day(time.March, 6), RecipeName: ""},
	{ScheduledDate: day(time.April, 2), RecipeName: "Tacos"},
}

func newGenerator(src meals.Source) *engine.Generator {
	return &engine.Generator{
		Clock:   MockClock{CurrentTime: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)},
		Source:  src,
		Layout:  layout.NewEngine(layout.DefaultConfig(), layout.MonospaceMeasurer{}),
		Catalog: i18n.NewCatalog(),
		DPI:     30,
	}
}

func request(format string) engine.Request {
	return engine.Request{
		Month:   calendar.NewMonth(2024, 3),
		Format:  format,
		Options: layout.DefaultOptions(),
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestRender_JSON(t *testing.T) {
	out, err := newGenerator(fixture).Render(context.Background(), request(config.FormatJSON))
	require.NoError(t, err)

	assert.Equal(t, config.MimeJSON, out.ContentType)
	assert.Equal(t, "MealPlan-2024-03.json", out.FileName)
	assert.Equal(t, 2, out.Meals, "placeholders and neighbouring months are not counted")

	var doc engine.Document
	require.NoError(t, json.Unmarshal(out.Data, &doc))
	assert.Equal(t, calendar.NewMonth(2024, 3), doc.Month)
	require.NotEmpty(t, doc.Primitives)
	assert.Equal(t, layout.KindNewPage, doc.Primitives[0].Kind)

	var texts []string
	for _, p := range doc.Primitives {
		texts = append(texts, p.Text)
		texts = append(texts, p.Lines...)
	}
	assert.Contains(t, texts, "Chili")
	assert.Contains(t, texts, "Lasagna", "February spillover cells show February meals")
	assert.NotContains(t, texts, "Tacos", "April is not on the March grid")
}

func TestRender_Deterministic(t *testing.T) {
	gen := newGenerator(fixture)

	a, err := gen.Render(context.Background(), request(config.FormatJSON))
	require.NoError(t, err)
	b, err := gen.Render(context.Background(), request(config.FormatJSON))
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestRender_PNG(t *testing.T) {
	out, err := newGenerator(fixture).Render(context.Background(), request(config.FormatPNG))
	require.NoError(t, err)

	assert.Equal(t, config.MimePNG, out.ContentType)
	assert.Equal(t, "MealPlan-2024-03.png", out.FileName)

	img, err := png.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 330, img.Bounds().Dx())
	assert.Equal(t, 255, img.Bounds().Dy())
}

func TestRender_ICS(t *testing.T) {
	out, err := newGenerator(fixture).Render(context.Background(), request(config.FormatICS))
	require.NoError(t, err)
	assert.Equal(t, config.MimeTextCalendar, out.ContentType)

	cal, err := ical.NewDecoder(bytes.NewReader(out.Data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	summary, err := events[0].Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Tomato soup", summary)
}

func TestRender_Localized(t *testing.T) {
	req := request(config.FormatJSON)
	req.Language = "fr"

	out, err := newGenerator(fixture).Render(context.Background(), req)
	require.NoError(t, err)

	var doc engine.Document
	require.NoError(t, json.Unmarshal(out.Data, &doc))
	assert.Equal(t, "Planning des repas - Mars 2024", doc.Primitives[1].Text)
}

func TestRender_InvalidRequests(t *testing.T) {
	gen := newGenerator(fixture)

	_, err := gen.Render(context.Background(), request("pdf"))
	assert.ErrorIs(t, err, engine.ErrUnsupportedFormat)

	req := request(config.FormatJSON)
	req.Options.WeeksToPrint = []int{7}
	_, err = gen.Render(context.Background(), req)
	assert.ErrorIs(t, err, layout.ErrInvalidOptions)

	req = request(config.FormatJSON)
	req.Language = "de"
	_, err = gen.Render(context.Background(), req)
	assert.ErrorIs(t, err, i18n.ErrUnsupportedLanguage)
}

func TestRender_SourceFailure(t *testing.T) {
	src := new(MockSource)
	src.On("MealsForMonth", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newGenerator(src).Render(context.Background(), request(config.FormatJSON))
	assert.ErrorIs(t, err, meals.ErrSourceUnavailable)
}

func TestRender_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := new(MockSource)
	src.On("MealsForMonth", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	_, err := newGenerator(src).Render(ctx, request(config.FormatJSON))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeals(t *testing.T) {
	got, err := newGenerator(fixture).Meals(context.Background(), calendar.NewMonth(2024, 3))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Tomato soup", got[0].RecipeName)
	assert.Equal(t, "Chili", got[1].RecipeName)
}

func TestOpenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meals.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"meals":[{"scheduled_date":"2024-03-05","recipe_name":"Chili"}]}`), config.FilePermUserRW))

	src, err := engine.OpenSource(engine.SourceConfig{Mode: config.SourceModeLocal, LocalPath: path})
	require.NoError(t, err)
	records, err := src.MealsForMonth(context.Background(), calendar.NewMonth(2024, 3))
	require.NoError(t, err)
	require.Len(t, records, 1)

	web, err := engine.OpenSource(engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "https://planner.example.com", WebPass: "secret"})
	require.NoError(t, err)
	assert.IsType(t, &meals.HTTPSource{}, web)

	_, err = engine.OpenSource(engine.SourceConfig{Mode: config.SourceModeLocal})
	assert.EqualError(t, err, config.ErrLocalPathEmpty)

	_, err = engine.OpenSource(engine.SourceConfig{Mode: config.SourceModeWeb})
	assert.EqualError(t, err, config.ErrWebURLEmpty)

	_, err = engine.OpenSource(engine.SourceConfig{Mode: "carddav"})
	assert.ErrorContains(t, err, config.ErrModeUnsupport)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "MealPlan-2025-01.ics", engine.FileName(calendar.NewMonth(2025, 1), config.FormatICS))
}

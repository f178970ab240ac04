package meals_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-mealplan/internal/meals"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestCookbookAbbreviation(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Joy of Cooking", "JoC"},
		{"Moosewood", "Moo"},
		{"Quick & Easy Meals", "Q&EM"},
		{"Pho", "Pho"},
		{"Ox", "Ox"},
		{"  Classic   Dishes ", "CD"},
		{"Crème Brûlée", "CB"},
		{"Épices", "Épi"},
		{"", "Unk"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, meals.CookbookAbbreviation(tt.title))
		})
	}
}

func TestRecord_PrintedFields(t *testing.T) {
	r := meals.Record{RecipeName: "Chili", CookbookTitle: "Joy of Cooking", PageNumber: 42}.Normalize()
	assert.Equal(t, "JoC", r.CookbookAbbr)
	assert.Equal(t, "JoC", r.PrintedAbbreviation())
	assert.Equal(t, "p.42", r.PageLabel())
	assert.Equal(t, "Joy of Cooking", r.Cookbook())

	unknown := meals.Record{RecipeName: "Toast"}.Normalize()
	assert.Equal(t, "Unk", unknown.CookbookAbbr, "sentinel is kept internally")
	assert.Empty(t, unknown.PrintedAbbreviation(), "sentinel must never be printed")
	assert.Empty(t, unknown.PageLabel())
	assert.Equal(t, "Unknown", unknown.Cookbook())
	assert.Equal(t, "Unknown", unknown.Author())

	supplied := meals.Record{RecipeName: "Soup", CookbookTitle: "Joy of Cooking", CookbookAbbr: "JOY"}.Normalize()
	assert.Equal(t, "JOY", supplied.PrintedAbbreviation())
}

func TestIndex_Lookup(t *testing.T) {
	ix := meals.NewIndex([]meals.Record{
		{ScheduledDate: day(2024, time.March, 5), RecipeName: "Chili"},
	})

	r, ok := ix.Lookup(time.March, 5)
	require.True(t, ok)
	assert.Equal(t, "Chili", r.RecipeName)

	_, ok = ix.Lookup(time.March, 6)
	assert.False(t, ok, "absence is a normal outcome")

	_, ok = ix.Lookup(time.April, 5)
	assert.False(t, ok)
}

func TestIndex_FirstSeenWins(t *testing.T) {
	ix := meals.NewIndex([]meals.Record{
		{ScheduledDate: day(2024, time.March, 5), RecipeName: "Chili"},
		{ScheduledDate: day(2024, time.March, 5), RecipeName: "Tacos"},
		{ScheduledDate: day(2024, time.March, 7), RecipeName: "Soup"},
	})

	r, ok := ix.Lookup(time.March, 5)
	require.True(t, ok)
	assert.Equal(t, "Chili", r.RecipeName)
	assert.Equal(t, 2, ix.Len())
	require.Len(t, ix.Duplicates(), 1)
	assert.Equal(t, "Tacos", ix.Duplicates()[0].RecipeName)
}

func TestIndex_SkipsPlaceholders(t *testing.T) {
	ix := meals.NewIndex([]meals.Record{
		{ScheduledDate: day(2024, time.March, 5), RecipeName: ""},
		{ScheduledDate: day(2024, time.March, 5), RecipeName: "Chili"},
	})

	r, ok := ix.Lookup(time.March, 5)
	require.True(t, ok)
	assert.Equal(t, "Chili", r.RecipeName)
	assert.Empty(t, ix.Duplicates())
}

func TestIndex_NilIsEmpty(t *testing.T) {
	var ix *meals.Index
	_, ok := ix.Lookup(time.January, 1)
	assert.False(t, ok)
}

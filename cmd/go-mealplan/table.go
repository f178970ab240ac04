package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/i18n"
	"github.com/tartampluch/go-mealplan/internal/meals"
)

const maxNotesWidth = 50

// printMeals renders records as an aligned table with localized headers.
func printMeals(w io.Writer, records []meals.Record, labels *i18n.Labels) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxNotesWidth
	tbl.Wrap = true

	tbl.AddRow(
		bold.Sprint(labels.Msg(config.TKeyColDate)),
		bold.Sprint(labels.Msg(config.TKeyColRecipe)),
		bold.Sprint(labels.Msg(config.TKeyColCookbook)),
		bold.Sprint(labels.Msg(config.TKeyColPage)),
		bold.Sprint(labels.Msg(config.TKeyColNotes)),
	)
	for _, r := range records {
		tbl.AddRow(
			r.ScheduledDate.Format(config.DateFormatDay),
			r.RecipeName,
			r.Cookbook(),
			r.PageLabel(),
			r.Notes,
		)
	}
	tbl.RightAlign(3)

	_, _ = fmt.Fprintln(w, tbl)
}

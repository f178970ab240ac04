package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/engine"
	"github.com/tartampluch/go-mealplan/internal/fontmetrics"
	"github.com/tartampluch/go-mealplan/internal/i18n"
	"github.com/tartampluch/go-mealplan/internal/layout"
	"github.com/tartampluch/go-mealplan/internal/meals"
	"github.com/tartampluch/go-mealplan/internal/raster"
	"github.com/tartampluch/go-mealplan/internal/server"
	"github.com/tartampluch/go-mealplan/internal/settings"
)

// app carries the state shared by every command.
type app struct {
	configPath string
	debug      bool
	mealsFile  string
	mealsURL   string
	user       string

	settings  settings.Settings
	catalog   *i18n.Catalog
	fonts     *fontmetrics.Measurer
	logCloser io.Closer
}

// setup initializes logging and loads the settings. Flags win over the file.
func (a *app) setup(cmd *cobra.Command) error {
	a.logCloser = setupLogging(a.debug)
	logStartupInfo(cmd.CommandPath())

	s, err := settings.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.mealsFile != "" {
		s.Source.Mode = config.SourceModeLocal
		s.Source.Path = a.mealsFile
	}
	if a.mealsURL != "" {
		s.Source.Mode = config.SourceModeWeb
		s.Source.URL = a.mealsURL
	}
	if a.user != "" {
		s.Source.User = a.user
	}

	a.settings = s
	a.catalog = i18n.NewCatalog()
	a.fonts = fontmetrics.New()
	return nil
}

func (a *app) close() {
	if a.fonts != nil {
		_ = a.fonts.Close()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close() // Best effort close
	}
}

func (a *app) source() (meals.Source, error) {
	return engine.OpenSource(engine.SourceConfig{
		Mode:      a.settings.Source.Mode,
		LocalPath: a.settings.Source.Path,
		WebURL:    a.settings.Source.URL,
		WebUser:   a.settings.Source.User,
	})
}

func (a *app) generator(src meals.Source) *engine.Generator {
	return &engine.Generator{
		Clock:   calendar.RealClock{},
		Source:  src,
		Layout:  layout.NewEngine(a.settings.Layout, a.fonts),
		Catalog: a.catalog,
		Fonts:   a.fonts,
		DPI:     raster.DefaultDPI,
	}
}

// month resolves the --month flag, defaulting to the current month.
func month(v string) (calendar.Month, error) {
	if v == "" {
		return calendar.CurrentMonth(calendar.RealClock{}), nil
	}
	return calendar.ParseMonth(v)
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go-mealplan",
		Short: "Print monthly meal plan calendars.",
		Long: `go-mealplan lays out the meals of a month on a 5x7 calendar grid with
recipe names, notes and cookbook references, and serves or writes the
result as a page description (JSON), a PNG image or an iCalendar feed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, config.FlagConfig, "", config.FlagDescConfig)
	flags.BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)
	flags.StringVar(&a.mealsFile, config.FlagSourcePath, "", config.FlagDescSourcePath)
	flags.StringVar(&a.mealsURL, config.FlagSourceURL, "", config.FlagDescSourceURL)
	flags.StringVar(&a.user, config.FlagSourceUser, "", config.FlagDescSourceUser)

	addRender(cmd, a)
	addICS(cmd, a)
	addMeals(cmd, a)
	addServe(cmd, a)
	addVersion(cmd)
	return cmd
}

func addRender(topLevel *cobra.Command, a *app) {
	var (
		monthFlag, format, output, lang string
		mealsOnly, noNotes              bool
		weeks                           []int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the meal plan page of a month.",
		Example: `
go-mealplan render --month 2024-03 --format png
go-mealplan render --month 2024-03 --weeks 0,1 --meals-only -o -
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := month(monthFlag)
			if err != nil {
				return err
			}
			opts := layout.DefaultOptions()
			opts.MealsOnly = mealsOnly
			opts.PrintNotes = !noNotes
			if cmd.Flags().Changed(config.FlagWeeks) {
				opts.WeeksToPrint = weeks
			}
			if lang == "" {
				lang = a.settings.Language
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			out, err := a.generator(src).Render(cmd.Context(), engine.Request{
				Month:    m,
				Format:   strings.ToLower(format),
				Options:  opts,
				Language: lang,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&monthFlag, config.FlagMonth, "m", "", config.FlagDescMonth)
	cmd.Flags().StringVarP(&format, config.FlagFormat, "f", config.DefaultFormat, config.FlagDescFormat)
	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)
	cmd.Flags().BoolVar(&mealsOnly, config.FlagMealsOnly, false, config.FlagDescMealsOnly)
	cmd.Flags().BoolVar(&noNotes, config.FlagNoNotes, false, config.FlagDescNoNotes)
	cmd.Flags().IntSliceVar(&weeks, config.FlagWeeks, nil, config.FlagDescWeeks)
	cmd.Flags().StringVar(&lang, config.FlagLanguage, "", config.FlagDescLanguage)

	topLevel.AddCommand(cmd)
}

func addICS(topLevel *cobra.Command, a *app) {
	var monthFlag, output string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export the meals of a month as an iCalendar feed.",
		Example: `
go-mealplan ics --month 2024-03 -o meals.ics
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := month(monthFlag)
			if err != nil {
				return err
			}
			src, err := a.source()
			if err != nil {
				return err
			}
			out, err := a.generator(src).Render(cmd.Context(), engine.Request{
				Month:   m,
				Format:  config.FormatICS,
				Options: layout.DefaultOptions(),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&monthFlag, config.FlagMonth, "m", "", config.FlagDescMonth)
	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)

	topLevel.AddCommand(cmd)
}

func addMeals(topLevel *cobra.Command, a *app) {
	var monthFlag, lang string

	cmd := &cobra.Command{
		Use:   "meals",
		Short: "List the meals planned in a month.",
		Example: `
go-mealplan meals --month 2024-03 --lang fr
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := month(monthFlag)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = a.settings.Language
			}
			labels, err := a.catalog.Labels(lang)
			if err != nil {
				return err
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			records, err := a.generator(src).Meals(cmd.Context(), m)
			if err != nil {
				return err
			}
			printMeals(cmd.OutOrStdout(), records, labels)
			return nil
		},
	}

	cmd.Flags().StringVarP(&monthFlag, config.FlagMonth, "m", "", config.FlagDescMonth)
	cmd.Flags().StringVar(&lang, config.FlagLanguage, "", config.FlagDescLanguage)

	topLevel.AddCommand(cmd)
}

func addServe(topLevel *cobra.Command, a *app) {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve meal plans over HTTP on localhost.",
		Example: `
go-mealplan serve --port 18090
curl 'http://127.0.0.1:18090/plan?month=2024-03&format=png' -o plan.png
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if port == "" {
				port = a.settings.Server.Port
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			cache := meals.NewCache(src)
			go cache.RunRefresher(ctx, a.settings.RefreshInterval())

			srv := server.NewPlanServer(port, a.generator(cache), calendar.RealClock{})
			srv.Language = a.settings.Language
			if err := srv.Start(ctx); err != nil {
				return err
			}

			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, config.FlagPort, "p", "", config.FlagDescPort)

	topLevel.AddCommand(cmd)
}

func addVersion(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the go-mealplan version.",
		Args:  cobra.NoArgs,
		// Printing the version needs neither settings nor logging.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}

	topLevel.AddCommand(cmd)
}

// writeOutput writes a rendering to path, to stdout for "-", or to its
// conventional file name when path is empty.
func writeOutput(stdout io.Writer, path string, out *engine.Output) error {
	if path == config.OutputStdout {
		if _, err := stdout.Write(out.Data); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
		return nil
	}
	if path == "" {
		path = out.FileName
	}

	if err := os.WriteFile(path, out.Data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	slog.Info(config.MsgOutputWritten,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, path,
		config.LogKeySizeBytes, len(out.Data),
		config.LogKeyCount, out.Meals,
	)
	return nil
}

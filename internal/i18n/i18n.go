// Package i18n provides the localized labels printed on meal plan pages.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// ErrUnsupportedLanguage is returned for languages without a locale file.
var ErrUnsupportedLanguage = errors.New(config.ErrUnsupportedLang)

// Catalog holds every embedded locale.
type Catalog struct {
	bundle    *goi18n.Bundle
	languages []string
}

// NewCatalog loads the embedded locale files. Malformed files are logged and
// skipped; English always remains the fallback.
func NewCatalog() *Catalog {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	c := &Catalog{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return c
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		c.languages = append(c.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	slices.Sort(c.languages)
	return c
}

// Languages lists the loaded language codes, sorted.
func (c *Catalog) Languages() []string {
	return slices.Clone(c.languages)
}

// Labels returns the labels of lang, a BCP 47 tag such as "fr" or "fr-CA".
// The empty string selects the default language.
func (c *Catalog) Labels(lang string) (*Labels, error) {
	if lang == "" {
		lang = config.DefaultLanguage
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedLanguage, lang, err)
	}
	base, _ := tag.Base()
	code := base.String()
	if !slices.Contains(c.languages, code) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	return &Labels{
		lang:      code,
		localizer: goi18n.NewLocalizer(c.bundle, code),
	}, nil
}

// Labels implements layout.Labeler for one language.
type Labels struct {
	lang      string
	localizer *goi18n.Localizer
}

// Language returns the language code of l.
func (l *Labels) Language() string {
	return l.lang
}

// Msg translates key, falling back to the key itself.
func (l *Labels) Msg(key string) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: key})
}

// Title returns the localized page title of m.
func (l *Labels) Title(m calendar.Month) string {
	return l.localize(&goi18n.LocalizeConfig{
		MessageID: config.TKeyTitle,
		TemplateData: map[string]any{
			"Month": l.Msg(config.TKeyMonthPfx + strconv.Itoa(int(m.Month))),
			"Year":  m.Year,
		},
	})
}

// Weekday returns the localized weekday name.
func (l *Labels) Weekday(d time.Weekday) string {
	return l.Msg(config.TKeyWeekdayPfx + strconv.Itoa(int(d)))
}

// MonthAbbr returns the localized month abbreviation.
func (l *Labels) MonthAbbr(m time.Month) string {
	return l.Msg(config.TKeyMonthAbbPfx + strconv.Itoa(int(m)))
}

func (l *Labels) localize(lc *goi18n.LocalizeConfig) string {
	if l == nil || l.localizer == nil {
		return lc.MessageID
	}
	msg, err := l.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

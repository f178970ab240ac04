// Package settings loads the mealplan.yaml configuration file and
// MEALPLAN_* environment overrides.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/layout"
)

// ErrInvalidSettings is returned for settings that cannot drive a run.
var ErrInvalidSettings = errors.New("invalid settings")

// Source selects where meal records come from.
type Source struct {
	Mode string `mapstructure:"mode"`
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
	User string `mapstructure:"user"`
}

// Server configures the serve command.
type Server struct {
	Port           string `mapstructure:"port"`
	RefreshMinutes int    `mapstructure:"refresh_minutes"`
}

// Settings is the complete application configuration.
type Settings struct {
	Language string        `mapstructure:"language"`
	Source   Source        `mapstructure:"source"`
	Server   Server        `mapstructure:"server"`
	Layout   layout.Config `mapstructure:"layout"`
}

// Default returns the settings used when no file is found.
func Default() Settings {
	return Settings{
		Language: config.DefaultLanguage,
		Source:   Source{Mode: config.SourceModeLocal},
		Server: Server{
			Port:           config.DefaultPort,
			RefreshMinutes: config.DefaultRefreshMin,
		},
		Layout: layout.DefaultConfig(),
	}
}

// Load reads settings from path, or from mealplan.yaml in the working
// directory and the user config directory when path is empty. A missing
// file is not an error. Environment variables such as MEALPLAN_SOURCE_URL
// override file values.
func Load(path string) (Settings, error) {
	s := Default()

	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("language", s.Language)
	v.SetDefault("source.mode", s.Source.Mode)
	v.SetDefault("source.path", s.Source.Path)
	v.SetDefault("source.url", s.Source.URL)
	v.SetDefault("source.user", s.Source.User)
	v.SetDefault("server.port", s.Server.Port)
	v.SetDefault("server.refresh_minutes", s.Server.RefreshMinutes)
	v.SetDefault("layout.week_start", int(s.Layout.WeekStart))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(config.ConfigFileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, config.ConfigFileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, fmt.Errorf("%s: %w", config.ErrSettingsRead, err)
		}
		slog.Debug(config.MsgSettingsMissing,
			config.LogKeyComponent, config.CompSettings,
		)
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("%s: %w", config.ErrSettingsDecode, err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}

	slog.Debug(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyFile, v.ConfigFileUsed(),
		config.LogKeyMode, s.Source.Mode,
	)
	return s, nil
}

// Validate checks the source mode and the page layout.
func (s Settings) Validate() error {
	switch s.Source.Mode {
	case config.SourceModeLocal, config.SourceModeWeb:
	default:
		return fmt.Errorf("%w: %s: %q", ErrInvalidSettings, config.ErrModeUnsupport, s.Source.Mode)
	}
	if s.Server.RefreshMinutes < 0 {
		return fmt.Errorf("%w: negative refresh interval", ErrInvalidSettings)
	}
	if err := s.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// RefreshInterval returns the cache refresh period of the serve command.
// Zero disables background refresh.
func (s Settings) RefreshInterval() time.Duration {
	return time.Duration(s.Server.RefreshMinutes) * time.Minute
}

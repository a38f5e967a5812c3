// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/mkotas/dualsub/internal/errs"
)

// Settings holds everything configurable from the environment. Flags on
// the CLI override these per invocation.
type Settings struct {
	// Plex server access, optional. Library traversal commands need both.
	PlexURL     string `env:"PLEX_URL"`
	PlexToken   string `env:"PLEX_TOKEN"`
	PlexLibrary string `env:"PLEX_TV_LIBRARY"`

	// default language pairing for dual subtitles
	PrimaryLanguage   string `env:"DUALSUB_PRIMARY_LANGUAGE, default=ja" validate:"required"`
	SecondaryLanguage string `env:"DUALSUB_SECONDARY_LANGUAGE, default=en" validate:"required"`

	// synchronization
	SyncEnabled      bool `env:"DUALSUB_SYNC_ENABLED, default=true"`
	SyncTimeoutSec   int  `env:"DUALSUB_SYNC_TIMEOUT, default=120" validate:"gt=0"`
	MaxOffsetSeconds int  `env:"DUALSUB_MAX_OFFSET_SECONDS, default=60" validate:"gt=0"`

	// styling
	PrimaryFontSize   int    `env:"DUALSUB_PRIMARY_FONT_SIZE, default=20" validate:"gt=0"`
	SecondaryFontSize int    `env:"DUALSUB_SECONDARY_FONT_SIZE, default=18" validate:"gt=0"`
	PrimaryColor      string `env:"DUALSUB_PRIMARY_COLOR, default=#FFFFFF" validate:"required"`
	SecondaryColor    string `env:"DUALSUB_SECONDARY_COLOR, default=#FFFF00" validate:"required"`
	FontName          string `env:"DUALSUB_FONT_NAME, default=Arial" validate:"required"`

	// video timing validation windows, milliseconds
	SyncToleranceMS    int `env:"DUALSUB_SYNC_TOLERANCE_MS, default=5000" validate:"gte=0"`
	WarningThresholdMS int `env:"DUALSUB_WARNING_THRESHOLD_MS, default=30000" validate:"gte=0"`

	// operations
	TempDir                 string `env:"DUALSUB_TEMP_DIR"`
	MaxWorkers              int    `env:"DUALSUB_MAX_WORKERS, default=4" validate:"gt=0"`
	EnableLanguageDetection bool   `env:"DUALSUB_LANGUAGE_DETECTION, default=true"`
}

var validate = validator.New()

// Load reads settings from the environment and validates them.
func Load(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := envconfig.Process(ctx, &settings); err != nil {
		return nil, errs.Wrap(errs.ErrConfiguration, "read environment", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "invalid settings", err)
	}
	if s.PlexURL != "" {
		parsed, err := url.Parse(s.PlexURL)
		if err != nil || parsed.Host == "" || !strings.HasPrefix(parsed.Scheme, "http") {
			return errs.Wrap(errs.ErrConfiguration,
				fmt.Sprintf("PLEX_URL %q is not a valid http(s) URL", s.PlexURL), nil)
		}
	}
	return nil
}

// HasPlex reports whether server access is configured.
func (s *Settings) HasPlex() bool {
	return s.PlexURL != "" && s.PlexToken != ""
}

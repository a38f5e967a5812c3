package dualsub

import (
	"github.com/go-playground/validator/v10"

	"github.com/mkotas/dualsub/internal/errs"
	"github.com/mkotas/dualsub/internal/language"
	"github.com/mkotas/dualsub/internal/syncer"
)

// vertical placement of one track
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// output format for the merged file
type OutputFormat string

const (
	FormatASS OutputFormat = "ass"
	FormatSSA OutputFormat = "ssa"
	FormatSRT OutputFormat = "srt"
)

// Config is the immutable per-merge configuration. Enhancement after
// language detection produces a copy; a caller's Config is never mutated.
type Config struct {
	OutputFormat OutputFormat `validate:"oneof=ass ssa srt"`

	PrimaryPosition   Position `validate:"oneof=top bottom"`
	SecondaryPosition Position `validate:"oneof=top bottom"`

	// styled output only; colors as #RRGGBB, malformed values render white
	PrimaryColor      string
	SecondaryColor    string
	PrimaryFontSize   int    `validate:"gt=0"`
	SecondaryFontSize int    `validate:"gt=0"`
	PrimaryMarginV    int    `validate:"gte=0"`
	SecondaryMarginV  int    `validate:"gte=0"`
	FontName          string `validate:"required"`
	Bold              bool
	Italic            bool
	BorderStyle       int `validate:"gte=0"`
	OutlineWidth      int `validate:"gte=0"`
	ShadowDepth       int `validate:"gte=0"`

	// plain-text output only
	SRTPrimaryPrefix   string
	SRTSecondaryPrefix string

	EnableSync              bool
	EnableLanguageDetection bool
	SyncMethod              syncer.Method  // empty selects automatically
	SyncOptions             syncer.Options // zero values pick sane defaults

	// declared language hints, weighed by the detector
	PrimaryLanguage   string
	SecondaryLanguage string
}

func DefaultConfig() Config {
	return Config{
		OutputFormat:            FormatASS,
		PrimaryPosition:         PositionBottom,
		SecondaryPosition:       PositionTop,
		PrimaryColor:            "#FFFFFF",
		SecondaryColor:          "#FFFF00",
		PrimaryFontSize:         20,
		SecondaryFontSize:       18,
		PrimaryMarginV:          20,
		SecondaryMarginV:        60,
		FontName:                "Arial",
		BorderStyle:             1,
		OutlineWidth:            2,
		ShadowDepth:             1,
		EnableSync:              true,
		EnableLanguageDetection: true,
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "invalid dual subtitle config", err)
	}
	return nil
}

// CJK floors for readable rendering
const (
	cjkPrimaryFontFloor   = 22
	cjkSecondaryFontFloor = 20
	cjkMarginFloor        = 25
)

// enhancedForLanguages derives a copy adjusted for the detected languages:
// CJK-aware font, font-size and margin floors, and SRT language-tag
// prefixes when none were configured.
func (c Config) enhancedForLanguages(primary, secondary language.Language) Config {
	primaryFont := language.OptimalFont(primary)
	secondaryFont := language.OptimalFont(secondary)
	if primaryFont != "Arial" {
		c.FontName = primaryFont
	} else if secondaryFont != "Arial" {
		c.FontName = secondaryFont
	}

	if primary.IsCJK() {
		c.PrimaryFontSize = max(cjkPrimaryFontFloor, c.PrimaryFontSize)
		c.PrimaryMarginV = max(cjkMarginFloor, c.PrimaryMarginV)
	}
	if secondary.IsCJK() {
		c.SecondaryFontSize = max(cjkSecondaryFontFloor, c.SecondaryFontSize)
		c.SecondaryMarginV = max(cjkMarginFloor, c.SecondaryMarginV)
	}

	if c.OutputFormat == FormatSRT {
		if c.SRTPrimaryPrefix == "" && primary != language.Unknown {
			c.SRTPrimaryPrefix = "[" + primary.Tag() + "] "
		}
		if c.SRTSecondaryPrefix == "" && secondary != language.Unknown {
			c.SRTSecondaryPrefix = "[" + secondary.Tag() + "] "
		}
	}

	return c
}

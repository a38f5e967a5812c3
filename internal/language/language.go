// Package language identifies the language of a subtitle track and maps
// languages to rendering hints (fonts, CJK sizing).
package language

import "strings"

// ISO 639-1 style language tag
type Language string

const (
	English            Language = "en"
	Japanese           Language = "ja"
	ChineseSimplified  Language = "zh-CN"
	ChineseTraditional Language = "zh-TW"
	Korean             Language = "ko"
	French             Language = "fr"
	Spanish            Language = "es"
	German             Language = "de"
	Russian            Language = "ru"
	Italian            Language = "it"
	Portuguese         Language = "pt"
	Unknown            Language = "unknown"
)

var normalizeMap = map[string]Language{
	"en": English, "eng": English, "english": English,
	"ja": Japanese, "jpn": Japanese, "japanese": Japanese,
	"zh": ChineseSimplified, "zh-cn": ChineseSimplified, "chi": ChineseSimplified,
	"chinese": ChineseSimplified, "simplified": ChineseSimplified,
	"zh-tw": ChineseTraditional, "zh-hk": ChineseTraditional, "traditional": ChineseTraditional,
	"ko": Korean, "kor": Korean, "korean": Korean,
	"fr": French, "fra": French, "fre": French, "french": French,
	"es": Spanish, "spa": Spanish, "spanish": Spanish,
	"de": German, "ger": German, "deu": German, "german": German,
	"ru": Russian, "rus": Russian, "russian": Russian,
	"it": Italian, "ita": Italian, "italian": Italian,
	"pt": Portuguese, "por": Portuguese, "portuguese": Portuguese,
}

// Normalize maps common language code spellings to a Language tag.
func Normalize(code string) Language {
	if code == "" {
		return Unknown
	}
	if lang, ok := normalizeMap[strings.ToLower(strings.TrimSpace(code))]; ok {
		return lang
	}
	return Unknown
}

// Tag returns the tag in upper case for display prefixes like "[JA]".
func (l Language) Tag() string {
	return strings.ToUpper(string(l))
}

// IsCJK reports whether the language needs CJK-aware fonts and sizing.
func (l Language) IsCJK() bool {
	switch l {
	case Japanese, ChineseSimplified, ChineseTraditional, Korean:
		return true
	}
	return false
}

var fontMap = map[Language]string{
	Japanese:           "Noto Sans CJK JP",
	ChineseSimplified:  "Noto Sans CJK SC",
	ChineseTraditional: "Noto Sans CJK TC",
	Korean:             "Noto Sans CJK KR",
	Russian:            "Noto Sans",
}

// OptimalFont returns the recommended font for a language.
func OptimalFont(l Language) string {
	if font, ok := fontMap[l]; ok {
		return font
	}
	return "Arial"
}

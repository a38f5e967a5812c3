package language

import (
	"fmt"

	"github.com/abadojack/whatlanggo"

	"github.com/mkotas/dualsub/internal/errs"
	"github.com/mkotas/dualsub/internal/subtitle"
	"github.com/mkotas/dualsub/internal/textutil"
)

// result of language detection for one track
type Result struct {
	Language    Language
	Confidence  float64
	Alternative Language
	SampleSize  int
	Method      string
	Details     map[string]any
}

// detects subtitle language with script patterns plus trigram analysis
type Detector struct {
	minSampleSize  int
	maxSampleLines int
}

func NewDetector() *Detector {
	return &Detector{
		minSampleSize:  100, // characters needed for a reliable call
		maxSampleLines: 50,
	}
}

// characters far more common in one Chinese script than the other
var (
	traditionalIndicators = runeSet("繁體國際電腦網絡軟體記憶體處理器圖畫機器學習訓練測試數據庫連線")
	simplifiedIndicators  = runeSet("简体国际电脑网络软体记忆体处理器图画机器学习训练测试数据库连线")
)

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

// DetectFile detects the language of a subtitle file. A declared hint is
// used as a tie-breaker and as the fallback when the file cannot be read.
func (d *Detector) DetectFile(path, declared string) (Result, error) {
	sub, err := subtitle.Open(path)
	if err != nil {
		if declared != "" {
			return Result{
				Language:   Normalize(declared),
				Confidence: 0.5,
				Method:     "fallback_to_declared",
				Details:    map[string]any{"error": err.Error()},
			}, nil
		}
		return Result{}, errs.Wrap(errs.ErrFormat, fmt.Sprintf("detect language for %s", path), err)
	}
	return d.DetectTrack(sub, declared), nil
}

// DetectTrack detects the language of an already-loaded track.
func (d *Detector) DetectTrack(sub *subtitle.Subtitle, declared string) Result {
	sample := d.sampleText(sub)

	if len([]rune(sample)) < d.minSampleSize {
		lang := Unknown
		if declared != "" {
			lang = Normalize(declared)
		}
		return Result{
			Language:   lang,
			Confidence: 0.3,
			SampleSize: len([]rune(sample)),
			Method:     "insufficient_sample",
		}
	}

	result := d.detect(sample, declared)
	result.SampleSize = len([]rune(sample))
	return result
}

// sampleText joins up to maxSampleLines cues spread evenly across the track,
// with markup stripped.
func (d *Detector) sampleText(sub *subtitle.Subtitle) string {
	total := len(sub.Entries)
	step := 1
	if total > d.maxSampleLines {
		step = total / d.maxSampleLines
	}

	text := ""
	count := 0
	for i := 0; i < total && count < d.maxSampleLines; i += step {
		if text != "" {
			text += " "
		}
		text += textutil.Normalize(sub.Entries[i].Text)
		count++
	}
	return text
}

func (d *Detector) detect(text, declared string) Result {
	declaredLang := Normalize(declared)

	pattern := detectByPatterns(text)
	if pattern != nil && pattern.Confidence > 0.7 {
		result := *pattern
		if declared != "" && declaredLang == result.Language {
			result.Confidence = min(1.0, result.Confidence+0.1)
		}
		return result
	}

	library := detectByTrigrams(text)
	if library != nil && library.Confidence > 0.6 {
		result := *library
		if result.Language == ChineseSimplified || result.Language == ChineseTraditional {
			result = refineChinese(text, result)
		}
		if declared != "" && declaredLang != Unknown && declaredLang != result.Language &&
			result.Confidence < 0.8 {
			// low confidence, trust the declaration
			result.Alternative = result.Language
			result.Language = declaredLang
			result.Confidence = 0.6
		}
		return result
	}

	if declared != "" && declaredLang != Unknown {
		return Result{Language: declaredLang, Confidence: 0.5, Method: "declared_fallback"}
	}
	return Result{Language: Unknown, Confidence: 0, Method: "no_detection"}
}

func detectByPatterns(text string) *Result {
	var kana, hangul, han, cyrillic, total int
	for _, r := range text {
		if r == ' ' {
			continue
		}
		total++
		switch {
		case r >= 0x3040 && r <= 0x30FF: // hiragana + katakana
			kana++
		case (r >= 0xAC00 && r <= 0xD7AF) || (r >= 0x1100 && r <= 0x11FF): // hangul
			hangul++
		case r >= 0x4E00 && r <= 0x9FFF: // unified CJK ideographs
			han++
		case r >= 0x0400 && r <= 0x04FF: // cyrillic
			cyrillic++
		}
	}

	// fixed order so script-count ties resolve the same way every run
	counts := []struct {
		lang  Language
		count int
	}{
		{Japanese, kana},
		{Korean, hangul},
		{ChineseSimplified, han},
		{Russian, cyrillic},
	}

	dominant := Unknown
	dominantCount := 0
	for _, c := range counts {
		if c.count > dominantCount {
			dominant, dominantCount = c.lang, c.count
		}
	}
	if dominantCount == 0 {
		return nil
	}

	// kanji alone looks Chinese; any meaningful kana means Japanese
	confidence := min(0.95, float64(dominantCount)/float64(max(total, 1))*2)
	if dominant == ChineseSimplified {
		if kana > 10 {
			dominant = Japanese
			confidence = 0.9
		} else {
			dominant = classifyChineseScript(text)
		}
	}

	return &Result{
		Language:   dominant,
		Confidence: confidence,
		Method:     "pattern_matching",
		Details: map[string]any{
			"kana": kana, "hangul": hangul, "han": han, "cyrillic": cyrillic,
		},
	}
}

var trigramMap = map[string]Language{
	"eng": English, "jpn": Japanese, "cmn": ChineseSimplified, "kor": Korean,
	"fra": French, "spa": Spanish, "deu": German, "rus": Russian,
	"ita": Italian, "por": Portuguese,
}

func detectByTrigrams(text string) *Result {
	info := whatlanggo.Detect(text)
	code := whatlanggo.LangToString(info.Lang)

	lang, ok := trigramMap[code]
	confidence := 0.3
	if ok {
		confidence = 0.8
	} else {
		lang = Unknown
	}

	return &Result{
		Language:   lang,
		Confidence: confidence,
		Method:     "trigram",
		Details:    map[string]any{"raw_detection": code},
	}
}

func classifyChineseScript(text string) Language {
	trad, simp := countChineseIndicators(text)
	if trad > simp {
		return ChineseTraditional
	}
	return ChineseSimplified
}

func countChineseIndicators(text string) (trad, simp int) {
	for _, r := range text {
		if traditionalIndicators[r] {
			trad++
		}
		if simplifiedIndicators[r] {
			simp++
		}
	}
	return trad, simp
}

// refineChinese settles Simplified vs Traditional via indicator characters.
// The 1.5x dominance ratio is an empirically tuned default.
func refineChinese(text string, result Result) Result {
	trad, simp := countChineseIndicators(text)

	switch {
	case float64(trad) > float64(simp)*1.5:
		result.Language = ChineseTraditional
		result.Confidence = min(0.9, result.Confidence+0.1)
	case float64(simp) > float64(trad)*1.5:
		result.Language = ChineseSimplified
		result.Confidence = min(0.9, result.Confidence+0.1)
	default:
		result.Confidence *= 0.8 // ambiguous
	}

	if result.Details == nil {
		result.Details = map[string]any{}
	}
	result.Details["traditional_indicators"] = trad
	result.Details["simplified_indicators"] = simp
	return result
}

package subtitle

import (
	"fmt"
	"os"

	"github.com/mkotas/dualsub/internal/errs"
)

// Open loads a subtitle file, detecting its encoding first.
func Open(path string) (*Subtitle, error) {
	return Load(path, "")
}

// Load parses a subtitle file into the track model. If encoding is empty the
// charset is detected from the raw bytes. A track that fails to decode or
// parse is retried once as lossy UTF-8; only a zero-cue result is an error.
func Load(path, encoding string) (*Subtitle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewFileError("read", path, err)
	}

	if encoding == "" {
		encoding = detectEncodingBytes(raw)
	}

	text, err := decodeText(raw, encoding)
	if err != nil {
		text = decodeLossy(raw)
	}

	format := GetFormatFromExtension(path)
	sub, err := parseContent(text, format)
	if err != nil || len(sub.Entries) == 0 {
		// retry once with a lossy UTF-8 interpretation before giving up
		sub, err = parseContent(decodeLossy(raw), format)
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, path, err)
		}
	}

	if len(sub.Entries) == 0 {
		return nil, errs.Wrap(errs.ErrFormat, fmt.Sprintf("%s: empty subtitle file", path), nil)
	}

	sub.Format = format
	sub.Encoding = encoding
	return sub, nil
}

func parseContent(text string, format Format) (*Subtitle, error) {
	switch format {
	case FormatSRT:
		entries, err := parseSRT(text)
		if err != nil {
			return nil, err
		}
		return &Subtitle{Entries: entries}, nil
	case FormatVTT:
		entries, err := parseVTT(text)
		if err != nil {
			return nil, err
		}
		return &Subtitle{Entries: entries}, nil
	case FormatASS, FormatSSA:
		entries, styles, err := parseASS(text)
		if err != nil {
			return nil, err
		}
		return &Subtitle{Entries: entries, Styles: styles}, nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
}

package subtitle

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/mkotas/dualsub/internal/errs"
)

// DetectEncoding reads the file and returns the statistically most likely
// charset name. A low-confidence guess is still returned; the only failure
// mode is an unreadable file.
func DetectEncoding(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrEncoding, path, err)
	}
	return detectEncodingBytes(raw), nil
}

func detectEncodingBytes(raw []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result == nil || result.Charset == "" {
		return "utf-8"
	}
	return result.Charset
}

// decodeText decodes raw bytes using the named charset. Unknown charset
// names and decode failures are reported so the caller can fall back to a
// lossy UTF-8 interpretation.
func decodeText(raw []byte, encoding string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" || name == "ascii" {
		if utf8.Valid(raw) {
			return string(raw), nil
		}
		return "", errs.Wrap(errs.ErrEncoding, "invalid UTF-8 input", nil)
	}

	// chardet reports UTF-16 without BOM qualifiers that htmlindex expects
	if name == "utf-16" {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		decoded, err := dec.Bytes(raw)
		if err != nil {
			return "", errs.Wrap(errs.ErrEncoding, encoding, err)
		}
		return string(decoded), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", errs.Wrap(errs.ErrEncoding, encoding, err)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errs.Wrap(errs.ErrEncoding, encoding, err)
	}
	return string(decoded), nil
}

// decodeLossy interprets raw bytes as UTF-8, replacing invalid sequences.
func decodeLossy(raw []byte) string {
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

package subtitle

import (
	"fmt"
	"strings"
)

// style definition for ASS/SSA output
type Style struct {
	FontName       string
	FontSize       int
	PrimaryColor   string // ASS color, &HBBGGRR
	SecondaryColor string
	OutlineColor   string
	BackColor      string
	Bold           bool
	Italic         bool
	BorderStyle    int
	Outline        int
	Shadow         int
	Alignment      int
	MarginL        int
	MarginR        int
	MarginV        int
	Encoding       int
}

func DefaultStyle() Style {
	return Style{
		FontName:       "Arial",
		FontSize:       20,
		PrimaryColor:   "&HFFFFFF",
		SecondaryColor: "&HFFFFFF",
		OutlineColor:   "&H000000",
		BackColor:      "&H80000000",
		BorderStyle:    1,
		Outline:        2,
		Shadow:         1,
		Alignment:      2, // bottom-center
		MarginL:        10,
		MarginR:        10,
		MarginV:        10,
		Encoding:       1,
	}
}

func isHexDigits(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ASSColor converts a #RRGGBB display color to the ASS encoding, which
// stores the channels blue-first (&HBBGGRR). Already-converted values pass
// through; anything malformed falls back to white.
func ASSColor(hexColor string) string {
	if strings.HasPrefix(hexColor, "&H") {
		return hexColor
	}

	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) != 6 || !isHexDigits(hexColor) {
		return "&HFFFFFF"
	}

	r := hexColor[0:2]
	g := hexColor[2:4]
	b := hexColor[4:6]
	return fmt.Sprintf("&H%s%s%s", strings.ToUpper(b), strings.ToUpper(g), strings.ToUpper(r))
}

// HexColor converts an ASS color back to #RRGGBB, dropping any alpha
// prefix. Malformed values fall back to white.
func HexColor(assColor string) string {
	if strings.HasPrefix(assColor, "#") {
		return assColor
	}

	v := strings.TrimPrefix(assColor, "&H")
	if len(v) > 6 {
		v = v[len(v)-6:] // strip alpha
	}
	if len(v) != 6 || !isHexDigits(v) {
		return "#FFFFFF"
	}

	b := v[0:2]
	g := v[2:4]
	r := v[4:6]
	return fmt.Sprintf("#%s%s%s", strings.ToUpper(r), strings.ToUpper(g), strings.ToUpper(b))
}

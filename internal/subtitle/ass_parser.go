package subtitle

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var assTimestampRegex = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{2})$`)

// parseASS extracts dialogue cues and style definitions. Script metadata
// outside those two concerns is not preserved.
func parseASS(text string) ([]Entry, map[string]Style, error) {
	var entries []Entry
	styles := make(map[string]Style)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	var styleColumns, eventColumns []string
	index := 0
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.ToLower(strings.Trim(trimmed, "[]"))
			continue
		}

		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimLeft(value, " ")

		switch section {
		case "v4+ styles", "v4 styles":
			switch key {
			case "Format":
				styleColumns = splitColumns(value, -1)
			case "Style":
				if styleColumns == nil {
					return nil, nil, fmt.Errorf("style before Format line at line %d", lineNum)
				}
				name, style := parseStyleLine(styleColumns, splitColumns(value, len(styleColumns)))
				if name != "" {
					styles[name] = style
				}
			}
		case "events":
			switch key {
			case "Format":
				eventColumns = splitColumns(value, -1)
			case "Dialogue":
				if eventColumns == nil {
					return nil, nil, fmt.Errorf("dialogue before Format line at line %d", lineNum)
				}
				entry, err := parseDialogueLine(eventColumns, value)
				if err != nil {
					return nil, nil, fmt.Errorf("failed to parse Dialogue at line %d: %w", lineNum, err)
				}
				index++
				entry.Index = index
				entries = append(entries, entry)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading ASS content: %w", err)
	}

	return entries, styles, nil
}

// splitColumns splits a comma-separated field list; n > 0 caps the split so
// the trailing Text column keeps its embedded commas.
func splitColumns(value string, n int) []string {
	parts := strings.SplitN(value, ",", n)
	for i := range parts {
		if i < len(parts)-1 || n < 0 {
			parts[i] = strings.TrimSpace(parts[i])
		}
	}
	return parts
}

func parseStyleLine(columns, values []string) (string, Style) {
	style := DefaultStyle()
	name := ""

	get := func(col string) (string, bool) {
		for i, c := range columns {
			if strings.EqualFold(c, col) && i < len(values) {
				return strings.TrimSpace(values[i]), true
			}
		}
		return "", false
	}
	getInt := func(col string, target *int) {
		if v, ok := get(col); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}
	getBool := func(col string, target *bool) {
		if v, ok := get(col); ok {
			// ASS encodes true as -1
			*target = v == "-1" || v == "1"
		}
	}

	if v, ok := get("Name"); ok {
		name = v
	}
	if v, ok := get("Fontname"); ok {
		style.FontName = v
	}
	getInt("Fontsize", &style.FontSize)
	if v, ok := get("PrimaryColour"); ok {
		style.PrimaryColor = v
	}
	if v, ok := get("SecondaryColour"); ok {
		style.SecondaryColor = v
	}
	if v, ok := get("OutlineColour"); ok {
		style.OutlineColor = v
	}
	if v, ok := get("BackColour"); ok {
		style.BackColor = v
	}
	getBool("Bold", &style.Bold)
	getBool("Italic", &style.Italic)
	getInt("BorderStyle", &style.BorderStyle)
	getInt("Outline", &style.Outline)
	getInt("Shadow", &style.Shadow)
	getInt("Alignment", &style.Alignment)
	getInt("MarginL", &style.MarginL)
	getInt("MarginR", &style.MarginR)
	getInt("MarginV", &style.MarginV)
	getInt("Encoding", &style.Encoding)

	return name, style
}

func parseDialogueLine(columns []string, value string) (Entry, error) {
	values := splitColumns(value, len(columns))
	if len(values) < len(columns) {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(values))
	}

	var entry Entry
	for i, col := range columns {
		v := values[i]
		switch {
		case strings.EqualFold(col, "Start"):
			t, err := parseASSTimestamp(strings.TrimSpace(v))
			if err != nil {
				return Entry{}, err
			}
			entry.StartTime = t
		case strings.EqualFold(col, "End"):
			t, err := parseASSTimestamp(strings.TrimSpace(v))
			if err != nil {
				return Entry{}, err
			}
			entry.EndTime = t
		case strings.EqualFold(col, "Style"):
			entry.Style = strings.TrimSpace(v)
		case strings.EqualFold(col, "Text"):
			entry.Text = unescapeASSText(v)
		}
	}
	return entry, nil
}

func parseASSTimestamp(value string) (time.Duration, error) {
	matches := assTimestampRegex.FindStringSubmatch(value)
	if len(matches) != 5 {
		return 0, fmt.Errorf("invalid ASS timestamp: %q", value)
	}

	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	s, _ := strconv.Atoi(matches[3])
	cs, _ := strconv.Atoi(matches[4])

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(cs)*10*time.Millisecond, nil
}

func unescapeASSText(text string) string {
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	return text
}

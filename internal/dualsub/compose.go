package dualsub

import (
	"sort"
	"time"

	"github.com/mkotas/dualsub/internal/subtitle"
)

// composeStyled stacks both tracks as independently-timed, independently-
// styled cues. Both styles anchor bottom-center; the vertical margin alone
// separates the tracks, so renderers stack them without collision logic.
func composeStyled(primary, secondary *subtitle.Subtitle, cfg Config) *subtitle.Subtitle {
	dual := &subtitle.Subtitle{
		Styles: map[string]subtitle.Style{
			"Primary":   trackStyle(cfg, true),
			"Secondary": trackStyle(cfg, false),
		},
	}

	for _, entry := range primary.Entries {
		dual.Entries = append(dual.Entries, subtitle.Entry{
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Text:      entry.Text,
			Style:     "Primary",
		})
	}
	for _, entry := range secondary.Entries {
		dual.Entries = append(dual.Entries, subtitle.Entry{
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Text:      entry.Text,
			Style:     "Secondary",
		})
	}

	dual.SortByStart()
	return dual
}

func trackStyle(cfg Config, isPrimary bool) subtitle.Style {
	style := subtitle.DefaultStyle()
	style.FontName = cfg.FontName
	style.Bold = cfg.Bold
	style.Italic = cfg.Italic
	style.BorderStyle = cfg.BorderStyle
	style.Outline = cfg.OutlineWidth
	style.Shadow = cfg.ShadowDepth
	// black outline, semi-transparent shadow, bottom-center for both tracks
	style.OutlineColor = "&H000000"
	style.BackColor = "&H80000000"
	style.Alignment = 2

	if isPrimary {
		style.PrimaryColor = subtitle.ASSColor(cfg.PrimaryColor)
		style.FontSize = cfg.PrimaryFontSize
		style.MarginV = cfg.PrimaryMarginV
	} else {
		style.PrimaryColor = subtitle.ASSColor(cfg.SecondaryColor)
		style.FontSize = cfg.SecondaryFontSize
		style.MarginV = cfg.SecondaryMarginV
	}
	style.SecondaryColor = style.PrimaryColor

	return style
}

// one slot on the unified plain-text timeline
type timelineEvent struct {
	start, end    time.Duration
	primaryText   string
	secondaryText string
	hasPrimary    bool
	hasSecondary  bool
}

// composeSRT merges both tracks into a single-box timeline. Cross-track
// overlapping cues collapse into one entry with the top-positioned track's
// text first; same-track overlaps stay separate entries.
func composeSRT(primary, secondary *subtitle.Subtitle, cfg Config) *subtitle.Subtitle {
	events := make([]timelineEvent, 0, len(primary.Entries)+len(secondary.Entries))
	for _, entry := range primary.Entries {
		events = append(events, timelineEvent{
			start:       entry.StartTime,
			end:         entry.EndTime,
			primaryText: cfg.SRTPrimaryPrefix + entry.Text,
			hasPrimary:  true,
		})
	}
	for _, entry := range secondary.Entries {
		events = append(events, timelineEvent{
			start:         entry.StartTime,
			end:           entry.EndTime,
			secondaryText: cfg.SRTSecondaryPrefix + entry.Text,
			hasSecondary:  true,
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].start < events[j].start })

	var merged []timelineEvent
	for _, event := range events {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if event.start < last.end && crossTrack(*last, event) {
				if event.hasPrimary {
					last.primaryText = event.primaryText
					last.hasPrimary = true
				} else {
					last.secondaryText = event.secondaryText
					last.hasSecondary = true
				}
				if event.end > last.end {
					last.end = event.end
				}
				continue
			}
		}
		merged = append(merged, event)
	}

	dual := &subtitle.Subtitle{}
	topIsPrimary := cfg.PrimaryPosition == PositionTop
	for _, event := range merged {
		dual.Entries = append(dual.Entries, subtitle.Entry{
			StartTime: event.start,
			EndTime:   event.end,
			Text:      renderEventText(event, topIsPrimary),
		})
	}
	return dual
}

// crossTrack reports whether event brings a track the merged entry does not
// already contain.
func crossTrack(last, event timelineEvent) bool {
	if event.hasPrimary {
		return !last.hasPrimary
	}
	return !last.hasSecondary
}

func renderEventText(event timelineEvent, topIsPrimary bool) string {
	if event.hasPrimary && event.hasSecondary {
		if topIsPrimary {
			return event.primaryText + "\n" + event.secondaryText
		}
		return event.secondaryText + "\n" + event.primaryText
	}
	if event.hasPrimary {
		return event.primaryText
	}
	return event.secondaryText
}

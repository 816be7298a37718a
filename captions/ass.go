package captions

import (
	"fmt"
	"strings"

	"scriptreel/timing"
)

// ASSOptions tunes the word-highlight ASS renderer.
type ASSOptions struct {
	PlayResX       int
	PlayResY       int
	FontName       string
	FontSize       int
	HighlightColor string // ASS &HBBGGRR& form, without braces
	MaxDuration    float64
}

// DefaultASSOptions matches a bottom-centered portrait layout with a yellow
// active-word highlight.
func DefaultASSOptions() ASSOptions {
	return ASSOptions{
		PlayResX:       1080,
		PlayResY:       1920,
		FontName:       "Arial",
		FontSize:       72,
		HighlightColor: "&H00D7FF&",
	}
}

// FormatASS renders word-highlight subtitles: one dialogue event per word,
// each showing the entire enclosing caption's text with the currently
// spoken word color-tagged. Caption membership is re-derived from the
// caption time window against the global word list, independent of the
// greedy wrapping pass, and the member words get their own overlap
// resolution so highlight windows abut exactly.
//
// The captions must already be overlap-resolved so their windows tile the
// track without double-covering any word.
func FormatASS(captions []Caption, words []timing.Word, opts ASSOptions) string {
	var sb strings.Builder
	writeASSHeader(&sb, opts)

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, c := range captions {
		members := wordsInWindow(words, c.Start, c.End)
		if len(members) == 0 {
			// A caption with no resolvable member words is shown for its
			// whole window rather than dropped.
			fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Caption,,0,0,0,,%s\n",
				formatASSTime(c.Start), formatASSTime(c.End), sanitizeASS(c.Text))
			continue
		}

		timing.ResolveWordOverlaps(members, opts.MaxDuration)

		for i, w := range members {
			fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Caption,,0,0,0,,%s\n",
				formatASSTime(w.Start), formatASSTime(w.End),
				highlightedText(members, i, opts.HighlightColor))
		}
	}

	return sb.String()
}

// wordsInWindow copies the global words whose start falls inside the caption
// window (inclusive start, exclusive end). The word list is in emission
// order, so the result is too.
func wordsInWindow(words []timing.Word, start, end float64) []timing.Word {
	var members []timing.Word
	for _, w := range words {
		if w.Start >= start && w.Start < end {
			members = append(members, w)
		}
	}
	return members
}

// highlightedText renders the full member word list with the active word
// wrapped in a primary-colour override tag.
func highlightedText(members []timing.Word, active int, color string) string {
	parts := make([]string, 0, len(members))
	for i, w := range members {
		text := sanitizeASS(w.Word)
		if i == active {
			text = fmt.Sprintf("{\\c%s}%s{\\r}", color, text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

func writeASSHeader(sb *strings.Builder, opts ASSOptions) {
	fmt.Fprintf(sb, "[Script Info]\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nScaledBorderAndShadow: yes\n\n",
		opts.PlayResX, opts.PlayResY)

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(sb, "Style: Caption,%s,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,4,1,2,60,60,120,1\n\n",
		opts.FontName, opts.FontSize)
}

// formatASSTime renders seconds as H:MM:SS.cc (centiseconds).
func formatASSTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(seconds*100 + 0.5)
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// sanitizeASS strips characters that would be interpreted as ASS override
// syntax.
func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}

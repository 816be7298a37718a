package captions

import (
	"scriptreel/timing"
)

// Caption is one subtitle display line with bounded character length.
type Caption struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// WrapOptions tunes the greedy line wrapper.
type WrapOptions struct {
	// MaxCharsPerLine is the character budget per caption line. A single
	// word longer than the budget is still accepted alone; the budget never
	// truncates a word.
	MaxCharsPerLine int

	// MaxDuration caps the track in seconds. Words starting at or after the
	// cutoff are excluded and caption end times are clamped to it. Zero
	// means no cap.
	MaxDuration float64
}

// DefaultMaxCharsPerLine is the caption line budget used when WrapOptions
// leaves MaxCharsPerLine unset.
const DefaultMaxCharsPerLine = 30

// WrapWords greedily packs the timeline's words into caption lines under the
// character budget. A line's start is its first word's start; while words
// are accepted the line's end tracks the latest word's end. When a word
// would push the line over budget the line is flushed with its end set to
// the rejected word's start, so consecutive captions touch exactly, and the
// rejected word opens the next line. Lines may span utterance boundaries.
//
// The captions carry natural (pre-overlap-resolution) times; callers feed
// them through ResolveOverlaps before rendering.
func WrapWords(utterances []timing.UtteranceTiming, opts WrapOptions) []Caption {
	maxChars := opts.MaxCharsPerLine
	if maxChars <= 0 {
		maxChars = DefaultMaxCharsPerLine
	}

	var captions []Caption
	var line string
	var lineStart, lineEnd float64

	flush := func(end float64) {
		captions = append(captions, Caption{Text: line, Start: lineStart, End: end})
		line = ""
	}

	for _, u := range utterances {
	words:
		for _, w := range u.Words {
			if opts.MaxDuration > 0 && w.Start >= opts.MaxDuration {
				break words
			}

			wordEnd := w.End
			if opts.MaxDuration > 0 && wordEnd > opts.MaxDuration {
				wordEnd = opts.MaxDuration
			}

			needsSpace := line != "" && !timing.IsPunctuationToken(w.Word)
			testLine := line
			if needsSpace {
				testLine += " "
			}
			testLine += w.Word

			if line == "" || len(testLine) <= maxChars {
				if line == "" {
					lineStart = w.Start
				}
				line = testLine
				lineEnd = wordEnd
				continue
			}

			// Over budget: close the line at the rejected word's start so
			// the two captions meet exactly, then start over with it.
			flush(w.Start)
			line = w.Word
			lineStart = w.Start
			lineEnd = wordEnd
		}
	}

	if line != "" {
		flush(lineEnd)
	}

	return captions
}

// ResolveOverlaps clamps every caption's end to the next caption's start,
// guaranteeing no two lines display simultaneously. Run once after
// WrapWords; word-level resolution for highlight rendering is a separate,
// independent pass.
func ResolveOverlaps(captions []Caption, maxDuration float64) {
	timing.ResolveOverlaps(len(captions),
		func(i int) float64 { return captions[i].Start },
		func(i int) float64 { return captions[i].End },
		func(i int, t float64) { captions[i].End = t },
		maxDuration)
}

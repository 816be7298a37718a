package scenes

import (
	"strings"
	"unicode"

	"scriptreel/timing"
)

// MatchOptions tunes the fuzzy scene-to-timeline aligner. The thresholds
// are empirically chosen; they stay configurable rather than baked in.
type MatchOptions struct {
	// Lookahead bounds how far past the cursor a scene's start is searched
	// for, in timeline words.
	Lookahead int

	// AcceptScore is the minimum matched-word fraction for a scene to be
	// considered aligned.
	AcceptScore float64

	// EarlyStopScore ends the candidate search as soon as a span scores
	// this high.
	EarlyStopScore float64
}

// DefaultMatchOptions returns the tuning used by the generation pipeline.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{Lookahead: 50, AcceptScore: 0.7, EarlyStopScore: 0.9}
}

// MatchTimestamps aligns each scene's text against the global word timeline
// to recover the scene's start and end time. The search cursor only moves
// forward: once a scene claims a span of timeline words, later scenes
// search strictly past it, so no word is matched twice. A scene whose best
// score never clears AcceptScore is flagged unmatched and leaves the cursor
// where it was — one bad scene does not desynchronize the rest.
//
// Scenes are mutated in place. Scene text and timeline words are compared
// as normalized tokens (lowercased, punctuation stripped, digits kept), so
// re-punctuation and transcription casing differences still align.
func MatchTimestamps(scenes []Scene, words []timing.Word, opts MatchOptions) {
	if opts.Lookahead <= 0 {
		opts.Lookahead = 50
	}
	if opts.AcceptScore <= 0 {
		opts.AcceptScore = 0.7
	}
	if opts.EarlyStopScore <= 0 {
		opts.EarlyStopScore = 0.9
	}

	cursor := 0
	for si := range scenes {
		sceneTokens := normalizeTokens(scenes[si].Text)
		if len(sceneTokens) == 0 {
			scenes[si].HasTimestamp = false
			continue
		}

		bestScore := 0.0
		bestFirst, bestLast := -1, -1

		for start := cursor; start < len(words) && start-cursor <= opts.Lookahead; start++ {
			matched, first, last := walkMatch(sceneTokens, words, start)
			score := float64(matched) / float64(len(sceneTokens))
			if score > bestScore {
				bestScore = score
				bestFirst, bestLast = first, last
			}
			if score > opts.EarlyStopScore {
				break
			}
		}

		if bestScore > opts.AcceptScore && bestFirst >= 0 {
			scenes[si].StartTime = words[bestFirst].Start
			scenes[si].EndTime = words[bestLast].End
			scenes[si].HasTimestamp = true
			cursor = bestLast + 1
		} else {
			scenes[si].HasTimestamp = false
		}
	}
}

// walkMatch walks scene tokens and timeline words in lockstep from the
// candidate start offset, skipping timeline entries that normalize to
// nothing (pure punctuation) and stopping on the first mismatch. It
// returns the matched-word count and the first/last matched timeline
// indices (-1 when nothing matched).
func walkMatch(sceneTokens []string, words []timing.Word, start int) (matched, first, last int) {
	first, last = -1, -1
	wi := start

	for _, token := range sceneTokens {
		for wi < len(words) && normalizeToken(words[wi].Word) == "" {
			wi++
		}
		if wi >= len(words) {
			break
		}
		if normalizeToken(words[wi].Word) != token {
			break
		}
		if first < 0 {
			first = wi
		}
		last = wi
		matched++
		wi++
	}

	return matched, first, last
}

// normalizeTokens splits text on whitespace and normalizes each token,
// dropping tokens that normalize to nothing.
func normalizeTokens(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		if t := normalizeToken(field); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// normalizeToken lowercases and strips everything but letters and digits.
func normalizeToken(token string) string {
	var b strings.Builder
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

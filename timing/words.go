package timing

import (
	"regexp"
	"strings"
)

// Word is one spoken word with its start and end time in seconds. Times are
// relative to the containing utterance until the word is folded into a
// Timeline, after which they are global.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Matches tokens that are nothing but punctuation. TTS backends sometimes
// emit "." or "," as standalone timed tokens.
var punctuationTokenRegex = regexp.MustCompile(`^[.,!?;:'"”’)\]}…\-–—]+$`)

// IsPunctuationToken reports whether the token consists solely of
// punctuation characters (commas, periods, closing quotes and brackets).
func IsPunctuationToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	return punctuationTokenRegex.MatchString(token)
}

// MergePunctuation cleans a single utterance's raw word timings by attaching
// standalone punctuation tokens to the preceding word. The punctuation text
// is concatenated onto the previous word and the previous word's end time is
// extended to cover the punctuation token. A punctuation token with no
// preceding word is kept as-is.
func MergePunctuation(words []Word) []Word {
	var merged []Word

	for _, w := range words {
		if IsPunctuationToken(w.Word) && len(merged) > 0 {
			prev := &merged[len(merged)-1]
			prev.Word += w.Word
			prev.End = w.End
			continue
		}
		merged = append(merged, w)
	}

	return merged
}

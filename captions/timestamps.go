package captions

import (
	"encoding/json"

	"scriptreel/timing"
)

// TimestampDoc is the JSON timestamp export consumed by downstream editors.
type TimestampDoc struct {
	Version int           `json:"version"`
	Note    string        `json:"note"`
	Words   []timing.Word `json:"words"`
}

const timestampDocVersion = 1

// FormatTimestamps serializes the global word timeline as a JSON document.
// The words are overlap-resolved on a copy so consumers can drive
// word-by-word highlighting directly; the caller's timeline keeps its
// natural decoded times.
func FormatTimestamps(words []timing.Word, maxDuration float64) ([]byte, error) {
	resolved := make([]timing.Word, len(words))
	copy(resolved, words)
	timing.ResolveWordOverlaps(resolved, maxDuration)

	doc := TimestampDoc{
		Version: timestampDocVersion,
		Note:    "word-level timestamps for the concatenated narration track",
		Words:   resolved,
	}
	return json.MarshalIndent(doc, "", "  ")
}

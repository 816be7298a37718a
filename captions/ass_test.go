package captions

import (
	"encoding/json"
	"strings"
	"testing"

	"scriptreel/timing"
)

func TestFormatASSOneEventPerWord(t *testing.T) {
	caps := []Caption{{Text: "hello world", Start: 0, End: 2}}
	words := []timing.Word{
		{Word: "hello", Start: 0, End: 1.1},
		{Word: "world", Start: 1.0, End: 2.0},
	}

	out := FormatASS(caps, words, DefaultASSOptions())

	events := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Dialogue:") {
			events++
			// Every event carries the full caption text.
			if !strings.Contains(line, "hello") || !strings.Contains(line, "world") {
				t.Errorf("event missing full caption text: %s", line)
			}
		}
	}
	if events != 2 {
		t.Errorf("expected 2 dialogue events, got %d", events)
	}

	// The first event highlights "hello", not "world".
	first := out[strings.Index(out, "Dialogue:"):]
	first = first[:strings.Index(first, "\n")]
	if !strings.Contains(first, "{\\c&H00D7FF&}hello{\\r}") {
		t.Errorf("first event does not highlight the first word: %s", first)
	}
	if strings.Contains(first, "{\\c&H00D7FF&}world") {
		t.Errorf("first event highlights the wrong word: %s", first)
	}
}

func TestFormatASSHeader(t *testing.T) {
	out := FormatASS(nil, nil, DefaultASSOptions())

	if !strings.Contains(out, "[Script Info]") || !strings.Contains(out, "[V4+ Styles]") {
		t.Errorf("missing header sections:\n%s", out)
	}
	if !strings.Contains(out, "Style: Caption,") {
		t.Errorf("missing style definition:\n%s", out)
	}
}

func TestFormatASSTime(t *testing.T) {
	if got := formatASSTime(3661.25); got != "1:01:01.25" {
		t.Errorf("formatASSTime(3661.25) = %q", got)
	}
	if got := formatASSTime(-1); got != "0:00:00.00" {
		t.Errorf("formatASSTime(-1) = %q", got)
	}
}

func TestFormatTimestampsResolvesCopy(t *testing.T) {
	words := []timing.Word{
		{Word: "a", Start: 0, End: 1.5},
		{Word: "b", Start: 1.0, End: 2.0},
	}

	data, err := FormatTimestamps(words, 0)
	if err != nil {
		t.Fatalf("FormatTimestamps: %v", err)
	}

	var doc TimestampDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Version != 1 || len(doc.Words) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Words[0].End != 1.0 {
		t.Errorf("exported first word end = %v, want overlap-resolved 1.0", doc.Words[0].End)
	}

	// The caller's slice keeps its natural times.
	if words[0].End != 1.5 {
		t.Errorf("input mutated: first word end = %v", words[0].End)
	}
}

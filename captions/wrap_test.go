package captions

import (
	"strings"
	"testing"

	"scriptreel/timing"
)

func TestWrapWordsFlushAtRejectedStart(t *testing.T) {
	utterances := []timing.UtteranceTiming{{
		Text:  "Hello there friend",
		Start: 0,
		End:   3,
		Words: []timing.Word{
			{Word: "Hello", Start: 0, End: 1},
			{Word: "there", Start: 1, End: 2},
			{Word: "friend", Start: 2, End: 3},
		},
	}}

	caps := WrapWords(utterances, WrapOptions{MaxCharsPerLine: 10})

	want := []Caption{
		{Text: "Hello", Start: 0, End: 1},
		{Text: "there", Start: 1, End: 2},
		{Text: "friend", Start: 2, End: 3},
	}
	if len(caps) != len(want) {
		t.Fatalf("expected %d captions, got %d: %v", len(want), len(caps), caps)
	}
	for i := range want {
		if caps[i] != want[i] {
			t.Errorf("caption %d = %+v, want %+v", i, caps[i], want[i])
		}
	}
}

func TestWrapWordsBudget(t *testing.T) {
	words := []timing.Word{
		{Word: "the", Start: 0, End: 0.3},
		{Word: "quick", Start: 0.3, End: 0.6},
		{Word: "brown", Start: 0.6, End: 0.9},
		{Word: "fox", Start: 0.9, End: 1.2},
		{Word: "jumps", Start: 1.2, End: 1.5},
		{Word: "over", Start: 1.5, End: 1.8},
		{Word: "the", Start: 1.8, End: 2.1},
		{Word: "lazy", Start: 2.1, End: 2.4},
		{Word: "dog", Start: 2.4, End: 2.7},
	}
	utterances := []timing.UtteranceTiming{{Text: "", Start: 0, End: 2.7, Words: words}}

	caps := WrapWords(utterances, WrapOptions{MaxCharsPerLine: 12})

	for _, c := range caps {
		oneWord := len(strings.Fields(c.Text)) == 1
		if len(c.Text) > 12 && !oneWord {
			t.Errorf("caption %q exceeds budget", c.Text)
		}
	}

	// Every word survives wrapping.
	var rejoined []string
	for _, c := range caps {
		rejoined = append(rejoined, c.Text)
	}
	if got := strings.Join(rejoined, " "); got != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrapped text = %q", got)
	}
}

func TestWrapWordsPunctuationNeedsNoSpace(t *testing.T) {
	utterances := []timing.UtteranceTiming{{
		Words: []timing.Word{
			{Word: "wait", Start: 0, End: 0.5},
			{Word: ",", Start: 0.5, End: 0.6},
			{Word: "what", Start: 0.7, End: 1.2},
		},
	}}

	caps := WrapWords(utterances, WrapOptions{MaxCharsPerLine: 30})

	if len(caps) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(caps))
	}
	if caps[0].Text != "wait, what" {
		t.Errorf("caption text = %q, want %q", caps[0].Text, "wait, what")
	}
}

func TestWrapWordsLongWordAcceptedAlone(t *testing.T) {
	utterances := []timing.UtteranceTiming{{
		Words: []timing.Word{
			{Word: "antidisestablishmentarianism", Start: 0, End: 2},
			{Word: "yes", Start: 2, End: 2.5},
		},
	}}

	caps := WrapWords(utterances, WrapOptions{MaxCharsPerLine: 10})

	if len(caps) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(caps))
	}
	if caps[0].Text != "antidisestablishmentarianism" {
		t.Errorf("long word was not accepted alone: %q", caps[0].Text)
	}
}

func TestWrapWordsMaxDurationCutoff(t *testing.T) {
	utterances := []timing.UtteranceTiming{{
		Words: []timing.Word{
			{Word: "kept", Start: 0, End: 1},
			{Word: "dropped", Start: 5, End: 6},
		},
	}}

	caps := WrapWords(utterances, WrapOptions{MaxCharsPerLine: 30, MaxDuration: 4})

	if len(caps) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(caps))
	}
	if caps[0].Text != "kept" {
		t.Errorf("caption text = %q, want %q", caps[0].Text, "kept")
	}
}

func TestResolveOverlapsAdjacency(t *testing.T) {
	caps := []Caption{
		{Text: "a", Start: 0, End: 1.3},
		{Text: "b", Start: 1.2, End: 2.8},
		{Text: "c", Start: 2.5, End: 4.0},
	}

	ResolveOverlaps(caps, 0)

	for i := 0; i < len(caps)-1; i++ {
		if caps[i].End != caps[i+1].Start {
			t.Errorf("caption %d end %v != caption %d start %v",
				i, caps[i].End, i+1, caps[i+1].Start)
		}
	}
	if caps[2].End != 4.0 {
		t.Errorf("last caption end = %v, want natural 4.0", caps[2].End)
	}
}

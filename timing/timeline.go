package timing

// UtteranceTiming records where one script line landed on the concatenated
// track. Words is empty when the TTS backend supplied no word timestamps.
type UtteranceTiming struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

// Timeline is the single source of truth for all downstream timing: the
// global word sequence covering the whole concatenated audio plus the
// per-utterance spans. Utterance spans are contiguous (utterance i's end
// equals utterance i+1's start) unless a Gap is configured, in which case
// consecutive utterances sit exactly Gap seconds apart.
type Timeline struct {
	Words      []Word
	Utterances []UtteranceTiming

	// Gap is the silence inserted between utterances in seconds. The
	// primary pipeline lays clips back-to-back (Gap == 0).
	Gap float64

	current float64
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Append folds one utterance into the timeline: the utterance span is
// recorded at the running offset, every word timing is shifted into global
// time, and the offset advances by the clip duration (plus Gap when one is
// configured). Utterances must be appended in script order.
func (t *Timeline) Append(text string, duration float64, words []Word) {
	if len(t.Utterances) > 0 {
		t.current += t.Gap
	}

	u := UtteranceTiming{
		Text:  text,
		Start: t.current,
		End:   t.current + duration,
	}

	for _, w := range words {
		shifted := Word{
			Word:  w.Word,
			Start: w.Start + t.current,
			End:   w.End + t.current,
		}
		u.Words = append(u.Words, shifted)
		t.Words = append(t.Words, shifted)
	}

	t.Utterances = append(t.Utterances, u)
	t.current += duration
}

// Duration returns the end time of the last utterance, which is the length
// of the concatenated track.
func (t *Timeline) Duration() float64 {
	if len(t.Utterances) == 0 {
		return 0
	}
	return t.Utterances[len(t.Utterances)-1].End
}

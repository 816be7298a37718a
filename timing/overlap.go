package timing

// ResolveOverlaps forces an ordered sequence of timed units to display
// back-to-back: for every adjacent pair, the earlier unit's end time is set
// to the later unit's start time. Natural decoded end times from TTS can
// slightly overlap the next unit's start, and subtitle renderers must never
// show two units at once.
//
// The sequence is described by accessors in the style of sort.Slice so the
// same pass serves caption-level and word-level units. The last unit keeps
// its natural end, clamped to maxDuration when maxDuration > 0.
func ResolveOverlaps(n int, start func(i int) float64, end func(i int) float64, setEnd func(i int, t float64), maxDuration float64) {
	if n == 0 {
		return
	}

	for i := 0; i < n-1; i++ {
		setEnd(i, start(i+1))
	}

	last := n - 1
	if maxDuration > 0 && end(last) > maxDuration {
		setEnd(last, maxDuration)
	}
}

// ResolveWordOverlaps runs the overlap pass over a word sequence in place.
// Used when producing word-highlighted formats, where each word's display
// window must abut the next word's.
func ResolveWordOverlaps(words []Word, maxDuration float64) {
	ResolveOverlaps(len(words),
		func(i int) float64 { return words[i].Start },
		func(i int) float64 { return words[i].End },
		func(i int, t float64) { words[i].End = t },
		maxDuration)
}

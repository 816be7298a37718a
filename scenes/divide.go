package scenes

import (
	"math"
	"strings"
)

// Scene is a contiguous slice of the script intended to correspond to one
// generated illustration. StartTime/EndTime are populated later by
// MatchTimestamps; until then HasTimestamp is false.
type Scene struct {
	Text         string  `json:"text"`
	Prompt       string  `json:"prompt"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	StartTime    float64 `json:"startTime,omitempty"`
	EndTime      float64 `json:"endTime,omitempty"`
	HasTimestamp bool    `json:"hasTimestamp"`
}

// CountRange is a closed interval of acceptable scene counts. When Min ==
// Max the count is fixed; otherwise OptimalCount picks the count in range
// that divides the script's words most evenly.
type CountRange struct {
	Min int
	Max int
}

// Tokenizer abstracts the language-specific parts of scene division so the
// division algorithm itself stays language-agnostic. The default targets
// English-style punctuation and Latin-digit decimals.
type Tokenizer interface {
	// SplitSentences segments text into sentences, terminal punctuation
	// included. Trailing text with no terminal punctuation is its own
	// sentence. Blank text yields no sentences.
	SplitSentences(text string) []string
}

// EnglishTokenizer splits on runs of sentence punctuation that are followed
// by whitespace or end of text. A punctuation run touching a digit on
// either side is not a boundary, so "3.6" and "1,000" survive intact.
type EnglishTokenizer struct{}

func (EnglishTokenizer) SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	isTerminator := func(r rune) bool {
		return r == '.' || r == ',' || r == '!' || r == '?'
	}
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }

	i := 0
	for i < len(runes) {
		if !isTerminator(runes[i]) {
			i++
			continue
		}

		// Extend over the whole punctuation run.
		j := i
		for j < len(runes) && isTerminator(runes[j]) {
			j++
		}

		precededByDigit := i > 0 && isDigit(runes[i-1])
		followedByDigit := j < len(runes) && isDigit(runes[j])
		atEnd := j == len(runes)
		followedBySpace := !atEnd && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r')

		if !precededByDigit && !followedByDigit && (atEnd || followedBySpace) {
			sentence := strings.TrimSpace(string(runes[start:j]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = j
		}
		i = j
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

// DivideOptions tunes scene division.
type DivideOptions struct {
	// TargetFactor lets a scene close once it reaches this fraction of the
	// ideal even word target. Empirically 0.8; there is no derivation
	// behind the value, so it stays configurable.
	TargetFactor float64

	Tokenizer Tokenizer
}

const defaultTargetFactor = 0.8

func (o *DivideOptions) withDefaults() DivideOptions {
	opts := DivideOptions{TargetFactor: defaultTargetFactor, Tokenizer: EnglishTokenizer{}}
	if o != nil {
		if o.TargetFactor > 0 {
			opts.TargetFactor = o.TargetFactor
		}
		if o.Tokenizer != nil {
			opts.Tokenizer = o.Tokenizer
		}
	}
	return opts
}

// Divide splits a script into exactly count scenes of near-equal word
// length. Sentences are distributed greedily against a dynamic even target,
// then a rebalancing pass splits the longest or merges the shortest scenes
// until the count is exact. When count exceeds the natural sentence count
// the tail scenes come out empty; callers generating per-scene content
// should expect that degenerate case.
func Divide(script string, count int, o *DivideOptions) []Scene {
	if count < 1 {
		count = 1
	}
	opts := o.withDefaults()

	sentences := opts.Tokenizer.SplitSentences(script)
	if len(sentences) == 0 {
		return nil
	}

	totalWords := 0
	sentenceWords := make([]int, len(sentences))
	for i, s := range sentences {
		sentenceWords[i] = len(strings.Fields(s))
		totalWords += sentenceWords[i]
	}

	var texts []string
	var current []string
	wordsUsed := 0
	currentWords := 0

	for i, sentence := range sentences {
		current = append(current, sentence)
		currentWords += sentenceWords[i]
		wordsUsed += sentenceWords[i]

		scenesLeft := count - len(texts)
		sentencesLeft := len(sentences) - i - 1
		finalSlot := scenesLeft == 1

		if finalSlot && sentencesLeft == 0 {
			// Last scene absorbs the remainder.
			texts = append(texts, strings.Join(current, " "))
			current = nil
			currentWords = 0
			continue
		}

		close := false
		if !finalSlot && sentencesLeft == scenesLeft {
			// From here on each remaining slot gets one sentence, or later
			// scenes would starve.
			close = true
		} else if !finalSlot {
			wordsRemaining := totalWords - wordsUsed
			dynamicTarget := float64(wordsRemaining+currentWords) / float64(scenesLeft)
			if float64(currentWords) >= opts.TargetFactor*dynamicTarget {
				close = true
			}
		}

		if close {
			texts = append(texts, strings.Join(current, " "))
			current = nil
			currentWords = 0
		}
	}

	if len(current) > 0 {
		texts = append(texts, strings.Join(current, " "))
	}

	texts = rebalance(texts, count, opts.Tokenizer)

	scenes := make([]Scene, len(texts))
	for i, text := range texts {
		scenes[i] = Scene{Text: text}
	}
	return scenes
}

// rebalance adjusts the scene list to exactly count entries: too few scenes
// and the longest (by character length) is split at its midpoint sentence
// boundary; too many and the shortest is merged into a neighbor.
func rebalance(texts []string, count int, tok Tokenizer) []string {
	for len(texts) < count {
		longest := 0
		for i := range texts {
			if len(texts[i]) > len(texts[longest]) {
				longest = i
			}
		}

		sentences := tok.SplitSentences(texts[longest])
		if len(sentences) < 2 {
			// Unsplittable scene; pad with an empty one.
			texts = append(texts, "")
			continue
		}

		mid := len(sentences) / 2
		first := strings.Join(sentences[:mid], " ")
		second := strings.Join(sentences[mid:], " ")
		texts[longest] = first
		texts = append(texts[:longest+1], append([]string{second}, texts[longest+1:]...)...)
	}

	for len(texts) > count {
		shortest := 0
		for i := range texts {
			if len(texts[i]) < len(texts[shortest]) {
				shortest = i
			}
		}

		if shortest == len(texts)-1 {
			// Last scene merges into its left neighbor.
			texts[shortest-1] = joinScenes(texts[shortest-1], texts[shortest])
			texts = texts[:shortest]
		} else {
			texts[shortest+1] = joinScenes(texts[shortest], texts[shortest+1])
			texts = append(texts[:shortest], texts[shortest+1:]...)
		}
	}

	return texts
}

func joinScenes(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}

// OptimalCount picks the scene count within r whose words-per-scene ratio is
// closest to a whole number (the "evenness" score), ties broken by the
// lowest count. Scenes of uniform word weight look uniform on screen.
func OptimalCount(script string, r CountRange, o *DivideOptions) int {
	if r.Min < 1 {
		r.Min = 1
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	if r.Min == r.Max {
		return r.Min
	}
	opts := o.withDefaults()

	totalWords := 0
	for _, s := range opts.Tokenizer.SplitSentences(script) {
		totalWords += len(strings.Fields(s))
	}
	if totalWords == 0 {
		return r.Min
	}

	best := r.Min
	bestScore := -1.0
	for count := r.Min; count <= r.Max; count++ {
		perScene := float64(totalWords) / float64(count)
		score := 1 - math.Abs(perScene-math.Round(perScene))/perScene
		if score > bestScore {
			bestScore = score
			best = count
		}
	}
	return best
}

package speech

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"scriptreel/timing"
	"scriptreel/wav"
)

// Utterance is one synthesized script line, alive only until it is folded
// into the session timeline.
type Utterance struct {
	Text  string
	Audio *wav.Audio
	Words []timing.Word
}

// GenerateOptions tunes batch synthesis.
type GenerateOptions struct {
	// CacheDir, when set, holds one WAV per line keyed by a content hash.
	// Lines whose clip already exists are not re-synthesized, but a cached
	// clip has no word timestamps.
	CacheDir string

	// TrimThreshold is the silence amplitude cutoff applied to clips that
	// arrive without word timestamps, so the utterance duration reflects
	// actual speech.
	TrimThreshold int16
}

// SplitLines breaks a script into its non-empty lines, each of which is
// synthesized as one utterance.
func SplitLines(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// GenerateUtterances synthesizes every line sequentially, in script order.
// Any line's failure aborts the whole batch: downstream offsetting needs a
// complete ordered utterance list, so no partial result is returned. Word
// timings are punctuation-merged here, before anything downstream sees
// them.
func GenerateUtterances(ctx context.Context, provider Provider, lines []string, opts GenerateOptions) ([]Utterance, error) {
	utterances := make([]Utterance, 0, len(lines))

	for i, line := range lines {
		u, err := generateLine(ctx, provider, line, opts)
		if err != nil {
			return nil, fmt.Errorf("line %d (%q): %w", i+1, truncate(line, 40), err)
		}
		log.Printf("synthesized line %d/%d (%.2fs)", i+1, len(lines), u.Audio.Duration())
		utterances = append(utterances, *u)
	}

	return utterances, nil
}

func generateLine(ctx context.Context, provider Provider, line string, opts GenerateOptions) (*Utterance, error) {
	if opts.CacheDir != "" {
		if cached, ok := readCachedClip(opts.CacheDir, line); ok {
			log.Printf("using cached audio for %q", truncate(line, 40))
			return &Utterance{Text: line, Audio: cached}, nil
		}
	}

	result, err := provider.Synthesize(ctx, line)
	if err != nil {
		return nil, err
	}

	audio, err := wav.Decode(result.Audio)
	if err != nil {
		return nil, fmt.Errorf("decoding tts audio: %w", err)
	}

	words := timing.MergePunctuation(result.Words)
	if len(words) == 0 && opts.TrimThreshold > 0 {
		// No timestamps to anchor captions; at least tighten the clip so
		// utterance spans track actual speech.
		audio = wav.TrimSilence(audio, opts.TrimThreshold)
	}

	if opts.CacheDir != "" {
		writeCachedClip(opts.CacheDir, line, audio)
	}

	return &Utterance{Text: line, Audio: audio, Words: words}, nil
}

// BuildTimeline folds finalized utterances into a global timeline and the
// concatenated narration track. Clips are laid back-to-back; when gap > 0 a
// silent clip of that length separates consecutive utterances.
func BuildTimeline(utterances []Utterance, gap float64) (*timing.Timeline, *wav.Audio, error) {
	if len(utterances) == 0 {
		return nil, nil, fmt.Errorf("no utterances to assemble")
	}

	tl := timing.NewTimeline()
	tl.Gap = gap

	clips := make([]*wav.Audio, 0, len(utterances)*2)
	for i, u := range utterances {
		if gap > 0 && i > 0 {
			clips = append(clips, wav.Silence(u.Audio.SampleRate, u.Audio.Channels, gap))
		}
		clips = append(clips, u.Audio)
		tl.Append(u.Text, u.Audio.Duration(), u.Words)
	}

	track, err := wav.Concat(clips)
	if err != nil {
		return nil, nil, fmt.Errorf("concatenating clips: %w", err)
	}

	return tl, track, nil
}

func cacheKey(line string) string {
	return fmt.Sprintf("%x.wav", md5.Sum([]byte(line)))
}

func readCachedClip(dir, line string) (*wav.Audio, bool) {
	data, err := os.ReadFile(filepath.Join(dir, cacheKey(line)))
	if err != nil {
		return nil, false
	}
	audio, err := wav.Decode(data)
	if err != nil {
		return nil, false
	}
	return audio, true
}

func writeCachedClip(dir, line string, audio *wav.Audio) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("warning: could not create cache dir: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, cacheKey(line)), audio.Encode(), 0644); err != nil {
		log.Printf("warning: could not write cached clip: %v", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

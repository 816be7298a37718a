// Package pipeline runs a full script-to-assets pass: synthesis, timeline
// assembly, captions, scenes, images. Each run gets a fresh Session, so
// nothing leaks between runs.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"scriptreel/captions"
	"scriptreel/config"
	"scriptreel/images"
	"scriptreel/llm"
	"scriptreel/scenes"
	"scriptreel/speech"
	"scriptreel/timing"
	"scriptreel/wav"
)

// Session holds everything produced by one run.
type Session struct {
	ID       string
	Script   string
	Lines    []string
	Timeline *timing.Timeline
	Audio    *wav.Audio
	Captions []captions.Caption
	Scenes   []scenes.Scene
}

func NewSession(script string) *Session {
	return &Session{
		ID:     uuid.New().String(),
		Script: script,
		Lines:  speech.SplitLines(script),
	}
}

// Runner wires the external collaborators a run needs. Any of them may be
// nil when the caller only wants part of the pipeline.
type Runner struct {
	Config *config.Config
	Speech speech.Provider
	LLM    *llm.Client
	Images *images.Client
}

func NewRunner(cfg *config.Config) *Runner {
	r := &Runner{Config: cfg}
	if cfg.Speech.BaseURL != "" {
		r.Speech = speech.NewHTTPProvider(cfg.Speech.BaseURL, cfg.Speech.APIKey, cfg.Speech.Voice)
	}
	if cfg.LLM.APIKey != "" {
		r.LLM = llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	}
	img := images.NewClient()
	if cfg.Images.BaseURL != "" {
		img.BaseURL = cfg.Images.BaseURL
	}
	r.Images = img
	return r
}

// Synthesize runs TTS over every script line and assembles the narration
// track and global timeline. Any line failure aborts the whole batch.
func (r *Runner) Synthesize(ctx context.Context, s *Session) error {
	if r.Speech == nil {
		return fmt.Errorf("no speech service configured")
	}
	if len(s.Lines) == 0 {
		return fmt.Errorf("script has no non-empty lines")
	}

	utterances, err := speech.GenerateUtterances(ctx, r.Speech, s.Lines, speech.GenerateOptions{
		CacheDir:      r.Config.Audio.CacheDir,
		TrimThreshold: r.Config.Audio.TrimThreshold,
	})
	if err != nil {
		return err
	}

	tl, track, err := speech.BuildTimeline(utterances, r.Config.Audio.Gap)
	if err != nil {
		return err
	}
	s.Timeline = tl
	s.Audio = track
	return nil
}

// BuildCaptions wraps the timeline's words into caption lines. An utterance
// that carries no word timestamps (a cached clip, or a backend without them)
// still keeps its text: it is chunked into evenly-timed captions over its
// own span and merged into the stream in time order, so no line's text is
// dropped from the output.
func (r *Runner) BuildCaptions(s *Session) {
	if s.Timeline == nil {
		s.Captions = nil
		return
	}
	opts := captions.WrapOptions{
		MaxCharsPerLine: r.Config.Captions.MaxCharsPerLine,
		MaxDuration:     r.Config.Captions.MaxDuration,
	}

	var out []captions.Caption
	var timed []timing.UtteranceTiming
	flushTimed := func() {
		if len(timed) > 0 {
			out = append(out, captions.WrapWords(timed, opts)...)
			timed = nil
		}
	}

	for _, u := range s.Timeline.Utterances {
		if len(u.Words) > 0 {
			timed = append(timed, u)
			continue
		}
		flushTimed()
		chunks := captions.ChunkEvenly(u.Text, u.End-u.Start, captions.ChunkedFallbackWords)
		for i := range chunks {
			chunks[i].Start += u.Start
			chunks[i].End += u.Start
		}
		out = append(out, chunks...)
	}
	flushTimed()

	captions.ResolveOverlaps(out, opts.MaxDuration)
	s.Captions = out
}

// BuildScenes divides the script into count scenes and aligns them with the
// timeline when one exists.
func (r *Runner) BuildScenes(s *Session, count int) {
	s.Scenes = scenes.Divide(s.Script, count, nil)
	if s.Timeline != nil && len(s.Timeline.Words) > 0 {
		scenes.MatchTimestamps(s.Scenes, s.Timeline.Words, scenes.DefaultMatchOptions())
	}
}

// GenerateVisuals writes an image prompt for each scene, then generates the
// images in bounded batches. A scene whose prompt or image fails is logged
// and skipped; the rest continue.
func (r *Runner) GenerateVisuals(ctx context.Context, s *Session) {
	if r.LLM != nil {
		for i := range s.Scenes {
			if s.Scenes[i].Text == "" {
				continue
			}
			prompt, err := r.LLM.GenerateScenePrompt(ctx, s.Scenes[i].Text)
			if err != nil {
				log.Printf("scene %d prompt skipped: %v", i+1, err)
				continue
			}
			s.Scenes[i].Prompt = prompt
		}
	} else {
		// Without an LLM the narration text itself is the prompt.
		for i := range s.Scenes {
			s.Scenes[i].Prompt = s.Scenes[i].Text
		}
	}

	r.Images.GenerateBatch(ctx, s.Scenes, r.Config.Images.BatchSize)
}

// WriteOutputs writes the narration WAV and all caption documents to dir.
// Returns the paths written, keyed by kind.
func (s *Session) WriteOutputs(dir string) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	written := map[string]string{}

	if s.Audio != nil {
		path := filepath.Join(dir, "narration.wav")
		if err := os.WriteFile(path, s.Audio.Encode(), 0644); err != nil {
			return nil, err
		}
		written["audio"] = path
	}

	if len(s.Captions) > 0 {
		path := filepath.Join(dir, "captions.srt")
		if err := os.WriteFile(path, []byte(captions.FormatSRT(s.Captions)), 0644); err != nil {
			return nil, err
		}
		written["srt"] = path
	}

	// ASS highlight events and the JSON document need word timings; chunked
	// fallback captions still render in the ASS as plain full-window events.
	if len(s.Captions) > 0 && s.Timeline != nil && len(s.Timeline.Words) > 0 {
		path := filepath.Join(dir, "captions.ass")
		ass := captions.FormatASS(s.Captions, s.Timeline.Words, captions.DefaultASSOptions())
		if err := os.WriteFile(path, []byte(ass), 0644); err != nil {
			return nil, err
		}
		written["ass"] = path

		doc, err := captions.FormatTimestamps(s.Timeline.Words, 0)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "timestamps.json")
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return nil, err
		}
		written["timestamps"] = path
	}

	return written, nil
}

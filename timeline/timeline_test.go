package timeline

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"scriptreel/captions"
	"scriptreel/scenes"
	"scriptreel/timing"
)

func TestFormatSecondsFrameAligned(t *testing.T) {
	cases := map[float64]string{
		0:   "0s",
		-1:  "0s",
		1.0: "29029/30000s",
	}
	for in, want := range cases {
		if got := formatSeconds(in); got != want {
			t.Errorf("formatSeconds(%v) = %q, want %q", in, got, want)
		}
	}

	// Every nonzero value must be a multiple of the 1001 frame duration.
	for _, v := range []float64{0.5, 1.7, 12.345, 60} {
		s := formatSeconds(v)
		n, err := strconv.ParseInt(strings.TrimSuffix(s, "/30000s"), 10, 64)
		if err != nil {
			t.Fatalf("formatSeconds(%v) = %q not parseable", v, s)
		}
		if n%1001 != 0 {
			t.Errorf("formatSeconds(%v) = %q not frame aligned", v, s)
		}
	}
}

func TestExportBuildsSpine(t *testing.T) {
	doc, err := Export(ExportOptions{
		ProjectName: "demo",
		AudioPath:   "/tmp/narration.wav",
		Duration:    10,
		Scenes: []scenes.Scene{
			{Text: "one", ImageURL: "https://img/1", StartTime: 0, EndTime: 5, HasTimestamp: true},
			{Text: "two", StartTime: 5, EndTime: 10},
		},
		Captions: []captions.Caption{
			{Text: "hello world", Start: 0.2, End: 1.4},
		},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	spine := doc.Library.Events[0].Projects[0].Sequences[0].Spine
	if len(spine.AssetClips) != 1 {
		t.Errorf("expected 1 narration clip, got %d", len(spine.AssetClips))
	}
	if len(spine.Videos) != 1 {
		t.Errorf("scene without an image should be skipped, got %d videos", len(spine.Videos))
	}
	if len(spine.Titles) != 1 || spine.Titles[0].Text.TextStyle.Text != "hello world" {
		t.Errorf("caption title missing: %+v", spine.Titles)
	}

	// Each resource keeps a unique id.
	seen := map[string]bool{}
	for _, a := range doc.Resources.Assets {
		if seen[a.ID] {
			t.Errorf("duplicate asset id %s", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestExportRejectsEmptyTimeline(t *testing.T) {
	if _, err := Export(ExportOptions{}); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestTimingsRoundTrip(t *testing.T) {
	tl := timing.NewTimeline()
	tl.Append("hello there.", 2.0, []timing.Word{
		{Word: "hello", Start: 0.1, End: 0.5},
		{Word: "there.", Start: 0.6, End: 1.1},
	})
	tl.Append("second line", 1.5, nil)

	path := filepath.Join(t.TempDir(), "timings.xml")
	if err := ExportTimings(tl, path); err != nil {
		t.Fatalf("ExportTimings: %v", err)
	}

	back, err := ImportTimings(path)
	if err != nil {
		t.Fatalf("ImportTimings: %v", err)
	}

	if len(back.Utterances) != 2 {
		t.Fatalf("got %d utterances", len(back.Utterances))
	}
	if back.Utterances[1].Start != 2.0 || back.Utterances[1].End != 3.5 {
		t.Errorf("second utterance span = %+v", back.Utterances[1])
	}
	if len(back.Words) != 2 || back.Words[1].Word != "there." {
		t.Errorf("words = %v", back.Words)
	}
}

func TestParseTimingsRejectsMalformedXML(t *testing.T) {
	if _, err := ParseTimings([]byte("<timings><utterance")); err == nil {
		t.Error("expected malformed XML to error")
	}
	if _, err := ParseTimings([]byte(`<timings><utterance text="x" start="2" end="1"/></timings>`)); err == nil {
		t.Error("expected inverted span to error")
	}
}

func TestWriteFileCarriesDoctype(t *testing.T) {
	doc, err := Export(ExportOptions{Duration: 1})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.fcpxml")
	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE fcpxml>") {
		t.Error("missing fcpxml doctype")
	}
}

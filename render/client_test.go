package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"

	"scriptreel/scenes"
)

func TestNormalizeStatusFieldNames(t *testing.T) {
	cases := []struct {
		body string
		want float64
	}{
		{`{"status":"rendering","progress":0.4}`, 0.4},
		{`{"status":"rendering","percent":40}`, 0.4},
		{`{"status":"rendering","percentage":40}`, 0.4},
		{`{"status":"rendering"}`, 0},
	}

	for _, tc := range cases {
		got := normalizeStatus([]byte(tc.body))
		if got.Progress != tc.want {
			t.Errorf("normalizeStatus(%s).Progress = %v, want %v", tc.body, got.Progress, tc.want)
		}
		if got.State != "rendering" {
			t.Errorf("normalizeStatus(%s).State = %q", tc.body, got.State)
		}
	}
}

func TestNormalizeStatusTerminalStates(t *testing.T) {
	done := normalizeStatus([]byte(`{"status":"completed","progress":1,"video_url":"https://cdn/x.mp4"}`))
	if !done.Done() || done.Failed() {
		t.Errorf("completed status misread: %+v", done)
	}
	if done.VideoURL != "https://cdn/x.mp4" {
		t.Errorf("video url = %q", done.VideoURL)
	}

	failed := normalizeStatus([]byte(`{"status":"failed","logs":["ffmpeg exited 1"]}`))
	if !failed.Failed() || failed.Done() {
		t.Errorf("failed status misread: %+v", failed)
	}
	if len(failed.Logs) != 1 || failed.Logs[0] != "ffmpeg exited 1" {
		t.Errorf("logs = %v", failed.Logs)
	}
}

func TestBuildPayload(t *testing.T) {
	payload, err := buildPayload(Job{
		AudioPath:    "narration.wav",
		CaptionsPath: "captions.ass",
		Scenes: []scenes.Scene{
			{ImageURL: "https://img/1", StartTime: 0, EndTime: 4.5},
			{ImageURL: "https://img/2", StartTime: 4.5, EndTime: 9},
		},
	})
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}

	if got := gjson.GetBytes(payload, "scenes.1.start").Float(); got != 4.5 {
		t.Errorf("second scene start = %v", got)
	}
	if got := gjson.GetBytes(payload, "width").Int(); got != 1080 {
		t.Errorf("default width = %v", got)
	}
	if got := gjson.GetBytes(payload, "captions").String(); got != "captions.ass" {
		t.Errorf("captions = %q", got)
	}
}

func TestSubmitFallsBackToLocalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	id, err := c.Submit(context.Background(), Job{AudioPath: "a.wav"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id == "" {
		t.Error("expected a generated job id")
	}
}

package images

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"scriptreel/scenes"
)

func testClient(serverURL string) *Client {
	c := NewClient()
	c.BaseURL = serverURL
	c.MaxRetries = 1
	return c
}

func TestURLIsDeterministic(t *testing.T) {
	c := NewClient()
	a := c.URL("a red bicycle at dawn")
	b := c.URL("a red bicycle at dawn")
	if a != b {
		t.Errorf("same prompt produced different URLs:\n%s\n%s", a, b)
	}
	if a == c.URL("a blue bicycle at dawn") {
		t.Error("different prompts produced the same URL")
	}
	if !strings.Contains(a, "width=1080") || !strings.Contains(a, "height=1920") {
		t.Errorf("URL missing dimensions: %s", a)
	}
}

func TestFetchRejectsTinyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("err"))
	}))
	defer server.Close()

	c := testClient(server.URL)
	if _, err := c.Fetch(context.Background(), "anything"); err == nil {
		t.Error("expected tiny response to be rejected")
	}
}

func TestGenerateBatchFillsURLsAndSkipsFailures(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 512)
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if strings.Contains(r.URL.Path, "broken") {
			http.Error(w, "no", http.StatusInternalServerError)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	list := []scenes.Scene{
		{Text: "one", Prompt: "a calm lake"},
		{Text: "two", Prompt: "broken prompt"},
		{Text: "three"},
	}

	c := testClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c.GenerateBatch(ctx, list, 2)

	if list[0].ImageURL == "" {
		t.Error("first scene should have an image URL")
	}
	if list[1].ImageURL != "" {
		t.Error("failed scene should be left without an image URL")
	}
	if list[2].ImageURL != "" {
		t.Error("promptless scene should be untouched")
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("expected 2 requests, got %d", hits)
	}
}

package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scriptreel/timing"
)

// Result is one synthesized utterance: a WAV payload and, when the backend
// supports it, word-level timestamps relative to the clip.
type Result struct {
	Audio []byte
	Words []timing.Word
}

// Provider synthesizes speech for one line of text. Implementations are
// called sequentially, one line at a time, in script order.
type Provider interface {
	Synthesize(ctx context.Context, text string) (*Result, error)
}

// HTTPProvider talks to a speech-synthesis HTTP service that accepts a text
// line and returns base64 WAV audio plus optional word timestamps.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Voice   string
	Client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey, voice string) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Voice:   voice,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type synthesizeRequest struct {
	Text           string `json:"text"`
	Voice          string `json:"voice,omitempty"`
	WithTimestamps bool   `json:"with_timestamps"`
}

type synthesizeResponse struct {
	AudioBase64 string        `json:"audio_base64"`
	Words       []timing.Word `json:"words,omitempty"`
}

func (p *HTTPProvider) Synthesize(ctx context.Context, text string) (*Result, error) {
	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: p.Voice, WithTimestamps: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed tts response: %w", err)
	}
	if decoded.AudioBase64 == "" {
		return nil, fmt.Errorf("tts response carried no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.AudioBase64)
	if err != nil {
		return nil, fmt.Errorf("malformed tts audio payload: %w", err)
	}

	return &Result{Audio: audio, Words: decoded.Words}, nil
}

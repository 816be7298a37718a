package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"scriptreel/scenes"
)

// Job describes a render to submit: the narration audio, the scene images
// with their time windows, and optional burned-in captions.
type Job struct {
	AudioPath    string
	CaptionsPath string
	Scenes       []scenes.Scene
	Width        int
	Height       int
}

// Status is a normalized view of the render service's progress report.
// Different service versions name the progress field differently, so the
// raw payload is adapted into this shape.
type Status struct {
	JobID    string
	State    string
	Progress float64
	VideoURL string
	Logs     []string
}

func (s Status) Done() bool   { return s.State == "completed" }
func (s Status) Failed() bool { return s.State == "failed" }

// Client talks to the video render service.
type Client struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
	HTTP         *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		PollInterval: 2 * time.Second,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit sends a render job and returns its id. When the service does not
// assign one, a local id is generated so polling and logs stay addressable.
func (c *Client) Submit(ctx context.Context, job Job) (string, error) {
	payload, err := buildPayload(job)
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/render", payload)
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(body, "job_id").String()
	if id == "" {
		id = gjson.GetBytes(body, "id").String()
	}
	if id == "" {
		id = uuid.New().String()
	}
	return id, nil
}

// Poll fetches the current status of a job.
func (c *Client) Poll(ctx context.Context, jobID string) (Status, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/render/"+jobID, nil)
	if err != nil {
		return Status{}, err
	}
	status := normalizeStatus(body)
	status.JobID = jobID
	return status, nil
}

// Wait polls until the job completes, fails, or the context ends.
func (c *Client) Wait(ctx context.Context, jobID string, onProgress func(Status)) (Status, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	for {
		status, err := c.Poll(ctx, jobID)
		if err != nil {
			return Status{}, err
		}
		if onProgress != nil {
			onProgress(status)
		}
		if status.Done() {
			return status, nil
		}
		if status.Failed() {
			return status, fmt.Errorf("render job %s failed", jobID)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return Status{}, ctx.Err()
		}
	}
}

func buildPayload(job Job) ([]byte, error) {
	width, height := job.Width, job.Height
	if width == 0 {
		width = 1080
	}
	if height == 0 {
		height = 1920
	}

	out := []byte(`{}`)
	var err error
	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("audio", job.AudioPath)
	set("width", width)
	set("height", height)
	if job.CaptionsPath != "" {
		set("captions", job.CaptionsPath)
	}
	for i, s := range job.Scenes {
		prefix := fmt.Sprintf("scenes.%d.", i)
		set(prefix+"image", s.ImageURL)
		set(prefix+"start", s.StartTime)
		set(prefix+"end", s.EndTime)
	}
	if err != nil {
		return nil, fmt.Errorf("building render payload: %v", err)
	}
	return out, nil
}

// normalizeStatus adapts the service's raw status payload. Progress has
// shipped under three names across service versions; all are accepted, and
// values on a 0..100 scale are brought down to 0..1.
func normalizeStatus(body []byte) Status {
	status := Status{
		State:    gjson.GetBytes(body, "status").String(),
		VideoURL: gjson.GetBytes(body, "video_url").String(),
	}

	for _, field := range []string{"progress", "percent", "percentage"} {
		if v := gjson.GetBytes(body, field); v.Exists() {
			status.Progress = v.Float()
			break
		}
	}
	if status.Progress > 1 {
		status.Progress /= 100
	}

	if logs := gjson.GetBytes(body, "logs"); logs.IsArray() {
		for _, line := range logs.Array() {
			status.Logs = append(status.Logs, line.String())
		}
	}
	return status
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("render service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

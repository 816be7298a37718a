package images

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"scriptreel/scenes"
)

const DefaultBaseURL = "https://image.pollinations.ai"

// DefaultBatchSize bounds how many images are generated concurrently.
const DefaultBatchSize = 50

// Client generates still images from text prompts through a URL-per-prompt
// image service.
type Client struct {
	BaseURL    string
	Width      int
	Height     int
	Model      string
	MaxRetries int
	HTTP       *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Width:      1080,
		Height:     1920,
		Model:      "flux",
		MaxRetries: 3,
		HTTP:       &http.Client{Timeout: 60 * time.Second},
	}
}

// URL builds the image URL for a prompt. The seed is derived from the prompt
// text, so the same prompt always yields the same image.
func (c *Client) URL(prompt string) string {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&model=%s&seed=%d",
		c.BaseURL, url.PathEscape(prompt), c.Width, c.Height, c.Model, h.Sum32())
}

// Fetch generates the image for a prompt and returns its bytes. The service
// renders on first request, so this both warms and validates the URL.
func (c *Client) Fetch(ctx context.Context, prompt string) ([]byte, error) {
	imageURL := c.URL(prompt)

	var lastErr error
	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		data, err := c.fetchOnce(ctx, imageURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("image attempt %d failed: %v", attempt, err)
		if attempt < c.MaxRetries {
			time.Sleep(time.Duration(attempt) * 3 * time.Second)
		}
	}
	return nil, fmt.Errorf("image generation failed after %d attempts: %w", c.MaxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image service returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// Error pages come back tiny; real renders never do.
	if len(data) < 100 {
		return nil, fmt.Errorf("response too small (%d bytes)", len(data))
	}
	return data, nil
}

// Download generates the image for a prompt and writes it to path.
func (c *Client) Download(ctx context.Context, prompt, path string) error {
	data, err := c.Fetch(ctx, prompt)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GenerateBatch fills in ImageURL for every scene that has a prompt, working
// in bounded concurrent batches. A failed scene is logged and left without an
// image; the rest of the batch continues.
func (c *Client) GenerateBatch(ctx context.Context, list []scenes.Scene, batchSize int) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for lo := 0; lo < len(list); lo += batchSize {
		hi := lo + batchSize
		if hi > len(list) {
			hi = len(list)
		}

		var wg sync.WaitGroup
		for i := lo; i < hi; i++ {
			if list[i].Prompt == "" {
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := c.Fetch(ctx, list[i].Prompt); err != nil {
					log.Printf("scene %d image skipped: %v", i+1, err)
					return
				}
				list[i].ImageURL = c.URL(list[i].Prompt)
			}(i)
		}
		wg.Wait()
	}
}

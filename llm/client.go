package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const scriptSystemPrompt = "You write scripts for short narrated videos. " +
	"Write plain prose only: no headings, no stage directions, no markdown, no emoji. " +
	"One sentence per thought. The script is read aloud exactly as written."

const scenePromptSystem = "You write prompts for a text-to-image model. " +
	"Given a passage of narration, describe a single still image that illustrates it. " +
	"Concrete nouns, lighting, composition. One paragraph, no preamble."

// Client generates narration scripts and per-scene image prompts through a
// chat-completion API.
type Client struct {
	api        openai.Client
	Model      string
	MaxRetries int
}

func NewClient(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:        openai.NewClient(opts...),
		Model:      model,
		MaxRetries: 4,
	}
}

// GenerateScript streams a narration script for the given topic and returns
// the accumulated text. Streaming keeps long scripts from hitting gateway
// timeouts on slow models.
func (c *Client) GenerateScript(ctx context.Context, topic string, onDelta func(string)) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", errors.New("empty topic")
	}

	var script string
	err := c.withBackoff(ctx, func() error {
		stream := c.api.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model: c.Model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(scriptSystemPrompt),
				openai.UserMessage("Write a narration script about: " + topic),
			},
		})

		var b strings.Builder
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			b.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
		if err := stream.Err(); err != nil {
			return fmt.Errorf("script stream failed: %w", err)
		}
		script = strings.TrimSpace(b.String())
		return nil
	})
	if err != nil {
		return "", err
	}
	if script == "" {
		return "", errors.New("model returned an empty script")
	}
	return script, nil
}

// GenerateScenePrompt turns one scene's narration text into an image prompt.
func (c *Client) GenerateScenePrompt(ctx context.Context, sceneText string) (string, error) {
	if strings.TrimSpace(sceneText) == "" {
		return "", errors.New("empty scene text")
	}

	var prompt string
	err := c.withBackoff(ctx, func() error {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: c.Model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(scenePromptSystem),
				openai.UserMessage(sceneText),
			},
			Temperature: openai.Float(0.7),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("model returned no choices")
		}
		prompt = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	if prompt == "" {
		return "", errors.New("model returned an empty prompt")
	}
	return prompt, nil
}

// withBackoff retries fn on rate-limit responses with doubling delays.
// Other errors surface immediately.
func (c *Client) withBackoff(ctx context.Context, fn func() error) error {
	delay := time.Second
	retries := c.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	var err error
	for attempt := 0; attempt < retries; attempt++ {
		err = fn()
		if err == nil || !isRateLimited(err) {
			return err
		}
		fmt.Printf("rate limited, retrying in %v\n", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return err
}

func isRateLimited(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

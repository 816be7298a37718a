package llm

import (
	"context"
	"errors"
	"testing"
)

func TestWithBackoffPassesThroughHardErrors(t *testing.T) {
	c := &Client{MaxRetries: 4}
	calls := 0

	err := c.withBackoff(context.Background(), func() error {
		calls++
		return errors.New("model exploded")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("hard error should not retry, got %d calls", calls)
	}
}

func TestWithBackoffStopsOnSuccess(t *testing.T) {
	c := &Client{MaxRetries: 4}
	calls := 0

	err := c.withBackoff(context.Background(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestGenerateScriptRejectsEmptyTopic(t *testing.T) {
	c := NewClient("key", "", "gpt-4o-mini")
	if _, err := c.GenerateScript(context.Background(), "  ", nil); err == nil {
		t.Error("expected error for blank topic")
	}
}

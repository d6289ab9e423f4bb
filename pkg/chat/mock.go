package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	// Packages
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Canned replies for offline development. The reply is picked
// deterministically from the question so repeated sends are stable.
var mockReplies = []string{
	"That's a good question about %q. Stack Overflow threads on this topic generally agree that the answer depends on your specific setup, but the accepted approach is to start with the simplest configuration that works and iterate from there.",
	"Regarding %q, the most upvoted answers suggest checking your dependencies first. Version mismatches cause the majority of issues like this, and pinning the versions usually resolves it.",
	"Several answers address %q directly. The short version is that this behaviour is documented but easy to miss; the relevant section of the documentation explains the edge cases in detail.",
	"For %q, there are two common approaches. The first is simpler but less flexible, while the second takes more setup and handles the general case. Most answers recommend starting with the first.",
}

const (
	mockQueuedDelay   = 500 * time.Millisecond
	mockStartupDelay  = 800 * time.Millisecond
	mockQuestionLimit = 48
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// mockStream feeds a canned reply through the same event handler the real
// decoder uses, with the same lifecycle and pacing, so the whole pipeline
// is exercised without a network call
func (s *Service) mockStream(ctx context.Context, cfg config, content string, fn func(stream.Event) error) error {
	if err := fn(stream.RunQueued{}); err != nil {
		return err
	}
	if err := sleepScaled(ctx, mockQueuedDelay, cfg.speed); err != nil {
		return err
	}
	if err := fn(stream.RunInProgress{}); err != nil {
		return err
	}
	if err := sleepScaled(ctx, mockStartupDelay, cfg.speed); err != nil {
		return err
	}

	words := strings.Fields(mockReply(content))
	for i, word := range words {
		fragment := word
		if i > 0 {
			fragment = " " + word
		}
		if err := fn(stream.MessageDelta{Text: fragment}); err != nil {
			return err
		}
		if i < len(words)-1 {
			if err := sleepScaled(ctx, delayFor(word), cfg.speed); err != nil {
				return err
			}
		}
	}

	if err := fn(stream.MessageCompleted{Text: strings.Join(words, " ")}); err != nil {
		return err
	}
	if err := fn(stream.RunCompleted{}); err != nil {
		return err
	}
	return fn(stream.Done{})
}

// mockReply picks a reply template for the question
func mockReply(content string) string {
	question := strings.TrimSpace(content)
	if len(question) > mockQuestionLimit {
		// Back up to a rune boundary so the cut never leaves invalid UTF-8
		cut := mockQuestionLimit
		for cut > 0 && !utf8.RuneStart(question[cut]) {
			cut--
		}
		question = question[:cut] + "..."
	}
	sum := 0
	for _, r := range question {
		sum += int(r)
	}
	return fmt.Sprintf(mockReplies[sum%len(mockReplies)], question)
}

// sleepScaled pauses for the scaled duration, or returns early when the
// context is cancelled. A non-positive multiplier skips the delay, which
// keeps tests deterministic.
func sleepScaled(ctx context.Context, delay time.Duration, multiplier float64) error {
	if multiplier <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(float64(delay) * multiplier))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

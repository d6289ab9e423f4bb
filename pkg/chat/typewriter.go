package chat

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// checkpointFunc receives the full accumulated content after each visible
// append. Checkpoints for one message are issued strictly in order.
type checkpointFunc func(content string, citations []schema.Citation) error

// typewriter reconciles incremental delta fragments into a single growing
// buffer. With smoothing enabled, fragments longer than a handful of
// characters are split into words and released one at a time with a short
// randomised pause, so the text advances at reading pace regardless of how
// the network batches the deltas.
type typewriter struct {
	smooth     bool
	multiplier float64
	buf        strings.Builder
	citations  []schema.Citation
	final      bool
	checkpoint checkpointFunc
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const shortFragment = 5

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newTypewriter(smooth bool, multiplier float64, checkpoint checkpointFunc) *typewriter {
	return &typewriter{
		smooth:     smooth,
		multiplier: multiplier,
		checkpoint: checkpoint,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Delta appends one incoming fragment. Fragments arriving after the
// buffer has been finalised are ignored.
func (t *typewriter) Delta(ctx context.Context, fragment string) error {
	if t.final || fragment == "" {
		return nil
	}
	if !t.smooth || len(fragment) <= shortFragment {
		t.buf.WriteString(fragment)
		return t.checkpoint(t.buf.String(), t.citations)
	}

	// Release the fragment word by word, preserving a single space
	// between words. Leading and trailing whitespace of the fragment
	// collapses into the word boundaries.
	words := strings.Fields(fragment)
	for i, word := range words {
		if i > 0 || needsSpace(t.buf.String(), fragment) {
			t.buf.WriteString(" ")
		}
		t.buf.WriteString(word)
		if err := t.checkpoint(t.buf.String(), t.citations); err != nil {
			return err
		}
		if i < len(words)-1 {
			if err := t.pause(ctx, delayFor(word)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Complete replaces the buffer with the authoritative final content and
// seals it against any stray deltas that may still arrive
func (t *typewriter) Complete(text string, citations []schema.Citation) error {
	t.final = true
	t.buf.Reset()
	t.buf.WriteString(text)
	t.citations = citations
	return t.checkpoint(text, citations)
}

// Content returns the accumulated text
func (t *typewriter) Content() string {
	return t.buf.String()
}

// Citations returns the citations attached on completion, if any
func (t *typewriter) Citations() []schema.Citation {
	return t.citations
}

// Final returns true once Complete has been called
func (t *typewriter) Final() bool {
	return t.final
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// pause sleeps for the scaled delay, or returns early if the context is
// cancelled
func (t *typewriter) pause(ctx context.Context, delay time.Duration) error {
	return sleepScaled(ctx, delay, t.multiplier)
}

// delayFor picks a randomised pause for the word just released. Sentence
// ends pause longest, clause breaks a little less, long words slightly
// more than short ones.
func delayFor(word string) time.Duration {
	var lo, hi int
	switch {
	case strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?"):
		lo, hi = 200, 400
	case strings.HasSuffix(word, ",") || strings.HasSuffix(word, ";") || strings.HasSuffix(word, ":"):
		lo, hi = 150, 250
	case len(word) > 8:
		lo, hi = 120, 200
	default:
		lo, hi = 80, 150
	}
	return time.Duration(lo+rand.IntN(hi-lo+1)) * time.Millisecond
}

// needsSpace reports whether a space should be inserted before the first
// word of a fragment, based on what the buffer already ends with and
// whether the fragment itself arrived with leading whitespace
func needsSpace(buf, fragment string) bool {
	if buf == "" {
		return false
	}
	if strings.HasSuffix(buf, " ") || strings.HasSuffix(buf, "\n") {
		return false
	}
	r := fragment[0]
	return r == ' ' || r == '\t' || r == '\n'
}

package chat

import (
	// Packages
	opt "github.com/thesubgraph/go-askstack/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Option keys for the send pipeline. Configuration is explicit per
// construction or per send; there is no ambient state.
const (
	smoothTypingKey = "smooth_typing"
	typingSpeedKey  = "typing_speed"
	mockStreamKey   = "mock_streaming"
	assistantKey    = "assistant_id"
)

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithSmoothTyping enables word-by-word pacing of delta fragments,
// independent of network burstiness
func WithSmoothTyping(enabled bool) opt.Opt {
	return opt.WithBool(smoothTypingKey, enabled)
}

// WithTypingSpeed scales the pacing delays. 1.0 is the natural speed;
// zero or negative disables the delays entirely.
func WithTypingSpeed(multiplier float64) opt.Opt {
	return opt.WithFloat64(typingSpeedKey, multiplier)
}

// WithMockStreaming substitutes a canned streamed reply for the remote
// call, driving the same pipeline end to end
func WithMockStreaming(enabled bool) opt.Opt {
	return opt.WithBool(mockStreamKey, enabled)
}

// WithAssistant overrides the conversation's assistant for one send
func WithAssistant(id string) opt.Opt {
	return opt.WithString(assistantKey, id)
}

///////////////////////////////////////////////////////////////////////////////
// TYPES

// config is the resolved pipeline configuration for one service or send
type config struct {
	smooth      bool
	speed       float64
	mock        bool
	assistantId string
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// applyConfig resolves options over a base configuration
func applyConfig(base config, options ...opt.Opt) (config, error) {
	o, err := opt.Apply(options...)
	if err != nil {
		return base, err
	}
	if o.Has(smoothTypingKey) {
		base.smooth = o.GetBool(smoothTypingKey)
	}
	if o.Has(typingSpeedKey) {
		base.speed = o.GetFloat64(typingSpeedKey, base.speed)
	}
	if o.Has(mockStreamKey) {
		base.mock = o.GetBool(mockStreamKey)
	}
	if id := o.GetString(assistantKey); id != "" {
		base.assistantId = id
	}
	return base, nil
}

package chat

import (
	"context"
	"fmt"
	"time"
)

// DemoStreamer is the offline stand-in used when no API key is configured.
// It yields a fixed fragment sequence with a small delay between fragments
// so the consumer exercises the same incremental-render path as a live
// stream. It never touches the network.
type DemoStreamer struct {
	// Delay between fragments. Zero means DefaultDemoDelay.
	Delay time.Duration
}

const DefaultDemoDelay = 250 * time.Millisecond

func (d *DemoStreamer) Stream(ctx context.Context, message string, onChunk func(string)) error {
	delay := d.Delay
	if delay == 0 {
		delay = DefaultDemoDelay
	}
	parts := []string{
		"(Demo mode) No API key configured. ",
		"To enable full AI chat and voice, set GEMINI_API_KEY in a .env file and restart. ",
		fmt.Sprintf("You asked: %q. Here's a generic tip: ", message),
		"Check oil and filters regularly, especially in hot or dusty climates.",
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for i, p := range parts {
		if i > 0 {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		onChunk(p)
	}
	return nil
}

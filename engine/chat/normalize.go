// Package chat maintains an ordered chat transcript and relays user messages
// to a streaming backend, reassembling the reply fragment by fragment. When
// the backend is unavailable the session degrades to a local canned stream.
package chat

import (
	"context"
	"regexp"
)

// Streamer produces the assistant reply for one user message as an ordered
// sequence of text fragments, delivered via onChunk in arrival order.
type Streamer interface {
	Stream(ctx context.Context, message string, onChunk func(string)) error
}

var (
	bulletRe   = regexp.MustCompile(`•\s*`)
	numberedRe = regexp.MustCompile(`(\d+\.)\s*`)
	headerRe   = regexp.MustCompile(`([A-Z][a-zA-Z\s]+:)`)
	spacesRe   = regexp.MustCompile(`\s{3,}`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize tidies one streamed fragment: single space after bullets and
// list numbers, a line break before header-like "Some Words:" runs, and
// collapsed whitespace. It is deterministic and applied per fragment.
func Normalize(text string) string {
	text = bulletRe.ReplaceAllString(text, "• ")
	text = numberedRe.ReplaceAllString(text, "$1 ")
	text = headerRe.ReplaceAllString(text, "\n$1")
	text = spacesRe.ReplaceAllString(text, "  ")
	text = newlinesRe.ReplaceAllString(text, "\n\n")
	return text
}

// normalizingStreamer applies Normalize to every fragment of an inner stream.
type normalizingStreamer struct {
	inner Streamer
}

// Normalized wraps a backend streamer so each fragment passes through
// Normalize before reaching the consumer. Canned streams are already clean
// and should not be wrapped.
func Normalized(inner Streamer) Streamer {
	return &normalizingStreamer{inner: inner}
}

func (n *normalizingStreamer) Stream(ctx context.Context, message string, onChunk func(string)) error {
	return n.inner.Stream(ctx, message, func(chunk string) {
		onChunk(Normalize(chunk))
	})
}

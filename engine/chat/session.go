package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

// TroubleMessage replaces the assistant turn when the backend stream fails.
const TroubleMessage = "Sorry, I'm having trouble connecting right now. Please try again."

// Session is one append-only conversation. Turns are never reordered or
// removed; the in-flight assistant turn grows as fragments arrive.
type Session struct {
	streamer Streamer
	logger   *slog.Logger

	mu       sync.Mutex
	turns    []domain.ChatTurn
	inFlight bool
}

// NewSession creates an empty conversation backed by the given streamer.
func NewSession(streamer Streamer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{streamer: streamer, logger: logger}
}

// Turns returns a snapshot of the transcript in order.
func (s *Session) Turns() []domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatTurn(nil), s.turns...)
}

// Append adds a completed turn directly, bypassing the streamer. Voice
// transcripts land here.
func (s *Session) Append(turn domain.ChatTurn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// Send appends the user turn, streams the assistant reply fragment by
// fragment, and returns the completed assistant text. Each fragment is
// appended to the in-flight assistant turn in arrival order and forwarded to
// onFragment (which may be nil). A backend failure is absorbed: the
// assistant turn is replaced with TroubleMessage and Send still returns nil
// error, so callers never see the transport break.
func (s *Session) Send(ctx context.Context, text string, onFragment func(string)) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.inFlight = true
	s.turns = append(s.turns,
		domain.ChatTurn{Speaker: domain.SpeakerUser, Text: text},
		domain.ChatTurn{Speaker: domain.SpeakerAssistant})
	idx := len(s.turns) - 1
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	err := s.streamer.Stream(ctx, text, func(chunk string) {
		s.mu.Lock()
		s.turns[idx].Text += chunk
		s.mu.Unlock()
		if onFragment != nil {
			onFragment(chunk)
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled by the caller; leave whatever arrived in place.
			return s.turnText(idx), ctx.Err()
		}
		s.logger.Error("chat stream failed", "err", err)
		s.mu.Lock()
		s.turns[idx].Text = TroubleMessage
		s.mu.Unlock()
		if onFragment != nil {
			onFragment(TroubleMessage)
		}
		return TroubleMessage, nil
	}
	return s.turnText(idx), nil
}

func (s *Session) turnText(idx int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns[idx].Text
}

// Package places finds nearby repair garages. The live tier is grounded
// place search through the generative backend; this wrapper owns the demo
// and total-failure tiers so callers always get displayable text.
package places

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

// Result is a garage search answer plus any grounding references.
type Result struct {
	Text string                `json:"text"`
	Refs []domain.GroundingRef `json:"refs,omitempty"`
}

// Finder is the live search tier.
type Finder interface {
	Find(ctx context.Context, lat, lng float64) (Result, error)
}

const demoText = "(Demo mode) Unable to call Maps grounding without API key. " +
	"Try enabling location and setting GEMINI_API_KEY to see nearby garages."

const degradedFormat = "I found your location at %.4f, %.4f, but I'm having trouble accessing location data right now. " +
	"Here are some general tips for finding nearby auto repair shops:\n\n" +
	"• Search for \"auto repair near me\" in your maps app\n" +
	"• Look for certified mechanics (ASE certified)\n" +
	"• Check online reviews and ratings\n" +
	"• Ask for recommendations from friends or family\n" +
	"• Consider dealership service centers for warranty work"

// Service resolves garage searches through the configured tiers.
type Service struct {
	finder Finder
	logger *slog.Logger
}

// New creates a Service. A nil finder selects demo mode.
func New(finder Finder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{finder: finder, logger: logger}
}

// Nearby returns garages near the coordinates. It never returns an error:
// no finder yields the demo notice, a failed finder yields general tips
// anchored to the caller's location.
func (s *Service) Nearby(ctx context.Context, lat, lng float64) Result {
	if s.finder == nil {
		return Result{Text: demoText}
	}
	res, err := s.finder.Find(ctx, lat, lng)
	if err != nil {
		s.logger.Error("garage search failed, degrading to general tips", "err", err)
		return Result{Text: fmt.Sprintf(degradedFormat, lat, lng)}
	}
	return res
}

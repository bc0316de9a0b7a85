// Package advisory orchestrates the maintenance advisory pipeline: run the
// deterministic readiness rules, build the prompt, call the generative
// backend when one is configured, and always hand back a usable result.
// The numeric score and the alert list come from the local evaluator in
// every mode; the backend contributes prose only.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
	"github.com/RafiqAuto/rafiq-mvp/engine/graph"
	"github.com/RafiqAuto/rafiq-mvp/engine/prr"
	"github.com/RafiqAuto/rafiq-mvp/pkg/resilience"
)

// Static notices for the two non-live paths.
const (
	DemoAssessment    = "Demo mode: AI analysis unavailable without API key. Showing rules-based assessment only."
	FailureAssessment = "Could not retrieve detailed analysis from AI. Please check the triggered alerts."
)

// ErrBusy is returned when a generation is already running. The UI issues
// one request at a time; a second concurrent call is a client bug.
var ErrBusy = errors.New("advisory: generation already in flight")

// Advice is the prose half of a result, supplied by a Generator.
type Advice struct {
	OverallAssessment string
	Recommendations   []domain.Recommendation
}

// Generator produces advice from a prompt. A nil Generator on the Service
// selects the deterministic offline fallback.
type Generator interface {
	Advise(ctx context.Context, prompt string) (Advice, error)
}

// Service runs the pipeline.
type Service struct {
	gen      Generator
	graph    graph.Store
	breaker  *resilience.Breaker
	logger   *slog.Logger
	inFlight atomic.Bool
}

// New creates a Service. gen and graphStore may be nil; a nil gen means
// offline mode, a nil graphStore skips prompt enrichment.
func New(gen Generator, graphStore graph.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gen:     gen,
		graph:   graphStore,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		logger:  logger,
	}
}

// Generate evaluates the vehicle and produces the full advisory result.
// Backend failures never surface to the caller; they degrade to a result
// carrying the locally computed score and alerts with a static notice.
func (s *Service) Generate(ctx context.Context, vehicle domain.VehicleRecord, env domain.EnvironmentRecord, today time.Time) (domain.AdvisoryResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.AdvisoryResult{}, ErrBusy
	}
	defer s.inFlight.Store(false)

	ctx, span := otel.Tracer("engine/advisory").Start(ctx, "advisory.generate")
	defer span.End()

	eval := prr.Evaluate(vehicle, env, today)
	span.SetAttributes(
		attribute.Int("prr.score", eval.Score),
		attribute.Int("prr.alerts", len(eval.Alerts)),
	)
	result := domain.AdvisoryResult{Score: eval.Score, Alerts: eval.Alerts}

	if s.gen == nil {
		result.OverallAssessment = DemoAssessment
		result.Recommendations = fallbackRecommendations(eval.Alerts)
		return result, nil
	}

	prompt := prr.BuildPrompt(vehicle, env, eval)
	if enrichment := s.enrich(ctx, eval.Alerts); enrichment != "" {
		prompt = prompt + "\n" + enrichment
	}

	var advice Advice
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var callErr error
		advice, callErr = s.gen.Advise(ctx, prompt)
		return callErr
	})
	if err != nil {
		s.logger.Error("advisory generation failed, degrading", "err", err)
		result.OverallAssessment = FailureAssessment
		result.Recommendations = []domain.Recommendation{}
		return result, nil
	}

	result.OverallAssessment = advice.OverallAssessment
	result.Recommendations = advice.Recommendations
	return result, nil
}

// enrich pulls related-component context out of the knowledge graph based
// on the triggered alerts. Failures are logged and skipped.
func (s *Service) enrich(ctx context.Context, alerts []string) string {
	if s.graph == nil || len(alerts) == 0 {
		return ""
	}
	keywords := alertKeywords(alerts)
	if len(keywords) == 0 {
		return ""
	}

	components, edges, err := s.graph.FindByKeywords(ctx, keywords)
	if err != nil {
		s.logger.Warn("advisory: graph enrichment failed, continuing without", "err", err)
		return ""
	}
	if len(components) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Related components from the maintenance knowledge graph:\n")
	for _, c := range components {
		fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Category)
	}
	if len(edges) > 0 {
		b.WriteString("Relationships:\n")
		for _, e := range edges {
			fmt.Fprintf(&b, "- %s -[%s]-> %s\n", e.From, e.Type, e.To)
		}
	}
	return b.String()
}

// alertKeywords maps alert strings to graph search keywords.
func alertKeywords(alerts []string) []string {
	var keywords []string
	for _, a := range alerts {
		switch {
		case strings.Contains(a, "Air Filter"):
			keywords = append(keywords, "air filter", "intake")
		case strings.Contains(a, "Oil Change"):
			keywords = append(keywords, "oil", "filter")
		case strings.Contains(a, "Battery") || strings.Contains(a, "Coolant"):
			keywords = append(keywords, "battery", "coolant", "radiator")
		}
	}
	return keywords
}

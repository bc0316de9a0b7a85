package advisory

import (
	"strings"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
	"github.com/RafiqAuto/rafiq-mvp/engine/prr"
)

// fallbackRecommendations derives recommendations from the alert list by
// string matching. Deterministic and side-effect free; always returns at
// least one recommendation.
func fallbackRecommendations(alerts []string) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, a := range alerts {
		if a == prr.AlertOilChange {
			recs = append(recs, domain.Recommendation{
				Component: "Engine Oil",
				Text:      "Schedule an oil and filter change. Consider synthetic oil for high-heat environments.",
				Urgency:   domain.UrgencyHigh,
			})
		}
	}
	for _, a := range alerts {
		if strings.Contains(a, "Air Filter") {
			recs = append(recs, domain.Recommendation{
				Component: "Air Filter",
				Text:      "Inspect and replace engine and cabin air filters due to dust exposure.",
				Urgency:   domain.UrgencyMedium,
			})
		}
	}
	if len(recs) == 0 {
		recs = append(recs, domain.Recommendation{
			Component: "General Maintenance",
			Text:      "No critical issues detected. Follow regular service intervals and monitor fluids.",
			Urgency:   domain.UrgencyLow,
		})
	}
	return recs
}

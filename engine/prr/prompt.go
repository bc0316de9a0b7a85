package prr

import (
	"fmt"
	"strings"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

// BuildPrompt renders the advisory prompt for a vehicle, its environment, and
// a completed evaluation. Output is deterministic; equal inputs build equal
// prompts, which keeps advisory responses cacheable upstream.
func BuildPrompt(vehicle domain.VehicleRecord, env domain.EnvironmentRecord, eval Evaluation) string {
	alerts := "None"
	if len(eval.Alerts) > 0 {
		alerts = strings.Join(eval.Alerts, ", ")
	}

	var b strings.Builder
	b.WriteString("Analyze the following vehicle and environmental data to provide a detailed assessment and maintenance recommendations.\n\n")
	b.WriteString("Vehicle Data:\n")
	fmt.Fprintf(&b, "- Odometer: %.0f miles\n", vehicle.Odometer.Float())
	fmt.Fprintf(&b, "- Miles Since Last Oil Change: %.0f\n", eval.MilesSinceOilChange)
	fmt.Fprintf(&b, "- Months Since Last Oil Change: %.1f\n", float64(eval.MonthsSinceOilChange))
	fmt.Fprintf(&b, "- Miles Since Last Air Filter Change: %.0f\n", eval.MilesSinceFilterChange)
	fmt.Fprintf(&b, "- Location Zip Code: %s\n", vehicle.ZipCode)
	b.WriteString("\nEnvironmental Data:\n")
	fmt.Fprintf(&b, "- Recent Sandstorm Events (30 days): %.0f\n", env.SandstormEventsLast30Days.Float())
	fmt.Fprintf(&b, "- Extreme Heat Days (>45C in 90 days): %.0f\n", env.DaysAbove45CLast90Days.Float())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Calculated PRR Score: %d\n", eval.Score)
	fmt.Fprintf(&b, "Triggered Alerts: %s\n", alerts)
	b.WriteString(`
Based on this information:
1. Provide a concise 'overallAssessment' (1-2 sentences) of the vehicle's current health.
2. Provide a list of specific, actionable 'recommendations'. Each recommendation should be an object with 'component', 'recommendationText', and 'urgency' ('High', 'Medium', or 'Low'). Prioritize recommendations based on the triggered alerts.

Return the response as a JSON object with the keys "overallAssessment" and "recommendations".
`)
	return b.String()
}

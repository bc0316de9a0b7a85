// Package prr implements the Predictive Risk & Repair scoring rules and the
// prompt sent to the advisory model. Everything here is pure: same inputs,
// same outputs, no I/O.
package prr

import (
	"time"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

// Alert strings appended by the rules, in evaluation order.
const (
	AlertAirFilter = "Air Filter Check needed due to high dust exposure."
	AlertHeat      = "Battery/Coolant Inspection needed due to sustained extreme heat."
	AlertOilChange = "Overdue Oil Change."
)

// Rule thresholds.
const (
	sandstormEventsThreshold = 5
	filterMilesThreshold     = 2000
	heatDaysThreshold        = 30
	oilMonthsThreshold       = 7
	oilMilesThreshold        = 5000
)

// Evaluation is the deterministic output of the rule run, including the
// derived quantities the prompt builder reuses.
type Evaluation struct {
	Score  int
	Alerts []string

	MilesSinceOilChange    float64
	MonthsSinceOilChange   int
	MilesSinceFilterChange float64
}

// Evaluate runs the three scoring rules in fixed order against a vehicle and
// its environment. The score starts at 100, only ever decreases, and is
// clamped at zero. Alerts keep insertion order and are never deduplicated.
//
// Rule B appends its alert only when the running score has already dropped
// below 90 after the heat deduction. The deduction itself is unconditional.
// The coupling to evaluation order is deliberate legacy behaviour; keep it.
func Evaluate(vehicle domain.VehicleRecord, env domain.EnvironmentRecord, today time.Time) Evaluation {
	score := 100
	alerts := []string{}

	// Rule A: dust exposure.
	milesSinceFilter := vehicle.Odometer.Float() - vehicle.LastAirFilterChangeMiles.Float()
	if env.SandstormEventsLast30Days.Float() > sandstormEventsThreshold && milesSinceFilter > filterMilesThreshold {
		score -= 10
		alerts = append(alerts, AlertAirFilter)
	}

	// Rule B: thermal stress.
	if env.DaysAbove45CLast90Days.Float() > heatDaysThreshold {
		score -= 5
		if score < 90 {
			alerts = append(alerts, AlertHeat)
		}
	}

	// Rule C: service compliance.
	lastOil, hasOilDate := domain.ParseDate(vehicle.LastOilChangeDate)
	months := 0
	if hasOilDate {
		months = monthsBetween(lastOil, today)
	}
	milesSinceOil := vehicle.Odometer.Float() - vehicle.LastOilChangeMileage.Float()
	if (months > oilMonthsThreshold && hasOilDate) || milesSinceOil > oilMilesThreshold {
		score -= 15
		alerts = append(alerts, AlertOilChange)
	}

	if score < 0 {
		score = 0
	}
	return Evaluation{
		Score:                  score,
		Alerts:                 alerts,
		MilesSinceOilChange:    milesSinceOil,
		MonthsSinceOilChange:   months,
		MilesSinceFilterChange: milesSinceFilter,
	}
}

// monthsBetween is the calendar-month delta from a to b, ignoring days.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

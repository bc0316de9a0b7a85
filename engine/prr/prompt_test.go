package prr

import (
	"strings"
	"testing"
	"time"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

func TestBuildPrompt_Contents(t *testing.T) {
	today := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	v := domain.VehicleRecord{
		Odometer:                 50000,
		LastOilChangeDate:        "2025-12-30",
		LastOilChangeMileage:     44000,
		LastAirFilterChangeMiles: 47000,
		ZipCode:                  "11564",
	}
	e := domain.EnvironmentRecord{SandstormEventsLast30Days: 6, DaysAbove45CLast90Days: 12}
	eval := Evaluate(v, e, today)
	p := BuildPrompt(v, e, eval)

	for _, want := range []string{
		"- Odometer: 50000 miles",
		"- Miles Since Last Oil Change: 6000",
		"- Months Since Last Oil Change: 8.0",
		"- Miles Since Last Air Filter Change: 3000",
		"- Location Zip Code: 11564",
		"- Recent Sandstorm Events (30 days): 6",
		"- Extreme Heat Days (>45C in 90 days): 12",
		"Calculated PRR Score: ", // numeric value asserted below
		`"overallAssessment"`,
		`"recommendations"`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(p, "Calculated PRR Score: 75") {
		t.Errorf("prompt score line wrong:\n%s", p)
	}
	if !strings.Contains(p, AlertAirFilter+", "+AlertOilChange) {
		t.Errorf("alerts not joined with comma-space:\n%s", p)
	}
}

func TestBuildPrompt_NoAlerts(t *testing.T) {
	eval := Evaluate(domain.VehicleRecord{}, domain.EnvironmentRecord{}, time.Now())
	p := BuildPrompt(domain.VehicleRecord{}, domain.EnvironmentRecord{}, eval)
	if !strings.Contains(p, "Triggered Alerts: None") {
		t.Errorf(`want "Triggered Alerts: None" in prompt`)
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	v := domain.VehicleRecord{Odometer: 62000, ZipCode: "00000"}
	e := domain.EnvironmentRecord{DaysAbove45CLast90Days: 40}
	today := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	eval := Evaluate(v, e, today)
	if BuildPrompt(v, e, eval) != BuildPrompt(v, e, eval) {
		t.Error("prompt not deterministic")
	}
}

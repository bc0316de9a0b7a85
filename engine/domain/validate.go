package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// VIN format: 17 alphanumeric characters, excluding I, O, Q.
var vinRegex = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// dateLayouts are the accepted date shapes for form-entered dates.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate parses a form date. The boolean is false when the field is empty
// or unparseable; scoring treats both as "no date on record".
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateVehicle validates a VehicleRecord at an API boundary. Scoring itself
// is tolerant; this guards against requests that are plainly nonsense.
func ValidateVehicle(v VehicleRecord) error {
	for field, n := range map[string]FlexNumber{
		"odometer":                     v.Odometer,
		"last_oil_change_mileage":      v.LastOilChangeMileage,
		"last_air_filter_change_miles": v.LastAirFilterChangeMiles,
		"tire_age_months":              v.TireAgeMonths,
		"battery_age_months":           v.BatteryAgeMonths,
	} {
		if n.Float() < 0 {
			return NewValidationError(field, fmt.Sprintf("%g", n.Float()), ErrNegativeValue)
		}
	}
	if v.VIN != "" && !vinRegex.MatchString(strings.ToUpper(v.VIN)) {
		return NewValidationError("vin", v.VIN, ErrInvalidVIN)
	}
	for field, s := range map[string]string{
		"last_oil_change_date":  v.LastOilChangeDate,
		"last_service_date":     v.LastServiceDate,
		"insurance_expiry_date": v.InsuranceExpiryDate,
	} {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if _, ok := ParseDate(s); !ok {
			return NewValidationError(field, s, ErrInvalidDate)
		}
	}
	return nil
}

// ValidateEnvironment validates an EnvironmentRecord.
func ValidateEnvironment(e EnvironmentRecord) error {
	for field, n := range map[string]FlexNumber{
		"days_above_45c_last_90_days":   e.DaysAbove45CLast90Days,
		"sandstorm_events_last_30_days": e.SandstormEventsLast30Days,
	} {
		if n.Float() < 0 {
			return NewValidationError(field, fmt.Sprintf("%g", n.Float()), ErrNegativeValue)
		}
	}
	switch e.DustLevel {
	case DustUnknown, DustLow, DustMedium, DustHigh:
	default:
		return NewValidationError("dust_level", string(e.DustLevel), ErrInvalidDustLevel)
	}
	return nil
}

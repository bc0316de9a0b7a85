// Package domain defines the core types, constants, and validation for the
// Rafiq engine. It acts as the validation gate at API entry points.
package domain

// DustLevel is the self-reported ambient dust level.
type DustLevel string

const (
	DustUnknown DustLevel = ""
	DustLow     DustLevel = "low"
	DustMedium  DustLevel = "medium"
	DustHigh    DustLevel = "high"
)

// Language selects the string table used for backend-emitted text.
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// DrivingStyle is the onboarding self-assessment of driving behaviour.
type DrivingStyle string

const (
	DrivingCalm       DrivingStyle = "calm"
	DrivingNormal     DrivingStyle = "normal"
	DrivingAggressive DrivingStyle = "aggressive"
)

// UserProfile captures onboarding preferences.
type UserProfile struct {
	Name         string       `json:"name"`
	Language     Language     `json:"language"`
	DrivingStyle DrivingStyle `json:"driving_style"`
}

// VehicleRecord describes a vehicle's maintenance history as entered by the
// user. Numeric fields may arrive as empty strings from forms; FlexNumber
// coerces them to zero rather than failing the decode.
type VehicleRecord struct {
	VIN                      string     `json:"vin,omitempty"`
	Odometer                 FlexNumber `json:"odometer"`
	LastOilChangeDate        string     `json:"last_oil_change_date,omitempty"`
	LastOilChangeMileage     FlexNumber `json:"last_oil_change_mileage"`
	LastAirFilterChangeMiles FlexNumber `json:"last_air_filter_change_miles"`
	ZipCode                  string     `json:"zip_code,omitempty"`

	// Phase 1 additions.
	LastServiceDate     string     `json:"last_service_date,omitempty"`
	TireAgeMonths       FlexNumber `json:"tire_age_months,omitempty"`
	BatteryAgeMonths    FlexNumber `json:"battery_age_months,omitempty"`
	InsuranceExpiryDate string     `json:"insurance_expiry_date,omitempty"`
}

// EnvironmentRecord describes ambient operating conditions.
type EnvironmentRecord struct {
	CurrentTemperatureC       FlexNumber `json:"current_temperature_c,omitempty"`
	DaysAbove45CLast90Days    FlexNumber `json:"days_above_45c_last_90_days"`
	SandstormEventsLast30Days FlexNumber `json:"sandstorm_events_last_30_days"`
	DustLevel                 DustLevel  `json:"dust_level,omitempty"`
	WeatherForecastSummary    string     `json:"weather_forecast_summary,omitempty"`
}

// Urgency ranks a recommendation.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// ValidUrgencies is the set of recognised urgency levels.
var ValidUrgencies = map[Urgency]bool{
	UrgencyHigh: true, UrgencyMedium: true, UrgencyLow: true,
}

// Recommendation is one actionable maintenance suggestion.
type Recommendation struct {
	Component string  `json:"component"`
	Text      string  `json:"recommendationText"`
	Urgency   Urgency `json:"urgency"`

	// RelatedComponents is filled by graph enrichment when available.
	RelatedComponents []string `json:"related_components,omitempty"`
}

// AdvisoryResult is the outcome of one advisory request. Score and Alerts
// always come from the deterministic evaluator; the external model only ever
// contributes the assessment prose and recommendation text.
type AdvisoryResult struct {
	Score             int              `json:"score"`
	OverallAssessment string           `json:"overall_assessment"`
	Recommendations   []Recommendation `json:"recommendations"`
	Alerts            []string         `json:"alerts"`
}

// Speaker identifies the author of a chat turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// GroundingRef is a citable place/search reference attached to a turn.
type GroundingRef struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ChatTurn is one entry in a conversation. Turns are append-only; the tail
// assistant turn may grow while a stream is in flight, then freezes.
type ChatTurn struct {
	Speaker       Speaker        `json:"speaker"`
	Text          string         `json:"text"`
	GroundingRefs []GroundingRef `json:"grounding_refs,omitempty"`
}

// ServiceBooking records a garage service reservation.
type ServiceBooking struct {
	ID           string `json:"id"`
	Service      string `json:"service"`
	Garage       string `json:"garage"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PointsEarned int    `json:"points_earned"`
}

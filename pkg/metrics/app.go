package metrics

// App bundles the metrics the API server records.
type App struct {
	Registry *Registry

	AdvisoryRequests *Counter
	AdvisoryFallback *Counter
	ChatStreams      *Counter
	VoiceSessions    *Gauge
	AnalyticsEvents  *Counter
	RequestDuration  *Histogram
}

// NewApp creates a registry pre-populated with the server's metric set.
func NewApp() *App {
	r := New()
	return &App{
		Registry:         r,
		AdvisoryRequests: r.Counter("rafiq_advisory_requests_total", "Total advisory assessments generated"),
		AdvisoryFallback: r.Counter("rafiq_advisory_fallback_total", "Advisory assessments served without a model"),
		ChatStreams:      r.Counter("rafiq_chat_streams_total", "Total chat streams started"),
		VoiceSessions:    r.Gauge("rafiq_voice_sessions", "Currently connected voice sessions"),
		AnalyticsEvents:  r.Counter("rafiq_analytics_events_total", "Analytics events accepted"),
		RequestDuration:  r.Histogram("rafiq_http_request_duration_seconds", "HTTP request latency", nil),
	}
}

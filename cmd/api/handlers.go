package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RafiqAuto/rafiq-mvp/engine/advisory"
	"github.com/RafiqAuto/rafiq-mvp/engine/chat"
	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
	"github.com/RafiqAuto/rafiq-mvp/engine/graph"
	"github.com/RafiqAuto/rafiq-mvp/engine/places"
	"github.com/RafiqAuto/rafiq-mvp/engine/voice"
	"github.com/RafiqAuto/rafiq-mvp/pkg/analytics"
	"github.com/RafiqAuto/rafiq-mvp/pkg/booking"
	"github.com/RafiqAuto/rafiq-mvp/pkg/checkin"
	"github.com/RafiqAuto/rafiq-mvp/pkg/feed"
	"github.com/RafiqAuto/rafiq-mvp/pkg/fn"
	"github.com/RafiqAuto/rafiq-mvp/pkg/i18n"
	"github.com/RafiqAuto/rafiq-mvp/pkg/keeper"
	"github.com/RafiqAuto/rafiq-mvp/pkg/metrics"
)

// server bundles the wired services behind the HTTP surface.
type server struct {
	cfg       Config
	logger    *slog.Logger
	app       *metrics.App
	advisory  *advisory.Service
	places    *places.Service
	graph     graph.Store
	feed      *feed.Service
	checkin   *checkin.Service
	booking   *booking.Service
	analytics *analytics.Tracker
	voice     voice.Transport
	streamer  chat.Streamer
	redis     *keeper.RedisStore
	neo4j     neo4j.DriverWithContext
	now       func() time.Time

	sessMu   sync.Mutex
	sessions map[string]*chat.Session
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/advisory", s.handleAdvisory)
	mux.HandleFunc("GET /api/chat", s.handleChatHistory)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/voice", s.handleVoice)
	mux.HandleFunc("POST /api/garages", s.handleGarages)
	mux.HandleFunc("GET /api/checkin", s.handleCheckinStatus)
	mux.HandleFunc("POST /api/checkin", s.handleCheckin)
	mux.HandleFunc("GET /api/feed", s.handleFeed)
	mux.HandleFunc("GET /api/feed/saved", s.handleFeedSaved)
	mux.HandleFunc("GET /api/feed/tips", s.handleFeedTips)
	mux.HandleFunc("POST /api/feed/{id}/like", s.handleFeedLike)
	mux.HandleFunc("POST /api/feed/{id}/save", s.handleFeedSave)
	mux.HandleFunc("GET /api/bookings", s.handleBookings)
	mux.HandleFunc("POST /api/bookings", s.handleBook)
	mux.HandleFunc("GET /api/loyalty", s.handleLoyalty)
	mux.HandleFunc("POST /api/analytics", s.handleTrack)
	mux.HandleFunc("GET /api/analytics", s.handleEvents)
	mux.HandleFunc("GET /api/components", s.handleComponents)
	mux.HandleFunc("GET /api/components/{id}", s.handleComponent)
	mux.HandleFunc("GET /api/components/{id}/related", s.handleRelated)
	mux.Handle("GET /metrics", s.app.Registry.Handler())
	return mux
}

// session returns the chat session for a user, creating it on first use.
func (s *server) session(userID string) *chat.Session {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = chat.NewSession(s.streamer, s.logger)
		s.sessions[userID] = sess
	}
	return sess
}

func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "local"
}

func language(r *http.Request) domain.Language {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	if strings.HasPrefix(strings.ToLower(lang), "ar") {
		return domain.LangArabic
	}
	return domain.LangEnglish
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Health ---

type backendCheck struct {
	name  string
	check func(context.Context) error
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var checks []backendCheck
	if s.redis != nil {
		checks = append(checks, backendCheck{"redis", s.redis.Ping})
	}
	if s.neo4j != nil {
		checks = append(checks, backendCheck{"neo4j", s.neo4j.VerifyConnectivity})
	}

	backends := map[string]string{}
	results := fn.ParMapResult(checks, len(checks), func(c backendCheck) fn.Result[string] {
		if err := c.check(ctx); err != nil {
			return fn.Err[string](err)
		}
		return fn.Ok(c.name)
	})
	status := "ok"
	for i, res := range results {
		if _, err := res.Unwrap(); err != nil {
			backends[checks[i].name] = err.Error()
			status = "degraded"
		} else {
			backends[checks[i].name] = "ok"
		}
	}

	mode := "demo"
	if s.cfg.GeminiAPIKey != "" {
		mode = "live"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"mode":     mode,
		"backends": backends,
	})
}

// --- Advisory ---

type advisoryRequest struct {
	Vehicle     domain.VehicleRecord     `json:"vehicle"`
	Environment domain.EnvironmentRecord `json:"environment"`
}

type advisoryResponse struct {
	domain.AdvisoryResult
	ScoreBand string `json:"score_band"`
	BandLabel string `json:"band_label"`
	RTL       bool   `json:"rtl"`
}

func (s *server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	var req advisoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.ValidateVehicle(req.Vehicle); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := domain.ValidateEnvironment(req.Environment); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.advisory.Generate(r.Context(), req.Vehicle, req.Environment, s.now())
	if err == advisory.ErrBusy {
		writeError(w, http.StatusConflict, "assessment already in progress")
		return
	}
	if err != nil {
		s.logger.Error("advisory failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.app.AdvisoryRequests.Inc()
	if s.cfg.GeminiAPIKey == "" {
		s.app.AdvisoryFallback.Inc()
	}
	s.analytics.Track(r.Context(), "advisory_generated", map[string]any{
		"score":  result.Score,
		"alerts": len(result.Alerts),
	})

	lang := language(r)
	band := i18n.ScoreBand(result.Score)
	writeJSON(w, http.StatusOK, advisoryResponse{
		AdvisoryResult: result,
		ScoreBand:      band,
		BandLabel:      i18n.T(lang, "results.score."+band),
		RTL:            i18n.IsRTL(lang),
	})
}

// --- Chat ---

func (s *server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"turns": s.session(userID(r)).Turns(),
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.app.ChatStreams.Inc()
	s.analytics.Track(r.Context(), "chat_message_sent", nil)

	text, err := s.session(userID(r)).Send(r.Context(), req.Message, func(fragment string) {
		data, _ := json.Marshal(map[string]string{"token": fragment})
		fmt.Fprintf(w, "event: token\ndata: %s\n\n", data)
		flusher.Flush()
	})
	if err == chat.ErrBusy {
		fmt.Fprintf(w, "event: error\ndata: {\"error\":\"a reply is already streaming\"}\n\n")
		flusher.Flush()
		return
	}
	if err != nil {
		// Context cancellation mid-stream; the client is gone.
		s.logger.Info("chat stream interrupted", "err", err)
		return
	}

	data, _ := json.Marshal(map[string]string{"text": text})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", data)
	flusher.Flush()
}

// --- Garages ---

type garagesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (s *server) handleGarages(w http.ResponseWriter, r *http.Request) {
	var req garagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.analytics.Track(r.Context(), "garages_searched", nil)
	writeJSON(w, http.StatusOK, s.places.Nearby(r.Context(), req.Lat, req.Lng))
}

// --- Check-in ---

func (s *server) handleCheckinStatus(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	today := s.now()
	writeJSON(w, http.StatusOK, map[string]any{
		"dates":      s.checkin.Dates(r.Context(), user),
		"streak":     s.checkin.Streak(r.Context(), user, today),
		"checked_in": s.checkin.CheckedIn(r.Context(), user, today),
	})
}

func (s *server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	streak, err := s.checkin.Record(r.Context(), user, s.now())
	if err != nil {
		s.logger.Error("checkin failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.analytics.Track(r.Context(), "daily_checkin", map[string]any{"streak": streak})
	writeJSON(w, http.StatusOK, map[string]any{"streak": streak, "checked_in": true})
}

// --- Feed ---

func (s *server) handleFeed(w http.ResponseWriter, r *http.Request) {
	items := s.feed.Items(r.Context(), userID(r), r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *server) handleFeedSaved(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.feed.Saved(r.Context(), userID(r))})
}

func (s *server) handleFeedTips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	hits, err := s.feed.RelatedTips(r.Context(), query, parseIntOr(r.URL.Query().Get("top_k"), 3))
	if err != nil {
		s.logger.Error("related tips failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tips": hits})
}

func (s *server) handleFeedLike(w http.ResponseWriter, r *http.Request) {
	liked, err := s.feed.ToggleLike(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.analytics.Track(r.Context(), "feed_item_liked", map[string]any{"item": r.PathValue("id"), "liked": liked})
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (s *server) handleFeedSave(w http.ResponseWriter, r *http.Request) {
	saved, err := s.feed.ToggleSave(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// --- Bookings ---

type bookRequest struct {
	Service string `json:"service"`
	Garage  string `json:"garage"`
}

func (s *server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Service == "" || req.Garage == "" {
		writeError(w, http.StatusBadRequest, "service and garage are required")
		return
	}
	b, err := s.booking.Book(r.Context(), userID(r), req.Service, req.Garage, s.now())
	if err != nil {
		s.logger.Error("booking failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.analytics.Track(r.Context(), "service_booked", map[string]any{"service": req.Service})
	writeJSON(w, http.StatusOK, map[string]any{
		"booking": b,
		"message": booking.Confirmation(b),
	})
}

func (s *server) handleBookings(w http.ResponseWriter, r *http.Request) {
	list, err := s.booking.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

func (s *server) handleLoyalty(w http.ResponseWriter, r *http.Request) {
	points, err := s.booking.Points(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}

// --- Analytics ---

type trackRequest struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

func (s *server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.analytics.Track(r.Context(), req.Name, req.Properties)
	s.app.AnalyticsEvents.Inc()
	w.WriteHeader(http.StatusAccepted)
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"events": s.analytics.Events()})
}

// --- Components ---

func (s *server) handleComponents(w http.ResponseWriter, r *http.Request) {
	components, err := s.graph.Components(r.Context())
	if err != nil {
		s.logger.Error("list components failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"components": components})
}

func (s *server) handleComponent(w http.ResponseWriter, r *http.Request) {
	c, err := s.graph.Component(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleRelated(w http.ResponseWriter, r *http.Request) {
	depth := parseIntOr(r.URL.Query().Get("depth"), 1)
	related, err := s.graph.Related(r.Context(), r.PathValue("id"), depth)
	if err != nil {
		s.logger.Error("related components failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"components": related})
}

func parseIntOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

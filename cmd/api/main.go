// Package main implements the Rafiq API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RafiqAuto/rafiq-mvp/engine/advisory"
	"github.com/RafiqAuto/rafiq-mvp/engine/chat"
	"github.com/RafiqAuto/rafiq-mvp/engine/gemini"
	"github.com/RafiqAuto/rafiq-mvp/engine/graph"
	"github.com/RafiqAuto/rafiq-mvp/engine/places"
	"github.com/RafiqAuto/rafiq-mvp/engine/semantic"
	"github.com/RafiqAuto/rafiq-mvp/engine/voice"
	"github.com/RafiqAuto/rafiq-mvp/pkg/analytics"
	"github.com/RafiqAuto/rafiq-mvp/pkg/booking"
	"github.com/RafiqAuto/rafiq-mvp/pkg/checkin"
	"github.com/RafiqAuto/rafiq-mvp/pkg/feed"
	"github.com/RafiqAuto/rafiq-mvp/pkg/keeper"
	"github.com/RafiqAuto/rafiq-mvp/pkg/metrics"
	"github.com/RafiqAuto/rafiq-mvp/pkg/mid"
	"github.com/RafiqAuto/rafiq-mvp/pkg/natsutil"
)

// Config holds all environment-based configuration. Backends left blank are
// replaced by in-memory tiers so the server always boots.
type Config struct {
	Port         string
	GeminiAPIKey string
	Neo4jURL     string
	Neo4jUser    string
	Neo4jPass    string
	QdrantURL    string
	Collection   string
	RedisAddr    string
	NATSURL      string
	CORSOrigin   string
	RateRPS      float64
	RateBurst    int
}

func loadConfig() Config {
	return Config{
		Port:         envOr("PORT", "8080"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Neo4jURL:     os.Getenv("NEO4J_URL"),
		Neo4jUser:    envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:    envOr("NEO4J_PASS", "password"),
		QdrantURL:    os.Getenv("QDRANT_URL"),
		Collection:   envOr("QDRANT_COLLECTION", semantic.DefaultCollection),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		NATSURL:      os.Getenv("NATS_URL"),
		CORSOrigin:   envOr("CORS_ORIGIN", "*"),
		RateRPS:      20,
		RateBurst:    40,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := metrics.NewApp()

	// --- Key-value store: Redis or in-memory ---
	var store keeper.Store
	var redisStore *keeper.RedisStore
	if cfg.RedisAddr != "" {
		redisStore = keeper.NewRedisStore(cfg.RedisAddr)
		defer redisStore.Close()
		store = redisStore
		logger.Info("keeper backed by redis", "addr", cfg.RedisAddr)
	} else {
		store = keeper.NewMemoryStore()
		logger.Info("keeper backed by memory")
	}

	// --- Knowledge graph: Neo4j or seeded in-memory ---
	var graphStore graph.Store
	var neo4jDriver neo4j.DriverWithContext
	if cfg.Neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return fmt.Errorf("neo4j driver: %w", err)
		}
		defer driver.Close(ctx)
		neo4jDriver = driver
		graphStore = graph.NewNeo4jStore(driver)
		logger.Info("graph backed by neo4j", "url", cfg.Neo4jURL)
	} else {
		graphStore = graph.NewMemoryStore()
		logger.Info("graph backed by memory seed")
	}

	// --- Vector search: Qdrant, optional ---
	var vectorStore *semantic.VectorStore
	if cfg.QdrantURL != "" {
		vs, err := semantic.New(cfg.QdrantURL, cfg.Collection)
		if err != nil {
			return fmt.Errorf("qdrant connect: %w", err)
		}
		defer vs.Close()
		vectorStore = vs
		logger.Info("semantic tips backed by qdrant", "url", cfg.QdrantURL)
	}

	// --- Analytics fan-out: NATS, optional ---
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer conn.Close()
		nc = conn
		sub, err := natsutil.Subscribe(nc, analytics.Subject, func(_ context.Context, _ analytics.Event) {
			app.AnalyticsEvents.Inc()
		})
		if err != nil {
			return fmt.Errorf("nats subscribe: %w", err)
		}
		defer sub.Unsubscribe()
		logger.Info("analytics fan-out to nats", "url", cfg.NATSURL)
	}
	tracker := analytics.New(nc, logger)

	// --- Gemini tier: live when a key is present, demo otherwise ---
	var generator advisory.Generator
	var finder places.Finder
	var streamer chat.Streamer = &chat.DemoStreamer{}
	var voiceTransport voice.Transport
	var embedder feed.Embedder
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}
		generator = &adviceAdapter{client: client}
		finder = &garagesAdapter{client: client}
		embedder = client
		voiceTransport = gemini.NewLiveTransport(cfg.GeminiAPIKey, gemini.DefaultLiveModel, logger)
		live, err := client.NewChat(ctx)
		if err != nil {
			return fmt.Errorf("gemini chat: %w", err)
		}
		streamer = chat.Normalized(live)
		logger.Info("gemini tier live", "model", gemini.DefaultModel)
	} else {
		logger.Info("gemini tier demo: no GEMINI_API_KEY")
	}

	var searcher feed.TipSearcher
	if vectorStore != nil {
		searcher = vectorStore
	}

	srv := &server{
		cfg:       cfg,
		logger:    logger,
		app:       app,
		advisory:  advisory.New(generator, graphStore, logger),
		places:    places.New(finder, logger),
		graph:     graphStore,
		feed:      feed.New(feed.Catalog(), store, embedder, searcher, logger),
		checkin:   checkin.New(store),
		booking:   booking.New(store),
		analytics: tracker,
		voice:     voiceTransport,
		streamer:  streamer,
		redis:     redisStore,
		neo4j:     neo4jDriver,
		sessions:  map[string]*chat.Session{},
		now:       time.Now,
	}

	handler := mid.Chain(srv.routes(),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("rafiq-api"),
		mid.RateLimit(cfg.RateRPS, cfg.RateBurst),
		requestTiming(app),
	)

	httpSrv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Streaming chat and voice hold the connection open.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

// requestTiming records request latency per route.
func requestTiming(app *metrics.App) mid.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			app.RequestDuration.Since(start)
		})
	}
}

// --- Gemini adapters ---

// adviceAdapter maps the Gemini client onto the advisory Generator.
type adviceAdapter struct {
	client *gemini.Client
}

func (a *adviceAdapter) Advise(ctx context.Context, prompt string) (advisory.Advice, error) {
	out, err := a.client.Advise(ctx, prompt)
	if err != nil {
		return advisory.Advice{}, err
	}
	return advisory.Advice{
		OverallAssessment: out.OverallAssessment,
		Recommendations:   out.Recommendations,
	}, nil
}

// garagesAdapter maps Maps-grounded garage search onto the places Finder.
type garagesAdapter struct {
	client *gemini.Client
}

func (a *garagesAdapter) Find(ctx context.Context, lat, lng float64) (places.Result, error) {
	out, err := a.client.FindGarages(ctx, lat, lng)
	if err != nil {
		return places.Result{}, err
	}
	return places.Result{Text: out.Text, Refs: out.Refs}, nil
}

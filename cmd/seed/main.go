// Package main seeds the Rafiq backends: the component taxonomy into Neo4j
// and the embedded maintenance tips into Qdrant.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RafiqAuto/rafiq-mvp/engine/gemini"
	"github.com/RafiqAuto/rafiq-mvp/engine/graph"
	"github.com/RafiqAuto/rafiq-mvp/engine/semantic"
	"github.com/RafiqAuto/rafiq-mvp/pkg/fn"
	"github.com/RafiqAuto/rafiq-mvp/pkg/resilience"
)

const embedChunkSize = 16

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(context.Background(), logger); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	neo4jURL := os.Getenv("NEO4J_URL")
	qdrantURL := os.Getenv("QDRANT_URL")
	apiKey := os.Getenv("GEMINI_API_KEY")

	if neo4jURL == "" && qdrantURL == "" {
		return fmt.Errorf("nothing to seed: set NEO4J_URL and/or QDRANT_URL")
	}

	if neo4jURL != "" {
		if err := seedGraph(ctx, neo4jURL, logger); err != nil {
			return err
		}
	}

	if qdrantURL != "" {
		if apiKey == "" {
			return fmt.Errorf("seeding tips requires GEMINI_API_KEY for embeddings")
		}
		if err := seedTips(ctx, qdrantURL, apiKey, logger); err != nil {
			return err
		}
	}
	return nil
}

func seedGraph(ctx context.Context, url string, logger *slog.Logger) error {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(
		envOr("NEO4J_USER", "neo4j"),
		envOr("NEO4J_PASS", "password"),
		"",
	))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	store := graph.NewNeo4jStore(driver)
	if err := store.Seed(ctx); err != nil {
		return fmt.Errorf("seed graph: %w", err)
	}
	logger.Info("graph seeded",
		"components", len(graph.SeedComponents()),
		"edges", len(graph.SeedEdges()),
	)
	return nil
}

// seedTips embeds the tip corpus in chunks and upserts it. The embed stage
// is rate limited and retried; chunks run with bounded concurrency.
func seedTips(ctx context.Context, qdrantURL, apiKey string, logger *slog.Logger) error {
	client, err := gemini.New(ctx, apiKey, logger)
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}

	store, err := semantic.New(qdrantURL, envOr("QDRANT_COLLECTION", semantic.DefaultCollection))
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer store.Close()

	limiter := resilience.NewLimiter(resilience.LimiterOpts{Rate: 2, Burst: 2})
	var ensureOnce sync.Once
	var ensureErr error

	embed := func(ctx context.Context, chunk []semantic.TipRecord) fn.Result[[]semantic.TipRecord] {
		texts := fn.Map(chunk, func(r semantic.TipRecord) string {
			return r.Title + ". " + r.Body
		})
		vectors, err := client.Embed(ctx, texts)
		if err != nil {
			return fn.Err[[]semantic.TipRecord](err)
		}
		if len(vectors) != len(chunk) {
			return fn.Errf[[]semantic.TipRecord]("embedding count mismatch: %d != %d", len(vectors), len(chunk))
		}
		for i := range chunk {
			chunk[i].Embedding = vectors[i]
		}
		return fn.Ok(chunk)
	}

	upsert := func(ctx context.Context, chunk []semantic.TipRecord) fn.Result[int] {
		ensureOnce.Do(func() {
			ensureErr = store.EnsureCollection(ctx, len(chunk[0].Embedding))
		})
		if ensureErr != nil {
			return fn.Err[int](fmt.Errorf("ensure collection: %w", ensureErr))
		}
		if err := store.Upsert(ctx, chunk); err != nil {
			return fn.Err[int](err)
		}
		return fn.Ok(len(chunk))
	}

	chunkStage := fn.Then(
		resilience.LimiterStageWait(limiter, fn.RetryStage(fn.DefaultRetry, fn.TracedStage("seed.embed", embed))),
		fn.TracedStage("seed.upsert", upsert),
	)

	tips := tipCorpus()
	logger.Info("seeding tips",
		"tips", len(tips),
		"categories", fn.Unique(fn.Map(tips, func(r semantic.TipRecord) string { return r.Category })),
	)

	chunks := fn.Chunk(tips, embedChunkSize)
	counts, err := fn.BatchStage(2, chunkStage)(ctx, chunks).Unwrap()
	if err != nil {
		return fmt.Errorf("seed tips: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	logger.Info("tips seeded", "count", total)
	return nil
}

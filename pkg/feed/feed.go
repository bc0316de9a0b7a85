// Package feed serves the discover feed: a curated item catalog with
// per-user like/save toggles and semantic related-tips lookups.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RafiqAuto/rafiq-mvp/engine/semantic"
	"github.com/RafiqAuto/rafiq-mvp/pkg/fn"
	"github.com/RafiqAuto/rafiq-mvp/pkg/keeper"
)

// Item is one feed entry.
type Item struct {
	ID          string `json:"id"`
	Category    string `json:"category"` // event, offer, tip, ai, reminder
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
	Likes       int    `json:"likes"`
}

// Embedder turns text into vectors for the related-tips search.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// TipSearcher is the vector search tier. *semantic.VectorStore satisfies it.
type TipSearcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.TipHit, error)
}

// Service owns the catalog and per-user state.
type Service struct {
	items    []Item
	store    keeper.Store
	embedder Embedder
	searcher TipSearcher
	logger   *slog.Logger
}

// New creates a Service over the given catalog. embedder and searcher may
// be nil; related tips then fall back to keyword matching over the catalog.
func New(items []Item, store keeper.Store, embedder Embedder, searcher TipSearcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{items: items, store: store, embedder: embedder, searcher: searcher, logger: logger}
}

// Items returns the catalog, optionally filtered by category, with the
// user's like counts folded in.
func (s *Service) Items(ctx context.Context, userID, category string) []Item {
	liked := s.toggles(ctx, likesKey(userID))
	items := s.items
	if category != "" {
		items = fn.Filter(items, func(it Item) bool { return it.Category == category })
	}
	return fn.Map(items, func(it Item) Item {
		if liked[it.ID] {
			it.Likes++
		}
		return it
	})
}

// ToggleLike flips the user's like on an item and reports the new state.
func (s *Service) ToggleLike(ctx context.Context, userID, itemID string) (bool, error) {
	return s.toggle(ctx, likesKey(userID), itemID)
}

// ToggleSave flips the user's bookmark on an item and reports the new state.
func (s *Service) ToggleSave(ctx context.Context, userID, itemID string) (bool, error) {
	return s.toggle(ctx, savesKey(userID), itemID)
}

// Saved returns the user's bookmarked items in catalog order.
func (s *Service) Saved(ctx context.Context, userID string) []Item {
	saved := s.toggles(ctx, savesKey(userID))
	return fn.Filter(s.items, func(it Item) bool { return saved[it.ID] })
}

// RelatedTips finds tips related to the query. With a vector tier it embeds
// the query and searches Qdrant; without one it keyword-matches the
// catalog's tip items so offline mode still answers.
func (s *Service) RelatedTips(ctx context.Context, query string, topK int) ([]semantic.TipHit, error) {
	if topK <= 0 {
		topK = 3
	}
	if s.embedder == nil || s.searcher == nil {
		return s.keywordTips(query, topK), nil
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("feed: embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("feed: empty embedding for query")
	}
	hits, err := s.searcher.Search(ctx, vecs[0], topK)
	if err != nil {
		return nil, fmt.Errorf("feed: related tips search: %w", err)
	}
	return hits, nil
}

// keywordTips is the offline related-tips tier.
func (s *Service) keywordTips(query string, topK int) []semantic.TipHit {
	words := strings.Fields(strings.ToLower(query))
	var hits []semantic.TipHit
	for _, it := range s.items {
		if it.Category != "tip" && it.Category != "ai" {
			continue
		}
		text := strings.ToLower(it.Title + " " + it.Description)
		score := 0
		for _, w := range words {
			if len(w) > 2 && strings.Contains(text, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, semantic.TipHit{
				ID:       it.ID,
				Score:    float32(score),
				Title:    it.Title,
				Body:     it.Description,
				Category: it.Category,
			})
		}
	}
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func (s *Service) toggle(ctx context.Context, key, itemID string) (bool, error) {
	set := s.toggles(ctx, key)
	set[itemID] = !set[itemID]
	if !set[itemID] {
		delete(set, itemID)
	}
	if err := keeper.SetJSON(ctx, s.store, key, set); err != nil {
		return false, fmt.Errorf("feed: save toggles: %w", err)
	}
	return set[itemID], nil
}

func (s *Service) toggles(ctx context.Context, key string) map[string]bool {
	set := map[string]bool{}
	if _, err := keeper.GetJSON(ctx, s.store, key, &set); err != nil {
		s.logger.Warn("feed: corrupt toggle state, resetting", "key", key, "err", err)
		return map[string]bool{}
	}
	return set
}

func likesKey(userID string) string { return "feed:likes:" + userID }
func savesKey(userID string) string { return "feed:saves:" + userID }

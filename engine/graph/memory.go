package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is an in-memory graph seeded with the stock maintenance
// taxonomy. It serves offline mode and tests, and is the seed source for
// Neo4jStore.Seed.
type MemoryStore struct {
	mu         sync.RWMutex
	components map[string]Component
	edges      []Edge
	adjacency  map[string][]string
}

// NewMemoryStore returns a store pre-populated with SeedComponents and
// SeedEdges.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		components: make(map[string]Component),
		adjacency:  make(map[string][]string),
	}
	for _, c := range SeedComponents() {
		s.components[c.ID] = c
	}
	for _, e := range SeedEdges() {
		s.edges = append(s.edges, e)
		s.adjacency[e.From] = append(s.adjacency[e.From], e.To)
		s.adjacency[e.To] = append(s.adjacency[e.To], e.From)
	}
	return s
}

func (s *MemoryStore) Component(_ context.Context, id string) (Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.components[id]
	if !ok {
		return Component{}, fmt.Errorf("graph: component %q not found", id)
	}
	return c, nil
}

func (s *MemoryStore) Components(_ context.Context) ([]Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Component, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c)
	}
	return out, nil
}

// Related walks the undirected adjacency up to depth hops from id,
// excluding id itself.
func (s *MemoryStore) Related(_ context.Context, id string, depth int) ([]Component, error) {
	if depth <= 0 {
		depth = 1
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.components[id]; !ok {
		return nil, fmt.Errorf("graph: component %q not found", id)
	}

	seen := map[string]bool{id: true}
	frontier := []string{id}
	var out []Component
	for hop := 0; hop < depth; hop++ {
		var next []string
		for _, cur := range frontier {
			for _, n := range s.adjacency[cur] {
				if seen[n] {
					continue
				}
				seen[n] = true
				next = append(next, n)
				out = append(out, s.components[n])
			}
		}
		frontier = next
	}
	return out, nil
}

// FindByKeywords matches keywords against component names and categories,
// case-insensitively, and returns the matches plus the edges among them.
func (s *MemoryStore) FindByKeywords(_ context.Context, keywords []string) ([]Component, []Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := map[string]bool{}
	var components []Component
	for _, c := range s.components {
		name := strings.ToLower(c.Name)
		for _, kw := range keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			if strings.Contains(name, kw) || strings.EqualFold(c.Category, kw) {
				if !matched[c.ID] {
					matched[c.ID] = true
					components = append(components, c)
				}
				break
			}
		}
	}

	var edges []Edge
	for _, e := range s.edges {
		if matched[e.From] && matched[e.To] {
			edges = append(edges, e)
		}
	}
	return components, edges, nil
}

var _ Store = (*MemoryStore)(nil)

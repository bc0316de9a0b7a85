// Package graph holds the maintenance knowledge graph: vehicle components,
// the relationships between them, and lookups used to enrich advisory
// prompts with related-component context.
package graph

import "context"

// Component is one maintainable part or system of a vehicle.
type Component struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"` // engine, filtration, electrical, cooling, brakes, tires
	Properties map[string]string `json:"properties,omitempty"`
}

// Edge is a relationship between two components.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"` // protects, lubricates, feeds, wears_with, part_of
}

// Store is the graph backend. Neo4jStore talks to a live database; the
// seeded MemoryStore backs offline mode and tests.
type Store interface {
	Component(ctx context.Context, id string) (Component, error)
	Components(ctx context.Context) ([]Component, error)
	Related(ctx context.Context, id string, depth int) ([]Component, error)
	FindByKeywords(ctx context.Context, keywords []string) ([]Component, []Edge, error)
}

package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/RafiqAuto/rafiq-mvp/pkg/repo"
)

// Neo4jStore provides graph operations on top of the generic Neo4j
// repository.
type Neo4jStore struct {
	driver     neo4j.DriverWithContext
	components *repo.Neo4jRepo[Component, string]
}

// NewNeo4jStore creates a store backed by the given driver.
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{
		driver:     driver,
		components: newComponentRepo(driver),
	}
}

func newComponentRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[Component, string] {
	return repo.NewNeo4jRepo[Component, string](
		driver,
		"Component",
		componentToMap,
		func(record *neo4j.Record) (Component, error) {
			node, _, err := neo4j.GetRecordValue[dbtype.Node](record, "n")
			if err != nil {
				return Component{}, err
			}
			return componentFromProps(node.Props), nil
		},
	)
}

func (g *Neo4jStore) Component(ctx context.Context, id string) (Component, error) {
	return g.components.Get(ctx, id)
}

func (g *Neo4jStore) Components(ctx context.Context) ([]Component, error) {
	return g.components.List(ctx, repo.ListOpts{})
}

// Related returns components within depth hops of the given node.
func (g *Neo4jStore) Related(ctx context.Context, id string, depth int) ([]Component, error) {
	if depth <= 0 {
		depth = 1
	}
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := fmt.Sprintf(
		`MATCH (start:Component {id: $id})-[*1..%d]-(n:Component)
		 WHERE n.id <> $id
		 RETURN DISTINCT n`, depth)
	result, err := sess.Run(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	return collectComponents(ctx, result)
}

// FindByKeywords matches component names against the keywords and returns
// matches plus the edges among them.
func (g *Neo4jStore) FindByKeywords(ctx context.Context, keywords []string) ([]Component, []Edge, error) {
	if len(keywords) == 0 {
		return nil, nil, nil
	}
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	cypher := `MATCH (n:Component)
		 WHERE any(kw IN $keywords WHERE toLower(n.name) CONTAINS kw OR toLower(n.category) = kw)
		 OPTIONAL MATCH (n)-[r]-(m:Component)
		 WHERE any(kw IN $keywords WHERE toLower(m.name) CONTAINS kw OR toLower(m.category) = kw)
		 RETURN DISTINCT n, r.id AS rid, type(r) AS rtype, startNode(r).id AS rfrom, endNode(r).id AS rto`
	result, err := sess.Run(ctx, cypher, map[string]any{"keywords": lowered})
	if err != nil {
		return nil, nil, err
	}

	seenComp := map[string]bool{}
	seenEdge := map[string]bool{}
	var components []Component
	var edges []Edge
	for result.Next(ctx) {
		record := result.Record()
		if node, _, err := neo4j.GetRecordValue[dbtype.Node](record, "n"); err == nil {
			c := componentFromProps(node.Props)
			if !seenComp[c.ID] {
				seenComp[c.ID] = true
				components = append(components, c)
			}
		}
		id, _, err := neo4j.GetRecordValue[string](record, "rid")
		if err != nil || id == "" || seenEdge[id] {
			continue
		}
		rtype, _, _ := neo4j.GetRecordValue[string](record, "rtype")
		rfrom, _, _ := neo4j.GetRecordValue[string](record, "rfrom")
		rto, _, _ := neo4j.GetRecordValue[string](record, "rto")
		seenEdge[id] = true
		edges = append(edges, Edge{ID: id, From: rfrom, To: rto, Type: rtype})
	}
	return components, edges, nil
}

// Seed merges the stock taxonomy into the database in one transaction.
func (g *Neo4jStore) Seed(ctx context.Context) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, c := range SeedComponents() {
			cypher := `MERGE (n:Component {id: $id}) SET n += $props`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"id":    c.ID,
				"props": componentToMap(c),
			}); err != nil {
				return nil, err
			}
		}
		for _, e := range SeedEdges() {
			cypher := fmt.Sprintf(
				`MATCH (a:Component {id: $from}), (b:Component {id: $to})
				 MERGE (a)-[r:%s {id: $id}]->(b)`,
				sanitizeRelType(e.Type),
			)
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"from": e.From,
				"to":   e.To,
				"id":   e.ID,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

var _ Store = (*Neo4jStore)(nil)

func collectComponents(ctx context.Context, result neo4j.ResultWithContext) ([]Component, error) {
	var items []Component
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "n")
		if err != nil {
			return nil, err
		}
		items = append(items, componentFromProps(node.Props))
	}
	return items, nil
}

func componentToMap(c Component) map[string]any {
	m := map[string]any{
		"id":       c.ID,
		"name":     c.Name,
		"category": c.Category,
	}
	for k, v := range c.Properties {
		m["prop_"+k] = v
	}
	return m
}

func componentFromProps(props map[string]any) Component {
	c := Component{
		ID:       strProp(props, "id"),
		Name:     strProp(props, "name"),
		Category: strProp(props, "category"),
	}
	for k, v := range props {
		if strings.HasPrefix(k, "prop_") {
			if s, ok := v.(string); ok {
				if c.Properties == nil {
					c.Properties = map[string]string{}
				}
				c.Properties[strings.TrimPrefix(k, "prop_")] = s
			}
		}
	}
	return c
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

// sanitizeRelType keeps relationship types to a safe identifier charset
// since they are interpolated into cypher.
func sanitizeRelType(t string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(t) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "RELATED_TO"
	}
	return b.String()
}

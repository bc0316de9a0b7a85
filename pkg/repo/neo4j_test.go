package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type fakeResult struct {
	records []*neo4j.Record
	idx     int
}

func (f *fakeResult) Next(ctx context.Context) bool {
	if f.idx < len(f.records) {
		f.idx++
		return true
	}
	return false
}

func (f *fakeResult) Record() *neo4j.Record { return f.records[f.idx-1] }

type fakeRunner struct {
	result  *fakeResult
	err     error
	cyphers []string
	params  []map[string]any
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	f.cyphers = append(f.cyphers, cypher)
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRunner) Close(ctx context.Context) error { return nil }

type part struct {
	ID   string
	Name string
}

func partRecord(id, name string) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"n"},
		Values: []any{map[string]any{"id": id, "name": name}},
	}
}

func newPartRepo(f *fakeRunner) *Neo4jRepo[part, string] {
	r := NewNeo4jRepo[part, string](
		nil, "Part",
		func(p part) map[string]any { return map[string]any{"id": p.ID, "name": p.Name} },
		func(rec *neo4j.Record) (part, error) {
			m, ok := rec.Values[0].(map[string]any)
			if !ok {
				return part{}, errors.New("unexpected record shape")
			}
			return part{ID: m["id"].(string), Name: m["name"].(string)}, nil
		},
	)
	r.newSession = func(ctx context.Context) runner { return f }
	return r
}

func TestGetReturnsEntity(t *testing.T) {
	f := &fakeRunner{result: &fakeResult{records: []*neo4j.Record{partRecord("oil-filter", "Oil Filter")}}}
	r := newPartRepo(f)

	got, err := r.Get(context.Background(), "oil-filter")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Oil Filter" {
		t.Fatalf("got %+v", got)
	}
	if !strings.Contains(f.cyphers[0], "MATCH (n:Part {id: $id})") {
		t.Fatalf("cypher: %s", f.cyphers[0])
	}
}

func TestGetNotFound(t *testing.T) {
	f := &fakeRunner{result: &fakeResult{}}
	r := newPartRepo(f)

	_, err := r.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAppliesDefaultLimit(t *testing.T) {
	f := &fakeRunner{result: &fakeResult{records: []*neo4j.Record{
		partRecord("a", "A"), partRecord("b", "B"),
	}}}
	r := newPartRepo(f)

	items, err := r.List(context.Background(), ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[1].ID != "b" {
		t.Fatalf("items: %+v", items)
	}
	if f.params[0]["limit"] != 100 {
		t.Fatalf("expected default limit 100, got %v", f.params[0]["limit"])
	}
}

func TestCreateSendsProps(t *testing.T) {
	f := &fakeRunner{result: &fakeResult{records: []*neo4j.Record{partRecord("x", "X")}}}
	r := newPartRepo(f)

	if _, err := r.Create(context.Background(), part{ID: "x", Name: "X"}); err != nil {
		t.Fatal(err)
	}
	props, ok := f.params[0]["props"].(map[string]any)
	if !ok || props["name"] != "X" {
		t.Fatalf("params: %+v", f.params[0])
	}
}

func TestUpdateNotFound(t *testing.T) {
	f := &fakeRunner{result: &fakeResult{}}
	r := newPartRepo(f)

	_, err := r.Update(context.Background(), part{ID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePropagatesRunError(t *testing.T) {
	boom := errors.New("connection reset")
	f := &fakeRunner{err: boom}
	r := newPartRepo(f)

	if err := r.Delete(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected run error, got %v", err)
	}
}

func TestWithIDKey(t *testing.T) {
	r := NewNeo4jRepo[part, string](nil, "Part", nil, nil, WithIDKey[part, string]("sku"))
	if r.idKey != "sku" {
		t.Fatalf("idKey = %s", r.idKey)
	}
}

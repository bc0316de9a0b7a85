package keeper

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatal("missing key reported present")
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok := s.Get(ctx, "k"); !ok || got != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("deleted key still present")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type profile struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}

	var out profile
	ok, err := GetJSON(ctx, s, "profile", &out)
	if err != nil || ok {
		t.Fatalf("GetJSON on missing key = %v, %v", ok, err)
	}

	if err := SetJSON(ctx, s, "profile", profile{Name: "Sara", Points: 120}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	ok, err = GetJSON(ctx, s, "profile", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON = %v, %v", ok, err)
	}
	if out.Name != "Sara" || out.Points != 120 {
		t.Errorf("out = %+v", out)
	}

	s.Set(ctx, "junk", "{not json")
	if _, err := GetJSON(ctx, s, "junk", &out); err == nil {
		t.Fatal("expected decode error for corrupt value")
	}
}

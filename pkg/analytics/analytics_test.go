package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestTrackBuffersEvents(t *testing.T) {
	tr := New(nil, nil)
	tr.Track(context.Background(), "advisory_generated", map[string]any{"score": 75})
	tr.Track(context.Background(), "chat_message_sent", nil)

	events := tr.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Name != "advisory_generated" || events[1].Name != "chat_message_sent" {
		t.Errorf("order lost: %+v", events)
	}
	if events[0].TS.IsZero() {
		t.Error("missing timestamp")
	}
}

func TestBufferCapsAtMaxEvents(t *testing.T) {
	tr := New(nil, nil)
	for i := 0; i < MaxEvents+25; i++ {
		tr.Track(context.Background(), fmt.Sprintf("ev-%d", i), nil)
	}
	events := tr.Events()
	if len(events) != MaxEvents {
		t.Fatalf("events = %d, want %d", len(events), MaxEvents)
	}
	if events[0].Name != "ev-25" {
		t.Errorf("oldest surviving event = %q, want ev-25", events[0].Name)
	}
	if events[len(events)-1].Name != fmt.Sprintf("ev-%d", MaxEvents+24) {
		t.Errorf("newest event = %q", events[len(events)-1].Name)
	}
}

func TestClear(t *testing.T) {
	tr := New(nil, nil)
	tr.Track(context.Background(), "x", nil)
	tr.Clear()
	if got := tr.Events(); len(got) != 0 {
		t.Errorf("events = %v after Clear", got)
	}
}

func TestDeterministicTimestamps(t *testing.T) {
	tr := New(nil, nil)
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }
	tr.Track(context.Background(), "x", nil)
	if got := tr.Events()[0].TS; !got.Equal(fixed) {
		t.Errorf("ts = %v, want %v", got, fixed)
	}
}

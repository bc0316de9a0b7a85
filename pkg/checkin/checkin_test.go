package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/RafiqAuto/rafiq-mvp/pkg/keeper"
)

var day0 = time.Date(2026, time.August, 30, 22, 15, 0, 0, time.Local)

func TestRecordAndStreak(t *testing.T) {
	ctx := context.Background()
	svc := New(keeper.NewMemoryStore())

	if svc.CheckedIn(ctx, "u1", day0) {
		t.Fatal("fresh user reported checked in")
	}
	streak, err := svc.Record(ctx, "u1", day0)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if streak != 1 {
		t.Errorf("streak = %d, want 1", streak)
	}
	if !svc.CheckedIn(ctx, "u1", day0) {
		t.Error("CheckedIn false after Record")
	}
}

func TestRecordIsIdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	svc := New(keeper.NewMemoryStore())

	svc.Record(ctx, "u1", day0)
	streak, err := svc.Record(ctx, "u1", day0)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if streak != 1 {
		t.Errorf("streak = %d, want 1 after double check-in", streak)
	}
	if got := len(svc.Dates(ctx, "u1")); got != 1 {
		t.Errorf("dates = %d, want 1", got)
	}
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	ctx := context.Background()
	svc := New(keeper.NewMemoryStore())

	for i := 2; i >= 0; i-- {
		svc.Record(ctx, "u1", day0.AddDate(0, 0, -i))
	}
	if got := svc.Streak(ctx, "u1", day0); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

func TestStreakBreaksOnGap(t *testing.T) {
	ctx := context.Background()
	svc := New(keeper.NewMemoryStore())

	svc.Record(ctx, "u1", day0.AddDate(0, 0, -3))
	svc.Record(ctx, "u1", day0.AddDate(0, 0, -2))
	svc.Record(ctx, "u1", day0)
	if got := svc.Streak(ctx, "u1", day0); got != 1 {
		t.Errorf("streak = %d, want 1 after a missed day", got)
	}
}

func TestStreakZeroWithoutToday(t *testing.T) {
	ctx := context.Background()
	svc := New(keeper.NewMemoryStore())

	svc.Record(ctx, "u1", day0.AddDate(0, 0, -1))
	if got := svc.Streak(ctx, "u1", day0); got != 0 {
		t.Errorf("streak = %d, want 0 when today is missing", got)
	}
}

func TestCorruptStateReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := keeper.NewMemoryStore()
	store.Set(ctx, "checkins:u1", "{broken")
	svc := New(store)

	if got := svc.Dates(ctx, "u1"); got != nil {
		t.Errorf("dates = %v, want nil for corrupt state", got)
	}
	if got := svc.Streak(ctx, "u1", day0); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := New(keeper.NewMemoryStore())

	svc.Record(ctx, "u1", day0)
	if svc.CheckedIn(ctx, "u2", day0) {
		t.Error("u2 sees u1's check-in")
	}
}

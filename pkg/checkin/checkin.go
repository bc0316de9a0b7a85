// Package checkin tracks daily check-ins and the consecutive-day streak
// that powers loyalty points.
package checkin

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RafiqAuto/rafiq-mvp/pkg/keeper"
)

// ISODate is the stored day format. Local dates, not UTC, so "today" does
// not flip early near midnight.
const ISODate = "2006-01-02"

// Service records and reads check-ins for users.
type Service struct {
	store keeper.Store
}

func New(store keeper.Store) *Service {
	return &Service{store: store}
}

func key(userID string) string {
	return "checkins:" + userID
}

// Dates returns the user's distinct check-in dates, sorted ascending.
// Corrupt stored state reads as empty rather than erroring.
func (s *Service) Dates(ctx context.Context, userID string) []string {
	var raw []string
	if ok, err := keeper.GetJSON(ctx, s.store, key(userID), &raw); err != nil || !ok {
		return nil
	}
	seen := map[string]bool{}
	var dates []string
	for _, d := range raw {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}

// CheckedIn reports whether the user already checked in on the given day.
func (s *Service) CheckedIn(ctx context.Context, userID string, today time.Time) bool {
	day := today.Format(ISODate)
	for _, d := range s.Dates(ctx, userID) {
		if d == day {
			return true
		}
	}
	return false
}

// Record marks today as checked in and returns the resulting streak.
func (s *Service) Record(ctx context.Context, userID string, today time.Time) (int, error) {
	day := today.Format(ISODate)
	dates := s.Dates(ctx, userID)
	var present bool
	for _, d := range dates {
		if d == day {
			present = true
			break
		}
	}
	if !present {
		dates = append(dates, day)
	}
	if err := keeper.SetJSON(ctx, s.store, key(userID), dates); err != nil {
		return 0, fmt.Errorf("checkin: save: %w", err)
	}
	return s.Streak(ctx, userID, today), nil
}

// Streak counts consecutive checked-in days ending today. A missed today
// means a streak of zero regardless of history.
func (s *Service) Streak(ctx context.Context, userID string, today time.Time) int {
	set := map[string]bool{}
	for _, d := range s.Dates(ctx, userID) {
		set[d] = true
	}
	if len(set) == 0 {
		return 0
	}

	streak := 0
	cursor := today
	for set[cursor.Format(ISODate)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

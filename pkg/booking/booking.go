// Package booking creates service bookings with the fixed scheduling the
// concierge offers: the first slot two days out at 10:00 AM, plus loyalty
// points for booking through the app.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
	"github.com/RafiqAuto/rafiq-mvp/pkg/keeper"
)

const (
	// SlotTime is the only slot offered in this release.
	SlotTime = "10:00 AM"
	// LeadDays is how far out the slot is scheduled.
	LeadDays = 2
	// PointsPerBooking is the loyalty reward for booking in-app.
	PointsPerBooking = 50
)

// DateLayout matches the confirmation copy shown in chat.
const DateLayout = "Mon, Jan 2"

// Service creates and lists bookings.
type Service struct {
	store keeper.Store
	newID func() string
}

func New(store keeper.Store) *Service {
	return &Service{store: store, newID: uuid.NewString}
}

func key(userID string) string {
	return "bookings:" + userID
}

// Book schedules a service at the garage and appends it to the user's
// booking list.
func (s *Service) Book(ctx context.Context, userID, serviceName, garage string, now time.Time) (domain.ServiceBooking, error) {
	b := domain.ServiceBooking{
		ID:           s.newID(),
		Service:      serviceName,
		Garage:       garage,
		Date:         now.AddDate(0, 0, LeadDays).Format(DateLayout),
		Time:         SlotTime,
		PointsEarned: PointsPerBooking,
	}

	existing, err := s.List(ctx, userID)
	if err != nil {
		return domain.ServiceBooking{}, err
	}
	existing = append(existing, b)
	if err := keeper.SetJSON(ctx, s.store, key(userID), existing); err != nil {
		return domain.ServiceBooking{}, fmt.Errorf("booking: save: %w", err)
	}
	return b, nil
}

// List returns the user's bookings in creation order.
func (s *Service) List(ctx context.Context, userID string) ([]domain.ServiceBooking, error) {
	var bookings []domain.ServiceBooking
	if _, err := keeper.GetJSON(ctx, s.store, key(userID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Points sums loyalty points earned across all bookings.
func (s *Service) Points(ctx context.Context, userID string) (int, error) {
	bookings, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, b := range bookings {
		total += b.PointsEarned
	}
	return total, nil
}

// Confirmation is the chat copy for a fresh booking.
func Confirmation(b domain.ServiceBooking) string {
	return fmt.Sprintf("Booking confirmed at %s for %s at %s. +%d loyalty points added.",
		b.Garage, b.Date, b.Time, b.PointsEarned)
}

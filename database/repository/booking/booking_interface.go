package bookingRepo

import (
	"context"
	"time"

	"adwuma/models"
)

// BookingRepository defines data access for bookings and their audit trail.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// ReplaceGuarded persists b only if the stored document still carries one
	// of the given statuses at the given version. It reports false when no
	// document matched, which the caller disambiguates into an invalid
	// transition or a lost write race by re-reading.
	ReplaceGuarded(ctx context.Context, b *models.Booking, fromStatus []models.BookingStatus, fromVersion int64) (bool, error)

	// ListDueForAutoConfirm returns bookings awaiting client confirmation
	// whose deadline is at or before now, oldest deadline first.
	ListDueForAutoConfirm(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error)

	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)

	// AppendEvent writes one immutable audit row for a committed transition.
	AppendEvent(ctx context.Context, ev models.BookingEvent) error
}

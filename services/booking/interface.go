package booking

import (
	"context"
	"time"

	"adwuma/models"
)

// SweepSummary reports one auto-confirm sweep run.
type SweepSummary struct {
	CheckedCount   int `json:"checkedCount"`
	ConfirmedCount int `json:"confirmedCount"`
}

// BookingService drives the booking lifecycle. Every operation takes an
// explicit now so transitions, deadlines and escrow math are deterministic
// and testable without touching a global clock.
type BookingService interface {
	CreateBooking(ctx context.Context, in models.BookingInput, now time.Time) (*models.Booking, error)
	AcceptBooking(ctx context.Context, bookingID, providerID string, now time.Time) (*models.Booking, error)
	CapturePayment(ctx context.Context, bookingID, method string, details map[string]string, now time.Time) (*models.Booking, error)
	MarkServiceCompleted(ctx context.Context, bookingID string, requiresConfirmation bool, now time.Time) (*models.Booking, error)
	ConfirmByClient(ctx context.Context, bookingID, clientID string, now time.Time) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, reason string, actor models.Recipient, now time.Time) (*models.Booking, error)
	ReleaseEscrow(ctx context.Context, bookingID string, now time.Time) (*models.Booking, error)
	RunAutoConfirmSweep(ctx context.Context, now time.Time) (SweepSummary, error)
}

// NotificationDispatcher hands a notification off for asynchronous,
// best-effort delivery. Dispatch never blocks a transition and never fails it.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n models.Notification)
}

// SnapshotInvalidator drops cached earnings snapshots after a booking
// mutation for the given provider.
type SnapshotInvalidator interface {
	InvalidateProvider(ctx context.Context, providerID string)
}

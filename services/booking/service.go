package booking

import (
	"context"
	"time"

	bookingRepo "adwuma/database/repository/booking"
	disputeRepo "adwuma/database/repository/dispute"
	identityRepo "adwuma/database/repository/identity"
	"adwuma/models"
	"adwuma/services/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// conflictRetryBudget bounds how often a lost write race is retried from
// scratch before surfacing ErrPersistenceConflict.
const conflictRetryBudget = 3

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo           bookingRepo.BookingRepository
	Disputes       disputeRepo.DisputeRepository
	Identity       identityRepo.IdentityRepository
	Payments       payment.Processor
	Notifier       NotificationDispatcher
	Snapshots      SnapshotInvalidator
	CommissionRate decimal.Decimal
	HoldPeriod     time.Duration
	Logger         *zap.Logger
}

func statusIn(s models.BookingStatus, allowed []models.BookingStatus) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// transition runs one guarded state change: read, validate the source state,
// apply the mutation, and commit with a compare-and-set on status+version.
// A lost race is retried from scratch a bounded number of times; a failed
// guard aborts immediately and nothing is partially applied.
func (s *DefaultBookingService) transition(
	ctx context.Context,
	bookingID string,
	from []models.BookingStatus,
	attempted models.BookingStatus,
	actor models.Recipient,
	now time.Time,
	mutate func(b *models.Booking) error,
) (*models.Booking, error) {
	for attempt := 0; attempt < conflictRetryBudget; attempt++ {
		b, err := s.Repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if !statusIn(b.Status, from) {
			return nil, &InvalidStateTransitionError{
				BookingID: bookingID,
				Current:   b.Status,
				Expected:  from,
				Attempted: attempted,
			}
		}

		prevStatus := b.Status
		prevVersion := b.Version
		if err := mutate(b); err != nil {
			return nil, err
		}
		b.Status = attempted
		b.Version++
		b.UpdatedAt = now

		ok, err := s.Repo.ReplaceGuarded(ctx, b, from, prevVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			s.recordEvent(ctx, b, prevStatus, actor, now)
			s.invalidateSnapshot(ctx, b.ProviderID)
			return b, nil
		}

		s.Logger.Warn("booking transition lost write race, retrying",
			zap.String("bookingId", bookingID),
			zap.String("attempted", string(attempted)),
			zap.Int("attempt", attempt+1))
	}
	return nil, ErrPersistenceConflict
}

// recordEvent appends the audit row for a committed transition. The trail is
// advisory: a write failure is logged and never fails the transition.
func (s *DefaultBookingService) recordEvent(ctx context.Context, b *models.Booking, from models.BookingStatus, actor models.Recipient, at time.Time) {
	ev := models.BookingEvent{
		ID:        uuid.New().String(),
		BookingID: b.ID,
		From:      from,
		To:        b.Status,
		Actor:     actor,
		At:        at,
	}
	if err := s.Repo.AppendEvent(ctx, ev); err != nil {
		s.Logger.Error("failed to append booking event",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) invalidateSnapshot(ctx context.Context, providerID string) {
	if s.Snapshots != nil {
		s.Snapshots.InvalidateProvider(ctx, providerID)
	}
}

// notify dispatches a booking notification asynchronously. Best effort only.
func (s *DefaultBookingService) notify(ctx context.Context, recipient models.Recipient, notifType, title, body string, data map[string]string, now time.Time) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Dispatch(ctx, models.Notification{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: now,
	})
}

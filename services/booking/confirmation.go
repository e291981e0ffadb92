package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adwuma/models"

	"go.uber.org/zap"
)

// sweepBatchLimit caps how many due bookings one sweep run processes.
const sweepBatchLimit = 500

// perBookingSweepTimeout bounds each booking's transaction inside the sweep
// so one poisoned booking cannot stall the batch.
const perBookingSweepTimeout = 5 * time.Second

// ConfirmByClient resolves an AWAITING_CLIENT_CONFIRMATION booking by
// explicit client action.
func (s *DefaultBookingService) ConfirmByClient(ctx context.Context, bookingID, clientID string, now time.Time) (*models.Booking, error) {
	current, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.ClientID != clientID {
		return nil, &NotEligibleForConfirmationError{
			BookingID: bookingID,
			ClientID:  clientID,
			Reason:    "booking belongs to a different client",
		}
	}
	if current.Status != models.BookingAwaitingClientConfirmation {
		return nil, &NotEligibleForConfirmationError{
			BookingID: bookingID,
			ClientID:  clientID,
			Reason:    fmt.Sprintf("status is %s, not %s", current.Status, models.BookingAwaitingClientConfirmation),
		}
	}

	actor := models.Recipient{Kind: models.RecipientClient, ID: clientID}
	b, err := s.transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingAwaitingClientConfirmation}, models.BookingCompleted,
		actor, now,
		func(b *models.Booking) error {
			confirmedAt := now
			b.ClientConfirmedAt = &confirmedAt
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.emitConfirmationNotices(ctx, b, models.NotificationServiceConfirmed, now)
	return b, nil
}

// RunAutoConfirmSweep resolves every booking whose confirmation deadline has
// elapsed with no open dispute. Each booking is handled in its own guarded
// update under its own timeout; a failure is logged and the batch moves on.
// Re-running the sweep is safe: bookings already COMPLETED no longer match
// the selection, and notifications are tied to the status change itself, so
// nothing is confirmed or notified twice.
func (s *DefaultBookingService) RunAutoConfirmSweep(ctx context.Context, now time.Time) (SweepSummary, error) {
	summary := SweepSummary{}

	due, err := s.Repo.ListDueForAutoConfirm(ctx, now, sweepBatchLimit)
	if err != nil {
		return summary, fmt.Errorf("auto-confirm sweep: %w", err)
	}

	for i := range due {
		b := &due[i]
		summary.CheckedCount++

		bctx, cancel := context.WithTimeout(ctx, perBookingSweepTimeout)
		confirmed, err := s.autoConfirmOne(bctx, b.ID, now)
		cancel()
		if err != nil {
			s.Logger.Error("auto-confirm failed, continuing sweep",
				zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		if confirmed {
			summary.ConfirmedCount++
		}
	}

	s.Logger.Info("auto-confirm sweep finished",
		zap.Int("checked", summary.CheckedCount),
		zap.Int("confirmed", summary.ConfirmedCount))
	return summary, nil
}

// autoConfirmOne handles a single due booking. Returns false without error
// when the booking is excluded (open dispute) or already resolved by a
// concurrent writer.
func (s *DefaultBookingService) autoConfirmOne(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	disputed, err := s.Disputes.HasOpenDispute(ctx, bookingID)
	if err != nil {
		return false, fmt.Errorf("dispute lookup: %w", err)
	}
	if disputed {
		s.Logger.Debug("skipping disputed booking", zap.String("bookingId", bookingID))
		return false, nil
	}

	actor := models.Recipient{Kind: models.RecipientAdmin, ID: "auto-confirm"}
	b, err := s.transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingAwaitingClientConfirmation}, models.BookingCompleted,
		actor, now,
		func(b *models.Booking) error {
			confirmedAt := now
			b.ClientConfirmedAt = &confirmedAt
			return nil
		})
	if err != nil {
		// Already resolved between the selection and the update: not a
		// failure, the sweep is idempotent by construction.
		var invalid *InvalidStateTransitionError
		if errors.As(err, &invalid) {
			return false, nil
		}
		return false, err
	}

	s.emitConfirmationNotices(ctx, b, models.NotificationAutoConfirmed, now)
	return true, nil
}

// emitConfirmationNotices sends the two confirmation notifications: payment
// released to the provider, service confirmed (or auto-confirmed) to the
// client. Emission is attempted exactly once per transition event.
func (s *DefaultBookingService) emitConfirmationNotices(ctx context.Context, b *models.Booking, clientNotifType string, now time.Time) {
	data := map[string]string{"bookingId": b.ID}

	providerBody := fmt.Sprintf("Service for booking %s is confirmed. %s %s enters the release queue.",
		b.ID, b.Currency, b.ProviderAmount)
	s.notify(ctx,
		models.Recipient{Kind: models.RecipientProvider, ID: b.ProviderID},
		models.NotificationPaymentReleased,
		"Payment on its way", providerBody, data, now)

	clientBody := fmt.Sprintf("Booking %s is now complete.", b.ID)
	if clientNotifType == models.NotificationAutoConfirmed {
		clientBody = fmt.Sprintf("Booking %s was automatically confirmed after the review window closed.", b.ID)
	}
	s.notify(ctx,
		models.Recipient{Kind: models.RecipientClient, ID: b.ClientID},
		clientNotifType,
		"Service confirmed", clientBody, data, now)
}

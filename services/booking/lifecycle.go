package booking

import (
	"context"
	"fmt"
	"time"

	identityRepo "adwuma/database/repository/identity"
	"adwuma/models"
	"adwuma/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking inserts a new booking in PENDING. Entry point for the
// request/accept flow; no money moves yet.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, in models.BookingInput, now time.Time) (*models.Booking, error) {
	if in.ClientID == "" || in.ProviderID == "" {
		return nil, fmt.Errorf("booking requires both a client and a provider")
	}
	if in.TotalAmount.Decimal.Sign() <= 0 {
		return nil, fmt.Errorf("booking total must be positive, got %s", in.TotalAmount)
	}

	for _, party := range []models.Recipient{
		{Kind: models.RecipientClient, ID: in.ClientID},
		{Kind: models.RecipientProvider, ID: in.ProviderID},
	} {
		ok, err := s.Identity.Exists(ctx, party)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s %s: %w", party.Kind, party.ID, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s %s: %w", party.Kind, party.ID, identityRepo.ErrRecipientNotFound)
		}
	}

	b := &models.Booking{
		ID:             uuid.New().String(),
		ClientID:       in.ClientID,
		ProviderID:     in.ProviderID,
		ServiceID:      in.ServiceID,
		Status:         models.BookingPending,
		TotalAmount:    in.TotalAmount,
		Currency:       in.Currency,
		ScheduledDate:  in.ScheduledDate,
		ScheduledStart: in.ScheduledStart,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidateSnapshot(ctx, b.ProviderID)
	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID), zap.String("providerId", b.ProviderID))
	return b, nil
}

// AcceptBooking moves PENDING -> CONFIRMED after the provider accepts.
func (s *DefaultBookingService) AcceptBooking(ctx context.Context, bookingID, providerID string, now time.Time) (*models.Booking, error) {
	actor := models.Recipient{Kind: models.RecipientProvider, ID: providerID}
	return s.transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingPending}, models.BookingConfirmed,
		actor, now,
		func(b *models.Booking) error {
			if b.ProviderID != providerID {
				return &InvalidStateTransitionError{
					BookingID: bookingID,
					Current:   b.Status,
					Expected:  []models.BookingStatus{models.BookingPending},
					Attempted: models.BookingConfirmed,
				}
			}
			return nil
		})
}

// CapturePayment moves CONFIRMED -> IN_PROGRESS once the capture succeeds.
// Payment cannot be captured against an unaccepted booking; a capture failure
// leaves the booking CONFIRMED and is reported as PaymentCaptureError.
func (s *DefaultBookingService) CapturePayment(ctx context.Context, bookingID, method string, details map[string]string, now time.Time) (*models.Booking, error) {
	// Fail fast on the guard before touching the gateway.
	current, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.BookingConfirmed {
		return nil, &InvalidStateTransitionError{
			BookingID: bookingID,
			Current:   current.Status,
			Expected:  []models.BookingStatus{models.BookingConfirmed},
			Attempted: models.BookingInProgress,
		}
	}

	result, err := s.Payments.Capture(ctx, payment.CaptureRequest{
		BookingID: bookingID,
		ClientID:  current.ClientID,
		Amount:    current.TotalAmount.Decimal,
		Currency:  current.Currency,
		Method:    method,
		Details:   details,
	})
	if err != nil {
		return nil, &PaymentCaptureError{BookingID: bookingID, Cause: err}
	}

	actor := models.Recipient{Kind: models.RecipientClient, ID: current.ClientID}
	b, err := s.transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingConfirmed}, models.BookingInProgress,
		actor, now,
		func(b *models.Booking) error {
			b.IsPaid = true
			b.PaymentMethod = method
			b.PaymentRef = result.Reference
			return nil
		})
	if err != nil {
		// The money moved but the row did not. Flag it for reconciliation
		// rather than hiding the capture.
		s.Logger.Error("payment captured but booking transition failed",
			zap.String("bookingId", bookingID),
			zap.String("paymentRef", result.Reference),
			zap.Error(err))
		return nil, err
	}
	return b, nil
}

// MarkServiceCompleted moves IN_PROGRESS to AWAITING_CLIENT_CONFIRMATION
// (when the policy requires client sign-off) or straight to COMPLETED.
// Commission and provider amounts are locked here, at completion, and never
// recomputed afterwards.
func (s *DefaultBookingService) MarkServiceCompleted(ctx context.Context, bookingID string, requiresConfirmation bool, now time.Time) (*models.Booking, error) {
	target := models.BookingCompleted
	if requiresConfirmation {
		target = models.BookingAwaitingClientConfirmation
	}
	actor := models.Recipient{Kind: models.RecipientAdmin, ID: "system"}
	return s.transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingInProgress}, target,
		actor, now,
		func(b *models.Booking) error {
			completedAt := now
			b.CompletedAt = &completedAt

			commission := models.NewAmount(ComputeCommission(b.TotalAmount.Decimal, s.CommissionRate, b.Currency))
			providerAmt := models.NewAmount(ComputeProviderAmount(b.TotalAmount.Decimal, commission.Decimal))
			b.CommissionAmount = &commission
			b.ProviderAmount = &providerAmt

			if requiresConfirmation {
				deadline := completedAt.Add(s.HoldPeriod)
				b.ClientConfirmDeadline = &deadline
			}
			return nil
		})
}

// actorMayCancel restricts cancellation to the booking's own client or
// provider; admins may cancel anything.
func actorMayCancel(actor models.Recipient, b *models.Booking) bool {
	switch actor.Kind {
	case models.RecipientAdmin:
		return true
	case models.RecipientClient:
		return actor.ID == b.ClientID
	case models.RecipientProvider:
		return actor.ID == b.ProviderID
	}
	return false
}

// CancelBooking moves any non-terminal booking to CANCELLED. Paid bookings
// are refunded first; a failed refund aborts the cancellation.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, reason string, actor models.Recipient, now time.Time) (*models.Booking, error) {
	nonTerminal := []models.BookingStatus{
		models.BookingPending,
		models.BookingConfirmed,
		models.BookingInProgress,
		models.BookingAwaitingClientConfirmation,
	}

	current, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actorMayCancel(actor, current) {
		return nil, &UnauthorizedActorError{BookingID: bookingID, Actor: actor}
	}
	if current.Status.Terminal() {
		return nil, &InvalidStateTransitionError{
			BookingID: bookingID,
			Current:   current.Status,
			Expected:  nonTerminal,
			Attempted: models.BookingCancelled,
		}
	}
	paidAtRefundDecision := current.IsPaid
	if paidAtRefundDecision {
		err := s.Payments.Refund(ctx, payment.RefundRequest{
			BookingID: bookingID,
			Method:    current.PaymentMethod,
			Reference: current.PaymentRef,
			Amount:    current.TotalAmount.Decimal,
			Currency:  current.Currency,
		})
		if err != nil {
			return nil, fmt.Errorf("refund failed for booking %s: %w", bookingID, err)
		}
	}

	b, err := s.transition(ctx, bookingID, nonTerminal, models.BookingCancelled,
		actor, now,
		func(b *models.Booking) error {
			if b.IsPaid != paidAtRefundDecision {
				// A capture landed after the refund decision was taken from
				// an earlier read. Abort so the retry re-evaluates the refund
				// against the fresh row.
				return ErrPersistenceConflict
			}
			cancelledAt := now
			b.CancelledAt = &cancelledAt
			b.CancellationReason = reason
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.notify(ctx,
		models.Recipient{Kind: models.RecipientProvider, ID: b.ProviderID},
		models.NotificationBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("Booking %s was cancelled: %s", b.ID, reason),
		map[string]string{"bookingId": b.ID}, now)
	return b, nil
}

// ReleaseEscrow flips the release flag on a booking whose hold window has
// elapsed, making the provider amount available.
func (s *DefaultBookingService) ReleaseEscrow(ctx context.Context, bookingID string, now time.Time) (*models.Booking, error) {
	actor := models.Recipient{Kind: models.RecipientAdmin, ID: "system"}
	b, err := s.transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingCompleted}, models.BookingCompleted,
		actor, now,
		func(b *models.Booking) error {
			if ClassifyEscrow(b, s.HoldPeriod, now) != EscrowAvailableToRelease {
				return fmt.Errorf("booking %s is not eligible for escrow release", bookingID)
			}
			b.EscrowReleased = true
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.notify(ctx,
		models.Recipient{Kind: models.RecipientProvider, ID: b.ProviderID},
		models.NotificationPaymentReleased,
		"Funds released",
		fmt.Sprintf("%s %s from booking %s is now available.", b.Currency, b.ProviderAmount, b.ID),
		map[string]string{"bookingId": b.ID}, now)
	return b, nil
}

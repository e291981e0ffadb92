package booking

import (
	"time"

	"adwuma/models"
)

// EscrowBucket classifies a provider's earned amount on one booking.
type EscrowBucket string

const (
	// EscrowNone: the booking is not paid-and-completed, so it carries no
	// escrowed amount (it may still count toward the pipeline).
	EscrowNone EscrowBucket = "none"
	// EscrowPending: earned, but still inside the mandatory hold window.
	EscrowPending EscrowBucket = "pending"
	// EscrowAvailableToRelease: hold elapsed, release flag not yet flipped.
	EscrowAvailableToRelease EscrowBucket = "available_to_release"
	// EscrowReleased: fully available to the provider.
	EscrowReleased EscrowBucket = "released"
)

// ClassifyEscrow places a booking's provider amount into exactly one bucket
// as of now. The hold window runs from completion, not from confirmation:
// confirmation closes the service obligation, the hold protects the payment.
func ClassifyEscrow(b *models.Booking, holdPeriod time.Duration, now time.Time) EscrowBucket {
	if !b.IsPaid || b.CompletedAt == nil || b.ProviderAmount == nil {
		return EscrowNone
	}
	if b.Status == models.BookingCancelled {
		return EscrowNone
	}
	if b.EscrowReleased {
		return EscrowReleased
	}
	if now.Sub(*b.CompletedAt) >= holdPeriod {
		return EscrowAvailableToRelease
	}
	return EscrowPending
}

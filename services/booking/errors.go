package booking

import (
	"errors"
	"fmt"

	"adwuma/models"
)

// ErrPersistenceConflict is surfaced after a guarded update kept losing the
// write race beyond the retry budget. The operation is safe to retry from
// scratch.
var ErrPersistenceConflict = errors.New("booking was modified concurrently, please retry")

// InvalidStateTransitionError reports a transition attempted against the
// wrong source state. It is always returned to the caller and never retried.
type InvalidStateTransitionError struct {
	BookingID string
	Current   models.BookingStatus
	Expected  []models.BookingStatus
	Attempted models.BookingStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move to %s: current status is %s, expected one of %v",
		e.BookingID, e.Attempted, e.Current, e.Expected)
}

// UnauthorizedActorError reports an operation attempted by an actor that
// does not own the booking.
type UnauthorizedActorError struct {
	BookingID string
	Actor     models.Recipient
}

func (e *UnauthorizedActorError) Error() string {
	return fmt.Sprintf("%s %s is not authorized to act on booking %s",
		e.Actor.Kind, e.Actor.ID, e.BookingID)
}

// NotEligibleForConfirmationError reports a confirm attempt by the wrong
// party or against the wrong state.
type NotEligibleForConfirmationError struct {
	BookingID string
	ClientID  string
	Reason    string
}

func (e *NotEligibleForConfirmationError) Error() string {
	return fmt.Sprintf("booking %s is not eligible for confirmation by client %s: %s",
		e.BookingID, e.ClientID, e.Reason)
}

// PaymentCaptureError reports a failed capture. The booking stays CONFIRMED
// and the caller may retry payment independently.
type PaymentCaptureError struct {
	BookingID string
	Cause     error
}

func (e *PaymentCaptureError) Error() string {
	return fmt.Sprintf("payment capture failed for booking %s: %v", e.BookingID, e.Cause)
}

func (e *PaymentCaptureError) Unwrap() error { return e.Cause }

package models

import "time"

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingPending                    BookingStatus = "PENDING"
	BookingConfirmed                  BookingStatus = "CONFIRMED"
	BookingInProgress                 BookingStatus = "IN_PROGRESS"
	BookingAwaitingClientConfirmation BookingStatus = "AWAITING_CLIENT_CONFIRMATION"
	BookingCompleted                  BookingStatus = "COMPLETED"
	BookingCancelled                  BookingStatus = "CANCELLED"
)

// Valid reports whether the status is one of the supported lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress,
		BookingAwaitingClientConfirmation, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status is absorbing.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking is the central record of a service engagement between a client and
// a provider. Status-changing writes go exclusively through the booking
// service's guarded transitions; rows are never physically deleted,
// cancellation is a terminal status.
type Booking struct {
	ID         string        `bson:"id" json:"id"`
	ClientID   string        `bson:"clientId" json:"clientId"`
	ProviderID string        `bson:"providerId" json:"providerId"`
	ServiceID  string        `bson:"serviceId" json:"serviceId"`
	Status     BookingStatus `bson:"status" json:"status"`

	TotalAmount      Amount  `bson:"totalAmount" json:"totalAmount"`
	Currency         string  `bson:"currency" json:"currency"`
	CommissionAmount *Amount `bson:"commissionAmount,omitempty" json:"commissionAmount,omitempty"`
	ProviderAmount   *Amount `bson:"providerAmount,omitempty" json:"providerAmount,omitempty"`

	IsPaid        bool   `bson:"isPaid" json:"isPaid"`
	PaymentMethod string `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentRef    string `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`

	ScheduledDate  string `bson:"scheduledDate" json:"scheduledDate"`   // "YYYY-MM-DD"
	ScheduledStart int    `bson:"scheduledStart" json:"scheduledStart"` // minutes from midnight

	CompletedAt           *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ClientConfirmedAt     *time.Time `bson:"clientConfirmedAt,omitempty" json:"clientConfirmedAt,omitempty"`
	ClientConfirmDeadline *time.Time `bson:"clientConfirmDeadline,omitempty" json:"clientConfirmDeadline,omitempty"`
	EscrowReleased        bool       `bson:"escrowReleased" json:"escrowReleased"`

	CancelledAt        *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`

	// Version backs the optimistic compare-and-set on guarded updates.
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingInput carries the fields the request/accept flow supplies when
// creating a booking.
type BookingInput struct {
	ClientID       string `json:"clientId"`
	ProviderID     string `json:"providerId"`
	ServiceID      string `json:"serviceId"`
	TotalAmount    Amount `json:"totalAmount"`
	Currency       string `json:"currency"`
	ScheduledDate  string `json:"scheduledDate"`
	ScheduledStart int    `json:"scheduledStart"`
}

// BookingEvent is one row of the append-only audit trail: a committed status
// transition. Rows are immutable once written.
type BookingEvent struct {
	ID        string        `bson:"id" json:"id"`
	BookingID string        `bson:"bookingId" json:"bookingId"`
	From      BookingStatus `bson:"from" json:"from"`
	To        BookingStatus `bson:"to" json:"to"`
	Actor     Recipient     `bson:"actor" json:"actor"`
	At        time.Time     `bson:"at" json:"at"`
}

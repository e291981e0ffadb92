package models

import "time"

// RecipientKind tags the polymorphic recipient union. Clients, providers and
// admins share no common key space, so recipients are always carried as a
// (kind, id) pair and resolved through an explicit lookup, never through a
// nullable foreign key.
type RecipientKind string

const (
	RecipientClient   RecipientKind = "client"
	RecipientProvider RecipientKind = "provider"
	RecipientAdmin    RecipientKind = "admin"
)

// Recipient identifies one party of a notification or transition.
type Recipient struct {
	Kind RecipientKind `bson:"kind" json:"kind"`
	ID   string        `bson:"id" json:"id"`
}

// Notification types emitted by the booking core.
const (
	NotificationPaymentReleased  = "payment_released"
	NotificationServiceConfirmed = "service_confirmed"
	NotificationAutoConfirmed    = "service_auto_confirmed"
	NotificationBookingCancelled = "booking_cancelled"
)

// Notification is a best-effort push message. Dispatch is decoupled from the
// transition that produced it; a failed send never rolls the transition back.
type Notification struct {
	ID        string            `json:"id"`
	Recipient Recipient         `json:"recipient"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

package models

import "time"

// DisputeStatus enumerates dispute lifecycle states. The booking core only
// ever asks whether an open dispute exists for a booking; resolution is an
// external flow that completes or cancels the booking directly.
type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
)

// Dispute is owned by the (external) dispute subsystem and referenced here
// only for the open-dispute predicate that suppresses auto-confirmation.
type Dispute struct {
	ID         string        `bson:"id" json:"id"`
	BookingID  string        `bson:"bookingId" json:"bookingId"`
	RaisedBy   Recipient     `bson:"raisedBy" json:"raisedBy"`
	Reason     string        `bson:"reason" json:"reason"`
	Status     DisputeStatus `bson:"status" json:"status"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	ResolvedAt *time.Time    `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

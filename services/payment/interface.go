package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// CaptureRequest describes one payment capture attempt against a booking.
type CaptureRequest struct {
	BookingID string
	ClientID  string
	Amount    decimal.Decimal
	Currency  string
	Method    string
	Details   map[string]string
}

// CaptureResult carries the processor's reference for a successful capture.
type CaptureResult struct {
	Reference string
}

// RefundRequest reverses a prior capture, identified by its reference.
type RefundRequest struct {
	BookingID string
	Method    string
	Reference string
	Amount    decimal.Decimal
	Currency  string
}

// Processor is the abstract payment capability: a capture either succeeds or
// fails, nothing about the gateway leaks into the booking core.
type Processor interface {
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
	Refund(ctx context.Context, req RefundRequest) error
}

package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfflineProcessor records cash and mobile-money captures that settle outside
// the platform. The field agent confirms receipt before the capture is called,
// so recording the reference is the whole capture.
type OfflineProcessor struct {
	Logger *zap.Logger
}

func (p *OfflineProcessor) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	ref := fmt.Sprintf("offline_%s", uuid.New().String())
	p.Logger.Info("offline payment recorded",
		zap.String("bookingId", req.BookingID),
		zap.String("method", req.Method),
		zap.String("reference", ref))
	return &CaptureResult{Reference: ref}, nil
}

func (p *OfflineProcessor) Refund(ctx context.Context, req RefundRequest) error {
	// Offline refunds are settled hand-to-hand; log the obligation.
	p.Logger.Warn("offline refund recorded, settle manually",
		zap.String("bookingId", req.BookingID),
		zap.String("reference", req.Reference))
	return nil
}

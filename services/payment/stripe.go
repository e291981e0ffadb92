package payment

import (
	"context"
	"fmt"
	"strings"

	"adwuma/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeProcessor captures card payments by creating and confirming a
// PaymentIntent. The caller supplies the client's payment method id in
// Details["paymentMethodId"].
type StripeProcessor struct {
	Logger *zap.Logger
}

func minorAmount(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(models.MinorUnitPlaces(currency)).IntPart()
}

func (p *StripeProcessor) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	methodID := req.Details["paymentMethodId"]
	if methodID == "" {
		return nil, fmt.Errorf("card capture requires a paymentMethodId")
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(minorAmount(req.Amount, req.Currency)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(methodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("capture-" + req.BookingID)
	params.AddMetadata("bookingId", req.BookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe capture: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("stripe capture did not succeed: intent %s is %s", pi.ID, pi.Status)
	}

	p.Logger.Info("card payment captured",
		zap.String("bookingId", req.BookingID), zap.String("paymentIntent", pi.ID))
	return &CaptureResult{Reference: pi.ID}, nil
}

func (p *StripeProcessor) Refund(ctx context.Context, req RefundRequest) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.Reference),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + req.BookingID)

	r, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("stripe refund: %w", err)
	}
	p.Logger.Info("card payment refunded",
		zap.String("bookingId", req.BookingID), zap.String("refund", r.ID))
	return nil
}

package payment

import (
	"context"
	"fmt"
)

// Supported payment methods.
const (
	MethodCard = "card"
	MethodCash = "cash"
	MethodMomo = "momo"
)

// MethodRouter dispatches captures and refunds to the processor registered
// for the request's method.
type MethodRouter struct {
	Card    Processor
	Offline Processor
}

func (r *MethodRouter) processorFor(method string) (Processor, error) {
	switch method {
	case MethodCard:
		return r.Card, nil
	case MethodCash, MethodMomo:
		return r.Offline, nil
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}
}

func (r *MethodRouter) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	p, err := r.processorFor(req.Method)
	if err != nil {
		return nil, err
	}
	return p.Capture(ctx, req)
}

func (r *MethodRouter) Refund(ctx context.Context, req RefundRequest) error {
	p, err := r.processorFor(req.Method)
	if err != nil {
		return err
	}
	return p.Refund(ctx, req)
}

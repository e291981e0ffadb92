package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "adwuma/database/repository/booking"
	"adwuma/models"
	"adwuma/services/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memBookingRepo is an in-memory BookingRepository with the same guarded
// update semantics as the Mongo implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	events   []models.BookingEvent

	// forceReplaceMiss makes ReplaceGuarded report no match n times, to
	// simulate lost write races.
	forceReplaceMiss int

	// afterGet runs after a GetByID returns, outside the repo lock. Tests
	// use it to interleave a concurrent writer between two reads.
	afterGet func()
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func copyBooking(b *models.Booking) *models.Booking {
	clone := *b
	if b.CommissionAmount != nil {
		v := *b.CommissionAmount
		clone.CommissionAmount = &v
	}
	if b.ProviderAmount != nil {
		v := *b.ProviderAmount
		clone.ProviderAmount = &v
	}
	if b.CompletedAt != nil {
		v := *b.CompletedAt
		clone.CompletedAt = &v
	}
	if b.ClientConfirmedAt != nil {
		v := *b.ClientConfirmedAt
		clone.ClientConfirmedAt = &v
	}
	if b.ClientConfirmDeadline != nil {
		v := *b.ClientConfirmDeadline
		clone.ClientConfirmDeadline = &v
	}
	if b.CancelledAt != nil {
		v := *b.CancelledAt
		clone.CancelledAt = &v
	}
	return &clone
}

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	b, ok := r.bookings[id]
	var out *models.Booking
	if ok {
		out = copyBooking(b)
	}
	r.mu.Unlock()
	if out == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if hook := r.afterGet; hook != nil {
		hook()
	}
	return out, nil
}

func (r *memBookingRepo) ReplaceGuarded(ctx context.Context, b *models.Booking, fromStatus []models.BookingStatus, fromVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceReplaceMiss > 0 {
		r.forceReplaceMiss--
		return false, nil
	}
	stored, ok := r.bookings[b.ID]
	if !ok || stored.Version != fromVersion {
		return false, nil
	}
	matched := false
	for _, s := range fromStatus {
		if stored.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	r.bookings[b.ID] = copyBooking(b)
	return true, nil
}

func (r *memBookingRepo) ListDueForAutoConfirm(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingAwaitingClientConfirmation &&
			b.ClientConfirmDeadline != nil && !b.ClientConfirmDeadline.After(now) {
			due = append(due, *copyBooking(b))
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ClientConfirmDeadline.Before(*due[j].ClientConfirmDeadline)
	})
	if int64(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *memBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) AppendEvent(ctx context.Context, ev models.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// mockIdentity resolves every recipient unless explicitly marked missing.
type mockIdentity struct {
	missing map[string]bool
	tokens  map[string]string
}

func (m *mockIdentity) Exists(ctx context.Context, r models.Recipient) (bool, error) {
	return !m.missing[r.ID], nil
}

func (m *mockIdentity) PushToken(ctx context.Context, r models.Recipient) (string, error) {
	return m.tokens[r.ID], nil
}

// mockDisputes answers the open-dispute predicate from a fixed map.
type mockDisputes struct {
	open map[string]bool
	errs map[string]error
}

func (m *mockDisputes) HasOpenDispute(ctx context.Context, bookingID string) (bool, error) {
	if err, ok := m.errs[bookingID]; ok {
		return false, err
	}
	return m.open[bookingID], nil
}

// stubProcessor records captures and refunds and can be told to fail.
type stubProcessor struct {
	mu         sync.Mutex
	captureErr error
	refundErr  error
	captures   []payment.CaptureRequest
	refunds    []payment.RefundRequest
}

func (p *stubProcessor) Capture(ctx context.Context, req payment.CaptureRequest) (*payment.CaptureResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.captureErr != nil {
		return nil, p.captureErr
	}
	p.captures = append(p.captures, req)
	return &payment.CaptureResult{Reference: "pi_test_" + req.BookingID}, nil
}

func (p *stubProcessor) Refund(ctx context.Context, req payment.RefundRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refundErr != nil {
		return p.refundErr
	}
	p.refunds = append(p.refunds, req)
	return nil
}

// recordingDispatcher collects dispatched notifications synchronously.
type recordingDispatcher struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, n models.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = append(d.notes, n)
}

func (d *recordingDispatcher) byType(t string) []models.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Notification
	for _, n := range d.notes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	repo       *memBookingRepo
	disputes   *mockDisputes
	identity   *mockIdentity
	processor  *stubProcessor
	dispatcher *recordingDispatcher
	svc        *DefaultBookingService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:       newMemBookingRepo(),
		disputes:   &mockDisputes{open: map[string]bool{}, errs: map[string]error{}},
		identity:   &mockIdentity{missing: map[string]bool{}, tokens: map[string]string{}},
		processor:  &stubProcessor{},
		dispatcher: &recordingDispatcher{},
	}
	env.svc = &DefaultBookingService{
		Repo:           env.repo,
		Disputes:       env.disputes,
		Identity:       env.identity,
		Payments:       env.processor,
		Notifier:       env.dispatcher,
		CommissionRate: decimal.NewFromFloat(0.05),
		HoldPeriod:     48 * time.Hour,
		Logger:         zap.NewNop(),
	}
	return env
}

func ghs(s string) models.Amount { return models.MustAmount(s) }

func testInput(total string) models.BookingInput {
	return models.BookingInput{
		ClientID:       "client-1",
		ProviderID:     "provider-1",
		ServiceID:      "svc-cleaning",
		TotalAmount:    ghs(total),
		Currency:       "GHS",
		ScheduledDate:  "2026-09-01",
		ScheduledStart: 540,
	}
}

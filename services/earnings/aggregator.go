package earnings

import (
	"context"
	"time"

	bookingRepo "adwuma/database/repository/booking"
	"adwuma/models"
	"adwuma/services/booking"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultEarningsService implements EarningsService by scanning the
// provider's booking rows on demand. The snapshot holds no state of its own:
// it is re-derivable from the bookings at any time. A short-lived cache may
// sit in front; the booking service invalidates it on every mutation.
type DefaultEarningsService struct {
	Repo           bookingRepo.BookingRepository
	Cache          *SnapshotCache
	CommissionRate decimal.Decimal
	HoldPeriod     time.Duration
	Currency       string
	Logger         *zap.Logger
}

func (s *DefaultEarningsService) GetProviderEarningsSnapshot(ctx context.Context, providerID string, now time.Time) (*models.ProviderEarningsSnapshot, error) {
	if s.Cache != nil {
		if snap, ok := s.Cache.Get(ctx, providerID); ok {
			return snap, nil
		}
	}

	bookings, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	snap := s.aggregate(providerID, bookings, now)

	if s.Cache != nil {
		s.Cache.Set(ctx, providerID, snap)
	}
	return snap, nil
}

// aggregate buckets a provider's bookings into the snapshot. An empty booking
// set yields all zeros.
func (s *DefaultEarningsService) aggregate(providerID string, bookings []models.Booking, now time.Time) *models.ProviderEarningsSnapshot {
	var available, toRelease, pending, pipeline decimal.Decimal
	var released []models.Booking

	for i := range bookings {
		b := &bookings[i]

		if b.IsPaid && (b.Status == models.BookingConfirmed || b.Status == models.BookingInProgress) {
			pipeline = pipeline.Add(s.pipelineAmount(b))
			continue
		}

		switch booking.ClassifyEscrow(b, s.HoldPeriod, now) {
		case booking.EscrowReleased:
			available = available.Add(b.ProviderAmount.Decimal)
			released = append(released, *b)
		case booking.EscrowAvailableToRelease:
			toRelease = toRelease.Add(b.ProviderAmount.Decimal)
		case booking.EscrowPending:
			pending = pending.Add(b.ProviderAmount.Decimal)
		}
	}

	snap := &models.ProviderEarningsSnapshot{
		ProviderID:         providerID,
		Currency:           s.Currency,
		AsOf:               now,
		AvailableBalance:   models.NewAmount(available),
		AvailableToRelease: models.NewAmount(toRelease),
		PendingEscrow:      models.NewAmount(pending),
		PipelineValue:      models.NewAmount(pipeline),
		TotalEarningPower:  models.NewAmount(available.Add(pending).Add(pipeline)),
	}

	snap.Today = periodEarnings(released, dayWindow(now))
	snap.Week = periodEarnings(released, weekWindow(now))
	snap.Month = periodEarnings(released, monthWindow(now))
	snap.Year = periodEarnings(released, yearWindow(now))
	return snap
}

// pipelineAmount values a paid-but-unearned booking. Amounts are locked at
// completion, so an in-flight booking usually has no provider amount yet and
// is valued through the same commission rule instead.
func (s *DefaultEarningsService) pipelineAmount(b *models.Booking) decimal.Decimal {
	if b.ProviderAmount != nil {
		return b.ProviderAmount.Decimal
	}
	commission := booking.ComputeCommission(b.TotalAmount.Decimal, s.CommissionRate, b.Currency)
	return booking.ComputeProviderAmount(b.TotalAmount.Decimal, commission)
}

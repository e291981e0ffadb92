package earnings

import (
	"context"
	"time"

	"adwuma/models"
)

// EarningsService produces point-in-time earnings snapshots for providers.
type EarningsService interface {
	GetProviderEarningsSnapshot(ctx context.Context, providerID string, now time.Time) (*models.ProviderEarningsSnapshot, error)
}

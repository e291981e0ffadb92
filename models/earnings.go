package models

import "time"

// PeriodEarnings is the released-earnings total for one calendar window,
// compared against the immediately preceding window of equal length.
type PeriodEarnings struct {
	Earned         Amount  `json:"earned"`
	PreviousEarned Amount  `json:"previousEarned"`
	GrowthPercent  float64 `json:"growthPercent"`
}

// ProviderEarningsSnapshot is a point-in-time view derived from a provider's
// bookings. It holds no independent state: the booking rows are the source of
// truth and the snapshot is recomputed on demand.
type ProviderEarningsSnapshot struct {
	ProviderID string    `json:"providerId"`
	Currency   string    `json:"currency"`
	AsOf       time.Time `json:"asOf"`

	AvailableBalance   Amount `json:"availableBalance"`
	AvailableToRelease Amount `json:"availableToRelease"`
	PendingEscrow      Amount `json:"pendingEscrow"`
	PipelineValue      Amount `json:"pipelineValue"`
	TotalEarningPower  Amount `json:"totalEarningPower"`

	Today PeriodEarnings `json:"today"`
	Week  PeriodEarnings `json:"week"`
	Month PeriodEarnings `json:"month"`
	Year  PeriodEarnings `json:"year"`
}

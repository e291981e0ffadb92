package booking

import (
	"adwuma/models"

	"github.com/shopspring/decimal"
)

// ComputeCommission returns the platform's cut of a booking total, rounded
// half-up to the currency's minor unit. It is a pure function: identical
// inputs always yield identical outputs.
func ComputeCommission(total, rate decimal.Decimal, currency string) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts handled here.
	return total.Mul(rate).Round(models.MinorUnitPlaces(currency))
}

// ComputeProviderAmount returns what the provider earns after commission.
func ComputeProviderAmount(total, commission decimal.Decimal) decimal.Decimal {
	return total.Sub(commission)
}

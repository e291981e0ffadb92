package earnings

import (
	"time"

	"adwuma/models"

	"github.com/shopspring/decimal"
)

// window is a half-open interval [start, end) paired with the immediately
// preceding window of equal calendar length.
type window struct {
	start, end         time.Time
	prevStart, prevEnd time.Time
}

func dayWindow(now time.Time) window {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return window{
		start: start, end: start.AddDate(0, 0, 1),
		prevStart: start.AddDate(0, 0, -1), prevEnd: start,
	}
}

func weekWindow(now time.Time) window {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Weeks start on Monday.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return window{
		start: start, end: start.AddDate(0, 0, 7),
		prevStart: start.AddDate(0, 0, -7), prevEnd: start,
	}
}

func monthWindow(now time.Time) window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return window{
		start: start, end: start.AddDate(0, 1, 0),
		prevStart: start.AddDate(0, -1, 0), prevEnd: start,
	}
}

func yearWindow(now time.Time) window {
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	return window{
		start: start, end: start.AddDate(1, 0, 0),
		prevStart: start.AddDate(-1, 0, 0), prevEnd: start,
	}
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

func (w window) containsPrev(t time.Time) bool {
	return !t.Before(w.prevStart) && t.Before(w.prevEnd)
}

// periodEarnings sums released bookings completed inside the window and the
// preceding window, and derives the growth percentage between them.
func periodEarnings(released []models.Booking, w window) models.PeriodEarnings {
	var current, previous decimal.Decimal
	for i := range released {
		b := &released[i]
		if b.CompletedAt == nil {
			continue
		}
		switch {
		case w.contains(*b.CompletedAt):
			current = current.Add(b.ProviderAmount.Decimal)
		case w.containsPrev(*b.CompletedAt):
			previous = previous.Add(b.ProviderAmount.Decimal)
		}
	}
	return models.PeriodEarnings{
		Earned:         models.NewAmount(current),
		PreviousEarned: models.NewAmount(previous),
		GrowthPercent:  growthPercent(current, previous),
	}
}

// growthPercent never divides by zero: an empty prior window reads as 0%
// growth when the current window is also empty and 100% when it is not.
func growthPercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	growth, _ := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return growth
}

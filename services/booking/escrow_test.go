package booking

import (
	"testing"
	"time"

	"adwuma/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEscrowBuckets(t *testing.T) {
	hold := 48 * time.Hour
	completedAt := baseTime
	provider := ghs("95.00")

	paidCompleted := func() *models.Booking {
		at := completedAt
		return &models.Booking{
			Status:         models.BookingCompleted,
			IsPaid:         true,
			CompletedAt:    &at,
			ProviderAmount: &provider,
		}
	}

	tests := []struct {
		name    string
		booking func() *models.Booking
		now     time.Time
		want    EscrowBucket
	}{
		{
			name:    "unpaid booking carries no escrow",
			booking: func() *models.Booking { b := paidCompleted(); b.IsPaid = false; return b },
			now:     completedAt.Add(100 * time.Hour),
			want:    EscrowNone,
		},
		{
			name:    "not yet completed carries no escrow",
			booking: func() *models.Booking { b := paidCompleted(); b.CompletedAt = nil; b.ProviderAmount = nil; return b },
			now:     completedAt.Add(100 * time.Hour),
			want:    EscrowNone,
		},
		{
			name:    "cancelled booking carries no escrow",
			booking: func() *models.Booking { b := paidCompleted(); b.Status = models.BookingCancelled; return b },
			now:     completedAt.Add(100 * time.Hour),
			want:    EscrowNone,
		},
		{
			name:    "inside hold window is pending",
			booking: paidCompleted,
			now:     completedAt.Add(47 * time.Hour),
			want:    EscrowPending,
		},
		{
			name:    "exactly at hold boundary becomes releasable",
			booking: paidCompleted,
			now:     completedAt.Add(hold),
			want:    EscrowAvailableToRelease,
		},
		{
			name:    "past hold window is releasable",
			booking: paidCompleted,
			now:     completedAt.Add(100 * time.Hour),
			want:    EscrowAvailableToRelease,
		},
		{
			name:    "release flag wins regardless of elapsed time",
			booking: func() *models.Booking { b := paidCompleted(); b.EscrowReleased = true; return b },
			now:     completedAt.Add(time.Hour),
			want:    EscrowReleased,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEscrow(tt.booking(), hold, tt.now))
		})
	}
}

// Every paid booking must land in exactly one bucket at any instant; the
// buckets partition time around completion and the release flag.
func TestEscrowBucketsPartitionTime(t *testing.T) {
	hold := 48 * time.Hour
	at := baseTime
	provider := ghs("95.00")
	b := &models.Booking{
		Status:         models.BookingCompleted,
		IsPaid:         true,
		CompletedAt:    &at,
		ProviderAmount: &provider,
	}

	offsets := []time.Duration{0, time.Minute, 24 * time.Hour, 47*time.Hour + 59*time.Minute, 48 * time.Hour, 72 * time.Hour}
	for _, off := range offsets {
		got := ClassifyEscrow(b, hold, at.Add(off))
		if off < hold {
			assert.Equal(t, EscrowPending, got, "offset %s", off)
		} else {
			assert.Equal(t, EscrowAvailableToRelease, got, "offset %s", off)
		}
	}
}

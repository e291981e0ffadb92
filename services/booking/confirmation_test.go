package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"adwuma/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmByClientCompletesBooking(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)

	confirmedAt := b.CompletedAt.Add(6 * time.Hour)
	b, err := env.svc.ConfirmByClient(context.Background(), b.ID, "client-1", confirmedAt)
	require.NoError(t, err)

	assert.Equal(t, models.BookingCompleted, b.Status)
	require.NotNil(t, b.ClientConfirmedAt)
	assert.Equal(t, confirmedAt, *b.ClientConfirmedAt)

	require.Len(t, env.dispatcher.byType(models.NotificationPaymentReleased), 1)
	confirmedNotes := env.dispatcher.byType(models.NotificationServiceConfirmed)
	require.Len(t, confirmedNotes, 1)
	assert.Equal(t, models.RecipientClient, confirmedNotes[0].Recipient.Kind)
	assert.Equal(t, "client-1", confirmedNotes[0].Recipient.ID)
}

func TestConfirmByClientRejectsWrongClient(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)

	_, err := env.svc.ConfirmByClient(context.Background(), b.ID, "client-other", baseTime)

	var notEligible *NotEligibleForConfirmationError
	require.ErrorAs(t, err, &notEligible)
	assert.Equal(t, "client-other", notEligible.ClientID)

	stored, err := env.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingAwaitingClientConfirmation, stored.Status)
}

func TestConfirmByClientRejectsWrongState(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingInProgress)

	_, err := env.svc.ConfirmByClient(context.Background(), b.ID, "client-1", baseTime)

	var notEligible *NotEligibleForConfirmationError
	assert.ErrorAs(t, err, &notEligible)
}

func TestSweepLeavesBookingsInsideWindowAlone(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)
	completedAt := *b.CompletedAt

	summary, err := env.svc.RunAutoConfirmSweep(context.Background(), completedAt.Add(47*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.CheckedCount)
	assert.Equal(t, 0, summary.ConfirmedCount)

	stored, err := env.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingAwaitingClientConfirmation, stored.Status)
	assert.Nil(t, stored.ClientConfirmedAt)
	assert.Empty(t, env.dispatcher.notes)
}

func TestSweepConfirmsOverdueBooking(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)
	sweepAt := b.CompletedAt.Add(49 * time.Hour)

	summary, err := env.svc.RunAutoConfirmSweep(context.Background(), sweepAt)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CheckedCount)
	assert.Equal(t, 1, summary.ConfirmedCount)

	stored, err := env.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, stored.Status)
	require.NotNil(t, stored.ClientConfirmedAt)
	assert.Equal(t, sweepAt, *stored.ClientConfirmedAt)

	require.Len(t, env.dispatcher.byType(models.NotificationPaymentReleased), 1)
	autoNotes := env.dispatcher.byType(models.NotificationAutoConfirmed)
	require.Len(t, autoNotes, 1)
	assert.Equal(t, "client-1", autoNotes[0].Recipient.ID)
}

func TestSweepSkipsDisputedBooking(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)
	env.disputes.open[b.ID] = true

	summary, err := env.svc.RunAutoConfirmSweep(context.Background(), b.CompletedAt.Add(49*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CheckedCount)
	assert.Equal(t, 0, summary.ConfirmedCount)

	stored, err := env.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingAwaitingClientConfirmation, stored.Status)
	assert.Empty(t, env.dispatcher.notes)
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)
	sweepAt := b.CompletedAt.Add(49 * time.Hour)

	first, err := env.svc.RunAutoConfirmSweep(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ConfirmedCount)

	second, err := env.svc.RunAutoConfirmSweep(context.Background(), sweepAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, second.CheckedCount)
	assert.Equal(t, 0, second.ConfirmedCount)

	// Exactly one pair of notices, from the first run.
	assert.Len(t, env.dispatcher.byType(models.NotificationPaymentReleased), 1)
	assert.Len(t, env.dispatcher.byType(models.NotificationAutoConfirmed), 1)
}

func TestSweepContinuesPastFailingBooking(t *testing.T) {
	env := newTestEnv()
	bad := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)

	// Second overdue booking for a different client/provider pair.
	in := testInput("50")
	in.ClientID = "client-2"
	good, err := env.svc.CreateBooking(context.Background(), in, baseTime)
	require.NoError(t, err)
	good, err = env.svc.AcceptBooking(context.Background(), good.ID, "provider-1", baseTime)
	require.NoError(t, err)
	good, err = env.svc.CapturePayment(context.Background(), good.ID, "cash", nil, baseTime)
	require.NoError(t, err)
	good, err = env.svc.MarkServiceCompleted(context.Background(), good.ID, true, baseTime.Add(2*time.Hour))
	require.NoError(t, err)

	env.disputes.errs[bad.ID] = errors.New("dispute store unavailable")

	summary, err := env.svc.RunAutoConfirmSweep(context.Background(), baseTime.Add(60*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.CheckedCount)
	assert.Equal(t, 1, summary.ConfirmedCount)

	stored, err := env.repo.GetByID(context.Background(), good.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, stored.Status)

	untouched, err := env.repo.GetByID(context.Background(), bad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingAwaitingClientConfirmation, untouched.Status)
}

func TestConcurrentClientAndSweepConfirmOnce(t *testing.T) {
	env := newTestEnv()
	b := seedBooking(t, env, "100", models.BookingAwaitingClientConfirmation)
	sweepAt := b.CompletedAt.Add(49 * time.Hour)

	// Client confirms after the deadline but before the sweep runs.
	_, err := env.svc.ConfirmByClient(context.Background(), b.ID, "client-1", sweepAt)
	require.NoError(t, err)

	summary, err := env.svc.RunAutoConfirmSweep(context.Background(), sweepAt.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ConfirmedCount)

	// One release notice total, not one per path.
	assert.Len(t, env.dispatcher.byType(models.NotificationPaymentReleased), 1)
}

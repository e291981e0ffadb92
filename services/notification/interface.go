package notification

import (
	"context"

	"adwuma/models"
)

// Sender delivers one notification to its recipient. Delivery is best-effort
// from the booking core's perspective: a send failure is logged by the
// dispatcher and retried independently, never surfaced to the transition
// that produced it.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

package booking

import (
	"fmt"
	"time"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
)

// DefaultCancellationWindow is the minimum lead time before start for a cancellation.
const DefaultCancellationWindow = 24 * time.Hour

// CancellationPolicy rejects cancellations too close to the start of a booking.
type CancellationPolicy struct {
	Window time.Duration
}

// DefaultCancellationPolicy returns the 24-hour policy.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{Window: DefaultCancellationWindow}
}

// Check fails when startDate is less than Window away from now.
func (p CancellationPolicy) Check(startDate, now time.Time) error {
	if startDate.Sub(now) < p.Window {
		return apperror.NewValidation(apperror.ReasonCancellationWindowExpired,
			fmt.Sprintf("bookings can only be cancelled at least %s before the start date", formatWindow(p.Window)),
			"startDate")
	}
	return nil
}

func formatWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int64(d/time.Hour))
	}
	return d.String()
}

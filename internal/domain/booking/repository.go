package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// BookingRepository defines the persistence contract for booking aggregates.
// The embedded Collection serves every paginated list of bookings.
type BookingRepository interface {
	query.Collection[*Booking]

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}

package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// Hotel is the read model of a bookable hotel.
type Hotel struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Address       string    `json:"address"`
	StarRating    int       `json:"starRating"`
	PricePerNight float64   `json:"pricePerNight"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DateRange is a half-open interval [Start, End).
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Overlaps reports whether r and [start, end) share any instant.
func (r DateRange) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && r.End.After(start)
}

// Vehicle is the read model of a rentable vehicle.
type Vehicle struct {
	ID            uuid.UUID   `json:"id"`
	Make          string      `json:"make"`
	Model         string      `json:"model"`
	Type          string      `json:"type"`
	Year          int         `json:"year"`
	Seats         int         `json:"seats"`
	PricePerDay   float64     `json:"pricePerDay"`
	City          string      `json:"city"`
	IsAvailable   bool        `json:"isAvailable"`
	BlockedRanges []DateRange `json:"blockedRanges"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// AvailableFor reports whether the vehicle is flagged available and none of its
// blocked ranges overlaps [start, end). Existing bookings are checked by the directory.
func (v *Vehicle) AvailableFor(start, end time.Time) bool {
	if !v.IsAvailable {
		return false
	}
	for _, r := range v.BlockedRanges {
		if r.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// TravelPackage is the read model of a bundled tour package.
type TravelPackage struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Destination  string    `json:"destination"`
	DurationDays int       `json:"durationDays"`
	Price        float64   `json:"price"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HotelDirectory answers existence checks for hotels and lists them.
type HotelDirectory interface {
	query.Collection[*Hotel]
	FindByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// VehicleDirectory answers existence and availability checks for vehicles.
type VehicleDirectory interface {
	query.Collection[*Vehicle]
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	IsAvailableForDates(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error)
}

// PackageDirectory answers existence checks for travel packages and lists them.
type PackageDirectory interface {
	query.Collection[*TravelPackage]
	FindByID(ctx context.Context, id uuid.UUID) (*TravelPackage, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/catalog"
)

// HotelModel is the GORM model for the hotels table.
type HotelModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null;size:200"`
	Description   string    `gorm:"type:text"`
	City          string    `gorm:"size:100;index"`
	Country       string    `gorm:"size:100"`
	Address       string    `gorm:"size:300"`
	StarRating    int       `gorm:"not null;default:0"`
	PricePerNight float64   `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive      bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (HotelModel) TableName() string { return "hotels" }

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Make          string          `gorm:"not null;size:100"`
	Model         string          `gorm:"not null;size:100"`
	Type          string          `gorm:"size:50;index"`
	Year          int             `gorm:""`
	Seats         int             `gorm:"not null;default:4"`
	PricePerDay   float64         `gorm:"type:numeric(12,2);not null;default:0"`
	City          string          `gorm:"size:100;index"`
	IsAvailable   bool            `gorm:"not null;default:true"`
	BlockedRanges json.RawMessage `gorm:"type:jsonb"`
	CreatedAt     time.Time       `gorm:"not null;index"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (VehicleModel) TableName() string { return "vehicles" }

// PackageModel is the GORM model for the travel_packages table.
type PackageModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null;size:200"`
	Description  string    `gorm:"type:text"`
	Destination  string    `gorm:"size:200;index"`
	DurationDays int       `gorm:"not null;default:1"`
	Price        float64   `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (PackageModel) TableName() string { return "travel_packages" }

var hotelColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"description":   "description",
	"city":          "city",
	"country":       "country",
	"starRating":    "star_rating",
	"pricePerNight": "price_per_night",
	"isActive":      "is_active",
	"createdAt":     "created_at",
}

var vehicleColumns = map[string]string{
	"id":          "id",
	"make":        "make",
	"model":       "model",
	"type":        "type",
	"year":        "year",
	"seats":       "seats",
	"pricePerDay": "price_per_day",
	"city":        "city",
	"isAvailable": "is_available",
	"createdAt":   "created_at",
}

var packageColumns = map[string]string{
	"id":           "id",
	"name":         "name",
	"description":  "description",
	"destination":  "destination",
	"durationDays": "duration_days",
	"price":        "price",
	"isActive":     "is_active",
	"createdAt":    "created_at",
}

// GormHotelRepository lists hotels and answers existence checks.
type GormHotelRepository struct {
	*gormCollection[HotelModel, *catalog.Hotel]
}

// NewGormHotelRepository creates a new GormHotelRepository.
func NewGormHotelRepository(db *gorm.DB) *GormHotelRepository {
	return &GormHotelRepository{newGormCollection(db, "Hotel", hotelColumns, toDomainHotel)}
}

func (r *GormHotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Hotel, error) {
	return r.first(ctx, id.String())
}

func (r *GormHotelRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, id.String())
}

// GormPackageRepository lists travel packages and answers existence checks.
type GormPackageRepository struct {
	*gormCollection[PackageModel, *catalog.TravelPackage]
}

// NewGormPackageRepository creates a new GormPackageRepository.
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{newGormCollection(db, "Package", packageColumns, toDomainPackage)}
}

func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	return r.first(ctx, id.String())
}

func (r *GormPackageRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, id.String())
}

// bookingOverlapChecker is the part of the booking repository the vehicle
// directory needs.
type bookingOverlapChecker interface {
	HasVehicleOverlap(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error)
}

// GormVehicleRepository lists vehicles and answers availability checks.
type GormVehicleRepository struct {
	*gormCollection[VehicleModel, *catalog.Vehicle]
	bookings bookingOverlapChecker
	logger   *zap.Logger
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB, bookings bookingOverlapChecker, logger *zap.Logger) *GormVehicleRepository {
	return &GormVehicleRepository{
		gormCollection: newGormCollection(db, "Vehicle", vehicleColumns, toDomainVehicle),
		bookings:       bookings,
		logger:         logger,
	}
}

func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	return r.first(ctx, id.String())
}

func (r *GormVehicleRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, id.String())
}

// IsAvailableForDates reports whether the vehicle is flagged available, is not
// blocked, and has no non-cancelled booking overlapping [start, end).
func (r *GormVehicleRepository) IsAvailableForDates(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !v.AvailableFor(start, end) {
		r.logger.Debug("vehicle blocked for dates",
			zap.String("vehicle_id", id.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return false, nil
	}
	overlap, err := r.bookings.HasVehicleOverlap(ctx, id, start, end)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// --- Conversion Helpers ---

func toDomainHotel(m *HotelModel) (*catalog.Hotel, error) {
	return &catalog.Hotel{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		City:          m.City,
		Country:       m.Country,
		Address:       m.Address,
		StarRating:    m.StarRating,
		PricePerNight: m.PricePerNight,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func toDomainVehicle(m *VehicleModel) (*catalog.Vehicle, error) {
	var blocked []catalog.DateRange
	if len(m.BlockedRanges) > 0 {
		if err := json.Unmarshal(m.BlockedRanges, &blocked); err != nil {
			return nil, fmt.Errorf("failed to unmarshal blocked ranges: %w", err)
		}
	}
	return &catalog.Vehicle{
		ID:            m.ID,
		Make:          m.Make,
		Model:         m.Model,
		Type:          m.Type,
		Year:          m.Year,
		Seats:         m.Seats,
		PricePerDay:   m.PricePerDay,
		City:          m.City,
		IsAvailable:   m.IsAvailable,
		BlockedRanges: blocked,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func toDomainPackage(m *PackageModel) (*catalog.TravelPackage, error) {
	return &catalog.TravelPackage{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Destination:  m.Destination,
		DurationDays: m.DurationDays,
		Price:        m.Price,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/booking"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber  string          `gorm:"uniqueIndex;not null;size:20"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	HotelID        *uuid.UUID      `gorm:"type:uuid;index"`
	VehicleID      *uuid.UUID      `gorm:"type:uuid;index"`
	PackageID      *uuid.UUID      `gorm:"type:uuid;index"`
	StartDate      time.Time       `gorm:"not null;index"`
	EndDate        time.Time       `gorm:"not null"`
	Status         string          `gorm:"not null;size:20;index"`
	PaymentStatus  string          `gorm:"not null;size:20;index"`
	TotalPrice     float64         `gorm:"type:numeric(12,2);not null;default:0"`
	Currency       string          `gorm:"not null;size:3;default:'USD'"`
	BookingDetails json.RawMessage `gorm:"type:jsonb"`
	BookingDate    time.Time       `gorm:"not null"`
	CancelledAt    *time.Time      `gorm:""`
	CancelReason   string          `gorm:"size:500"`
	Version        int64           `gorm:"not null;default:1"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

var bookingColumns = map[string]string{
	bookingDomain.FieldID:            "id",
	bookingDomain.FieldBookingNumber: "booking_number",
	bookingDomain.FieldUserID:        "user_id",
	bookingDomain.FieldHotelID:       "hotel_id",
	bookingDomain.FieldVehicleID:     "vehicle_id",
	bookingDomain.FieldPackageID:     "package_id",
	bookingDomain.FieldStatus:        "status",
	bookingDomain.FieldPaymentStatus: "payment_status",
	bookingDomain.FieldStartDate:     "start_date",
	bookingDomain.FieldEndDate:       "end_date",
	bookingDomain.FieldTotalPrice:    "total_price",
	bookingDomain.FieldBookingDate:   "booking_date",
	bookingDomain.FieldCreatedAt:     "created_at",
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	*gormCollection[BookingModel, *bookingDomain.Booking]
	db *gorm.DB
}

var _ bookingDomain.BookingRepository = (*GormBookingRepository)(nil)
var _ query.Collection[*bookingDomain.Booking] = (*GormBookingRepository)(nil)

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{
		gormCollection: newGormCollection(db, "Booking", bookingColumns, toDomainBooking),
		db:             db,
	}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	return r.first(ctx, id.String())
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return mapError(err, "save booking", "Booking", bk.ID().String())
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// The caller increments the version first; the row must still hold the previous one.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"start_date":      model.StartDate,
			"end_date":        model.EndDate,
			"status":          model.Status,
			"payment_status":  model.PaymentStatus,
			"total_price":     model.TotalPrice,
			"currency":        model.Currency,
			"booking_details": model.BookingDetails,
			"cancelled_at":    model.CancelledAt,
			"cancel_reason":   model.CancelReason,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		return mapError(result.Error, "update booking", "Booking", bk.ID().String())
	}

	if result.RowsAffected == 0 {
		return apperror.NewConflict(apperror.ReasonVersionConflict, "booking was modified by another request")
	}

	return nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, mapError(err, "count bookings by status", "Booking", "")
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// HasVehicleOverlap reports whether a non-cancelled booking of vehicleID
// intersects [start, end).
func (r *GormBookingRepository) HasVehicleOverlap(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("vehicle_id = ?", vehicleID).
		Where("status <> ?", string(bookingDomain.StatusCancelled)).
		Where("start_date < ? AND end_date > ?", end, start).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, mapError(err, "check vehicle bookings", "Vehicle", vehicleID.String())
	}
	return n > 0, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	service := bk.Service()
	return &BookingModel{
		ID:             bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		UserID:         bk.UserID(),
		HotelID:        service.HotelID,
		VehicleID:      service.VehicleID,
		PackageID:      service.PackageID,
		StartDate:      bk.StartDate(),
		EndDate:        bk.EndDate(),
		Status:         string(bk.Status()),
		PaymentStatus:  string(bk.PaymentStatus()),
		TotalPrice:     bk.TotalPrice(),
		Currency:       bk.Currency(),
		BookingDetails: bk.Details(),
		BookingDate:    bk.BookingDate(),
		CancelledAt:    bk.CancelledAt(),
		CancelReason:   bk.CancelReason(),
		Version:        bk.Version(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.UserID,
		bookingDomain.ServiceRef{HotelID: m.HotelID, VehicleID: m.VehicleID, PackageID: m.PackageID},
		m.StartDate.UTC(),
		m.EndDate.UTC(),
		status,
		paymentStatus,
		m.TotalPrice,
		m.Currency,
		m.BookingDetails,
		m.BookingDate.UTC(),
		m.CancelledAt,
		m.CancelReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

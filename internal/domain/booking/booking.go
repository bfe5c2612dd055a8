package booking

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultCurrency is used when a booking request carries none.
const DefaultCurrency = "USD"

// ServiceRef names the service being booked. At least one reference is required.
type ServiceRef struct {
	HotelID   *uuid.UUID
	VehicleID *uuid.UUID
	PackageID *uuid.UUID
}

// IsEmpty reports whether no service is referenced.
func (r ServiceRef) IsEmpty() bool {
	return r.HotelID == nil && r.VehicleID == nil && r.PackageID == nil
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	userID        uuid.UUID
	service       ServiceRef
	startDate     time.Time
	endDate       time.Time
	status        BookingStatus
	paymentStatus PaymentStatus

	totalPrice float64
	currency   string
	details    json.RawMessage

	bookingDate  time.Time
	cancelledAt  *time.Time
	cancelReason string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// ValidateDateRange enforces startDate < endDate.
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperror.NewValidation(apperror.ReasonInvalidDateRange,
			"start date and end date are required", "startDate", "endDate")
	}
	if !start.Before(end) {
		return apperror.NewValidation(apperror.ReasonInvalidDateRange,
			"start date must be before end date", "startDate", "endDate")
	}
	return nil
}

// NewBooking creates a new Booking aggregate with status=Pending and paymentStatus=Unpaid.
// Checks run in order and the first failure wins.
func NewBooking(
	userID uuid.UUID,
	service ServiceRef,
	startDate time.Time,
	endDate time.Time,
	totalPrice float64,
	currency string,
	details json.RawMessage,
	now time.Time,
) (*Booking, error) {
	if service.IsEmpty() {
		return nil, apperror.NewValidation(apperror.ReasonMissingService,
			"one of hotelId, vehicleId or packageId is required", "hotelId", "vehicleId", "packageId")
	}
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return nil, apperror.NewValidation(apperror.ReasonInvalidInput, "user ID is required", "userId")
	}
	if totalPrice < 0 {
		return nil, apperror.NewValidation(apperror.ReasonInvalidInput, "total price cannot be negative", "totalPrice")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	now = now.UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		userID:        userID,
		service:       service,
		startDate:     startDate.UTC(),
		endDate:       endDate.UTC(),
		status:        StatusPending,
		paymentStatus: PaymentUnpaid,
		totalPrice:    totalPrice,
		currency:      currency,
		details:       details,
		bookingDate:   now,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	userID uuid.UUID,
	service ServiceRef,
	startDate time.Time,
	endDate time.Time,
	status BookingStatus,
	paymentStatus PaymentStatus,
	totalPrice float64,
	currency string,
	details json.RawMessage,
	bookingDate time.Time,
	cancelledAt *time.Time,
	cancelReason string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		userID:        userID,
		service:       service,
		startDate:     startDate,
		endDate:       endDate,
		status:        status,
		paymentStatus: paymentStatus,
		totalPrice:    totalPrice,
		currency:      currency,
		details:       details,
		bookingDate:   bookingDate,
		cancelledAt:   cancelledAt,
		cancelReason:  cancelReason,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// UserID returns the owning user's ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// Service returns the booked service references.
func (b *Booking) Service() ServiceRef { return b.service }

// StartDate returns the first day of the booking.
func (b *Booking) StartDate() time.Time { return b.startDate }

// EndDate returns the exclusive end of the booking.
func (b *Booking) EndDate() time.Time { return b.endDate }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// PaymentStatus returns the payment status recorded by the payment collaborator.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// TotalPrice returns the quoted total price.
func (b *Booking) TotalPrice() float64 { return b.totalPrice }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Details returns the opaque per-service payload.
func (b *Booking) Details() json.RawMessage { return b.details }

// BookingDate returns when the booking was placed.
func (b *Booking) BookingDate() time.Time { return b.bookingDate }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelReason returns the cancellation reason.
func (b *Booking) CancelReason() string { return b.cancelReason }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsOwnedBy reports whether userID owns the booking.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ensureNotCancelled() error {
	if b.status == StatusCancelled {
		return apperror.NewValidation(apperror.ReasonAlreadyCancelled, "booking is already cancelled", "status")
	}
	return nil
}

// Reschedule replaces either date. The merged range is re-validated whenever a date is touched.
func (b *Booking) Reschedule(startDate, endDate *time.Time, now time.Time) error {
	if startDate == nil && endDate == nil {
		return nil
	}
	if err := b.ensureNotCancelled(); err != nil {
		return err
	}
	start, end := b.startDate, b.endDate
	if startDate != nil {
		start = startDate.UTC()
	}
	if endDate != nil {
		end = endDate.UTC()
	}
	if err := ValidateDateRange(start, end); err != nil {
		return err
	}
	b.startDate = start
	b.endDate = end
	b.updatedAt = now.UTC()
	return nil
}

// Reprice updates the quoted price and per-service payload. Nil arguments are left unchanged.
func (b *Booking) Reprice(totalPrice *float64, details json.RawMessage, now time.Time) error {
	if totalPrice == nil && details == nil {
		return nil
	}
	if err := b.ensureNotCancelled(); err != nil {
		return err
	}
	if totalPrice != nil {
		if *totalPrice < 0 {
			return apperror.NewValidation(apperror.ReasonInvalidInput, "total price cannot be negative", "totalPrice")
		}
		b.totalPrice = *totalPrice
	}
	if details != nil {
		b.details = details
	}
	b.updatedAt = now.UTC()
	return nil
}

// TransitionTo moves the booking to target. Moving to the current status is a no-op;
// moving to Cancelled goes through the cancellation policy.
func (b *Booking) TransitionTo(target BookingStatus, policy CancellationPolicy, now time.Time) error {
	if !target.IsValid() {
		return apperror.NewValidation(apperror.ReasonInvalidTransition,
			fmt.Sprintf("invalid booking status: %s", target), "status")
	}
	if target == StatusCancelled {
		return b.Cancel("", policy, now)
	}
	if err := b.ensureNotCancelled(); err != nil {
		return err
	}
	if target == b.status {
		return nil
	}
	if !b.status.CanTransitionTo(target) {
		return apperror.NewValidation(apperror.ReasonInvalidTransition,
			fmt.Sprintf("cannot transition booking from %s to %s", b.status, target), "status")
	}
	b.status = target
	b.updatedAt = now.UTC()
	return nil
}

// Cancel moves the booking to Cancelled. The payment status is left untouched.
func (b *Booking) Cancel(reason string, policy CancellationPolicy, now time.Time) error {
	if err := b.ensureNotCancelled(); err != nil {
		return err
	}
	if err := policy.Check(b.startDate, now); err != nil {
		return err
	}
	if !b.status.CanBeCancelled() {
		return apperror.NewValidation(apperror.ReasonInvalidTransition,
			fmt.Sprintf("cannot cancel booking in status %s", b.status), "status")
	}
	now = now.UTC()
	b.status = StatusCancelled
	b.cancelReason = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// ApplyPaymentStatus records the payment collaborator's verdict. Paid confirms a
// Pending booking. A Cancelled booking only accepts Refunded. The returned flag
// reports whether anything changed.
func (b *Booking) ApplyPaymentStatus(status PaymentStatus, now time.Time) (bool, error) {
	if !status.IsValid() {
		return false, apperror.NewValidation(apperror.ReasonInvalidInput,
			fmt.Sprintf("invalid payment status: %s", status), "paymentStatus")
	}
	if b.status == StatusCancelled && status != PaymentRefunded {
		return false, nil
	}

	changed := false
	if b.paymentStatus != status {
		b.paymentStatus = status
		changed = true
	}
	if status == PaymentPaid && b.status == StatusPending {
		b.status = StatusConfirmed
		changed = true
	}
	if changed {
		b.updatedAt = now.UTC()
	}
	return changed, nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

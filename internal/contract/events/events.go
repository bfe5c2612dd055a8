package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Booking event types, published on TopicBookingEvents.
const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	BookingConfirmed = "booking.confirmed"
)

// Payment event types, consumed from TopicPaymentEvents.
const (
	PaymentSucceeded     = "payment.succeeded"
	PaymentPartiallyPaid = "payment.partially_paid"
	PaymentRefunded      = "payment.refunded"
)

// BookingEvent is the payload of every booking.* event.
type BookingEvent struct {
	BookingID     uuid.UUID  `json:"bookingId"`
	BookingNumber string     `json:"bookingNumber"`
	UserID        uuid.UUID  `json:"userId"`
	HotelID       *uuid.UUID `json:"hotelId,omitempty"`
	VehicleID     *uuid.UUID `json:"vehicleId,omitempty"`
	PackageID     *uuid.UUID `json:"packageId,omitempty"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       time.Time  `json:"endDate"`
	TotalPrice    float64    `json:"totalPrice"`
	Currency      string     `json:"currency"`
	CancelReason  string     `json:"cancelReason,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

// PaymentEvent is the payload of every payment.* event.
type PaymentEvent struct {
	PaymentID  uuid.UUID `json:"paymentId"`
	BookingID  uuid.UUID `json:"bookingId"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurredAt"`
}

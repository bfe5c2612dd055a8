package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/contract/events"
	bookingDomain "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/booking"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/catalog"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/kafka"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// EventSource is the CloudEvents source of everything this service publishes.
const EventSource = "travel-booking"

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event *kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
// Exactly which service is booked is decided by the non-nil id.
type CreateBookingRequest struct {
	HotelID        *uuid.UUID      `json:"hotelId"`
	VehicleID      *uuid.UUID      `json:"vehicleId"`
	PackageID      *uuid.UUID      `json:"packageId"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	TotalPrice     float64         `json:"totalPrice"`
	Currency       string          `json:"currency"`
	BookingDetails json.RawMessage `json:"bookingDetails"`
}

// UpdateBookingRequest is a partial update; nil fields are left unchanged.
type UpdateBookingRequest struct {
	StartDate      *time.Time      `json:"startDate"`
	EndDate        *time.Time      `json:"endDate"`
	Status         *string         `json:"status"`
	TotalPrice     *float64        `json:"totalPrice"`
	BookingDetails json.RawMessage `json:"bookingDetails"`
}

func (r UpdateBookingRequest) changesBooking() bool {
	return r.StartDate != nil || r.EndDate != nil || r.TotalPrice != nil || r.BookingDetails != nil
}

// UnmarshalJSON accepts startDate and endDate as RFC 3339 timestamps or
// plain YYYY-MM-DD dates.
func (r *CreateBookingRequest) UnmarshalJSON(data []byte) error {
	type plain CreateBookingRequest
	aux := struct {
		*plain
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if r.StartDate, err = decodeDate("startDate", aux.StartDate); err != nil {
		return err
	}
	if r.EndDate, err = decodeDate("endDate", aux.EndDate); err != nil {
		return err
	}
	return nil
}

// UnmarshalJSON accepts the same date layouts as CreateBookingRequest.
func (r *UpdateBookingRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateBookingRequest
	aux := struct {
		*plain
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.StartDate, r.EndDate = nil, nil
	if aux.StartDate != nil {
		start, err := decodeDate("startDate", aux.StartDate)
		if err != nil {
			return err
		}
		r.StartDate = &start
	}
	if aux.EndDate != nil {
		end, err := decodeDate("endDate", aux.EndDate)
		if err != nil {
			return err
		}
		r.EndDate = &end
	}
	return nil
}

func decodeDate(field string, raw *string) (time.Time, error) {
	if raw == nil {
		return time.Time{}, nil
	}
	t, err := ParseDate(*raw)
	if err != nil {
		return time.Time{}, apperror.NewValidation(apperror.ReasonInvalidDateRange,
			field+" must be an RFC 3339 timestamp or a YYYY-MM-DD date", field)
	}
	return t, nil
}

// ParseDate accepts RFC 3339 or a bare YYYY-MM-DD date, read as midnight UTC.
// An empty value yields the zero time so the date-range check reports it.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

// CancelBookingRequest carries the optional cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID             uuid.UUID       `json:"id"`
	BookingNumber  string          `json:"bookingNumber"`
	UserID         uuid.UUID       `json:"userId"`
	HotelID        *uuid.UUID      `json:"hotelId,omitempty"`
	VehicleID      *uuid.UUID      `json:"vehicleId,omitempty"`
	PackageID      *uuid.UUID      `json:"packageId,omitempty"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"paymentStatus"`
	TotalPrice     float64         `json:"totalPrice"`
	Currency       string          `json:"currency"`
	BookingDetails json.RawMessage `json:"bookingDetails,omitempty"`
	BookingDate    time.Time       `json:"bookingDate"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason   string          `json:"cancelReason,omitempty"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
}

// BookingServiceOption customizes a BookingService.
type BookingServiceOption func(*BookingService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) { s.now = now }
}

// WithCancellationWindow overrides the default 24h window.
func WithCancellationWindow(window time.Duration) BookingServiceOption {
	return func(s *BookingService) { s.policy = bookingDomain.CancellationPolicy{Window: window} }
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	hotels    catalog.HotelDirectory
	vehicles  catalog.VehicleDirectory
	packages  catalog.PackageDirectory
	engine    *query.Engine
	publisher EventPublisher
	logger    *zap.Logger
	policy    bookingDomain.CancellationPolicy
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	hotels catalog.HotelDirectory,
	vehicles catalog.VehicleDirectory,
	packages catalog.PackageDirectory,
	engine *query.Engine,
	publisher EventPublisher,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	s := &BookingService{
		repo:      repo,
		hotels:    hotels,
		vehicles:  vehicles,
		packages:  packages,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		policy:    bookingDomain.DefaultCancellationPolicy(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking validates the request, checks the referenced services and
// persists a Pending/Unpaid booking. Availability is checked, not reserved.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	bk, err := bookingDomain.NewBooking(
		userID,
		bookingDomain.ServiceRef{HotelID: req.HotelID, VehicleID: req.VehicleID, PackageID: req.PackageID},
		req.StartDate,
		req.EndDate,
		req.TotalPrice,
		req.Currency,
		req.BookingDetails,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.checkServices(ctx, bk); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("user_id", userID.String()),
	)
	s.publishBookingEvent(ctx, events.BookingCreated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// checkServices runs the collaborator checks in order: hotel, vehicle, package.
func (s *BookingService) checkServices(ctx context.Context, bk *bookingDomain.Booking) error {
	ref := bk.Service()

	if ref.HotelID != nil {
		ok, err := s.hotels.ExistsByID(ctx, *ref.HotelID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("Hotel", ref.HotelID.String())
		}
	}

	if ref.VehicleID != nil {
		ok, err := s.vehicles.ExistsByID(ctx, *ref.VehicleID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("Vehicle", ref.VehicleID.String())
		}

		available, err := s.vehicles.IsAvailableForDates(ctx, *ref.VehicleID, bk.StartDate(), bk.EndDate())
		if err != nil {
			s.logger.Warn("vehicle availability check failed, treating as unavailable",
				zap.String("vehicle_id", ref.VehicleID.String()),
				zap.Error(err),
			)
			available = false
		}
		if !available {
			return apperror.NewValidation(apperror.ReasonVehicleUnavailable,
				"vehicle is not available for the selected dates", "vehicleId")
		}
	}

	if ref.PackageID != nil {
		ok, err := s.packages.ExistsByID(ctx, *ref.PackageID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("Package", ref.PackageID.String())
		}
	}
	return nil
}

// UpdateBooking applies a partial update on behalf of the booking's owner.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	bk, err := s.loadOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previous := bk.Status()

	// The status moves first so the cancellation window is measured against
	// the stored start date.
	if req.Status != nil {
		target, err := bookingDomain.ParseBookingStatus(*req.Status)
		if err != nil {
			return nil, apperror.NewValidation(apperror.ReasonInvalidTransition,
				fmt.Sprintf("invalid booking status: %s", *req.Status), "status")
		}
		if target == bookingDomain.StatusCancelled && previous != bookingDomain.StatusCancelled && req.changesBooking() {
			if err := s.policy.Check(bk.StartDate(), now); err != nil {
				return nil, err
			}
			return nil, apperror.NewValidation(apperror.ReasonInvalidInput,
				"a cancellation cannot be combined with other changes", "status")
		}
		if err := bk.TransitionTo(target, s.policy, now); err != nil {
			return nil, err
		}
	}
	if err := bk.Reschedule(req.StartDate, req.EndDate, now); err != nil {
		return nil, err
	}
	if err := bk.Reprice(req.TotalPrice, req.BookingDetails, now); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking updated",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", bk.Status().String()),
	)
	switch {
	case bk.Status() == previous:
		s.publishBookingEvent(ctx, events.BookingUpdated, bk)
	case bk.Status() == bookingDomain.StatusCancelled:
		s.publishBookingEvent(ctx, events.BookingCancelled, bk)
	case bk.Status() == bookingDomain.StatusConfirmed:
		s.publishBookingEvent(ctx, events.BookingConfirmed, bk)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking of userID. The payment status is left for
// the payment collaborator to settle.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.loadOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(reason, s.policy, s.now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("user_id", userID.String()),
	)
	s.publishBookingEvent(ctx, events.BookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking. Admins may read any booking.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !bk.IsOwnedBy(userID) {
		return nil, apperror.NewAuthorization(apperror.ReasonNotOwner, "booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListUserBookings returns one page of the caller's bookings.
func (s *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID, params query.Params) (*query.PageResult[BookingDTO], error) {
	// A caller-supplied userId is replaced, never combined.
	params = params.With(bookingDomain.FieldUserID, userID.String())

	page, err := query.Search(ctx, s.engine, params, bookingDomain.SearchConfig, query.Collection[*bookingDomain.Booking](s.repo))
	if err != nil {
		return nil, err
	}
	return query.Map(page, toBookingDTO), nil
}

// ListAllBookings returns one page of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, params query.Params) (*query.PageResult[BookingDTO], error) {
	page, err := query.Search(ctx, s.engine, params, bookingDomain.SearchConfig, query.Collection[*bookingDomain.Booking](s.repo))
	if err != nil {
		return nil, err
	}
	return query.Map(page, toBookingDTO), nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// ApplyPaymentStatus records a payment outcome reported by the payment
// collaborator. Redelivered outcomes leave the booking untouched.
func (s *BookingService) ApplyPaymentStatus(ctx context.Context, bookingID uuid.UUID, status bookingDomain.PaymentStatus) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	previous := bk.Status()
	changed, err := bk.ApplyPaymentStatus(status, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		s.logger.Debug("payment status unchanged",
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_status", status.String()),
		)
		result := toBookingDTO(bk)
		return &result, nil
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("payment status applied",
		zap.String("booking_id", bookingID.String()),
		zap.String("payment_status", status.String()),
		zap.String("status", bk.Status().String()),
	)
	if previous != bk.Status() && bk.Status() == bookingDomain.StatusConfirmed {
		s.publishBookingEvent(ctx, events.BookingConfirmed, bk)
	} else {
		s.publishBookingEvent(ctx, events.BookingUpdated, bk)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// --- Helpers ---

func (s *BookingService) loadOwned(ctx context.Context, userID, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsOwnedBy(userID) {
		return nil, apperror.NewAuthorization(apperror.ReasonNotOwner, "booking does not belong to this user")
	}
	return bk, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	ref := bk.Service()
	return BookingDTO{
		ID:             bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		UserID:         bk.UserID(),
		HotelID:        ref.HotelID,
		VehicleID:      ref.VehicleID,
		PackageID:      ref.PackageID,
		StartDate:      bk.StartDate(),
		EndDate:        bk.EndDate(),
		Status:         bk.Status().String(),
		PaymentStatus:  bk.PaymentStatus().String(),
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

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	ref := bk.Service()
	evt := events.BookingEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.UserID(),
		HotelID:       ref.HotelID,
		VehicleID:     ref.VehicleID,
		PackageID:     ref.PackageID,
		Status:        bk.Status().String(),
		PaymentStatus: bk.PaymentStatus().String(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		TotalPrice:    bk.TotalPrice(),
		Currency:      bk.Currency(),
		CancelReason:  bk.CancelReason(),
		OccurredAt:    s.now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := s.publisher.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

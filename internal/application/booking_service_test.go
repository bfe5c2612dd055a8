package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/contract/events"
	bookingDomain "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/booking"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type bookingFixture struct {
	svc       *BookingService
	repo      *MockBookingRepository
	hotels    *MockHotelDirectory
	vehicles  *MockVehicleDirectory
	packages  *MockPackageDirectory
	publisher *MockPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		repo:      new(MockBookingRepository),
		hotels:    new(MockHotelDirectory),
		vehicles:  new(MockVehicleDirectory),
		packages:  new(MockPackageDirectory),
		publisher: new(MockPublisher),
	}
	f.svc = NewBookingService(
		f.repo, f.hotels, f.vehicles, f.packages,
		query.NewEngine(query.DefaultLimits, time.Second),
		f.publisher,
		zap.NewNop(),
		WithClock(func() time.Time { return testNow }),
	)
	return f
}

func (f *bookingFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.hotels.AssertExpectations(t)
	f.vehicles.AssertExpectations(t)
	f.packages.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

// existingBooking builds a persisted hotel booking starting at start.
func existingBooking(owner uuid.UUID, start time.Time, status bookingDomain.BookingStatus, payment bookingDomain.PaymentStatus) *bookingDomain.Booking {
	hotelID := uuid.New()
	created := testNow.Add(-48 * time.Hour)
	return bookingDomain.ReconstructBooking(
		uuid.New(), "BK-TEST01", owner,
		bookingDomain.ServiceRef{HotelID: &hotelID},
		start, start.Add(72*time.Hour),
		status, payment,
		300, "USD", nil,
		created, nil, "", 1, created, created,
	)
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateBooking_Hotel(t *testing.T) {
	f := newBookingFixture(t)
	userID := uuid.New()
	hotelID := uuid.New()

	f.hotels.On("ExistsByID", mock.Anything, hotelID).Return(true, nil).Once()
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil).Once()
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, mock.AnythingOfType("string"),
		eventOfType(events.BookingCreated)).Return(nil).Once()

	got, err := f.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		HotelID:    &hotelID,
		StartDate:  testNow.Add(72 * time.Hour),
		EndDate:    testNow.Add(120 * time.Hour),
		TotalPrice: 420,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pending", got.Status)
	assert.Equal(t, "Unpaid", got.PaymentStatus)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, &hotelID, got.HotelID)
	assert.Equal(t, testNow, got.BookingDate)
	assert.Equal(t, "USD", got.Currency)
	f.assertExpectations(t)
}

func TestCreateBooking_ValidationOrder(t *testing.T) {
	start := testNow.Add(72 * time.Hour)
	end := start.Add(48 * time.Hour)
	storageErr := apperror.NewStorage("find hotel failed", errors.New("connection refused"))

	tests := []struct {
		name       string
		req        func(hotelID, vehicleID, packageID uuid.UUID) CreateBookingRequest
		setup      func(f *bookingFixture, hotelID, vehicleID, packageID uuid.UUID)
		wantKind   apperror.Kind
		wantReason apperror.Reason
	}{
		{
			name: "missing service beats bad dates",
			req: func(_, _, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{StartDate: end, EndDate: start}
			},
			setup:      func(*bookingFixture, uuid.UUID, uuid.UUID, uuid.UUID) {},
			wantKind:   apperror.KindValidation,
			wantReason: apperror.ReasonMissingService,
		},
		{
			name: "bad dates beat hotel lookup",
			req: func(hotelID, _, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{HotelID: idPtr(hotelID), StartDate: end, EndDate: start}
			},
			setup:      func(*bookingFixture, uuid.UUID, uuid.UUID, uuid.UUID) {},
			wantKind:   apperror.KindValidation,
			wantReason: apperror.ReasonInvalidDateRange,
		},
		{
			name: "missing hotel beats vehicle lookup",
			req: func(hotelID, vehicleID, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{HotelID: idPtr(hotelID), VehicleID: idPtr(vehicleID), StartDate: start, EndDate: end}
			},
			setup: func(f *bookingFixture, hotelID, _, _ uuid.UUID) {
				f.hotels.On("ExistsByID", mock.Anything, hotelID).Return(false, nil).Once()
			},
			wantKind:   apperror.KindNotFound,
			wantReason: "hotel",
		},
		{
			name: "missing vehicle",
			req: func(_, vehicleID, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{VehicleID: idPtr(vehicleID), StartDate: start, EndDate: end}
			},
			setup: func(f *bookingFixture, _, vehicleID, _ uuid.UUID) {
				f.vehicles.On("ExistsByID", mock.Anything, vehicleID).Return(false, nil).Once()
			},
			wantKind:   apperror.KindNotFound,
			wantReason: "vehicle",
		},
		{
			name: "vehicle unavailable",
			req: func(_, vehicleID, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{VehicleID: idPtr(vehicleID), StartDate: start, EndDate: end}
			},
			setup: func(f *bookingFixture, _, vehicleID, _ uuid.UUID) {
				f.vehicles.On("ExistsByID", mock.Anything, vehicleID).Return(true, nil).Once()
				f.vehicles.On("IsAvailableForDates", mock.Anything, vehicleID, start, end).Return(false, nil).Once()
			},
			wantKind:   apperror.KindValidation,
			wantReason: apperror.ReasonVehicleUnavailable,
		},
		{
			name: "availability failure fails closed",
			req: func(_, vehicleID, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{VehicleID: idPtr(vehicleID), StartDate: start, EndDate: end}
			},
			setup: func(f *bookingFixture, _, vehicleID, _ uuid.UUID) {
				f.vehicles.On("ExistsByID", mock.Anything, vehicleID).Return(true, nil).Once()
				f.vehicles.On("IsAvailableForDates", mock.Anything, vehicleID, start, end).
					Return(false, errors.New("timeout")).Once()
			},
			wantKind:   apperror.KindValidation,
			wantReason: apperror.ReasonVehicleUnavailable,
		},
		{
			name: "missing package",
			req: func(_, _, packageID uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{PackageID: idPtr(packageID), StartDate: start, EndDate: end}
			},
			setup: func(f *bookingFixture, _, _, packageID uuid.UUID) {
				f.packages.On("ExistsByID", mock.Anything, packageID).Return(false, nil).Once()
			},
			wantKind:   apperror.KindNotFound,
			wantReason: "package",
		},
		{
			name: "hotel lookup failure surfaces as storage error",
			req: func(hotelID, _, _ uuid.UUID) CreateBookingRequest {
				return CreateBookingRequest{HotelID: idPtr(hotelID), StartDate: start, EndDate: end}
			},
			setup: func(f *bookingFixture, hotelID, _, _ uuid.UUID) {
				f.hotels.On("ExistsByID", mock.Anything, hotelID).Return(false, storageErr).Once()
			},
			wantKind:   apperror.KindStorage,
			wantReason: apperror.ReasonUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			hotelID, vehicleID, packageID := uuid.New(), uuid.New(), uuid.New()
			tt.setup(f, hotelID, vehicleID, packageID)

			_, err := f.svc.CreateBooking(context.Background(), uuid.New(), tt.req(hotelID, vehicleID, packageID))
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperror.KindOf(err))
			assert.Equal(t, tt.wantReason, apperror.ReasonOf(err))

			f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			f.publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestCreateBooking_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newBookingFixture(t)
	packageID := uuid.New()

	f.packages.On("ExistsByID", mock.Anything, packageID).Return(true, nil).Once()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker down")).Once()

	got, err := f.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		PackageID: &packageID,
		StartDate: testNow.Add(24 * time.Hour),
		EndDate:   testNow.Add(96 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Status)
	f.assertExpectations(t)
}

func TestCancelBooking(t *testing.T) {
	owner := uuid.New()

	t.Run("inside the window", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(10*time.Hour), bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		_, err := f.svc.CancelBooking(context.Background(), owner, bk.ID(), "")
		require.Error(t, err)
		assert.True(t, apperror.HasReason(err, apperror.ReasonCancellationWindowExpired))
		assert.Equal(t, bookingDomain.StatusPending, bk.Status())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("outside the window keeps payment status", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusConfirmed, bookingDomain.PaymentPaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, mock.MatchedBy(func(b *bookingDomain.Booking) bool {
			return b.Version() == 2 && b.Status() == bookingDomain.StatusCancelled
		})).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, bk.ID().String(),
			eventOfType(events.BookingCancelled)).Return(nil).Once()

		got, err := f.svc.CancelBooking(context.Background(), owner, bk.ID(), "plans changed")
		require.NoError(t, err)
		assert.Equal(t, "Cancelled", got.Status)
		assert.Equal(t, "Paid", got.PaymentStatus)
		assert.Equal(t, "plans changed", got.CancelReason)
		require.NotNil(t, got.CancelledAt)
		assert.Equal(t, testNow, *got.CancelledAt)
		f.assertExpectations(t)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		_, err := f.svc.CancelBooking(context.Background(), uuid.New(), bk.ID(), "")
		require.Error(t, err)
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
		assert.Equal(t, bookingDomain.StatusPending, bk.Status())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusCancelled, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		_, err := f.svc.CancelBooking(context.Background(), owner, bk.ID(), "")
		require.Error(t, err)
		assert.True(t, apperror.HasReason(err, apperror.ReasonAlreadyCancelled))
		assert.Equal(t, bookingDomain.StatusCancelled, bk.Status())
	})

	t.Run("not found", func(t *testing.T) {
		f := newBookingFixture(t)
		id := uuid.New()
		f.repo.On("FindByID", mock.Anything, id).Return(nil, apperror.NewNotFound("Booking", id.String())).Once()

		_, err := f.svc.CancelBooking(context.Background(), owner, id, "")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("custom window", func(t *testing.T) {
		f := newBookingFixture(t)
		WithCancellationWindow(2 * time.Hour)(f.svc)
		bk := existingBooking(owner, testNow.Add(10*time.Hour), bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, bk).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		got, err := f.svc.CancelBooking(context.Background(), owner, bk.ID(), "")
		require.NoError(t, err)
		assert.Equal(t, "Cancelled", got.Status)
	})
}

func TestUpdateBooking(t *testing.T) {
	owner := uuid.New()
	start := testNow.Add(96 * time.Hour)

	t.Run("reschedule", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, bk).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, bk.ID().String(),
			eventOfType(events.BookingUpdated)).Return(nil).Once()

		newEnd := start.Add(24 * time.Hour)
		got, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{EndDate: &newEnd})
		require.NoError(t, err)
		assert.Equal(t, newEnd, got.EndDate)
		assert.Equal(t, int64(2), got.Version)
		f.assertExpectations(t)
	})

	t.Run("inverted dates", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		_, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{
			StartDate: timePtr(start.Add(48 * time.Hour)),
			EndDate:   timePtr(start),
		})
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidDateRange))
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		price := 1.0
		_, err := f.svc.UpdateBooking(context.Background(), uuid.New(), bk.ID(), UpdateBookingRequest{TotalPrice: &price})
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
		assert.Equal(t, 300.0, bk.TotalPrice())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("confirm publishes confirmed", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, bk).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, bk.ID().String(),
			eventOfType(events.BookingConfirmed)).Return(nil).Once()

		status := "confirmed"
		got, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, "Confirmed", got.Status)
		f.assertExpectations(t)
	})

	t.Run("confirmed cannot go back to pending", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusConfirmed, bookingDomain.PaymentPaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		status := "Pending"
		_, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{Status: &status})
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidTransition))
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		status := "Archived"
		_, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{Status: &status})
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidTransition))
	})

	t.Run("cancel with moved dates uses the stored start date", func(t *testing.T) {
		f := newBookingFixture(t)
		soon := testNow.Add(10 * time.Hour)
		bk := existingBooking(owner, soon, bookingDomain.StatusConfirmed, bookingDomain.PaymentPaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		status := "Cancelled"
		_, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{
			StartDate: timePtr(testNow.Add(30 * 24 * time.Hour)),
			EndDate:   timePtr(testNow.Add(31 * 24 * time.Hour)),
			Status:    &status,
		})
		assert.True(t, apperror.HasReason(err, apperror.ReasonCancellationWindowExpired))
		assert.Equal(t, bookingDomain.StatusConfirmed, bk.Status())
		assert.Equal(t, soon, bk.StartDate())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("cancel cannot be combined with other changes", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusConfirmed, bookingDomain.PaymentPaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		status := "Cancelled"
		price := 10.0
		_, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{
			TotalPrice: &price,
			Status:     &status,
		})
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))
		assert.Equal(t, bookingDomain.StatusConfirmed, bk.Status())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stale version", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, start, bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, bk).
			Return(apperror.NewConflict(apperror.ReasonVersionConflict, "booking was modified by another request")).Once()

		price := 350.0
		_, err := f.svc.UpdateBooking(context.Background(), owner, bk.ID(), UpdateBookingRequest{TotalPrice: &price})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		f.publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetBooking(t *testing.T) {
	owner := uuid.New()
	f := newBookingFixture(t)
	bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
	f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	got, err := f.svc.GetBooking(context.Background(), owner, bk.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, bk.ID(), got.ID)

	_, err = f.svc.GetBooking(context.Background(), uuid.New(), bk.ID(), false)
	assert.True(t, apperror.HasReason(err, apperror.ReasonNotOwner))

	got, err = f.svc.GetBooking(context.Background(), uuid.New(), bk.ID(), true)
	require.NoError(t, err)
	assert.Equal(t, bk.ID(), got.ID)
}

func TestListUserBookings_ForcesOwnerFilter(t *testing.T) {
	f := newBookingFixture(t)
	owner := uuid.New()
	bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)

	ownerOnly := mock.MatchedBy(func(filter query.Filter) bool {
		and, ok := filter.(query.And)
		if !ok {
			return false
		}
		for _, child := range and {
			if c, ok := child.(query.Cond); ok && c.Field == bookingDomain.FieldUserID && c.Value == owner {
				return true
			}
		}
		return false
	})
	f.repo.On("Find", mock.Anything, ownerOnly, query.Sort{Field: "startDate", Order: query.Asc}, 0, 5).
		Return([]*bookingDomain.Booking{bk}, nil).Once()
	f.repo.On("Count", mock.Anything, ownerOnly).Return(int64(1), nil).Once()

	page, err := f.svc.ListUserBookings(context.Background(), owner, query.Params{
		"limit":     "5",
		"sortBy":    "startDate",
		"sortOrder": "asc",
		"userId":    uuid.NewString(),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, bk.ID(), page.Items[0].ID)
	assert.Equal(t, 1, page.TotalPages)
	f.assertExpectations(t)
}

func TestListAllBookings_InvalidSort(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.ListAllBookings(context.Background(), query.Params{"sortBy": "password"})
	assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidSort))
	f.repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBookingStats(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.On("CountByStatus", mock.Anything).Return(map[string]int64{"Pending": 3, "Cancelled": 2}, nil).Once()

	stats, err := f.svc.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.ByStatus["Pending"])
}

func TestApplyPaymentStatus(t *testing.T) {
	owner := uuid.New()

	t.Run("paid confirms a pending booking", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusPending, bookingDomain.PaymentUnpaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, bk).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, bk.ID().String(),
			eventOfType(events.BookingConfirmed)).Return(nil).Once()

		got, err := f.svc.ApplyPaymentStatus(context.Background(), bk.ID(), bookingDomain.PaymentPaid)
		require.NoError(t, err)
		assert.Equal(t, "Confirmed", got.Status)
		assert.Equal(t, "Paid", got.PaymentStatus)
		f.assertExpectations(t)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusConfirmed, bookingDomain.PaymentPaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()

		got, err := f.svc.ApplyPaymentStatus(context.Background(), bk.ID(), bookingDomain.PaymentPaid)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Version)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("cancelled booking stays cancelled", func(t *testing.T) {
		f := newBookingFixture(t)
		bk := existingBooking(owner, testNow.Add(48*time.Hour), bookingDomain.StatusCancelled, bookingDomain.PaymentPaid)
		f.repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil).Once()
		f.repo.On("Update", mock.Anything, bk).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, bk.ID().String(),
			eventOfType(events.BookingUpdated)).Return(nil).Once()

		got, err := f.svc.ApplyPaymentStatus(context.Background(), bk.ID(), bookingDomain.PaymentRefunded)
		require.NoError(t, err)
		assert.Equal(t, "Cancelled", got.Status)
		assert.Equal(t, "Refunded", got.PaymentStatus)
		f.assertExpectations(t)
	})
}

func TestBookingRequest_DateLayouts(t *testing.T) {
	t.Run("timestamp and plain date", func(t *testing.T) {
		var req CreateBookingRequest
		require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-06-05T09:30:00Z","endDate":"2025-06-07","totalPrice":120}`), &req))
		assert.Equal(t, time.Date(2025, 6, 5, 9, 30, 0, 0, time.UTC), req.StartDate)
		assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), req.EndDate)
		assert.Equal(t, 120.0, req.TotalPrice)
	})

	t.Run("malformed create date", func(t *testing.T) {
		var req CreateBookingRequest
		err := json.Unmarshal([]byte(`{"startDate":"June 5th","endDate":"2025-06-07"}`), &req)
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidDateRange))
	})

	t.Run("update keeps absent dates nil", func(t *testing.T) {
		var req UpdateBookingRequest
		require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-07-01","status":"Confirmed"}`), &req))
		require.NotNil(t, req.StartDate)
		assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *req.StartDate)
		assert.Nil(t, req.EndDate)
		require.NotNil(t, req.Status)
		assert.Equal(t, "Confirmed", *req.Status)
	})

	t.Run("malformed update date", func(t *testing.T) {
		var req UpdateBookingRequest
		err := json.Unmarshal([]byte(`{"endDate":"2025-13-40"}`), &req)
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidDateRange))
	})
}

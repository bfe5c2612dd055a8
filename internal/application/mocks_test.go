package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/booking"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/catalog"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/user"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/kafka"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Find(ctx context.Context, f query.Filter, s query.Sort, skip, limit int) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, f, s, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Count(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

type MockHotelDirectory struct {
	mock.Mock
}

func (m *MockHotelDirectory) Find(ctx context.Context, f query.Filter, s query.Sort, skip, limit int) ([]*catalog.Hotel, error) {
	args := m.Called(ctx, f, s, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Hotel), args.Error(1)
}

func (m *MockHotelDirectory) Count(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHotelDirectory) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Hotel), args.Error(1)
}

func (m *MockHotelDirectory) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockVehicleDirectory struct {
	mock.Mock
}

func (m *MockVehicleDirectory) Find(ctx context.Context, f query.Filter, s query.Sort, skip, limit int) ([]*catalog.Vehicle, error) {
	args := m.Called(ctx, f, s, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleDirectory) Count(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleDirectory) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleDirectory) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVehicleDirectory) IsAvailableForDates(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error) {
	args := m.Called(ctx, id, start, end)
	return args.Bool(0), args.Error(1)
}

type MockPackageDirectory struct {
	mock.Mock
}

func (m *MockPackageDirectory) Find(ctx context.Context, f query.Filter, s query.Sort, skip, limit int) ([]*catalog.TravelPackage, error) {
	args := m.Called(ctx, f, s, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.TravelPackage), args.Error(1)
}

func (m *MockPackageDirectory) Count(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackageDirectory) FindByID(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.TravelPackage), args.Error(1)
}

func (m *MockPackageDirectory) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) Find(ctx context.Context, f query.Filter, s query.Sort, skip, limit int) ([]*user.User, error) {
	args := m.Called(ctx, f, s, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserDirectory) Count(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, topic, key string, event *kafka.CloudEvent) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

// eventOfType matches a published CloudEvent by type.
func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e *kafka.CloudEvent) bool { return e.Type == eventType })
}

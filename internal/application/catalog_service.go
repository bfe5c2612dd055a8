package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/booking"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/catalog"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// AvailabilityDTO answers a vehicle availability lookup.
type AvailabilityDTO struct {
	VehicleID uuid.UUID `json:"vehicleId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Available bool      `json:"available"`
}

// CatalogService serves the public hotel, vehicle and package listings.
type CatalogService struct {
	hotels   catalog.HotelDirectory
	vehicles catalog.VehicleDirectory
	packages catalog.PackageDirectory
	engine   *query.Engine
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	hotels catalog.HotelDirectory,
	vehicles catalog.VehicleDirectory,
	packages catalog.PackageDirectory,
	engine *query.Engine,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		hotels:   hotels,
		vehicles: vehicles,
		packages: packages,
		engine:   engine,
		logger:   logger,
	}
}

// ListHotels returns one page of hotels matching params.
func (s *CatalogService) ListHotels(ctx context.Context, params query.Params) (*query.PageResult[*catalog.Hotel], error) {
	return query.Search(ctx, s.engine, params, catalog.HotelSearchConfig, query.Collection[*catalog.Hotel](s.hotels))
}

// GetHotel returns a hotel by id.
func (s *CatalogService) GetHotel(ctx context.Context, id uuid.UUID) (*catalog.Hotel, error) {
	return s.hotels.FindByID(ctx, id)
}

// ListVehicles returns one page of vehicles matching params.
func (s *CatalogService) ListVehicles(ctx context.Context, params query.Params) (*query.PageResult[*catalog.Vehicle], error) {
	return query.Search(ctx, s.engine, params, catalog.VehicleSearchConfig, query.Collection[*catalog.Vehicle](s.vehicles))
}

// GetVehicle returns a vehicle by id.
func (s *CatalogService) GetVehicle(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

// CheckVehicleAvailability reports whether the vehicle can be booked for [start, end).
func (s *CatalogService) CheckVehicleAvailability(ctx context.Context, id uuid.UUID, start, end time.Time) (*AvailabilityDTO, error) {
	if err := bookingDomain.ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	available, err := s.vehicles.IsAvailableForDates(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("vehicle availability checked",
		zap.String("vehicle_id", id.String()),
		zap.Bool("available", available),
	)
	return &AvailabilityDTO{
		VehicleID: id,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Available: available,
	}, nil
}

// ListPackages returns one page of travel packages matching params.
func (s *CatalogService) ListPackages(ctx context.Context, params query.Params) (*query.PageResult[*catalog.TravelPackage], error) {
	return query.Search(ctx, s.engine, params, catalog.PackageSearchConfig, query.Collection[*catalog.TravelPackage](s.packages))
}

// GetPackage returns a travel package by id.
func (s *CatalogService) GetPackage(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	return s.packages.FindByID(ctx, id)
}

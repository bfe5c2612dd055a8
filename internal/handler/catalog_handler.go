package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/application"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/catalog"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/response"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// CatalogUseCases is implemented by application.CatalogService.
type CatalogUseCases interface {
	ListHotels(ctx context.Context, params query.Params) (*query.PageResult[*catalog.Hotel], error)
	GetHotel(ctx context.Context, id uuid.UUID) (*catalog.Hotel, error)
	ListVehicles(ctx context.Context, params query.Params) (*query.PageResult[*catalog.Vehicle], error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error)
	CheckVehicleAvailability(ctx context.Context, id uuid.UUID, start, end time.Time) (*application.AvailabilityDTO, error)
	ListPackages(ctx context.Context, params query.Params) (*query.PageResult[*catalog.TravelPackage], error)
	GetPackage(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error)
}

// CatalogHandler serves the public hotel, vehicle and package listings.
type CatalogHandler struct {
	service CatalogUseCases
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service CatalogUseCases) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes. They need no authentication.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/hotels", h.ListHotels)
		v1.GET("/hotels/:id", h.GetHotel)
		v1.GET("/vehicles", h.ListVehicles)
		v1.GET("/vehicles/:id", h.GetVehicle)
		v1.GET("/vehicles/:id/availability", h.VehicleAvailability)
		v1.GET("/packages", h.ListPackages)
		v1.GET("/packages/:id", h.GetPackage)
	}
}

// ListHotels handles GET /api/v1/hotels.
func (h *CatalogHandler) ListHotels(c *gin.Context) {
	result, err := h.service.ListHotels(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result)
}

// GetHotel handles GET /api/v1/hotels/:id.
func (h *CatalogHandler) GetHotel(c *gin.Context) {
	id, ok := parseID(c, "hotel")
	if !ok {
		return
	}
	result, err := h.service.GetHotel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListVehicles handles GET /api/v1/vehicles.
func (h *CatalogHandler) ListVehicles(c *gin.Context) {
	result, err := h.service.ListVehicles(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result)
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *CatalogHandler) GetVehicle(c *gin.Context) {
	id, ok := parseID(c, "vehicle")
	if !ok {
		return
	}
	result, err := h.service.GetVehicle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// VehicleAvailability handles GET /api/v1/vehicles/:id/availability?startDate=&endDate=.
func (h *CatalogHandler) VehicleAvailability(c *gin.Context) {
	id, ok := parseID(c, "vehicle")
	if !ok {
		return
	}
	start, err := application.ParseDate(c.Query("startDate"))
	if err != nil {
		response.BadRequest(c, "startDate must be RFC 3339 or YYYY-MM-DD", "startDate")
		return
	}
	end, err := application.ParseDate(c.Query("endDate"))
	if err != nil {
		response.BadRequest(c, "endDate must be RFC 3339 or YYYY-MM-DD", "endDate")
		return
	}

	result, err := h.service.CheckVehicleAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListPackages handles GET /api/v1/packages.
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	result, err := h.service.ListPackages(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result)
}

// GetPackage handles GET /api/v1/packages/:id.
func (h *CatalogHandler) GetPackage(c *gin.Context) {
	id, ok := parseID(c, "package")
	if !ok {
		return
	}
	result, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

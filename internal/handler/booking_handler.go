package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/application"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/auth"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/middleware"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/response"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// BookingUseCases is the part of application.BookingService the booking routes use.
type BookingUseCases interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req application.CreateBookingRequest) (*application.BookingDTO, error)
	UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, req application.UpdateBookingRequest) (*application.BookingDTO, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID, reason string) (*application.BookingDTO, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*application.BookingDTO, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, params query.Params) (*query.PageResult[application.BookingDTO], error)
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service BookingUseCases
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service BookingUseCases) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Callers only ever see their own bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.ListUserBookings(c.Request.Context(), userID, query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}
	role, _ := middleware.GetUserRole(c)

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID, role == auth.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PATCH /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), userID, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel. The body is optional.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	var req application.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	result, err := h.service.CancelBooking(c.Request.Context(), userID, bookingID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseID reads the :id path parameter and answers 400 when it is not a UUID.
func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID", "id")
		return uuid.Nil, false
	}
	return id, true
}

// bindError reports typed decode failures, such as a malformed date, with
// their own reason.
func bindError(c *gin.Context, err error) {
	if _, ok := apperror.As(err); ok {
		response.Error(c, err)
		return
	}
	response.BadRequest(c, err.Error())
}

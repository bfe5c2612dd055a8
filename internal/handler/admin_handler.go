package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/application"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/user"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/auth"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/middleware"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/response"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// AdminBookingUseCases is the admin part of application.BookingService.
type AdminBookingUseCases interface {
	ListAllBookings(ctx context.Context, params query.Params) (*query.PageResult[application.BookingDTO], error)
	GetBookingStats(ctx context.Context) (*application.BookingStatsDTO, error)
}

// UserUseCases is implemented by application.UserService.
type UserUseCases interface {
	ListUsers(ctx context.Context, params query.Params) (*query.PageResult[*user.User], error)
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// AdminHandler handles admin HTTP requests for bookings and users.
type AdminHandler struct {
	bookings AdminBookingUseCases
	users    UserUseCases
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings AdminBookingUseCases, users UserUseCases) *AdminHandler {
	return &AdminHandler{bookings: bookings, users: users}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	result, err := h.bookings.ListAllBookings(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	result, err := h.users.ListUsers(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result)
}

// GetUser handles GET /api/v1/admin/users/:id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	result, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

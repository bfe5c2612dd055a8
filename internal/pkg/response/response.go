package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
}

// Pagination carries page metadata next to list data.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Kind    apperror.Kind   `json:"kind"`
	Reason  apperror.Reason `json:"reason,omitempty"`
	Message string          `json:"message"`
	Fields  []string        `json:"fields,omitempty"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes 200 with the items of page and its metadata.
func Paginated[T any](c *gin.Context, page *query.PageResult[T]) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    page.Items,
		Pagination: &Pagination{
			CurrentPage:  page.CurrentPage,
			TotalPages:   page.TotalPages,
			TotalItems:   page.TotalItems,
			ItemsPerPage: page.ItemsPerPage,
		},
	})
}

// BadRequest writes 400 for malformed input that never reached the domain.
func BadRequest(c *gin.Context, message string, fields ...string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: &ErrorBody{
		Kind:    apperror.KindValidation,
		Reason:  apperror.ReasonInvalidInput,
		Message: message,
		Fields:  fields,
	}})
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Error: &ErrorBody{
		Kind:    apperror.KindAuthorization,
		Message: message,
	}})
}

// Forbidden writes 403.
func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, Envelope{Error: &ErrorBody{
		Kind:    apperror.KindAuthorization,
		Message: message,
	}})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes a typed error with its mapped status. Untyped and storage errors
// are attached to the context for the logger and answered with a generic message.
func Error(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Error: &ErrorBody{
			Kind:    apperror.KindStorage,
			Message: "internal server error",
		}})
		return
	}

	body := &ErrorBody{
		Kind:    appErr.Kind,
		Reason:  appErr.Reason,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	}
	if appErr.Kind == apperror.KindStorage {
		_ = c.Error(err)
		body.Message = "internal server error"
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Kind), Envelope{Error: body})
}

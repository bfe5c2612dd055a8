package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for callers that map it to a transport status.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindStorage       Kind = "storage"
)

// Reason is a machine-readable code that narrows down a Kind.
type Reason string

const (
	ReasonMissingService            Reason = "missing_service"
	ReasonInvalidDateRange          Reason = "invalid_date_range"
	ReasonVehicleUnavailable        Reason = "vehicle_unavailable"
	ReasonCancellationWindowExpired Reason = "cancellation_window_expired"
	ReasonAlreadyCancelled          Reason = "already_cancelled"
	ReasonInvalidTransition         Reason = "invalid_transition"
	ReasonInvalidInput              Reason = "invalid_input"
	ReasonPageOutOfRange            Reason = "page_out_of_range"
	ReasonInvalidPagination         Reason = "invalid_pagination"
	ReasonInvalidFilter             Reason = "invalid_filter"
	ReasonInvalidSort               Reason = "invalid_sort"
	ReasonNotOwner                  Reason = "not_owner"
	ReasonVersionConflict           Reason = "version_conflict"
	ReasonDuplicate                 Reason = "duplicate"
	ReasonTimeout                   Reason = "timeout"
	ReasonUnavailable               Reason = "unavailable"
)

// Error is the typed error returned by the query engine and the booking lifecycle.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Fields  []string // Field path the error refers to, e.g. ["startDate", "endDate"]
	Err     error    // Underlying cause, never exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation reports a caller-fixable input problem.
func NewValidation(reason Reason, message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message, Fields: fields}
}

// NewNotFound reports a missing entity. The reason is the lower-cased entity name.
func NewNotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Reason:  Reason(strings.ToLower(entity)),
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// NewAuthorization reports an ownership or role violation.
func NewAuthorization(reason Reason, message string) *Error {
	return &Error{Kind: KindAuthorization, Reason: reason, Message: message}
}

// NewConflict reports a write that lost against a concurrent change.
func NewConflict(reason Reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

// NewStorage wraps a failure of the underlying collection.
func NewStorage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Reason: ReasonUnavailable, Message: message, Err: err}
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not typed.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// ReasonOf returns the reason of err, or "" when err is not typed.
func ReasonOf(err error) Reason {
	if appErr, ok := As(err); ok {
		return appErr.Reason
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HasReason reports whether err carries the given reason.
func HasReason(err error, reason Reason) bool {
	return ReasonOf(err) == reason
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
)

// mapError converts driver errors into the apperror taxonomy. entity and id
// describe the row being accessed and are used for not-found errors.
func mapError(err error, op, entity, id string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound(entity, id)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperror.Error{
			Kind:    apperror.KindStorage,
			Reason:  apperror.ReasonTimeout,
			Message: op + " timed out",
			Err:     err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &apperror.Error{
				Kind:    apperror.KindConflict,
				Reason:  apperror.ReasonDuplicate,
				Message: entity + " already exists",
				Err:     err,
			}
		case pgerrcode.ForeignKeyViolation:
			return &apperror.Error{
				Kind:    apperror.KindNotFound,
				Reason:  apperror.Reason("reference"),
				Message: "referenced record does not exist",
				Err:     err,
			}
		case pgerrcode.CheckViolation:
			return &apperror.Error{
				Kind:    apperror.KindValidation,
				Reason:  apperror.ReasonInvalidInput,
				Message: "value violates constraint " + pgErr.ConstraintName,
				Err:     err,
			}
		case pgerrcode.QueryCanceled:
			return &apperror.Error{
				Kind:    apperror.KindStorage,
				Reason:  apperror.ReasonTimeout,
				Message: op + " timed out",
				Err:     err,
			}
		}
	}
	return apperror.NewStorage(op+" failed", err)
}

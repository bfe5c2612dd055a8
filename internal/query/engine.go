package query

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
)

// Collection is the storage port a list endpoint reads from.
// Filter and Sort use logical field names; adapters translate them.
type Collection[T any] interface {
	Find(ctx context.Context, filter Filter, sort Sort, skip, limit int) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Engine carries the page-size limits and the per-query timeout.
type Engine struct {
	limits  Limits
	timeout time.Duration
}

// NewEngine creates an Engine. A zero timeout leaves deadlines to the caller's context.
func NewEngine(limits Limits, timeout time.Duration) *Engine {
	return &Engine{limits: limits, timeout: timeout}
}

// Limits returns the page-size limits applied by BuildSpec. A nil Engine
// uses DefaultLimits.
func (e *Engine) Limits() Limits {
	if e == nil {
		return DefaultLimits
	}
	return e.limits
}

// Search builds a Spec from raw params and executes it.
func Search[T any](ctx context.Context, e *Engine, params Params, cfg EntityConfig, coll Collection[T]) (*PageResult[T], error) {
	spec, err := BuildSpec(params, cfg, e.Limits())
	if err != nil {
		return nil, err
	}
	return Execute(ctx, e, spec, coll)
}

// Execute runs Find and Count concurrently against the same filter and
// assembles the page. A page past the last one is rejected unless the
// collection is empty.
func Execute[T any](ctx context.Context, e *Engine, spec Spec, coll Collection[T]) (*PageResult[T], error) {
	if spec.Page < 1 || spec.Limit < 1 {
		return nil, apperror.NewValidation(apperror.ReasonInvalidPagination, "page and limit must be at least 1",
			ParamPage, ParamLimit)
	}
	if spec.Page > math.MaxInt/spec.Limit {
		return nil, apperror.NewValidation(apperror.ReasonInvalidPagination, "page is too large", ParamPage)
	}

	if e != nil && e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = coll.Find(gctx, spec.Filter, spec.Sort, spec.Skip(), spec.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = coll.Count(gctx, spec.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageError(ctx, err)
	}

	totalPages := TotalPages(total, spec.Limit)
	if spec.Page > totalPages && total > 0 {
		return nil, apperror.NewValidation(apperror.ReasonPageOutOfRange, "page is beyond the last page", ParamPage)
	}
	return NewPageResult(items, total, spec.Page, spec.Limit), nil
}

func storageError(ctx context.Context, err error) error {
	if appErr, ok := apperror.As(err); ok {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &apperror.Error{
			Kind:    apperror.KindStorage,
			Reason:  apperror.ReasonTimeout,
			Message: "query timed out",
			Err:     err,
		}
	}
	return apperror.NewStorage("query failed", err)
}

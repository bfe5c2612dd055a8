package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// gormCollection adapts a GORM model table to query.Collection. M is the row
// model and T the domain type handed back to callers.
type gormCollection[M any, T any] struct {
	db       *gorm.DB
	entity   string
	columns  map[string]string
	toDomain func(*M) (T, error)
}

func newGormCollection[M any, T any](db *gorm.DB, entity string, columns map[string]string, toDomain func(*M) (T, error)) *gormCollection[M, T] {
	return &gormCollection[M, T]{db: db, entity: entity, columns: columns, toDomain: toDomain}
}

func (c *gormCollection[M, T]) where(ctx context.Context, f query.Filter) (*gorm.DB, error) {
	tx := c.db.WithContext(ctx).Model(new(M))
	sql, args, err := CompileFilter(f, c.columns)
	if err != nil {
		return nil, err
	}
	if sql != "" {
		tx = tx.Where(sql, args...)
	}
	return tx, nil
}

// Find returns one page of rows. Rows that tie on the sort column come back
// in whatever order Postgres produces.
func (c *gormCollection[M, T]) Find(ctx context.Context, f query.Filter, s query.Sort, skip, limit int) ([]T, error) {
	tx, err := c.where(ctx, f)
	if err != nil {
		return nil, mapError(err, "list "+c.entity, c.entity, "")
	}

	col, desc := orderColumn(c.columns, s)
	var models []M
	if err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}).
		Offset(skip).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, mapError(err, "list "+c.entity, c.entity, "")
	}

	items := make([]T, len(models))
	for i := range models {
		item, err := c.toDomain(&models[i])
		if err != nil {
			return nil, mapError(err, "decode "+c.entity, c.entity, "")
		}
		items[i] = item
	}
	return items, nil
}

// Count returns the number of rows matching f.
func (c *gormCollection[M, T]) Count(ctx context.Context, f query.Filter) (int64, error) {
	tx, err := c.where(ctx, f)
	if err != nil {
		return 0, mapError(err, "count "+c.entity, c.entity, "")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, mapError(err, "count "+c.entity, c.entity, "")
	}
	return total, nil
}

// first loads one row by primary key.
func (c *gormCollection[M, T]) first(ctx context.Context, id string) (T, error) {
	var zero T
	var model M
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return zero, mapError(err, "find "+c.entity, c.entity, id)
	}
	item, err := c.toDomain(&model)
	if err != nil {
		return zero, mapError(err, "decode "+c.entity, c.entity, id)
	}
	return item, nil
}

func (c *gormCollection[M, T]) exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(new(M)).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		return false, mapError(err, "check "+c.entity, c.entity, id)
	}
	return n > 0, nil
}

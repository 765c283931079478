package relational

import (
	"context"
	"errors"
	"time"

	"fitstudio/server/internal/repository"

	"gorm.io/gorm"
)

// table implements repository.Table over one gorm model. Primary keys are
// auto-increment columns (bigserial on postgres, AUTOINCREMENT on sqlite),
// which never hand out a deleted id again.
type table[T any, P repository.Record[T]] struct {
	db  *gorm.DB
	now func() time.Time
}

func newTable[T any, P repository.Record[T]](db *gorm.DB, now func() time.Time) *table[T, P] {
	return &table[T, P]{db: db, now: now}
}

func (r *table[T, P]) Insert(ctx context.Context, record *T) error {
	P(record).SetID(0)
	if d, ok := any(record).(repository.Defaulter); ok {
		d.ApplyDefaults(r.now())
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *table[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// Update re-reads the row inside a transaction so the mutation applies to the
// latest committed state.
func (r *table[T, P]) Update(ctx context.Context, id int64, mutate func(*T)) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		mutate(&row)
		P(&row).SetID(id)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *table[T, P]) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *table[T, P]) Scan(ctx context.Context, keep func(*T) bool) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if keep == nil {
		return rows, nil
	}
	out := rows[:0]
	for i := range rows {
		if keep(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

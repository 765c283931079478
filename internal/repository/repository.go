package repository

import (
	"context"
	"errors"
	"time"

	"fitstudio/server/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Record is satisfied by pointers to entity structs that carry an int64 id.
// Backends use it to assign ids on insert.
type Record[T any] interface {
	*T
	GetID() int64
	SetID(id int64)
}

// Defaulter is implemented by records with server-managed fields. Backends
// call ApplyDefaults on insert, after the id has been assigned.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// Cloner is implemented by records holding pointers or maps. Backends that
// keep rows in process memory store and return clones of them.
type Cloner[T any] interface {
	Clone() *T
}

// Table is the per-entity-type collection contract every backend implements.
//
// Insert assigns the next unused id for the entity type (never reused, even
// after deletion), fills defaults and stores the record; the passed record is
// updated in place. Get and Update return ErrNotFound for absent ids. Update
// loads the row, applies mutate and persists the result; mutate cannot change
// the id. Scan returns every row accepted by keep (nil keeps all), in no
// guaranteed order.
type Table[T any] interface {
	Insert(ctx context.Context, record *T) error
	Get(ctx context.Context, id int64) (*T, error)
	Update(ctx context.Context, id int64, mutate func(*T)) (*T, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Scan(ctx context.Context, keep func(*T) bool) ([]T, error)
}

// Store groups one Table per entity type. Domain code depends only on this
// struct, never on the backend that filled it.
type Store struct {
	Users            Table[domain.User]
	Workouts         Table[domain.Workout]
	StudentWorkouts  Table[domain.StudentWorkout]
	Exercises        Table[domain.Exercise]
	WorkoutExercises Table[domain.WorkoutExercise]
	Sessions         Table[domain.Session]
	Payments         Table[domain.Payment]
	Progress         Table[domain.Progress]

	// Closer releases backend resources. Optional.
	Closer func(ctx context.Context) error
}

// Close releases the backend behind the store.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.Closer == nil {
		return nil
	}
	return s.Closer(ctx)
}

// First returns the first row accepted by keep, or ErrNotFound.
func First[T any](ctx context.Context, t Table[T], keep func(*T) bool) (*T, error) {
	rows, err := t.Scan(ctx, keep)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Exists reports whether any row is accepted by keep.
func Exists[T any](ctx context.Context, t Table[T], keep func(*T) bool) (bool, error) {
	_, err := First(ctx, t, keep)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

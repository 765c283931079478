package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"

	"go.uber.org/zap"
)

// Clock returns the current instant. Services stamp timestamps with it so
// tests can pin time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// SystemClock reads the wall clock.
func SystemClock() time.Time { return time.Now().UTC() }

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// requireActor rejects calls that carry no authenticated identity.
func requireActor(actor domain.Actor) error {
	if !actor.Valid() {
		return ErrNotAuthenticated
	}
	return nil
}

func requireTrainer(actor domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsTrainer() {
		return ErrTrainerOnly
	}
	return nil
}

func requireStudent(actor domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsStudent() {
		return ErrStudentOnly
	}
	return nil
}

// lookup loads a row by id, mapping a missing row to notFound.
func lookup[T any](ctx context.Context, t repository.Table[T], id int64, notFound error) (*T, error) {
	if id <= 0 {
		return nil, notFound
	}
	row, err := t.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("load %T %d: %w", row, id, err)
	}
	return row, nil
}

// lookupStudent loads id and checks it names a student. A missing or
// non-student id is a validation failure on the referencing payload.
func lookupStudent(ctx context.Context, store *repository.Store, id int64) (*domain.User, error) {
	return lookupStudentOr(ctx, store, id, ErrStudentReference)
}

// lookupStudentOr is lookupStudent with a caller-chosen failure.
func lookupStudentOr(ctx context.Context, store *repository.Store, id int64, missing error) (*domain.User, error) {
	u, err := lookup(ctx, store.Users, id, missing)
	if err != nil {
		return nil, err
	}
	if !u.IsStudent() {
		return nil, missing
	}
	return u, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

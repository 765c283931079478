// Package repositorytest holds the behavioural contract every store backend
// must pass. Backend packages call Run from their own tests.
package repositorytest

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"
)

// Run exercises the repository.Table contract against stores built by newStore.
// Each subtest receives a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) *repository.Store) {
	t.Run("InsertThenGet", func(t *testing.T) { testInsertThenGet(t, newStore(t)) })
	t.Run("IDsNeverReused", func(t *testing.T) { testIDsNeverReused(t, newStore(t)) })
	t.Run("IDsPerEntityType", func(t *testing.T) { testIDsPerEntityType(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("Scan", func(t *testing.T) { testScan(t, newStore(t)) })
	t.Run("Defaults", func(t *testing.T) { testDefaults(t, newStore(t)) })
}

func testInsertThenGet(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	desc := "squats and lunges"
	w := &domain.Workout{
		Title:           "Legs",
		Description:     &desc,
		Level:           "intermediate",
		DurationMinutes: 45,
		TrainerID:       7,
		Category:        "lower",
	}
	if err := store.Workouts.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if w.ID <= 0 {
		t.Fatalf("expected positive id, got %d", w.ID)
	}
	if w.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt default to be filled")
	}

	got, err := store.Workouts.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != w.ID || got.Title != "Legs" || got.Level != "intermediate" || got.DurationMinutes != 45 || got.TrainerID != 7 || got.Category != "lower" {
		t.Fatalf("unexpected workout: %+v", got)
	}
	if got.Description == nil || *got.Description != desc {
		t.Fatalf("expected description %q, got %v", desc, got.Description)
	}
	if got.Image != nil {
		t.Fatalf("expected nil image, got %v", *got.Image)
	}
	if !got.CreatedAt.Equal(w.CreatedAt.Truncate(time.Millisecond)) && !got.CreatedAt.Equal(w.CreatedAt) {
		t.Fatalf("expected createdAt %v, got %v", w.CreatedAt, got.CreatedAt)
	}

	if _, err := store.Workouts.Get(ctx, w.ID+100); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func testIDsNeverReused(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	var last int64
	for i := 0; i < 3; i++ {
		e := &domain.Exercise{Name: "Squat", Category: "legs", TrainerID: 1}
		if err := store.Exercises.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if e.ID <= last {
			t.Fatalf("expected id > %d, got %d", last, e.ID)
		}
		last = e.ID
	}

	removed, err := store.Exercises.Delete(ctx, last)
	if err != nil || !removed {
		t.Fatalf("expected delete of %d to succeed, got %v %v", last, removed, err)
	}

	e := &domain.Exercise{Name: "Lunge", Category: "legs", TrainerID: 1}
	if err := store.Exercises.Insert(ctx, e); err != nil {
		t.Fatalf("insert after delete: %v", err)
	}
	if e.ID <= last {
		t.Fatalf("expected id after delete to exceed %d, got %d", last, e.ID)
	}
}

func testIDsPerEntityType(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	u := &domain.User{Username: "dani@x.com", PasswordHash: "h", Name: "Dani", Role: domain.RoleTrainer}
	if err := store.Users.Insert(ctx, u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	w := &domain.Workout{Title: "Core", Level: "basic", DurationMinutes: 30, TrainerID: u.ID, Category: "core"}
	if err := store.Workouts.Insert(ctx, w); err != nil {
		t.Fatalf("insert workout: %v", err)
	}
	if u.ID != 1 || w.ID != 1 {
		t.Fatalf("expected independent counters starting at 1, got user=%d workout=%d", u.ID, w.ID)
	}
}

func testUpdate(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	u := &domain.User{Username: "ana@x.com", PasswordHash: "h", Name: "Ana", Role: domain.RoleStudent}
	if err := store.Users.Insert(ctx, u); err != nil {
		t.Fatalf("insert: %v", err)
	}

	phone := "+55 11 90000-0000"
	updated, err := store.Users.Update(ctx, u.ID, func(row *domain.User) {
		row.Phone = &phone
		row.ID = 999 // ids are immutable
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != u.ID || updated.Name != "Ana" || updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("unexpected updated user: %+v", updated)
	}

	got, err := store.Users.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phone == nil || *got.Phone != phone || got.Username != "ana@x.com" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if _, err := store.Users.Update(ctx, u.ID+50, func(*domain.User) {}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing id, got %v", err)
	}
}

func testDelete(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	p := &domain.Progress{StudentID: 3}
	if err := store.Progress.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	removed, err := store.Progress.Delete(ctx, p.ID)
	if err != nil || !removed {
		t.Fatalf("expected first delete to remove the row, got %v %v", removed, err)
	}
	removed, err = store.Progress.Delete(ctx, p.ID)
	if err != nil || removed {
		t.Fatalf("expected second delete to report false, got %v %v", removed, err)
	}
	if _, err := store.Progress.Get(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func testScan(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	for _, trainerID := range []int64{1, 2, 1, 3, 1} {
		e := &domain.Exercise{Name: "Row", Category: "back", TrainerID: trainerID}
		if err := store.Exercises.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := store.Exercises.Scan(ctx, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(all))
	}

	own, err := store.Exercises.Scan(ctx, func(e *domain.Exercise) bool { return e.TrainerID == 1 })
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(own) != 3 {
		t.Fatalf("expected 3 rows for trainer 1, got %d", len(own))
	}
	for _, e := range own {
		if e.TrainerID != 1 {
			t.Fatalf("scan returned row of trainer %d", e.TrainerID)
		}
	}

	none, err := store.Exercises.Scan(ctx, func(*domain.Exercise) bool { return false })
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no rows, got %d", len(none))
	}
}

func testDefaults(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	u := &domain.User{Username: "new@x.com", PasswordHash: "h", Name: "New"}
	if err := store.Users.Insert(ctx, u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if u.Role != domain.RoleStudent || u.JoinDate.IsZero() {
		t.Fatalf("expected student role and join date defaults, got %+v", u)
	}

	s := &domain.Session{Title: "Evaluation", Date: time.Now().UTC().Add(time.Hour), Time: "15:00", DurationMinutes: 60, Type: "evaluation", TrainerID: 1}
	if err := store.Sessions.Insert(ctx, s); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if s.Status != domain.SessionScheduled {
		t.Fatalf("expected scheduled status default, got %q", s.Status)
	}

	p := &domain.Payment{StudentID: 2, TrainerID: 1, AmountCents: 28000, Plan: "Mensal", DueDate: time.Now().UTC().Add(72 * time.Hour)}
	if err := store.Payments.Insert(ctx, p); err != nil {
		t.Fatalf("insert payment: %v", err)
	}
	if p.Status != domain.PaymentPending || p.Date.IsZero() || p.PaidDate != nil {
		t.Fatalf("expected pending payment dated now, got %+v", p)
	}

	a := &domain.StudentWorkout{StudentID: 2, WorkoutID: 1}
	if err := store.StudentWorkouts.Insert(ctx, a); err != nil {
		t.Fatalf("insert assignment: %v", err)
	}
	if a.AssignedAt.IsZero() || a.Completed || a.CompletedAt != nil {
		t.Fatalf("expected fresh assignment, got %+v", a)
	}
}

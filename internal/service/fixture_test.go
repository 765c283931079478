package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/repository/memory"

	"go.uber.org/zap"
)

var t0 = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// fixture wires every service to one in-memory store and a clock the test
// can move.
type fixture struct {
	now   time.Time
	store *repository.Store

	auth      AuthService
	users     UserService
	workouts  WorkoutService
	exercises ExerciseService
	sessions  SessionService
	payments  PaymentService
	progress  ProgressService
	dashboard DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: t0}
	clock := Clock(f.clock)
	log := zap.NewNop()
	f.store = memory.NewStore(f.clock)
	f.auth = NewAuthService(f.store, TokenConfig{Secret: "test-secret", Expiration: time.Hour}, clock, log)
	f.users = NewUserService(f.store, log)
	f.workouts = NewWorkoutService(f.store, clock, log)
	f.exercises = NewExerciseService(f.store, log)
	f.sessions = NewSessionService(f.store, time.UTC, log)
	f.payments = NewPaymentService(f.store, clock, log)
	f.progress = NewProgressService(f.store, clock, log)
	f.dashboard = NewDashboardService(f.store, clock, time.UTC, log)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) register(t *testing.T, username string, role domain.Role) domain.Actor {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Password: "secret123",
		Name:     username,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u.Actor()
}

func (f *fixture) workout(t *testing.T, trainer domain.Actor, title string) *domain.Workout {
	t.Helper()
	w, err := f.workouts.CreateWorkout(context.Background(), trainer, domain.Workout{
		Title:           title,
		Level:           "intermediate",
		DurationMinutes: 45,
		Category:        "lower",
	})
	if err != nil {
		t.Fatalf("create workout %s: %v", title, err)
	}
	return w
}

func (f *fixture) exercise(t *testing.T, trainer domain.Actor, name string) *domain.Exercise {
	t.Helper()
	e, err := f.exercises.CreateExercise(context.Background(), trainer, domain.Exercise{Name: name, Category: "legs"})
	if err != nil {
		t.Fatalf("create exercise %s: %v", name, err)
	}
	return e
}

// wantErr fails unless err matches target under errors.Is.
func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func ptr[T any](v T) *T { return &v }

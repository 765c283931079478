package service

import (
	"context"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/policy"
	"fitstudio/server/internal/repository"
)

// guard resolves the relationship facts policy needs from the store and then
// asks policy for a verdict. Missing targets are reported by the caller before
// the guard runs, so a denial here is always Forbidden.
type guard struct {
	store *repository.Store
}

func (g guard) allow(actor domain.Actor, op policy.Operation, target policy.Target, denied error) error {
	if !policy.CanPerform(actor, op, target) {
		return denied
	}
	return nil
}

// granted reports whether a StudentWorkout links studentID to workoutID.
func (g guard) granted(ctx context.Context, studentID, workoutID int64) (bool, error) {
	return repository.Exists(ctx, g.store.StudentWorkouts, func(a *domain.StudentWorkout) bool {
		return a.StudentID == studentID && a.WorkoutID == workoutID
	})
}

// workoutTarget builds the policy target for w as seen by actor.
func (g guard) workoutTarget(ctx context.Context, actor domain.Actor, w *domain.Workout) (policy.WorkoutTarget, error) {
	t := policy.WorkoutTarget{Workout: w}
	if !actor.IsStudent() {
		return t, nil
	}
	ok, err := g.granted(ctx, actor.ID, w.ID)
	if err != nil {
		return t, err
	}
	t.Granted = ok
	return t, nil
}

// coaches reports whether trainerID works with studentID: the student holds an
// assignment to one of the trainer's workouts, or the two share a session or a
// payment.
func (g guard) coaches(ctx context.Context, trainerID, studentID int64) (bool, error) {
	ok, err := repository.Exists(ctx, g.store.Payments, func(p *domain.Payment) bool {
		return p.TrainerID == trainerID && p.StudentID == studentID
	})
	if err != nil || ok {
		return ok, err
	}
	ok, err = repository.Exists(ctx, g.store.Sessions, func(s *domain.Session) bool {
		return s.TrainerID == trainerID && s.StudentID != nil && *s.StudentID == studentID
	})
	if err != nil || ok {
		return ok, err
	}
	assigned, err := g.store.StudentWorkouts.Scan(ctx, func(a *domain.StudentWorkout) bool {
		return a.StudentID == studentID
	})
	if err != nil || len(assigned) == 0 {
		return false, err
	}
	workoutIDs := make(map[int64]struct{}, len(assigned))
	for _, a := range assigned {
		workoutIDs[a.WorkoutID] = struct{}{}
	}
	return repository.Exists(ctx, g.store.Workouts, func(w *domain.Workout) bool {
		_, hit := workoutIDs[w.ID]
		return hit && w.TrainerID == trainerID
	})
}

package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/policy"
	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/stats"
	"fitstudio/server/pkg/logger"

	"go.uber.org/zap"
)

type WorkoutService interface {
	CreateWorkout(ctx context.Context, actor domain.Actor, w domain.Workout) (*domain.Workout, error)
	GetWorkout(ctx context.Context, actor domain.Actor, id int64) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, actor domain.Actor) ([]domain.Workout, error)
	ListAssignedWorkouts(ctx context.Context, actor domain.Actor) ([]stats.StudentWorkoutView, error)
	UpdateWorkout(ctx context.Context, actor domain.Actor, id int64, patch domain.WorkoutPatch) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, actor domain.Actor, id int64) error

	AssignWorkout(ctx context.Context, actor domain.Actor, workoutID, studentID int64) (*domain.StudentWorkout, error)
	CompleteWorkout(ctx context.Context, actor domain.Actor, studentID, workoutID int64) (*domain.StudentWorkout, error)
	ListAssignments(ctx context.Context, actor domain.Actor, workoutID int64) ([]domain.StudentWorkout, error)

	AddExercise(ctx context.Context, actor domain.Actor, workoutID int64, entry domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	GetWorkoutExercises(ctx context.Context, actor domain.Actor, workoutID int64) ([]domain.WorkoutExercise, error)
	RemoveExercise(ctx context.Context, actor domain.Actor, workoutID, entryID int64) error
}

type workoutService struct {
	store  *repository.Store
	guard  guard
	clock  Clock
	logger *zap.Logger
}

func NewWorkoutService(store *repository.Store, clock Clock, log *zap.Logger) WorkoutService {
	return &workoutService{
		store:  store,
		guard:  guard{store: store},
		clock:  clock,
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntityWorkout))),
	}
}

func validateWorkout(w *domain.Workout) error {
	if strings.TrimSpace(w.Title) == "" {
		return domain.Validation("title is required")
	}
	if !slices.Contains(domain.WorkoutLevels, w.Level) {
		return domain.Validation(fmt.Sprintf("level must be one of %s", strings.Join(domain.WorkoutLevels, ", ")))
	}
	if w.DurationMinutes <= 0 {
		return domain.Validation("durationMinutes must be positive")
	}
	if strings.TrimSpace(w.Category) == "" {
		return domain.Validation("category is required")
	}
	return nil
}

// CreateWorkout stores w owned by the acting trainer. Any id, owner or
// timestamp in w is replaced.
func (s *workoutService) CreateWorkout(ctx context.Context, actor domain.Actor, w domain.Workout) (*domain.Workout, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	w.ID = 0
	w.TrainerID = actor.ID
	w.CreatedAt = s.clock.now()
	if err := validateWorkout(&w); err != nil {
		return nil, err
	}
	if err := s.store.Workouts.Insert(ctx, &w); err != nil {
		return nil, err
	}
	s.logger.Info("workout created",
		zap.String(logger.FieldOperation, "create"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, w.ID),
	)
	return &w, nil
}

// loadWorkout fetches a workout and checks op against it.
func (s *workoutService) loadWorkout(ctx context.Context, actor domain.Actor, id int64, op policy.Operation) (*domain.Workout, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	w, err := lookup(ctx, s.store.Workouts, id, ErrWorkoutNotFound)
	if err != nil {
		return nil, err
	}
	target, err := s.guard.workoutTarget(ctx, actor, w)
	if err != nil {
		return nil, err
	}
	if err := s.guard.allow(actor, op, target, ErrWorkoutAccessDenied); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, actor domain.Actor, id int64) (*domain.Workout, error) {
	return s.loadWorkout(ctx, actor, id, policy.Read)
}

// ListWorkouts returns the trainer's own workouts, or the workouts granted to
// a student, newest first.
func (s *workoutService) ListWorkouts(ctx context.Context, actor domain.Actor) ([]domain.Workout, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var keep func(*domain.Workout) bool
	if actor.IsTrainer() {
		keep = func(w *domain.Workout) bool { return w.TrainerID == actor.ID }
	} else {
		granted, err := s.grantedWorkoutIDs(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		keep = func(w *domain.Workout) bool {
			_, ok := granted[w.ID]
			return ok
		}
	}
	workouts, err := s.store.Workouts.Scan(ctx, keep)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(workouts, func(a, b domain.Workout) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return workouts, nil
}

func (s *workoutService) grantedWorkoutIDs(ctx context.Context, studentID int64) (map[int64]struct{}, error) {
	assignments, err := s.store.StudentWorkouts.Scan(ctx, func(a *domain.StudentWorkout) bool {
		return a.StudentID == studentID
	})
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(assignments))
	for _, a := range assignments {
		ids[a.WorkoutID] = struct{}{}
	}
	return ids, nil
}

// ListAssignedWorkouts returns the student's workouts with completion state.
func (s *workoutService) ListAssignedWorkouts(ctx context.Context, actor domain.Actor) ([]stats.StudentWorkoutView, error) {
	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	return studentWorkoutViews(ctx, s.store, actor.ID)
}

func studentWorkoutViews(ctx context.Context, store *repository.Store, studentID int64) ([]stats.StudentWorkoutView, error) {
	assignments, err := store.StudentWorkouts.Scan(ctx, func(a *domain.StudentWorkout) bool {
		return a.StudentID == studentID
	})
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(assignments))
	for _, a := range assignments {
		ids[a.WorkoutID] = struct{}{}
	}
	workouts, err := store.Workouts.Scan(ctx, func(w *domain.Workout) bool {
		_, ok := ids[w.ID]
		return ok
	})
	if err != nil {
		return nil, err
	}
	return stats.StudentWorkoutViews(workouts, assignments), nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, actor domain.Actor, id int64, patch domain.WorkoutPatch) (*domain.Workout, error) {
	w, err := s.loadWorkout(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	patch.Apply(w)
	if err := validateWorkout(w); err != nil {
		return nil, err
	}
	return s.store.Workouts.Update(ctx, id, patch.Apply)
}

// DeleteWorkout removes the workout together with its exercise entries and
// assignments.
func (s *workoutService) DeleteWorkout(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.loadWorkout(ctx, actor, id, policy.Delete); err != nil {
		return err
	}

	entries, err := s.store.WorkoutExercises.Scan(ctx, func(e *domain.WorkoutExercise) bool { return e.WorkoutID == id })
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := s.store.WorkoutExercises.Delete(ctx, e.ID); err != nil {
			return err
		}
	}
	assignments, err := s.store.StudentWorkouts.Scan(ctx, func(a *domain.StudentWorkout) bool { return a.WorkoutID == id })
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if _, err := s.store.StudentWorkouts.Delete(ctx, a.ID); err != nil {
			return err
		}
	}
	if _, err := s.store.Workouts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("workout deleted",
		zap.String(logger.FieldOperation, "delete"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, id),
		zap.Int("entries", len(entries)),
		zap.Int("assignments", len(assignments)),
	)
	return nil
}

// AssignWorkout grants studentID access to the trainer's workout. A second
// assignment of the same pair is a Conflict.
func (s *workoutService) AssignWorkout(ctx context.Context, actor domain.Actor, workoutID, studentID int64) (*domain.StudentWorkout, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	w, err := lookup(ctx, s.store.Workouts, workoutID, ErrWorkoutNotFound)
	if err != nil {
		return nil, err
	}
	assignment := &domain.StudentWorkout{
		StudentID:  studentID,
		WorkoutID:  workoutID,
		AssignedAt: s.clock.now(),
	}
	target := policy.AssignmentTarget{Assignment: assignment, Workout: w}
	if err := s.guard.allow(actor, policy.Create, target, ErrWorkoutAccessDenied); err != nil {
		return nil, err
	}
	if _, err := lookupStudent(ctx, s.store, studentID); err != nil {
		return nil, err
	}

	exists, err := s.guard.granted(ctx, studentID, workoutID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAssignmentExists
	}
	if err := s.store.StudentWorkouts.Insert(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAssignmentExists
		}
		return nil, err
	}

	s.logger.Info("workout assigned",
		zap.String(logger.FieldOperation, "assign"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, workoutID),
		zap.Int64("student_id", studentID),
	)
	return assignment, nil
}

// CompleteWorkout marks the (studentID, workoutID) assignment done. Repeat
// calls return the assignment unchanged, keeping the first completion time.
func (s *workoutService) CompleteWorkout(ctx context.Context, actor domain.Actor, studentID, workoutID int64) (*domain.StudentWorkout, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	w, err := lookup(ctx, s.store.Workouts, workoutID, ErrWorkoutNotFound)
	if err != nil {
		return nil, err
	}
	assignment, err := repository.First(ctx, s.store.StudentWorkouts, func(a *domain.StudentWorkout) bool {
		return a.StudentID == studentID && a.WorkoutID == workoutID
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	target := policy.AssignmentTarget{Assignment: assignment, Workout: w}
	if err := s.guard.allow(actor, policy.Complete, target, ErrAssignmentDenied); err != nil {
		return nil, err
	}
	if assignment.Completed {
		return assignment, nil
	}

	now := s.clock.now()
	updated, err := s.store.StudentWorkouts.Update(ctx, assignment.ID, func(a *domain.StudentWorkout) {
		if a.Completed {
			return
		}
		a.Completed = true
		a.CompletedAt = &now
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("workout completed",
		zap.String(logger.FieldOperation, "complete"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, updated.ID),
	)
	return updated, nil
}

// ListAssignments returns the workout's assignments visible to actor: all of
// them for the owner, only their own for a student.
func (s *workoutService) ListAssignments(ctx context.Context, actor domain.Actor, workoutID int64) ([]domain.StudentWorkout, error) {
	w, err := s.loadWorkout(ctx, actor, workoutID, policy.Read)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.StudentWorkouts.Scan(ctx, func(a *domain.StudentWorkout) bool {
		return a.WorkoutID == workoutID &&
			policy.CanPerform(actor, policy.Read, policy.AssignmentTarget{Assignment: a, Workout: w})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(assignments, func(a, b domain.StudentWorkout) int { return cmp.Compare(a.ID, b.ID) })
	return assignments, nil
}

// AddExercise appends one of the trainer's exercises to the workout at the
// caller-chosen order, which must be unused in that workout.
func (s *workoutService) AddExercise(ctx context.Context, actor domain.Actor, workoutID int64, entry domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	w, err := s.loadWorkout(ctx, actor, workoutID, policy.Read)
	if err != nil {
		return nil, err
	}
	entry.ID = 0
	entry.WorkoutID = w.ID
	target := policy.WorkoutExerciseTarget{Entry: &entry, Parent: policy.WorkoutTarget{Workout: w}}
	if err := s.guard.allow(actor, policy.Create, target, ErrWorkoutAccessDenied); err != nil {
		return nil, err
	}

	ex, err := lookup(ctx, s.store.Exercises, entry.ExerciseID, ErrExerciseReference)
	if err != nil {
		return nil, err
	}
	if ex.TrainerID != w.TrainerID {
		return nil, ErrExerciseReference
	}
	for _, v := range []*int{entry.Sets, entry.Reps, entry.TimeSeconds, entry.RestSeconds} {
		if v != nil && *v < 0 {
			return nil, domain.Validation("sets, reps and times cannot be negative")
		}
	}

	taken, err := repository.Exists(ctx, s.store.WorkoutExercises, func(e *domain.WorkoutExercise) bool {
		return e.WorkoutID == w.ID && e.Order == entry.Order
	})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEntryOrderTaken
	}
	if err := s.store.WorkoutExercises.Insert(ctx, &entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEntryOrderTaken
		}
		return nil, err
	}
	return &entry, nil
}

// GetWorkoutExercises lists the workout's entries by ascending order, ties
// broken by id.
func (s *workoutService) GetWorkoutExercises(ctx context.Context, actor domain.Actor, workoutID int64) ([]domain.WorkoutExercise, error) {
	if _, err := s.loadWorkout(ctx, actor, workoutID, policy.Read); err != nil {
		return nil, err
	}
	entries, err := s.store.WorkoutExercises.Scan(ctx, func(e *domain.WorkoutExercise) bool { return e.WorkoutID == workoutID })
	if err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b domain.WorkoutExercise) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return entries, nil
}

func (s *workoutService) RemoveExercise(ctx context.Context, actor domain.Actor, workoutID, entryID int64) error {
	w, err := s.loadWorkout(ctx, actor, workoutID, policy.Read)
	if err != nil {
		return err
	}
	entry, err := lookup(ctx, s.store.WorkoutExercises, entryID, ErrEntryNotFound)
	if err != nil {
		return err
	}
	if entry.WorkoutID != w.ID {
		return ErrEntryNotFound
	}
	target := policy.WorkoutExerciseTarget{Entry: entry, Parent: policy.WorkoutTarget{Workout: w}}
	if err := s.guard.allow(actor, policy.Delete, target, ErrWorkoutAccessDenied); err != nil {
		return err
	}
	_, err = s.store.WorkoutExercises.Delete(ctx, entryID)
	return err
}

package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/policy"
	"fitstudio/server/internal/repository"
	"fitstudio/server/pkg/logger"

	"go.uber.org/zap"
)

type ExerciseService interface {
	CreateExercise(ctx context.Context, actor domain.Actor, e domain.Exercise) (*domain.Exercise, error)
	GetExercise(ctx context.Context, actor domain.Actor, id int64) (*domain.Exercise, error)
	ListExercises(ctx context.Context, actor domain.Actor, category string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, actor domain.Actor, id int64, patch domain.ExercisePatch) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, actor domain.Actor, id int64) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	store  *repository.Store
	guard  guard
	logger *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(store *repository.Store, log *zap.Logger) ExerciseService {
	return &exerciseService{
		store:  store,
		guard:  guard{store: store},
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntityExercise))),
	}
}

func validateExercise(e *domain.Exercise) error {
	if strings.TrimSpace(e.Name) == "" {
		return domain.Validation("name is required")
	}
	if strings.TrimSpace(e.Category) == "" {
		return domain.Validation("category is required")
	}
	return nil
}

// CreateExercise adds an exercise to the acting trainer's library.
func (s *exerciseService) CreateExercise(ctx context.Context, actor domain.Actor, e domain.Exercise) (*domain.Exercise, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	e.ID = 0
	e.TrainerID = actor.ID
	if err := validateExercise(&e); err != nil {
		return nil, err
	}
	if err := s.store.Exercises.Insert(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *exerciseService) loadExercise(ctx context.Context, actor domain.Actor, id int64, op policy.Operation) (*domain.Exercise, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	e, err := lookup(ctx, s.store.Exercises, id, ErrExerciseNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.allow(actor, op, policy.ExerciseTarget{Exercise: e}, ErrExerciseAccessDenied); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, actor domain.Actor, id int64) (*domain.Exercise, error) {
	return s.loadExercise(ctx, actor, id, policy.Read)
}

// ListExercises returns the trainer's library sorted by name, optionally
// narrowed to one category.
func (s *exerciseService) ListExercises(ctx context.Context, actor domain.Actor, category string) ([]domain.Exercise, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	exercises, err := s.store.Exercises.Scan(ctx, func(e *domain.Exercise) bool {
		return e.TrainerID == actor.ID && (category == "" || e.Category == category)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(exercises, func(a, b domain.Exercise) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return exercises, nil
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, actor domain.Actor, id int64, patch domain.ExercisePatch) (*domain.Exercise, error) {
	e, err := s.loadExercise(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	patch.Apply(e)
	if err := validateExercise(e); err != nil {
		return nil, err
	}
	return s.store.Exercises.Update(ctx, id, patch.Apply)
}

// DeleteExercise removes an exercise no workout refers to.
func (s *exerciseService) DeleteExercise(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.loadExercise(ctx, actor, id, policy.Delete); err != nil {
		return err
	}
	used, err := repository.Exists(ctx, s.store.WorkoutExercises, func(we *domain.WorkoutExercise) bool {
		return we.ExerciseID == id
	})
	if err != nil {
		return err
	}
	if used {
		return ErrExerciseInUse
	}
	if _, err := s.store.Exercises.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("exercise deleted",
		zap.String(logger.FieldOperation, "delete"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, id),
	)
	return nil
}

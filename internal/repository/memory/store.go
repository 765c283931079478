package memory

import (
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"
)

// Compile-time contract assertions ensuring every table satisfies repository.Table.
var (
	_ repository.Table[domain.User]            = (*Table[domain.User, *domain.User])(nil)
	_ repository.Table[domain.Workout]         = (*Table[domain.Workout, *domain.Workout])(nil)
	_ repository.Table[domain.StudentWorkout]  = (*Table[domain.StudentWorkout, *domain.StudentWorkout])(nil)
	_ repository.Table[domain.Exercise]        = (*Table[domain.Exercise, *domain.Exercise])(nil)
	_ repository.Table[domain.WorkoutExercise] = (*Table[domain.WorkoutExercise, *domain.WorkoutExercise])(nil)
	_ repository.Table[domain.Session]         = (*Table[domain.Session, *domain.Session])(nil)
	_ repository.Table[domain.Payment]         = (*Table[domain.Payment, *domain.Payment])(nil)
	_ repository.Table[domain.Progress]        = (*Table[domain.Progress, *domain.Progress])(nil)
)

// NewStore builds a store whose tables live in process memory. A nil now
// defaults to the UTC wall clock.
func NewStore(now func() time.Time) *repository.Store {
	return &repository.Store{
		Users:            NewTable[domain.User](now),
		Workouts:         NewTable[domain.Workout](now),
		StudentWorkouts:  NewTable[domain.StudentWorkout](now),
		Exercises:        NewTable[domain.Exercise](now),
		WorkoutExercises: NewTable[domain.WorkoutExercise](now),
		Sessions:         NewTable[domain.Session](now),
		Payments:         NewTable[domain.Payment](now),
		Progress:         NewTable[domain.Progress](now),
	}
}

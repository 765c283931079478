package mongo

import (
	"context"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	userCollectionName            = "users"
	workoutCollectionName         = "workouts"
	studentWorkoutCollectionName  = "student_workouts"
	exerciseCollectionName        = "exercises"
	workoutExerciseCollectionName = "workout_exercises"
	sessionCollectionName         = "sessions"
	paymentCollectionName         = "payments"
	progressCollectionName        = "progress"
)

// NewMongoStore builds a store backed by the collections of db. The client is
// disconnected when the store is closed.
func NewMongoStore(client *mongo.Client, db *mongo.Database, now func() time.Time) *repository.Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &repository.Store{
		Users:            newTable[domain.User](db, userCollectionName, now),
		Workouts:         newTable[domain.Workout](db, workoutCollectionName, now),
		StudentWorkouts:  newTable[domain.StudentWorkout](db, studentWorkoutCollectionName, now),
		Exercises:        newTable[domain.Exercise](db, exerciseCollectionName, now),
		WorkoutExercises: newTable[domain.WorkoutExercise](db, workoutExerciseCollectionName, now),
		Sessions:         newTable[domain.Session](db, sessionCollectionName, now),
		Payments:         newTable[domain.Payment](db, paymentCollectionName, now),
		Progress:         newTable[domain.Progress](db, progressCollectionName, now),
		Closer: func(ctx context.Context) error {
			if client == nil {
				return nil
			}
			return DisconnectDB(ctx, client)
		},
	}
}

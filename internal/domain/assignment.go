package domain

import (
	"time"
)

// StudentWorkout assigns a Workout to a Student. Its existence is the grant
// that lets the student read the workout.
type StudentWorkout struct {
	ID          int64      `bson:"_id" json:"id" gorm:"primaryKey"`
	StudentID   int64      `bson:"studentId" json:"studentId" gorm:"not null;uniqueIndex:idx_student_workout_pair"`
	WorkoutID   int64      `bson:"workoutId" json:"workoutId" gorm:"not null;uniqueIndex:idx_student_workout_pair"`
	AssignedAt  time.Time  `bson:"assignedAt" json:"assignedAt"`
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"` // Set once, on first completion
}

func (StudentWorkout) TableName() string { return "student_workouts" }

func (a *StudentWorkout) GetID() int64   { return a.ID }
func (a *StudentWorkout) SetID(id int64) { a.ID = id }

func (a *StudentWorkout) ApplyDefaults(now time.Time) {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = now
	}
}

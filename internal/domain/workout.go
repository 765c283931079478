package domain

import (
	"time"
)

// Workout is a training routine authored and owned by a single trainer.
type Workout struct {
	ID              int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Title           string    `bson:"title" json:"title" gorm:"not null"`
	Description     *string   `bson:"description,omitempty" json:"description,omitempty"`
	Level           string    `bson:"level" json:"level" gorm:"not null"` // "basic", "intermediate", "advanced", "all"
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes" gorm:"not null"`
	TrainerID       int64     `bson:"trainerId" json:"trainerId" gorm:"not null;index"` // Owner
	Category        string    `bson:"category" json:"category" gorm:"not null"`         // "lower", "upper", "core", "full", "cardio", "hiit", "mobility"
	Image           *string   `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

func (Workout) TableName() string { return "workouts" }

func (w *Workout) GetID() int64   { return w.ID }
func (w *Workout) SetID(id int64) { w.ID = id }

func (w *Workout) ApplyDefaults(now time.Time) {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
}

// WorkoutLevels lists the accepted values for Workout.Level.
var WorkoutLevels = []string{"basic", "intermediate", "advanced", "all"}

// WorkoutPatch carries the mutable workout fields. Nil fields are left untouched.
type WorkoutPatch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Level           *string `json:"level,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Category        *string `json:"category,omitempty"`
	Image           *string `json:"image,omitempty"`
}

func (p WorkoutPatch) Apply(w *Workout) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Description != nil {
		w.Description = p.Description
	}
	if p.Level != nil {
		w.Level = *p.Level
	}
	if p.DurationMinutes != nil {
		w.DurationMinutes = *p.DurationMinutes
	}
	if p.Category != nil {
		w.Category = *p.Category
	}
	if p.Image != nil {
		w.Image = p.Image
	}
}

// WorkoutExercise places an exercise inside a workout. Order is unique within
// a workout and defines iteration order; it need not be contiguous.
type WorkoutExercise struct {
	ID          int64   `bson:"_id" json:"id" gorm:"primaryKey"`
	WorkoutID   int64   `bson:"workoutId" json:"workoutId" gorm:"not null;uniqueIndex:idx_workout_exercise_order"`
	ExerciseID  int64   `bson:"exerciseId" json:"exerciseId" gorm:"not null;index"`
	Sets        *int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        *int    `bson:"reps,omitempty" json:"reps,omitempty"`
	TimeSeconds *int    `bson:"timeSeconds,omitempty" json:"timeSeconds,omitempty"` // For timed exercises
	RestSeconds *int    `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes       *string `bson:"notes,omitempty" json:"notes,omitempty"`
	Order       int     `bson:"order" json:"order" gorm:"not null;uniqueIndex:idx_workout_exercise_order"`
}

func (WorkoutExercise) TableName() string { return "workout_exercises" }

func (e *WorkoutExercise) GetID() int64   { return e.ID }
func (e *WorkoutExercise) SetID(id int64) { e.ID = id }

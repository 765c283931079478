package domain

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// Valid reports whether the actor carries a usable id and a known role.
func (a Actor) Valid() bool {
	return a.ID > 0 && a.Role.Valid()
}

func (a Actor) IsTrainer() bool { return a.Role == RoleTrainer }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

// Entity names the persisted entity types.
type Entity string

const (
	EntityUser            Entity = "user"
	EntityWorkout         Entity = "workout"
	EntityStudentWorkout  Entity = "student_workout"
	EntityExercise        Entity = "exercise"
	EntityWorkoutExercise Entity = "workout_exercise"
	EntitySession         Entity = "session"
	EntityPayment         Entity = "payment"
	EntityProgress        Entity = "progress"
)

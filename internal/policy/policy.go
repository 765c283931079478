// Package policy decides whether an actor may perform an operation on an
// entity instance. Every function here is pure: relationship facts that need a
// store lookup (workout grants, coaching links) are resolved by the caller and
// passed in on the target.
package policy

import (
	"fitstudio/server/internal/domain"
)

// Operation is the intent being authorized.
type Operation string

const (
	Read     Operation = "read"
	Create   Operation = "create"
	Update   Operation = "update"
	Delete   Operation = "delete"
	Complete Operation = "complete" // mark a workout assignment done
)

// Target is an entity instance plus the facts needed to judge access to it.
type Target interface {
	Entity() domain.Entity
}

type UserTarget struct {
	User *domain.User
}

// WorkoutTarget carries Granted: a StudentWorkout links the acting student to
// this workout.
type WorkoutTarget struct {
	Workout *domain.Workout
	Granted bool
}

// AssignmentTarget carries the workout the assignment points at, whose owner
// controls the assignment.
type AssignmentTarget struct {
	Assignment *domain.StudentWorkout
	Workout    *domain.Workout
}

type ExerciseTarget struct {
	Exercise *domain.Exercise
}

// WorkoutExerciseTarget inherits read access from its parent workout. Entry may
// be nil when authorizing a listing of the workout's entries.
type WorkoutExerciseTarget struct {
	Entry  *domain.WorkoutExercise
	Parent WorkoutTarget
}

type SessionTarget struct {
	Session *domain.Session
}

type PaymentTarget struct {
	Payment *domain.Payment
}

// ProgressTarget carries Coached: the acting trainer has a working
// relationship with the student (an assignment, session or payment).
type ProgressTarget struct {
	Progress *domain.Progress
	Coached  bool
}

func (UserTarget) Entity() domain.Entity            { return domain.EntityUser }
func (WorkoutTarget) Entity() domain.Entity         { return domain.EntityWorkout }
func (AssignmentTarget) Entity() domain.Entity      { return domain.EntityStudentWorkout }
func (ExerciseTarget) Entity() domain.Entity        { return domain.EntityExercise }
func (WorkoutExerciseTarget) Entity() domain.Entity { return domain.EntityWorkoutExercise }
func (SessionTarget) Entity() domain.Entity         { return domain.EntitySession }
func (PaymentTarget) Entity() domain.Entity         { return domain.EntityPayment }
func (ProgressTarget) Entity() domain.Entity        { return domain.EntityProgress }

// CanPerform reports whether actor may perform op on target. Unknown targets,
// nil rows and invalid actors are always denied.
func CanPerform(actor domain.Actor, op Operation, target Target) bool {
	if !actor.Valid() || target == nil {
		return false
	}
	switch t := target.(type) {
	case UserTarget:
		return canUser(actor, op, t)
	case WorkoutTarget:
		return canWorkout(actor, op, t)
	case AssignmentTarget:
		return canAssignment(actor, op, t)
	case ExerciseTarget:
		return canExercise(actor, op, t)
	case WorkoutExerciseTarget:
		return canWorkoutExercise(actor, op, t)
	case SessionTarget:
		return canSession(actor, op, t)
	case PaymentTarget:
		return canPayment(actor, op, t)
	case ProgressTarget:
		return canProgress(actor, op, t)
	}
	return false
}

// owns reports whether actor is the trainer stored as trainerID.
func owns(actor domain.Actor, trainerID int64) bool {
	return actor.IsTrainer() && actor.ID == trainerID
}

func isStudent(actor domain.Actor, studentID int64) bool {
	return actor.IsStudent() && actor.ID == studentID
}

func canUser(actor domain.Actor, op Operation, t UserTarget) bool {
	if t.User == nil {
		return false
	}
	self := actor.ID == t.User.ID && actor.Role == t.User.Role
	switch op {
	case Read:
		return self || actor.IsTrainer()
	case Update:
		return self
	}
	// Users are created by registration and never deleted.
	return false
}

func canWorkout(actor domain.Actor, op Operation, t WorkoutTarget) bool {
	if t.Workout == nil {
		return false
	}
	switch op {
	case Read:
		return owns(actor, t.Workout.TrainerID) || (actor.IsStudent() && t.Granted)
	case Create, Update, Delete:
		return owns(actor, t.Workout.TrainerID)
	}
	return false
}

func canAssignment(actor domain.Actor, op Operation, t AssignmentTarget) bool {
	if t.Assignment == nil || t.Workout == nil || t.Assignment.WorkoutID != t.Workout.ID {
		return false
	}
	trainer := owns(actor, t.Workout.TrainerID)
	switch op {
	case Read, Complete:
		return trainer || isStudent(actor, t.Assignment.StudentID)
	case Create, Update, Delete:
		return trainer
	}
	return false
}

func canExercise(actor domain.Actor, op Operation, t ExerciseTarget) bool {
	if t.Exercise == nil {
		return false
	}
	switch op {
	case Read, Create, Update, Delete:
		return owns(actor, t.Exercise.TrainerID)
	}
	return false
}

func canWorkoutExercise(actor domain.Actor, op Operation, t WorkoutExerciseTarget) bool {
	if t.Parent.Workout == nil {
		return false
	}
	if t.Entry != nil && t.Entry.WorkoutID != t.Parent.Workout.ID {
		return false
	}
	switch op {
	case Read:
		return canWorkout(actor, Read, t.Parent)
	case Create, Update, Delete:
		return owns(actor, t.Parent.Workout.TrainerID)
	}
	return false
}

func canSession(actor domain.Actor, op Operation, t SessionTarget) bool {
	s := t.Session
	if s == nil {
		return false
	}
	switch op {
	case Read:
		if owns(actor, s.TrainerID) {
			return true
		}
		if !actor.IsStudent() {
			return false
		}
		return s.IsOpenGroup() || (s.StudentID != nil && *s.StudentID == actor.ID)
	case Create, Update, Delete, Complete:
		return owns(actor, s.TrainerID)
	}
	return false
}

func canPayment(actor domain.Actor, op Operation, t PaymentTarget) bool {
	if t.Payment == nil {
		return false
	}
	switch op {
	case Read:
		return owns(actor, t.Payment.TrainerID) || isStudent(actor, t.Payment.StudentID)
	case Create, Update, Delete:
		return owns(actor, t.Payment.TrainerID)
	}
	return false
}

func canProgress(actor domain.Actor, op Operation, t ProgressTarget) bool {
	if t.Progress == nil {
		return false
	}
	self := isStudent(actor, t.Progress.StudentID)
	switch op {
	case Read:
		return self || (actor.IsTrainer() && t.Coached)
	case Create, Update, Delete:
		return self
	}
	return false
}

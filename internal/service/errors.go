package service

import (
	"errors"

	"fitstudio/server/internal/domain"
)

// Domain failures. Each carries a domain.ErrorKind, so callers can match either
// the specific value or the kind sentinel (errors.Is(err, domain.ErrNotFound)).
var (
	ErrNotAuthenticated = domain.Unauthenticated("authentication required")
	ErrTrainerOnly      = domain.Forbidden("only trainers can perform this action")
	ErrStudentOnly      = domain.Forbidden("only students can perform this action")

	ErrUserNotFound         = domain.NotFound("user not found")
	ErrUserAccessDenied     = domain.Forbidden("access denied to this user")
	ErrUsernameTaken        = domain.Conflict("username is already taken")
	ErrAuthenticationFailed = domain.Unauthenticated("invalid username or password")
	ErrInvalidToken         = domain.Unauthenticated("invalid or expired token")
	ErrStudentReference     = domain.Validation("studentId must reference an existing student")

	ErrWorkoutNotFound      = domain.NotFound("workout not found")
	ErrWorkoutAccessDenied  = domain.Forbidden("access denied to this workout")
	ErrAssignmentNotFound   = domain.NotFound("workout is not assigned to this student")
	ErrAssignmentExists     = domain.Conflict("workout is already assigned to this student")
	ErrAssignmentDenied     = domain.Forbidden("access denied to this assignment")
	ErrEntryNotFound        = domain.NotFound("workout exercise not found")
	ErrEntryOrderTaken      = domain.Conflict("order is already used in this workout")
	ErrExerciseNotFound     = domain.NotFound("exercise not found")
	ErrExerciseAccessDenied = domain.Forbidden("access denied to this exercise")
	ErrExerciseInUse        = domain.Conflict("exercise is used by a workout")
	ErrExerciseReference    = domain.Validation("exerciseId must reference one of your exercises")

	ErrSessionNotFound     = domain.NotFound("session not found")
	ErrSessionAccessDenied = domain.Forbidden("access denied to this session")
	ErrSessionCanceled     = domain.Validation("session is canceled")

	ErrPaymentNotFound      = domain.NotFound("payment not found")
	ErrPaymentAccessDenied  = domain.Forbidden("access denied to this payment")
	ErrInvalidPaymentStatus = domain.Validation("status must be one of pending, paid, overdue, canceled")

	ErrProgressAccessDenied = domain.Forbidden("access denied to this progress history")
)

// Infrastructure failures, surfaced as internal errors.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrTokenGeneration = errors.New("failed to generate authentication token")
)

package stats

import (
	"cmp"
	"slices"
	"time"

	"fitstudio/server/internal/domain"
)

// WorkoutPopularity ranks a workout by how often it has been assigned.
type WorkoutPopularity struct {
	Workout     domain.Workout `json:"workout"`
	Assignments int            `json:"assignments"`
	Completions int            `json:"completions"`
}

// PopularWorkouts ranks workouts by assignment count, most assigned first and
// ties broken by id. Workouts never assigned are left out.
func PopularWorkouts(workouts []domain.Workout, assignments []domain.StudentWorkout, limit int) []WorkoutPopularity {
	byID := make(map[int64]*WorkoutPopularity, len(workouts))
	for _, w := range workouts {
		byID[w.ID] = &WorkoutPopularity{Workout: w}
	}
	for _, a := range assignments {
		p, ok := byID[a.WorkoutID]
		if !ok {
			continue
		}
		p.Assignments++
		if a.Completed {
			p.Completions++
		}
	}

	out := make([]WorkoutPopularity, 0, len(byID))
	for _, p := range byID {
		if p.Assignments > 0 {
			out = append(out, *p)
		}
	}
	slices.SortFunc(out, func(a, b WorkoutPopularity) int {
		if c := cmp.Compare(b.Assignments, a.Assignments); c != 0 {
			return c
		}
		return cmp.Compare(a.Workout.ID, b.Workout.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// StudentWorkoutView is a workout as seen by the student it was assigned to.
type StudentWorkoutView struct {
	AssignmentID int64          `json:"assignmentId"`
	Workout      domain.Workout `json:"workout"`
	AssignedAt   time.Time      `json:"assignedAt"`
	Completed    bool           `json:"completed"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
}

// StudentWorkoutViews joins assignments to their workouts, most recently
// assigned first. Assignments whose workout is missing are skipped.
func StudentWorkoutViews(workouts []domain.Workout, assignments []domain.StudentWorkout) []StudentWorkoutView {
	byID := make(map[int64]domain.Workout, len(workouts))
	for _, w := range workouts {
		byID[w.ID] = w
	}
	out := make([]StudentWorkoutView, 0, len(assignments))
	for _, a := range assignments {
		w, ok := byID[a.WorkoutID]
		if !ok {
			continue
		}
		out = append(out, StudentWorkoutView{
			AssignmentID: a.ID,
			Workout:      w,
			AssignedAt:   a.AssignedAt,
			Completed:    a.Completed,
			CompletedAt:  a.CompletedAt,
		})
	}
	slices.SortFunc(out, func(a, b StudentWorkoutView) int {
		if c := b.AssignedAt.Compare(a.AssignedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.AssignmentID, a.AssignmentID)
	})
	return out
}

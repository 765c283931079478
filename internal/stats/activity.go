package stats

import (
	"cmp"
	"slices"
	"time"

	"fitstudio/server/internal/domain"
)

// ActivityKind names an entry in a trainer's activity feed.
type ActivityKind string

const (
	ActivityWorkoutCompleted ActivityKind = "workout_completed"
	ActivityPaymentReceived  ActivityKind = "payment_received"
	ActivitySessionCanceled  ActivityKind = "session_canceled"
)

// Activity is one line of the feed.
type Activity struct {
	Kind        ActivityKind  `json:"kind"`
	At          time.Time     `json:"at"`
	Entity      domain.Entity `json:"entity"`
	EntityID    int64         `json:"entityId"`
	StudentID   *int64        `json:"studentId,omitempty"`
	Title       string        `json:"title"`
	AmountCents *int64        `json:"amountCents,omitempty"`
}

// Feed is the input for RecentActivities. Rows not belonging to TrainerID are
// ignored.
type Feed struct {
	TrainerID   int64
	Workouts    []domain.Workout
	Assignments []domain.StudentWorkout
	Payments    []domain.Payment
	Sessions    []domain.Session
}

// RecentActivities lists workout completions, settled payments and canceled
// sessions for the trainer, newest first. Canceled sessions are stamped with
// their scheduled date since no cancel time is stored.
func RecentActivities(f Feed, limit int) []Activity {
	var out []Activity

	owned := make(map[int64]domain.Workout)
	for _, w := range f.Workouts {
		if w.TrainerID == f.TrainerID {
			owned[w.ID] = w
		}
	}
	for _, a := range f.Assignments {
		w, ok := owned[a.WorkoutID]
		if !ok || !a.Completed || a.CompletedAt == nil {
			continue
		}
		studentID := a.StudentID
		out = append(out, Activity{
			Kind:      ActivityWorkoutCompleted,
			At:        *a.CompletedAt,
			Entity:    domain.EntityStudentWorkout,
			EntityID:  a.ID,
			StudentID: &studentID,
			Title:     w.Title,
		})
	}

	for _, p := range f.Payments {
		if p.TrainerID != f.TrainerID {
			continue
		}
		at, ok := settledAt(p)
		if !ok {
			continue
		}
		studentID, amount := p.StudentID, p.AmountCents
		out = append(out, Activity{
			Kind:        ActivityPaymentReceived,
			At:          at,
			Entity:      domain.EntityPayment,
			EntityID:    p.ID,
			StudentID:   &studentID,
			Title:       p.Plan,
			AmountCents: &amount,
		})
	}

	for _, s := range f.Sessions {
		if s.TrainerID != f.TrainerID || s.Status != domain.SessionCanceled {
			continue
		}
		out = append(out, Activity{
			Kind:      ActivitySessionCanceled,
			At:        s.Date,
			Entity:    domain.EntitySession,
			EntityID:  s.ID,
			StudentID: s.StudentID,
			Title:     s.Title,
		})
	}

	slices.SortFunc(out, func(a, b Activity) int {
		if c := b.At.Compare(a.At); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(b.EntityID, a.EntityID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// settledAt is when a paid payment was received. Rows without a paidDate fall
// back to the charge date.
func settledAt(p domain.Payment) (time.Time, bool) {
	if p.Status != domain.PaymentPaid {
		return time.Time{}, false
	}
	if p.PaidDate != nil {
		return *p.PaidDate, true
	}
	return p.Date, true
}

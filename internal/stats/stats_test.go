package stats

import (
	"testing"
	"time"

	"fitstudio/server/internal/domain"
)

var now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestDayWindowUsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:00 UTC on the 16th is still the 15th in BRT.
	w := DayWindow(time.Date(2026, time.March, 16, 1, 0, 0, 0, time.UTC), loc)
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, loc)
	if !w.From.Equal(want) {
		t.Fatalf("From = %v, want %v", w.From, want)
	}
	if got := w.To.Sub(w.From); got != 24*time.Hour {
		t.Fatalf("window length = %v", got)
	}
	if w.Contains(w.To) {
		t.Fatal("window end must be exclusive")
	}
}

func TestUpcomingSessionsCount(t *testing.T) {
	sessions := []domain.Session{
		{ID: 1, TrainerID: 1, Status: domain.SessionScheduled, Date: now},
		{ID: 2, TrainerID: 1, Status: domain.SessionScheduled, Date: now.Add(UpcomingHorizon)},
		{ID: 3, TrainerID: 1, Status: domain.SessionScheduled, Date: now.Add(UpcomingHorizon + time.Second)},
		{ID: 4, TrainerID: 1, Status: domain.SessionScheduled, Date: now.Add(-time.Second)},
		{ID: 5, TrainerID: 1, Status: domain.SessionCanceled, Date: now.Add(time.Hour)},
		{ID: 6, TrainerID: 2, Status: domain.SessionScheduled, Date: now.Add(time.Hour)},
		{ID: 7, TrainerID: 1, Status: domain.SessionScheduled, Date: now.Add(48 * time.Hour)},
	}
	if got := UpcomingSessionsCount(sessions, 1, now); got != 3 {
		t.Fatalf("UpcomingSessionsCount = %d, want 3", got)
	}

	got := UpcomingSessions(sessions, now, 2)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 6 {
		t.Fatalf("UpcomingSessions = %+v", got)
	}
}

func TestFilterSessionsAscending(t *testing.T) {
	day := DayWindow(now, time.UTC)
	sessions := []domain.Session{
		{ID: 1, Date: day.From.Add(18 * time.Hour), Time: "18:00"},
		{ID: 2, Date: day.From.Add(7 * time.Hour), Time: "07:00"},
		{ID: 3, Date: day.To, Time: "00:00"},
		{ID: 4, Date: day.From, Time: "00:00"},
	}
	got := FilterSessions(sessions, day)
	if len(got) != 3 {
		t.Fatalf("got %d sessions, want 3", len(got))
	}
	for i, id := range []int64{4, 2, 1} {
		if got[i].ID != id {
			t.Fatalf("position %d: id %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestRevenueCountsPaidInsideMonth(t *testing.T) {
	month := MonthWindow(now, time.UTC)
	inMonth := now.Add(-24 * time.Hour)
	lastMonth := month.From.Add(-time.Second)
	payments := []domain.Payment{
		{ID: 1, TrainerID: 1, AmountCents: 28000, Status: domain.PaymentPaid, Date: inMonth, PaidDate: &inMonth},
		{ID: 2, TrainerID: 1, AmountCents: 10000, Status: domain.PaymentPending, Date: inMonth},
		// Charged last month, settled this month: counts toward last month.
		{ID: 3, TrainerID: 1, AmountCents: 5000, Status: domain.PaymentPaid, Date: lastMonth, PaidDate: &inMonth},
		{ID: 4, TrainerID: 2, AmountCents: 7000, Status: domain.PaymentPaid, Date: inMonth, PaidDate: &inMonth},
		{ID: 5, TrainerID: 1, AmountCents: 1500, Status: domain.PaymentPaid, Date: month.From},
	}
	if got := Revenue(payments, 1, month); got != 29500 {
		t.Fatalf("Revenue = %d, want 29500", got)
	}

	chart := RevenueChart(payments, 1, now, time.UTC, 3)
	if len(chart) != 3 {
		t.Fatalf("chart has %d months", len(chart))
	}
	if chart[0].Month != "2026-01" || chart[2].Month != "2026-03" {
		t.Fatalf("chart months = %s..%s", chart[0].Month, chart[2].Month)
	}
	if chart[1].AmountCents != 5000 || chart[2].AmountCents != 29500 {
		t.Fatalf("chart = %+v", chart)
	}
}

func TestRevenueUsesChargeDate(t *testing.T) {
	charged := time.Date(2026, time.February, 27, 10, 0, 0, 0, time.UTC)
	paid := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	payments := []domain.Payment{
		{ID: 1, TrainerID: 1, AmountCents: 28000, Status: domain.PaymentPaid, Date: charged, PaidDate: &paid},
	}
	march := MonthWindow(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	if got := Revenue(payments, 1, march); got != 0 {
		t.Fatalf("March revenue = %d, want 0", got)
	}
	february := MonthWindow(charged, time.UTC)
	if got := Revenue(payments, 1, february); got != 28000 {
		t.Fatalf("February revenue = %d, want 28000", got)
	}
}

func TestSortPaymentsAndProgressDesc(t *testing.T) {
	payments := []domain.Payment{
		{ID: 1, Date: now.Add(-time.Hour)},
		{ID: 2, Date: now},
		{ID: 3, Date: now.Add(-2 * time.Hour)},
	}
	SortPaymentsDesc(payments)
	if payments[0].ID != 2 || payments[2].ID != 3 {
		t.Fatalf("payments = %+v", payments)
	}

	entries := []domain.Progress{
		{ID: 1, Date: now.AddDate(0, 0, -7)},
		{ID: 2, Date: now.AddDate(0, 0, -14)},
		{ID: 3, Date: now},
	}
	SortProgressDesc(entries)
	if entries[0].ID != 3 || entries[2].ID != 2 {
		t.Fatalf("progress = %+v", entries)
	}
}

func TestCountStudents(t *testing.T) {
	users := []domain.User{
		{ID: 1, Role: domain.RoleTrainer},
		{ID: 2, Role: domain.RoleStudent},
		{ID: 3, Role: domain.RoleStudent},
	}
	if got := CountStudents(users); got != 2 {
		t.Fatalf("CountStudents = %d", got)
	}
	if got := CountActiveStudents(users); got != 2 {
		t.Fatalf("CountActiveStudents = %d", got)
	}
}

func TestPopularWorkouts(t *testing.T) {
	workouts := []domain.Workout{{ID: 1, Title: "Legs"}, {ID: 2, Title: "Core"}, {ID: 3, Title: "HIIT"}}
	assignments := []domain.StudentWorkout{
		{ID: 1, WorkoutID: 2, StudentID: 10},
		{ID: 2, WorkoutID: 2, StudentID: 11, Completed: true},
		{ID: 3, WorkoutID: 1, StudentID: 10},
		{ID: 4, WorkoutID: 3, StudentID: 10},
		{ID: 5, WorkoutID: 99, StudentID: 10},
	}
	got := PopularWorkouts(workouts, assignments, 2)
	if len(got) != 2 {
		t.Fatalf("got %d workouts", len(got))
	}
	if got[0].Workout.ID != 2 || got[0].Assignments != 2 || got[0].Completions != 1 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Workout.ID != 1 {
		t.Fatalf("tie should break on id, got %d", got[1].Workout.ID)
	}
}

func TestStudentWorkoutViews(t *testing.T) {
	workouts := []domain.Workout{{ID: 1, Title: "Legs"}, {ID: 2, Title: "Core"}}
	done := now.Add(-time.Hour)
	assignments := []domain.StudentWorkout{
		{ID: 1, WorkoutID: 1, AssignedAt: now.AddDate(0, 0, -2), Completed: true, CompletedAt: &done},
		{ID: 2, WorkoutID: 2, AssignedAt: now.AddDate(0, 0, -1)},
		{ID: 3, WorkoutID: 42, AssignedAt: now},
	}
	got := StudentWorkoutViews(workouts, assignments)
	if len(got) != 2 {
		t.Fatalf("got %d views", len(got))
	}
	if got[0].Workout.Title != "Core" || got[1].Workout.Title != "Legs" || !got[1].Completed {
		t.Fatalf("views = %+v", got)
	}
}

func TestRecentActivities(t *testing.T) {
	done := now.Add(-3 * time.Hour)
	paid := now.Add(-time.Hour)
	feed := Feed{
		TrainerID: 1,
		Workouts:  []domain.Workout{{ID: 1, TrainerID: 1, Title: "Legs"}, {ID: 2, TrainerID: 2, Title: "Other"}},
		Assignments: []domain.StudentWorkout{
			{ID: 1, WorkoutID: 1, StudentID: 10, Completed: true, CompletedAt: &done},
			{ID: 2, WorkoutID: 2, StudentID: 10, Completed: true, CompletedAt: &done},
			{ID: 3, WorkoutID: 1, StudentID: 11},
		},
		Payments: []domain.Payment{
			{ID: 1, TrainerID: 1, StudentID: 10, Plan: "Mensal", AmountCents: 28000, Status: domain.PaymentPaid, PaidDate: &paid},
			{ID: 2, TrainerID: 1, StudentID: 10, Status: domain.PaymentPending},
		},
		Sessions: []domain.Session{
			{ID: 1, TrainerID: 1, Title: "Avaliação", Status: domain.SessionCanceled, Date: now.Add(-2 * time.Hour), StudentID: ptr(int64(10))},
			{ID: 2, TrainerID: 1, Status: domain.SessionScheduled, Date: now},
		},
	}
	got := RecentActivities(feed, 0)
	want := []ActivityKind{ActivityPaymentReceived, ActivitySessionCanceled, ActivityWorkoutCompleted}
	if len(got) != len(want) {
		t.Fatalf("got %d activities, want %d: %+v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Fatalf("position %d: %s, want %s", i, got[i].Kind, k)
		}
	}
	if *got[0].AmountCents != 28000 {
		t.Fatalf("amount = %d", *got[0].AmountCents)
	}
	if limited := RecentActivities(feed, 1); len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}
}

package service

import (
	"context"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/policy"
	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/stats"
	"fitstudio/server/pkg/logger"

	"go.uber.org/zap"
)

const (
	dashboardUpcomingLimit = 5
	dashboardActivityLimit = 10
	dashboardPopularLimit  = 5
	dashboardProgressLimit = 10
	dashboardPaymentLimit  = 10
	revenueChartMonths     = 6
)

// TrainerDashboard is the landing view for a trainer.
type TrainerDashboard struct {
	StudentCount          int                       `json:"studentCount"`
	ActiveStudentCount    int                       `json:"activeStudentCount"`
	MonthlyRevenueCents   int64                     `json:"monthlyRevenueCents"`
	UpcomingSessionsCount int                       `json:"upcomingSessionsCount"`
	UpcomingSessions      []domain.Session          `json:"upcomingSessions"`
	TodaySessions         []domain.Session          `json:"todaySessions"`
	RecentActivities      []stats.Activity          `json:"recentActivities"`
	PopularWorkouts       []stats.WorkoutPopularity `json:"popularWorkouts"`
	RevenueChart          []stats.MonthRevenue      `json:"revenueChart"`
}

// StudentDashboard is the landing view for a student.
type StudentDashboard struct {
	Workouts          []stats.StudentWorkoutView `json:"workouts"`
	CompletedWorkouts int                        `json:"completedWorkouts"`
	UpcomingSessions  []domain.Session           `json:"upcomingSessions"`
	Progress          []domain.Progress          `json:"progress"`
	Payments          []domain.Payment           `json:"payments"`
	OutstandingCents  int64                      `json:"outstandingCents"` // pending plus overdue
}

// Dashboard carries exactly one of Trainer or Student, matching Role.
type Dashboard struct {
	Role    domain.Role       `json:"role"`
	Trainer *TrainerDashboard `json:"trainer,omitempty"`
	Student *StudentDashboard `json:"student,omitempty"`
}

type DashboardService interface {
	Dashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error)
}

type dashboardService struct {
	store  *repository.Store
	clock  Clock
	loc    *time.Location
	logger *zap.Logger
}

func NewDashboardService(store *repository.Store, clock Clock, loc *time.Location, log *zap.Logger) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		store:  store,
		clock:  clock,
		loc:    loc,
		logger: nopIfNil(log),
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.IsTrainer() {
		d, err := s.trainer(ctx, actor)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Role: domain.RoleTrainer, Trainer: d}, nil
	}
	d, err := s.student(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: domain.RoleStudent, Student: d}, nil
}

func (s *dashboardService) trainer(ctx context.Context, actor domain.Actor) (*TrainerDashboard, error) {
	now := s.clock.now()
	students, err := s.store.Users.Scan(ctx, (*domain.User).IsStudent)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.Scan(ctx, func(x *domain.Session) bool { return x.TrainerID == actor.ID })
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments.Scan(ctx, func(p *domain.Payment) bool { return p.TrainerID == actor.ID })
	if err != nil {
		return nil, err
	}
	workouts, err := s.store.Workouts.Scan(ctx, func(w *domain.Workout) bool { return w.TrainerID == actor.ID })
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]struct{}, len(workouts))
	for _, w := range workouts {
		owned[w.ID] = struct{}{}
	}
	assignments, err := s.store.StudentWorkouts.Scan(ctx, func(a *domain.StudentWorkout) bool {
		_, ok := owned[a.WorkoutID]
		return ok
	})
	if err != nil {
		return nil, err
	}

	d := &TrainerDashboard{
		StudentCount:          stats.CountStudents(students),
		ActiveStudentCount:    stats.CountActiveStudents(students),
		MonthlyRevenueCents:   stats.Revenue(payments, actor.ID, stats.MonthWindow(now, s.loc)),
		UpcomingSessionsCount: stats.UpcomingSessionsCount(sessions, actor.ID, now),
		UpcomingSessions:      stats.UpcomingSessions(sessions, now, dashboardUpcomingLimit),
		TodaySessions:         stats.FilterSessions(sessions, stats.DayWindow(now, s.loc)),
		RecentActivities: stats.RecentActivities(stats.Feed{
			TrainerID:   actor.ID,
			Workouts:    workouts,
			Assignments: assignments,
			Payments:    payments,
			Sessions:    sessions,
		}, dashboardActivityLimit),
		PopularWorkouts: stats.PopularWorkouts(workouts, assignments, dashboardPopularLimit),
		RevenueChart:    stats.RevenueChart(payments, actor.ID, now, s.loc, revenueChartMonths),
	}
	s.logger.Debug("trainer dashboard built",
		zap.String(logger.FieldOperation, "dashboard"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int("sessions", len(sessions)),
		zap.Int("payments", len(payments)),
	)
	return d, nil
}

func (s *dashboardService) student(ctx context.Context, actor domain.Actor) (*StudentDashboard, error) {
	now := s.clock.now()
	views, err := studentWorkoutViews(ctx, s.store, actor.ID)
	if err != nil {
		return nil, err
	}
	sessions, err := visibleSessions(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	progress, err := s.store.Progress.Scan(ctx, func(p *domain.Progress) bool { return p.StudentID == actor.ID })
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments.Scan(ctx, func(p *domain.Payment) bool {
		return policy.CanPerform(actor, policy.Read, policy.PaymentTarget{Payment: p})
	})
	if err != nil {
		return nil, err
	}

	d := &StudentDashboard{
		Workouts:         views,
		UpcomingSessions: stats.UpcomingSessions(sessions, now, dashboardUpcomingLimit),
	}
	for _, v := range views {
		if v.Completed {
			d.CompletedWorkouts++
		}
	}
	for _, p := range payments {
		if p.Status == domain.PaymentPending || p.Status == domain.PaymentOverdue {
			d.OutstandingCents += p.AmountCents
		}
	}
	stats.SortProgressDesc(progress)
	d.Progress = truncate(progress, dashboardProgressLimit)
	stats.SortPaymentsDesc(payments)
	d.Payments = truncate(payments, dashboardPaymentLimit)
	return d, nil
}

func truncate[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

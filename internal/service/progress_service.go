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

// ProgressRange bounds ListProgress by date, both ends inclusive. Nil ends
// are open.
type ProgressRange struct {
	From *time.Time
	To   *time.Time
}

func (r ProgressRange) contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

type ProgressService interface {
	RecordProgress(ctx context.Context, actor domain.Actor, p domain.Progress) (*domain.Progress, error)
	// ListProgress returns studentID's history, newest first. A zero
	// studentID means the acting student.
	ListProgress(ctx context.Context, actor domain.Actor, studentID int64, r ProgressRange) ([]domain.Progress, error)
}

type progressService struct {
	store  *repository.Store
	guard  guard
	clock  Clock
	logger *zap.Logger
}

func NewProgressService(store *repository.Store, clock Clock, log *zap.Logger) ProgressService {
	return &progressService{
		store:  store,
		guard:  guard{store: store},
		clock:  clock,
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntityProgress))),
	}
}

// RecordProgress stores a measurement reported by the acting student.
func (s *progressService) RecordProgress(ctx context.Context, actor domain.Actor, p domain.Progress) (*domain.Progress, error) {
	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	p.ID = 0
	p.StudentID = actor.ID
	if p.Date.IsZero() {
		p.Date = s.clock.now()
	}
	p.Date = p.Date.UTC()
	if err := s.guard.allow(actor, policy.Create, policy.ProgressTarget{Progress: &p}, ErrProgressAccessDenied); err != nil {
		return nil, err
	}
	switch {
	case p.WeightGrams != nil && *p.WeightGrams <= 0:
		return nil, domain.Validation("weightGrams must be positive")
	case p.BodyFatBasisPoints != nil && (*p.BodyFatBasisPoints < 0 || *p.BodyFatBasisPoints > 10000):
		return nil, domain.Validation("bodyFatBasisPoints must be between 0 and 10000")
	case p.WeightGrams == nil && p.BodyFatBasisPoints == nil && len(p.Measurements) == 0 && stringOrEmpty(p.Notes) == "":
		return nil, domain.Validation("progress entry is empty")
	}

	if err := s.store.Progress.Insert(ctx, &p); err != nil {
		return nil, err
	}
	s.logger.Debug("progress recorded",
		zap.String(logger.FieldOperation, "create"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, p.ID),
	)
	return &p, nil
}

func (s *progressService) ListProgress(ctx context.Context, actor domain.Actor, studentID int64, r ProgressRange) ([]domain.Progress, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if studentID == 0 && actor.IsStudent() {
		studentID = actor.ID
	}
	if _, err := lookupStudentOr(ctx, s.store, studentID, ErrUserNotFound); err != nil {
		return nil, err
	}

	target := policy.ProgressTarget{Progress: &domain.Progress{StudentID: studentID}}
	if actor.IsTrainer() {
		coached, err := s.guard.coaches(ctx, actor.ID, studentID)
		if err != nil {
			return nil, err
		}
		target.Coached = coached
	}
	if err := s.guard.allow(actor, policy.Read, target, ErrProgressAccessDenied); err != nil {
		return nil, err
	}

	entries, err := s.store.Progress.Scan(ctx, func(p *domain.Progress) bool {
		return p.StudentID == studentID && r.contains(p.Date)
	})
	if err != nil {
		return nil, err
	}
	stats.SortProgressDesc(entries)
	return entries, nil
}

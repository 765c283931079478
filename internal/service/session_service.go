package service

import (
	"context"
	"strings"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/policy"
	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/stats"
	"fitstudio/server/pkg/logger"

	"go.uber.org/zap"
)

type SessionService interface {
	CreateSession(ctx context.Context, actor domain.Actor, s domain.Session) (*domain.Session, error)
	GetSession(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error)
	// ListSessions returns the sessions visible to actor, earliest first. A
	// non-nil day narrows the list to that calendar day.
	ListSessions(ctx context.Context, actor domain.Actor, day *time.Time) ([]domain.Session, error)
	UpdateSession(ctx context.Context, actor domain.Actor, id int64, patch domain.SessionPatch) (*domain.Session, error)
	CancelSession(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error)
	CompleteSession(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error)
}

type sessionService struct {
	store  *repository.Store
	guard  guard
	loc    *time.Location
	logger *zap.Logger
}

// NewSessionService builds the scheduling service. Day filters are evaluated
// in loc.
func NewSessionService(store *repository.Store, loc *time.Location, log *zap.Logger) SessionService {
	if loc == nil {
		loc = time.UTC
	}
	return &sessionService{
		store:  store,
		guard:  guard{store: store},
		loc:    loc,
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntitySession))),
	}
}

func validateSession(s *domain.Session) error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return domain.Validation("title is required")
	case s.Date.IsZero():
		return domain.Validation("date is required")
	case s.DurationMinutes <= 0:
		return domain.Validation("durationMinutes must be positive")
	case s.GroupSize != nil && *s.GroupSize <= 0:
		return domain.Validation("groupSize must be positive")
	case s.GroupSize != nil && !s.IsGroup:
		return domain.Validation("groupSize only applies to group sessions")
	}
	if s.Time != "" {
		if _, err := time.Parse("15:04", s.Time); err != nil {
			return domain.Validation("time must be HH:MM")
		}
	}
	return nil
}

// CreateSession schedules a session owned by the acting trainer. Without a
// studentId the session is a group session open to every student.
func (s *sessionService) CreateSession(ctx context.Context, actor domain.Actor, in domain.Session) (*domain.Session, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	in.ID = 0
	in.TrainerID = actor.ID
	in.Status = domain.SessionScheduled
	in.Date = in.Date.UTC()
	if in.Type == "" {
		in.Type = "training"
	}
	if in.StudentID == nil {
		in.IsGroup = true
	} else {
		if in.IsGroup {
			return nil, domain.Validation("a group session cannot name a student")
		}
		if _, err := lookupStudent(ctx, s.store, *in.StudentID); err != nil {
			return nil, err
		}
	}
	if err := validateSession(&in); err != nil {
		return nil, err
	}

	if err := s.store.Sessions.Insert(ctx, &in); err != nil {
		return nil, err
	}
	s.logger.Info("session scheduled",
		zap.String(logger.FieldOperation, "create"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, in.ID),
		zap.Bool("group", in.IsGroup),
	)
	return &in, nil
}

func (s *sessionService) loadSession(ctx context.Context, actor domain.Actor, id int64, op policy.Operation) (*domain.Session, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	session, err := lookup(ctx, s.store.Sessions, id, ErrSessionNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.allow(actor, op, policy.SessionTarget{Session: session}, ErrSessionAccessDenied); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error) {
	return s.loadSession(ctx, actor, id, policy.Read)
}

func (s *sessionService) ListSessions(ctx context.Context, actor domain.Actor, day *time.Time) ([]domain.Session, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	sessions, err := visibleSessions(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	if day != nil {
		return stats.FilterSessions(sessions, stats.DayWindow(*day, s.loc)), nil
	}
	stats.SortSessionsAsc(sessions)
	return sessions, nil
}

// visibleSessions scans the sessions actor may read.
func visibleSessions(ctx context.Context, store *repository.Store, actor domain.Actor) ([]domain.Session, error) {
	return store.Sessions.Scan(ctx, func(session *domain.Session) bool {
		return policy.CanPerform(actor, policy.Read, policy.SessionTarget{Session: session})
	})
}

func (s *sessionService) UpdateSession(ctx context.Context, actor domain.Actor, id int64, patch domain.SessionPatch) (*domain.Session, error) {
	session, err := s.loadSession(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	patch.Apply(session)
	if err := validateSession(session); err != nil {
		return nil, err
	}
	return s.store.Sessions.Update(ctx, id, patch.Apply)
}

// CancelSession moves a session to canceled from any status. Canceling an
// already canceled session returns it unchanged.
func (s *sessionService) CancelSession(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error) {
	session, err := s.loadSession(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionCanceled {
		return session, nil
	}
	updated, err := s.store.Sessions.Update(ctx, id, func(s *domain.Session) {
		s.Status = domain.SessionCanceled
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("session canceled",
		zap.String(logger.FieldOperation, "cancel"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, id),
		zap.String("previous_status", string(session.Status)),
	)
	return updated, nil
}

// CompleteSession marks a scheduled session as held. Canceled sessions cannot
// be completed.
func (s *sessionService) CompleteSession(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error) {
	session, err := s.loadSession(ctx, actor, id, policy.Complete)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case domain.SessionCanceled:
		return nil, ErrSessionCanceled
	case domain.SessionCompleted:
		return session, nil
	}
	return s.store.Sessions.Update(ctx, id, func(s *domain.Session) {
		s.Status = domain.SessionCompleted
	})
}

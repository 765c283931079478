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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentFilter narrows ListPayments. Zero fields match everything. From and
// To bound the charge date, both ends inclusive.
type PaymentFilter struct {
	Status    domain.PaymentStatus
	StudentID int64
	From      *time.Time
	To        *time.Time
}

func (f PaymentFilter) match(p *domain.Payment) bool {
	switch {
	case f.Status != "" && p.Status != f.Status:
		return false
	case f.StudentID != 0 && p.StudentID != f.StudentID:
		return false
	case f.From != nil && p.Date.Before(*f.From):
		return false
	case f.To != nil && p.Date.After(*f.To):
		return false
	}
	return true
}

type PaymentService interface {
	CreatePayment(ctx context.Context, actor domain.Actor, p domain.Payment) (*domain.Payment, error)
	GetPayment(ctx context.Context, actor domain.Actor, id int64) (*domain.Payment, error)
	ListPayments(ctx context.Context, actor domain.Actor, filter PaymentFilter) ([]domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, actor domain.Actor, id int64, status domain.PaymentStatus) (*domain.Payment, error)
}

type paymentService struct {
	store  *repository.Store
	guard  guard
	clock  Clock
	logger *zap.Logger
}

func NewPaymentService(store *repository.Store, clock Clock, log *zap.Logger) PaymentService {
	return &paymentService{
		store:  store,
		guard:  guard{store: store},
		clock:  clock,
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntityPayment))),
	}
}

// newReference returns an invoice number such as INV-3F2A9C1D.
func newReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INV-" + strings.ToUpper(id[:8])
}

// CreatePayment issues a charge from the acting trainer to a student.
func (s *paymentService) CreatePayment(ctx context.Context, actor domain.Actor, p domain.Payment) (*domain.Payment, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	now := s.clock.now()
	p.ID = 0
	p.TrainerID = actor.ID
	p.Date = now
	p.PaidDate = nil
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	switch {
	case !p.Status.Valid():
		return nil, ErrInvalidPaymentStatus
	case p.AmountCents <= 0:
		return nil, domain.Validation("amountCents must be positive")
	case strings.TrimSpace(p.Plan) == "":
		return nil, domain.Validation("plan is required")
	case p.DueDate.IsZero():
		return nil, domain.Validation("dueDate is required")
	}
	if _, err := lookupStudent(ctx, s.store, p.StudentID); err != nil {
		return nil, err
	}
	p.DueDate = p.DueDate.UTC()
	if p.Status == domain.PaymentPaid {
		p.PaidDate = &now
	}
	if p.Reference == nil || *p.Reference == "" {
		ref := newReference()
		p.Reference = &ref
	}

	if err := s.store.Payments.Insert(ctx, &p); err != nil {
		return nil, err
	}
	s.logger.Info("payment created",
		zap.String(logger.FieldOperation, "create"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, p.ID),
		zap.Int64("amount_cents", p.AmountCents),
		zap.String("status", string(p.Status)),
	)
	return &p, nil
}

func (s *paymentService) loadPayment(ctx context.Context, actor domain.Actor, id int64, op policy.Operation) (*domain.Payment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p, err := lookup(ctx, s.store.Payments, id, ErrPaymentNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.allow(actor, op, policy.PaymentTarget{Payment: p}, ErrPaymentAccessDenied); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paymentService) GetPayment(ctx context.Context, actor domain.Actor, id int64) (*domain.Payment, error) {
	return s.loadPayment(ctx, actor, id, policy.Read)
}

// ListPayments returns the payments visible to actor, newest first.
func (s *paymentService) ListPayments(ctx context.Context, actor domain.Actor, filter PaymentFilter) ([]domain.Payment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	payments, err := s.store.Payments.Scan(ctx, func(p *domain.Payment) bool {
		return filter.match(p) && policy.CanPerform(actor, policy.Read, policy.PaymentTarget{Payment: p})
	})
	if err != nil {
		return nil, err
	}
	stats.SortPaymentsDesc(payments)
	return payments, nil
}

// UpdatePaymentStatus moves a payment to status. Entering paid stamps paidDate
// with the current time unless that would move it backward. Repeating paid or
// leaving paid keeps the stamp.
func (s *paymentService) UpdatePaymentStatus(ctx context.Context, actor domain.Actor, id int64, status domain.PaymentStatus) (*domain.Payment, error) {
	current, err := s.loadPayment(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	now := s.clock.now()
	updated, err := s.store.Payments.Update(ctx, id, func(p *domain.Payment) {
		entering := status == domain.PaymentPaid && (p.Status != domain.PaymentPaid || p.PaidDate == nil)
		if entering && (p.PaidDate == nil || now.After(*p.PaidDate)) {
			paid := now
			p.PaidDate = &paid
		}
		p.Status = status
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment status changed",
		zap.String(logger.FieldOperation, "update_status"),
		zap.Int64(logger.FieldUserID, actor.ID),
		zap.Int64(logger.FieldEntityID, id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
	)
	return updated, nil
}

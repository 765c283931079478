package service

import (
	"cmp"
	"context"
	"slices"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/policy"
	"fitstudio/server/internal/repository"
	"fitstudio/server/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetUser(ctx context.Context, actor domain.Actor, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, id int64, patch domain.UserPatch) (*domain.User, error)
	ListStudents(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error
}

type userService struct {
	store  *repository.Store
	guard  guard
	logger *zap.Logger
}

func NewUserService(store *repository.Store, log *zap.Logger) UserService {
	return &userService{
		store:  store,
		guard:  guard{store: store},
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntityUser))),
	}
}

func (s *userService) GetUser(ctx context.Context, actor domain.Actor, id int64) (*domain.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := lookup(ctx, s.store.Users, id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.allow(actor, policy.Read, policy.UserTarget{User: u}, ErrUserAccessDenied); err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// UpdateProfile changes the caller's own profile. Username and role are fixed.
func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := lookup(ctx, s.store.Users, id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.allow(actor, policy.Update, policy.UserTarget{User: u}, ErrUserAccessDenied); err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, domain.Validation("name cannot be empty")
	}

	updated, err := s.store.Users.Update(ctx, id, patch.Apply)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

// ListStudents returns every student sorted by name.
func (s *userService) ListStudents(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := requireTrainer(actor); err != nil {
		return nil, err
	}
	students, err := s.store.Users.Scan(ctx, (*domain.User).IsStudent)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(students, func(a, b domain.User) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range students {
		students[i].PasswordHash = ""
	}
	return students, nil
}

func (s *userService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if newPassword == "" {
		return domain.Validation("new password cannot be empty")
	}
	u, err := lookup(ctx, s.store.Users, actor.ID, ErrUserNotFound)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrAuthenticationFailed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	if _, err := s.store.Users.Update(ctx, u.ID, func(u *domain.User) {
		u.PasswordHash = string(hash)
	}); err != nil {
		return err
	}
	s.logger.Info("password changed",
		zap.String(logger.FieldOperation, "change_password"),
		zap.Int64(logger.FieldUserID, actor.ID),
	)
	return nil
}

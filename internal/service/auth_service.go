package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"
	"fitstudio/server/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username       string      `json:"username"`
	Password       string      `json:"password"`
	Name           string      `json:"name"`
	Role           domain.Role `json:"role"` // defaults to student
	ProfilePicture *string     `json:"profilePicture,omitempty"`
	Phone          *string     `json:"phone,omitempty"`
}

// TokenConfig controls issued JWTs.
type TokenConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	ParseToken(token string) (domain.Actor, error)
}

// authService implements the AuthService interface.
type authService struct {
	store  *repository.Store
	token  TokenConfig
	clock  Clock
	logger *zap.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(store *repository.Store, token TokenConfig, clock Clock, log *zap.Logger) AuthService {
	if token.Secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if token.Expiration <= 0 {
		token.Expiration = time.Hour
	}
	if token.Issuer == "" {
		token.Issuer = logger.DefaultServiceName
	}
	return &authService{
		store:  store,
		token:  token,
		clock:  clock,
		logger: nopIfNil(log).With(zap.String(logger.FieldEntity, string(domain.EntityUser))),
	}
}

// Register creates an account. Usernames are matched exactly, case included.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if in.Username == "" || in.Password == "" || in.Name == "" {
		return nil, domain.Validation("username, password and name are required")
	}
	if in.Role == "" {
		in.Role = domain.RoleStudent
	}
	if !in.Role.Valid() {
		return nil, domain.Validation(fmt.Sprintf("unknown role %q", in.Role))
	}

	taken, err := repository.Exists(ctx, s.store.Users, func(u *domain.User) bool {
		return u.Username == in.Username
	})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username:       in.Username,
		PasswordHash:   string(hash),
		Name:           in.Name,
		Role:           in.Role,
		ProfilePicture: in.ProfilePicture,
		Phone:          in.Phone,
		JoinDate:       s.clock.now(),
	}
	if err := s.store.Users.Insert(ctx, user); err != nil {
		// The unique index catches a registration racing the check above.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String(logger.FieldOperation, "register"),
		zap.Int64(logger.FieldUserID, user.ID),
		zap.String(logger.FieldRole, string(user.Role)),
	)
	user.PasswordHash = ""
	return user, nil
}

// Login checks credentials and issues a signed token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.Validation("username and password are required")
	}

	user, err := repository.First(ctx, s.store.Users, func(u *domain.User) bool {
		return u.Username == username
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		s.logger.Error("token signing failed", zap.Int64(logger.FieldUserID, user.ID), zap.Error(err))
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// jwtClaims is the token payload.
type jwtClaims struct {
	UserID int64       `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.clock.now()
	claims := &jwtClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.token.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.token.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.token.Secret))
}

// ParseToken verifies signature, issuer and expiry against the service clock
// and returns the actor the token was issued to.
func (s *authService) ParseToken(tokenString string) (domain.Actor, error) {
	claims := &jwtClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.token.Secret), nil
	})
	if err != nil {
		return domain.Actor{}, ErrInvalidToken
	}

	now := s.clock.now()
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyIssuer(s.token.Issuer, true) {
		return domain.Actor{}, ErrInvalidToken
	}
	actor := domain.Actor{ID: claims.UserID, Role: claims.Role}
	if !actor.Valid() {
		return domain.Actor{}, ErrInvalidToken
	}
	return actor, nil
}

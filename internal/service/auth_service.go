package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Behnamfe76/user-auth-service/internal/auth"
	"github.com/Behnamfe76/user-auth-service/internal/config"
	"github.com/Behnamfe76/user-auth-service/internal/domain"
	"github.com/Behnamfe76/user-auth-service/internal/events"
	"github.com/Behnamfe76/user-auth-service/internal/repository"
)

var (
	ErrWrongCredentials = errors.New("Email or password are wrong")
	ErrEmailExists      = errors.New("Email already exists in the database")
	ErrTooManyAttempts  = errors.New("Too many login attempts, please try again later")
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	limiter    *LoginLimiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int

	// dummyHash is compared on unknown emails so both branches pay for bcrypt.
	dummyHash string
	compare   func(hashed, plain string) error
}

const dummyPassword = "unknown-account-password"

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Limiter    *LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dummyHash, err := auth.HashPassword(dummyPassword, cfg.BcryptCost)
	if err != nil {
		logger.Warn("dummy password hash unavailable", zap.Error(err))
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		dummyHash:  dummyHash,
		compare:    auth.ComparePassword,
	}
}

// Register creates a new account with the default role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         domain.UserRoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, events.AccountPayload{Email: user.Email}))
	return user, nil
}

// Login checks credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if !s.limiter.Allow(ctx, email) {
		s.publish(ctx, events.NewEvent(events.EventLoginFailed, "", events.LoginFailedPayload{Email: email, Reason: "throttled"}))
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		_ = s.compare(s.dummyHash, password)
		return nil, s.loginFailed(ctx, email, "unknown_email")
	}
	if err != nil {
		return nil, err
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		return nil, s.loginFailed(ctx, email, "wrong_password")
	}

	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	s.limiter.Reset(ctx, email)

	s.publish(ctx, events.NewEvent(events.EventUserLoggedIn, user.ID, events.AccountPayload{Email: user.Email}))
	return &domain.Session{
		User:      user,
		Token:     token,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout records the logout. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, user *domain.User) {
	if user == nil {
		return
	}
	s.publish(ctx, events.NewEvent(events.EventUserLoggedOut, user.ID, events.AccountPayload{Email: user.Email}))
}

// TokenTTL exposes the session lifetime for cookie max-age.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) loginFailed(ctx context.Context, email, reason string) error {
	s.limiter.RecordFailure(ctx, email)
	s.publish(ctx, events.NewEvent(events.EventLoginFailed, "", events.LoginFailedPayload{Email: email, Reason: reason}))
	return ErrWrongCredentials
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	repo "github.com/oksasatya/shopease-api/internal/domain/repository"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

// AuthService owns registration, login and the single-session rule.
type AuthService struct {
	Users    repo.UserRepository
	Sessions repo.SessionStore
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionStore, jwt *helpers.JWTManager, notifier Notifier, logger logrus.FieldLogger) *AuthService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		JWT:      jwt,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	IP       string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	if n := len(username); n < 3 || n > 100 {
		return nil, invalid("username", "must be between 3 and 100 characters long")
	}
	if n := len(in.Password); n < 6 || n > 100 {
		return nil, invalid("password", "must be between 6 and 100 characters long")
	}

	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, storageErr(err, nil, "lookup user")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, invalid("password", "must be at most 72 bytes")
		}
		return nil, err
	}

	now := s.Now().UTC()
	u := &entity.User{
		Username:  username,
		Email:     strings.TrimSpace(in.Email),
		Password:  hash,
		Role:      entity.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, storageErr(err, nil, "create user")
	}

	if s.Notifier != nil && u.Email != "" {
		if err := s.Notifier.UserRegistered(ctx, u, in.IP); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
		}
	}
	return u, nil
}

// Login enforces one live session per user. A stored token that still
// verifies blocks the login; a stale one is overwritten.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr(err, nil, "lookup user")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	current, err := s.Sessions.Current(ctx, u.ID)
	if err != nil {
		return nil, storageErr(err, nil, "read session")
	}
	if current != "" {
		if _, perr := s.JWT.Parse(current); perr == nil {
			return nil, ErrAlreadyLoggedIn
		}
	}

	token, exp, err := s.JWT.Generate(u.ID, u.Username)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, err
	}
	ok, err := s.Sessions.Swap(ctx, u.ID, current, token, s.JWT.TTL)
	if err != nil {
		return nil, storageErr(err, nil, "store session")
	}
	if !ok {
		return nil, ErrAlreadyLoggedIn
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user logged in")
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Logout clears the stored session. Calling it twice is fine.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return storageErr(s.Sessions.Clear(ctx, userID), nil, "clear session")
}

// Authenticate resolves a bearer token to its user. The token must
// verify and also be the user's current session token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	current, err := s.Sessions.Current(ctx, claims.UserID)
	if err != nil {
		return nil, storageErr(err, nil, "read session")
	}
	if current != token {
		return nil, ErrSessionExpired
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, storageErr(err, ErrUnauthorized, "lookup user")
	}
	return u, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrUserNotFound, "get user")
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	us, err := s.Users.List(ctx)
	if err != nil {
		return nil, storageErr(err, nil, "list users")
	}
	return us, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/auth"
	"carechat-backend/internal/config"
	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
	log   *logrus.Logger
}

func NewAuthService(s store.Store, cfg *config.Config, log *logrus.Logger) *AuthService {
	return &AuthService{store: s, cfg: cfg, log: log}
}

// Signup creates a new patient account.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.log.WithError(err).WithField("email", email).Error("Failed to check user existence")
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.log.WithError(err).Error("Failed to hash password")
		return nil, ErrHashingPassword
	}

	user, err := s.store.CreateUser(ctx, email, hashedPassword, models.AccountRoleUser)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Error("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("User signed up")
	return user, nil
}

// Login verifies credentials and returns an access token plus the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same error whether the account is missing or the password
			// is wrong, to avoid leaking which emails are registered.
			return "", nil, ErrInvalidCredentials
		}
		s.log.WithError(err).WithField("email", email).Error("Failed to retrieve user during login")
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.Role, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("Failed to generate access token")
		return "", nil, ErrCreatingToken
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("User logged in")
	return token, user, nil
}

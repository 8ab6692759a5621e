package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the repository the identity provider needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service is the in-process identity provider: verifies credentials and
// issues session tokens.
type Service struct {
	users  UserStore
	secret string
	logger *zap.Logger
}

func NewService(users UserStore, secret string, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		secret: secret,
		logger: logger.Named("auth_service"),
	}
}

// SignIn verifies the email and password and returns a session token.
// Bad credentials and unknown users are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", nil, e.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, e.ErrUnauthorized
	}

	token, err := GenerateToken(user.ID.String(), user.Email, s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, user, nil
}

// CurrentUser resolves the session claims on the context back to the
// user record.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	claims := SessionClaims(ctx)
	if claims == nil {
		return nil, e.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, e.ErrUnauthorized
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// HashPassword produces a bcrypt hash for storing on a user record.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

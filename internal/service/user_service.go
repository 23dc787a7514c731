package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/repository"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

// UserService manages the people incidents can be assigned to.
type UserService struct {
	users repository.UserRepository
	now   func() time.Time
}

// NewUserService constructs the service. A nil clock defaults to time.Now.
func NewUserService(users repository.UserRepository, clock func() time.Time) *UserService {
	if clock == nil {
		clock = time.Now
	}
	return &UserService{users: users, now: clock}
}

// CreateUser registers a user; the email must not be taken.
func (s *UserService) CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	existing, err := s.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateEmail(input.Email)
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail(input.Email)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// GetUserByEmail returns nil without error when nobody owns the email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ListUsers returns all users ordered by name.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

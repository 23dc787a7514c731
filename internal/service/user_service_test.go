package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/repository"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

func TestUserService_CreateUser(t *testing.T) {
	f := newFixture()

	user, err := f.users.CreateUser(context.Background(), domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@x.com", user.Email)

	found, err := f.users.GetUserByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, user, found)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.users.CreateUser(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	_, err = f.users.CreateUser(ctx, domain.NewUser{Name: "Another Ana", Email: "ana@x.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDuplicateEmail))
	assert.Equal(t, apperrors.DuplicateEmailMessage, apperrors.ToDomainError(err).Message)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// racingUsers reports the email as free but rejects the insert, as a concurrent writer would cause.
type racingUsers struct {
	repository.UserRepository
}

func (racingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (racingUsers) Create(context.Context, *domain.User) error {
	return repository.ErrDuplicateEmail
}

func TestUserService_DuplicateEmailOnInsert(t *testing.T) {
	svc := NewUserService(racingUsers{}, nil)

	_, err := svc.CreateUser(context.Background(), domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDuplicateEmail))
}

type brokenUsers struct {
	repository.UserRepository
}

func (brokenUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func (brokenUsers) List(context.Context) ([]domain.User, error) {
	return nil, errors.New("connection refused")
}

func TestUserService_StoreFailuresAreInternal(t *testing.T) {
	svc := NewUserService(brokenUsers{}, nil)

	_, err := svc.CreateUser(context.Background(), domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))

	_, err = svc.ListUsers(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestUserService_ListUsersByName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, u := range []domain.NewUser{
		{Name: "Carla", Email: "carla@x.com"},
		{Name: "Ana", Email: "ana@x.com"},
		{Name: "Bruno", Email: "bruno@x.com"},
	} {
		_, err := f.users.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	names := []string{users[0].Name, users[1].Name, users[2].Name}
	assert.Equal(t, []string{"Ana", "Bruno", "Carla"}, names)
}

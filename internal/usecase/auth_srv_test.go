package usecase

import (
	"context"
	"errors"
	"testing"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.service.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Equal(t, entity.RoleCustomer, user.Role)

	auth, err := f.service.Auth.Login(ctx, &request.LoginRequest{
		Email:    "carol@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)

	claims, err := utils.ParseToken(auth.Token, testConfig().JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID.String())
	assert.Equal(t, string(entity.RoleCustomer), claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = f.service.Auth.Login(ctx, &request.LoginRequest{
		Email:    "carol@example.com",
		Password: "not-the-password",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUnauthenticated))
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newFixture()

	_, err := f.service.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUnauthenticated))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = f.service.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Other Carol",
		Email:    "carol@example.com",
		Password: "different-pass",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidSelection))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newFixture()

	_, err := f.service.Auth.Register(context.Background(), &request.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidSelection))
}

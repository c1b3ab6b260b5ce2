package service

import (
	"context"
	"testing"
	"time"

	"mizan/config"
	"mizan/internal/auth"
	"mizan/internal/database/dbtest"
	"mizan/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	gdb := dbtest.New(t)
	cfg := &config.JWTConfig{AccessSecret: "a", RefreshSecret: "r", AccessExpiry: time.Minute, RefreshExpiry: time.Hour, Issuer: "test"}
	return NewAuthService(cfg, gdb, repository.NewUserRepository(gdb), zap.NewNop())
}

func TestRegisterLoginRefresh(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "amina", "Amina@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "amina", res.Username)
	assert.Equal(t, "amina@example.com", res.Email)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)

	claims, err := auth.ParseAccessToken(svc.cfg, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "amina", claims.Username)

	login, err := svc.Login(ctx, "amina", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", login.Email)

	_, err = svc.Login(ctx, "amina", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	refreshed, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "amina", refreshed.Username)

	_, err = svc.Refresh(ctx, res.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRegisterConflictsAndValidation(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "amina", "amina@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "amina", "other@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, err = svc.Register(ctx, "other", "amina@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailExists)

	var ve *ValidationError
	_, err = svc.Register(ctx, "ab", "ab@example.com", "secret1")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)
	_, err = svc.Register(ctx, "abcd", "not-an-email", "secret1")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	_, err = svc.Register(ctx, "abcd", "abcd@example.com", "123")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}

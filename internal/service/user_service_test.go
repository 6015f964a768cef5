package service

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/repository"
)

func setupUserService(t *testing.T, cacheStore *cache.Store) UserService {
	t.Helper()

	db := newTestDB(t, "user")
	repo := repository.NewUserRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	return NewUserService(repo, cacheStore, ident.New(), validate, testLogger())
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	svc := setupUserService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{
		Name:       "Asha",
		Email:      "asha@example.com",
		Password:   "secret1",
		Department: "BCA",
	})
	require.NoError(t, err)

	// Email uniqueness is case-insensitive because emails are folded on write.
	_, err = svc.Register(ctx, dto.RegisterRequest{
		Name:       "Asha Again",
		Email:      "ASHA@Example.com",
		Password:   "secret2",
		Department: "BCA",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserServiceRegisterNormalizes(t *testing.T) {
	svc := setupUserService(t, nil)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:       "  Ravi ",
		Email:      "Ravi@Example.Com",
		Password:   "secret1",
		RollNumber: "bca-042",
		Department: "BCA",
	})
	require.NoError(t, err)
	require.Equal(t, "ravi@example.com", user.Email)
	require.Equal(t, "BCA-042", user.RollNumber)
	require.Equal(t, "Ravi", user.Name)
}

func TestUserServiceListReadThroughCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	store := cache.New(redisClient, cache.DefaultTTL, testLogger())
	svc := setupUserService(t, store)
	ctx := context.Background()

	_, err = svc.Register(ctx, dto.RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Department: "BCA",
	})
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second read is served from the cache filled by the first one.
	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, first[0].ID, second[0].ID)
}

func TestUserServiceUpdatePassword(t *testing.T) {
	svc := setupUserService(t, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Department: "BCA",
	})
	require.NoError(t, err)

	require.Error(t, svc.UpdatePassword(ctx, user.ID, "short"))
	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "longenough"))

	updated, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "longenough", updated.Password)
	require.NotNil(t, updated.PasswordUpdatedAt)
}

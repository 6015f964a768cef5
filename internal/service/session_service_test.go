package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
)

func setupSessionService(t *testing.T) (SessionService, *sessionService) {
	t.Helper()

	db := newTestDB(t, "session")
	svc := NewSessionService(repository.NewSessionRepository(db), testLogger())
	concrete := svc.(*sessionService)
	return svc, concrete
}

func TestSessionServicePersistenceTiers(t *testing.T) {
	svc, concrete := setupSessionService(t)
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	concrete.now = func() time.Time { return base }
	ctx := context.Background()

	user := models.User{ID: "u1", Role: models.RoleStudent}

	ephemeral, err := svc.Establish(ctx, user, false)
	require.NoError(t, err)
	require.Equal(t, models.PersistenceEphemeral, ephemeral.Persistence)
	require.Equal(t, base.Add(EphemeralSessionTTL), ephemeral.ExpiresAt)

	durable, err := svc.Establish(ctx, user, true)
	require.NoError(t, err)
	require.Equal(t, models.PersistenceDurable, durable.Persistence)
	require.Equal(t, base.Add(DurableSessionTTL), durable.ExpiresAt)
}

func TestSessionServiceSlidingExpiry(t *testing.T) {
	svc, concrete := setupSessionService(t)
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	concrete.now = func() time.Time { return base }
	ctx := context.Background()

	session, err := svc.Establish(ctx, models.User{ID: "u1", Role: models.RoleStudent}, false)
	require.NoError(t, err)

	// A read 20 minutes in slides the expiry forward from the read time.
	concrete.now = func() time.Time { return base.Add(20 * time.Minute) }
	refreshed, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, base.Add(20*time.Minute+EphemeralSessionTTL), refreshed.ExpiresAt)

	// 40 minutes after the refresh the session is still inside the window.
	concrete.now = func() time.Time { return base.Add(45 * time.Minute) }
	require.True(t, svc.IsLoggedIn(ctx, session.ID))
}

func TestSessionServiceExpiredSessionPurged(t *testing.T) {
	svc, concrete := setupSessionService(t)
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	concrete.now = func() time.Time { return base }
	ctx := context.Background()

	session, err := svc.Establish(ctx, models.User{ID: "u1", Role: models.RoleStudent}, false)
	require.NoError(t, err)

	concrete.now = func() time.Time { return base.Add(EphemeralSessionTTL + time.Second) }
	_, err = svc.Get(ctx, session.ID)
	require.ErrorIs(t, err, ErrSessionExpired)

	// The expired row was deleted, so the next read misses entirely.
	_, err = svc.Get(ctx, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionServiceLogoutUser(t *testing.T) {
	svc, _ := setupSessionService(t)
	ctx := context.Background()
	user := models.User{ID: "u1", Role: models.RoleStudent}

	first, err := svc.Establish(ctx, user, false)
	require.NoError(t, err)
	second, err := svc.Establish(ctx, user, true)
	require.NoError(t, err)

	require.NoError(t, svc.LogoutUser(ctx, user.ID))
	require.False(t, svc.IsLoggedIn(ctx, first.ID))
	require.False(t, svc.IsLoggedIn(ctx, second.ID))
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
)

// Sliding expiry windows per persistence tier.
const (
	EphemeralSessionTTL = 30 * time.Minute
	DurableSessionTTL   = 30 * 24 * time.Hour
)

var (
	// ErrSessionNotFound indicates no session exists for the identifier.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates the session passed its sliding expiry.
	ErrSessionExpired = errors.New("session expired")
)

// SessionService establishes, reads and destroys authenticated sessions. One
// Session abstraction covers both tiers; the persistence field picks the
// expiry window at write time.
type SessionService interface {
	Establish(ctx context.Context, user models.User, remember bool) (models.Session, error)
	Get(ctx context.Context, sessionID string) (models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutUser(ctx context.Context, userID string) error
	IsLoggedIn(ctx context.Context, sessionID string) bool
}

type sessionService struct {
	repo   repository.SessionRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewSessionService constructs the session service.
func NewSessionService(repo repository.SessionRepository, logger zerolog.Logger) SessionService {
	return &sessionService{
		repo:   repo,
		logger: logger.With().Str("component", "session_service").Logger(),
		now:    time.Now,
	}
}

func (s *sessionService) Establish(ctx context.Context, user models.User, remember bool) (models.Session, error) {
	persistence := models.PersistenceEphemeral
	ttl := EphemeralSessionTTL
	if remember {
		persistence = models.PersistenceDurable
		ttl = DurableSessionTTL
	}

	now := s.now()
	session := models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Role:         user.Role,
		Persistence:  persistence,
		SessionStart: now,
		LastActivity: now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.repo.Create(ctx, &session); err != nil {
		return models.Session{}, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("persistence", persistence).
		Msg("session established")
	return session, nil
}

// Get refreshes LastActivity and the sliding expiry as a side effect of every
// successful read. Expired sessions are deleted on sight.
func (s *sessionService) Get(ctx context.Context, sessionID string) (models.Session, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}

	now := s.now()
	if session.Expired(now) {
		if err := s.repo.Delete(ctx, session.ID); err != nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to purge expired session")
		}
		return models.Session{}, ErrSessionExpired
	}

	ttl := EphemeralSessionTTL
	if session.Persistence == models.PersistenceDurable {
		ttl = DurableSessionTTL
	}
	session.LastActivity = now
	session.ExpiresAt = now.Add(ttl)
	if err := s.repo.Save(ctx, &session); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to refresh session activity")
	}

	return session, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// LogoutUser clears every session of a user. Used when a role check fails on
// a protected route: the mismatch forces a logout rather than a plain deny.
func (s *sessionService) LogoutUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *sessionService) IsLoggedIn(ctx context.Context, sessionID string) bool {
	_, err := s.Get(ctx, sessionID)
	return err == nil
}

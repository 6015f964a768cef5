package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown accounts and wrong passwords alike,
	// so responses don't leak which of the two failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingIdentifier indicates neither email nor username was supplied.
	ErrMissingIdentifier = errors.New("email or username required")
)

// BootstrapAdmin configures the admin account created on its first login.
// Empty credentials disable bootstrapping.
type BootstrapAdmin struct {
	Name     string
	Email    string
	Username string
	Password string
}

// AuthService authenticates users and issues bearer tokens.
//
// Passwords are compared in plaintext to stay faithful to the system this
// replaces. Known defect; every caller of this service should treat it as
// classroom-grade authentication only.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	sessions  SessionService
	cache     *cache.Store
	ids       *ident.Generator
	validator *validator.Validate
	jwtSecret string
	bootstrap BootstrapAdmin
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, sessions SessionService, cacheStore *cache.Store, ids *ident.Generator, validate *validator.Validate, jwtSecret string, bootstrap BootstrapAdmin, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		sessions:  sessions,
		cache:     cacheStore,
		ids:       ids,
		validator: validate,
		jwtSecret: jwtSecret,
		bootstrap: bootstrap,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}
	if req.Email == "" && req.Username == "" {
		return dto.LoginResponse{}, ErrMissingIdentifier
	}

	user, err := s.lookup(ctx, req)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if user.Password != req.Password {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	session, err := s.sessions.Establish(ctx, user, req.RememberMe)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	token, err := s.signToken(user, session)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login succeeded")
	return dto.LoginResponse{
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) lookup(ctx context.Context, req dto.LoginRequest) (models.User, error) {
	var (
		user models.User
		err  error
	)
	if req.Email != "" {
		user, err = s.users.FindByEmail(ctx, foldKey(req.Email))
	} else {
		user, err = s.users.FindByUsername(ctx, foldKey(req.Username))
	}

	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	if admin, ok := s.bootstrapAdmin(ctx, req); ok {
		return admin, nil
	}
	return models.User{}, ErrInvalidCredentials
}

// bootstrapAdmin creates the configured admin account on its first login.
// The unique email index makes the creation idempotent under concurrent
// first logins: the loser of the race reads back the winner's row.
func (s *authService) bootstrapAdmin(ctx context.Context, req dto.LoginRequest) (models.User, bool) {
	if s.bootstrap.Email == "" || s.bootstrap.Password == "" {
		return models.User{}, false
	}

	matchesEmail := req.Email != "" && foldKey(req.Email) == foldKey(s.bootstrap.Email)
	matchesUsername := req.Username != "" && foldKey(req.Username) == foldKey(s.bootstrap.Username)
	if !matchesEmail && !matchesUsername {
		return models.User{}, false
	}
	if req.Password != s.bootstrap.Password {
		return models.User{}, false
	}

	username := foldKey(s.bootstrap.Username)
	admin := models.User{
		ID:           s.ids.Next(),
		Name:         s.bootstrap.Name,
		Email:        foldKey(s.bootstrap.Email),
		Username:     &username,
		Role:         models.RoleAdmin,
		Department:   "System Administration",
		Password:     s.bootstrap.Password,
		RegisteredAt: s.now(),
	}

	if err := s.users.Create(ctx, &admin); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Error().Err(err).Msg("admin bootstrap failed")
			return models.User{}, false
		}
		existing, lookupErr := s.users.FindByEmail(ctx, admin.Email)
		if lookupErr != nil {
			return models.User{}, false
		}
		return existing, true
	}

	s.cache.Invalidate(ctx, repository.CollectionUsers)
	s.logger.Info().Str("user_id", admin.ID).Msg("bootstrap admin created")
	return admin, true
}

func (s *authService) signToken(user models.User, session models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"sid":  session.ID,
		"iat":  s.now().Unix(),
		"exp":  session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

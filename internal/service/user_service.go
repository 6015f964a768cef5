package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
	"github.com/campuskit/feedback-api/internal/sanitize"
)

var (
	// ErrDuplicateEmail indicates another account already owns the email.
	// Registration never sets a username, so email is the only unique column
	// a signup can collide on.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound indicates the user record is missing.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnsafeInput indicates a payload tripped the injection heuristic.
	ErrUnsafeInput = errors.New("input rejected by safety check")
)

// UserService manages user accounts.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	List(ctx context.Context) ([]models.User, error)
}

type userService struct {
	repo      repository.UserRepository
	cache     *cache.Store
	ids       *ident.Generator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, cacheStore *cache.Store, ids *ident.Generator, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		cache:     cacheStore,
		ids:       ids,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}

	name := sanitize.Clean(req.Name)
	email := foldKey(req.Email)
	if !sanitize.IsSafePattern(name) || !sanitize.IsSafePattern(email) {
		return models.User{}, ErrUnsafeInput
	}

	user := models.User{
		ID:           s.ids.Next(),
		Name:         name,
		Email:        email,
		Role:         models.RoleStudent,
		RollNumber:   sanitize.Clean(strings.ToUpper(req.RollNumber)),
		Department:   sanitize.Clean(req.Department),
		Password:     req.Password,
		RegisteredAt: s.now(),
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionUsers)
	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("student registered")
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.repo.FindByEmail(ctx, foldKey(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	updatedAt := s.now()
	patch := map[string]interface{}{
		"password":            newPassword,
		"password_updated_at": &updatedAt,
	}
	if err := s.repo.Update(ctx, userID, patch); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, repository.CollectionUsers)
	s.logger.Info().Str("user_id", userID).Msg("password updated")
	return nil
}

// List serves the full user collection through the read-through cache.
func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if s.cache.Get(ctx, repository.CollectionUsers, &users) {
		return users, nil
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, repository.CollectionUsers, users)
	return users, nil
}

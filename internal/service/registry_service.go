package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/timecard-bot/internal/domain"
	"github.com/spec-kit/timecard-bot/internal/repository"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

// RegistryService owns user and RA job registration.
type RegistryService struct {
	users      repository.UserRepository
	categories repository.JobCategoryRepository
	logger     *zap.Logger
}

// RegistryDependencies bundles requirements for the registry service.
type RegistryDependencies struct {
	UserRepo     repository.UserRepository
	CategoryRepo repository.JobCategoryRepository
	Logger       *zap.Logger
}

// NewRegistryService constructs the service.
func NewRegistryService(deps RegistryDependencies) *RegistryService {
	return &RegistryService{
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		logger:     deps.Logger,
	}
}

// RegisterUser creates a new bot user keyed by the Slack user ID.
func (s *RegistryService) RegisterUser(ctx context.Context, slackUserID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if err := validateLabel(name, "name"); err != nil {
		return nil, err
	}

	user := &domain.User{SlackUserID: slackUserID, Name: name}
	if err := s.users.Create(ctx, user); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewAlreadyRegistered(name)
		}
		return nil, util.NewPersistenceError(err)
	}

	s.logger.Info("registered user",
		zap.String("slack_user_id", slackUserID),
		zap.Int64("user_id", user.ID))
	return user, nil
}

// RegisterJobCategory creates a new RA job for an already registered user.
func (s *RegistryService) RegisterJobCategory(ctx context.Context, slackUserID, categoryName string) (*domain.JobCategory, error) {
	categoryName = strings.TrimSpace(categoryName)
	if err := validateLabel(categoryName, "category"); err != nil {
		return nil, err
	}

	user, err := s.users.GetBySlackID(ctx, slackUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUserNotRegistered(slackUserID)
		}
		return nil, util.NewPersistenceError(err)
	}

	// Pre-check so the user gets an informational notice; the unique
	// constraint still closes the race between two concurrent registrations.
	if _, err := s.categories.GetByUserAndName(ctx, user.ID, categoryName); err == nil {
		return nil, util.NewCategoryAlreadyExists(categoryName)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewPersistenceError(err)
	}

	category := &domain.JobCategory{UserID: user.ID, Name: categoryName}
	if err := s.categories.Create(ctx, category); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewCategoryAlreadyExists(categoryName)
		}
		return nil, util.NewPersistenceError(err)
	}

	s.logger.Info("registered RA job",
		zap.String("slack_user_id", slackUserID),
		zap.String("category", categoryName))
	return category, nil
}

// Resolve finds the user and the named RA job a report belongs to.
func (s *RegistryService) Resolve(ctx context.Context, slackUserID, categoryName string) (*domain.User, *domain.JobCategory, error) {
	user, category, err := s.categories.ResolveForSlackUser(ctx, slackUserID, categoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, util.NewCategoryNotFound(categoryName)
		}
		return nil, nil, util.NewPersistenceError(err)
	}
	return user, category, nil
}

// Names pasted from Slack sometimes keep formatting characters around them;
// reject those outright instead of storing them.
func validateLabel(value, field string) error {
	if value == "" {
		return util.NewValidationError(field+" must not be empty", nil)
	}
	const redundantChars = "<>*"
	if strings.ContainsAny(value[:1], redundantChars) || strings.ContainsAny(value[len(value)-1:], redundantChars) {
		return util.NewValidationError(field+" must not be enclosed in symbols", map[string]any{field: value})
	}
	return nil
}

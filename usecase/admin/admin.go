package admin

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/pkg/hash"
	"github.com/fastygo/breaks/repository"
)

// UseCase covers the out-of-band seeding the HTTP surface never does:
// accounts and the activity catalog.
type UseCase struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	logger     *zap.Logger
	hashCost   int
}

func New(users repository.UserRepository, activities repository.ActivityRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:      users,
		activities: activities,
		logger:     logger,
		hashCost:   hash.DefaultCost,
	}
}

func (uc *UseCase) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username required and password must be at least 8 characters")
	}
	hashed, err := hash.HashPasswordWithCost(password, uc.hashCost)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.Create(ctx, &domain.User{Username: username, PasswordHash: hashed})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// DeleteUser removes the account; the database cascades to its breaks.
func (uc *UseCase) DeleteUser(ctx context.Context, username string) error {
	if err := uc.users.DeleteByUsername(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	uc.logger.Info("user deleted", zap.String("username", username))
	return nil
}

func (uc *UseCase) AddActivity(ctx context.Context, name string) (*domain.Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > domain.ActivityNameMaxLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "activity name must be 1-100 characters")
	}
	activity, err := uc.activities.Create(ctx, &domain.Activity{Name: name})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("activity added", zap.Int64("activity_id", activity.ID), zap.String("name", activity.Name))
	return activity, nil
}

func (uc *UseCase) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	return uc.activities.List(ctx)
}

// DeleteActivity removes the activity; the database cascades to breaks referencing it.
func (uc *UseCase) DeleteActivity(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrActivityNotFound
	}
	if err := uc.activities.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("activity deleted", zap.Int64("activity_id", id))
	return nil
}

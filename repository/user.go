package repository

import (
	"context"

	"github.com/fastygo/breaks/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

package repository

import (
	"context"

	"github.com/fastygo/breaks/domain"
)

type ActivityRepository interface {
	List(ctx context.Context) ([]domain.Activity, error)
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	Delete(ctx context.Context, id int64) error
}

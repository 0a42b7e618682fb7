package repository

import (
	"context"

	"github.com/fastygo/breaks/domain"
)

// BreakRepository persists breaks. Mutations are scoped to the owning user:
// a break owned by someone else behaves as if it did not exist.
type BreakRepository interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Break, error)
	Create(ctx context.Context, b *domain.Break) (*domain.Break, error)
	SetDone(ctx context.Context, id int64, userID string, done bool) (*domain.Break, error)
	Delete(ctx context.Context, id int64, userID string) (*domain.Break, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/repository"
)

var breakColumns = []string{"id", "user_id", "activity_id", "date", "is_done"}

type breakRepository struct {
	db Querier
}

// NewBreakRepository returns a Postgres-backed implementation of BreakRepository.
func NewBreakRepository(db Querier) repository.BreakRepository {
	return &breakRepository{db: db}
}

func (r *breakRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Break, error) {
	limit = clampLimit(limit)
	query, args, err := psql.Select("b.id", "b.user_id", "b.activity_id", "a.name", "b.date", "b.is_done").
		From("breaks b").
		Join("activities a ON a.id = b.activity_id").
		Where(sq.Eq{"b.user_id": userID}).
		OrderBy("b.date DESC", "b.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list breaks: %w", err)
	}
	defer rows.Close()

	breaks := make([]domain.Break, 0, limit)
	for rows.Next() {
		var b domain.Break
		if err := rows.Scan(&b.ID, &b.UserID, &b.ActivityID, &b.ActivityName, &b.Date, &b.IsDone); err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

func (r *breakRepository) Create(ctx context.Context, b *domain.Break) (*domain.Break, error) {
	if b == nil || b.UserID == "" || b.ActivityID <= 0 {
		return nil, domain.ErrInvalidPayload
	}

	query, args, err := psql.Insert("breaks").
		Columns("user_id", "activity_id", "is_done").
		Values(b.UserID, b.ActivityID, b.IsDone).
		Suffix("RETURNING id, date").
		ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Date); err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return nil, domain.WrapError(domain.ErrCodeNotFound, "activity or user not found", err)
		}
		return nil, fmt.Errorf("insert break: %w", err)
	}
	return b, nil
}

func (r *breakRepository) SetDone(ctx context.Context, id int64, userID string, done bool) (*domain.Break, error) {
	query, args, err := psql.Update("breaks").
		Set("is_done", done).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + strings.Join(breakColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanBreak(r.db.QueryRow(ctx, query, args...))
}

func (r *breakRepository) Delete(ctx context.Context, id int64, userID string) (*domain.Break, error) {
	query, args, err := psql.Delete("breaks").
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + strings.Join(breakColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanBreak(r.db.QueryRow(ctx, query, args...))
}

func scanBreak(row rowScanner) (*domain.Break, error) {
	var b domain.Break
	if err := row.Scan(&b.ID, &b.UserID, &b.ActivityID, &b.Date, &b.IsDone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBreakNotFound
		}
		return nil, err
	}
	return &b, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/repository"
)

type activityRepository struct {
	db Querier
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(db Querier) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	query, args, err := psql.Select("id", "name").
		From("activities").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *activity)
	}
	return activities, rows.Err()
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	query, args, err := psql.Select("id", "name").
		From("activities").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanActivity(r.db.QueryRow(ctx, query, args...))
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if activity == nil || activity.Name == "" || len(activity.Name) > domain.ActivityNameMaxLen {
		return nil, domain.ErrInvalidPayload
	}

	query, args, err := psql.Insert("activities").
		Columns("name").
		Values(activity.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&activity.ID); err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return activity, nil
}

func (r *activityRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("activities").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var activity domain.Activity
	if err := row.Scan(&activity.ID, &activity.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

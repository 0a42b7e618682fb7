package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/repository"
)

var userColumns = []string{"id", "username", "password_hash", "created_at", "updated_at"}

type userRepository struct {
	db Querier
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(db Querier) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, sq.Eq{"username": username})
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.Username == "" || user.PasswordHash == "" {
		return nil, domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query, args, err := psql.Insert("users").
		Columns("id", "username", "password_hash").
		Values(user.ID, user.Username, user.PasswordHash).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if hasPgCode(err, pgUniqueViolation) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *userRepository) DeleteByUsername(ctx context.Context, username string) error {
	query, args, err := psql.Delete("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) getBy(ctx context.Context, pred sq.Eq) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

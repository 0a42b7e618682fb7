package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/pkg/hash"
	"github.com/fastygo/breaks/pkg/logger"
	"github.com/fastygo/breaks/repository"
)

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizes timing between unknown users and wrong passwords
func compareAgainstDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = hash.HashPassword("breaks-dummy-password")
	})
	_ = hash.ComparePassword(dummyHash, password)
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New builds the use case. Sessions looked up with less than half of
// sessionTTL left are extended by a full sessionTTL; zero disables renewal.
func New(users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		ttl:      sessionTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the credentials and opens a session valid for ttl.
func (uc *UseCase) Login(ctx context.Context, username, password string, ttl time.Duration) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			compareAgainstDummy(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := hash.ComparePassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, hash.ErrMismatch) {
			logger.WithRequestID(ctx, uc.logger).Error("stored password hash unusable",
				zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("user logged in", zap.String("user_id", user.ID))
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if session.IsExpired(now) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	if uc.ttl > 0 && session.ExpiresAt.Sub(now) < uc.ttl/2 {
		uc.renew(ctx, session, now)
	}
	return session, nil
}

// renew slides the session expiry forward. A failed extension leaves the
// session usable until its current expiry.
func (uc *UseCase) renew(ctx context.Context, session *domain.Session, now time.Time) {
	if err := uc.sessions.Extend(ctx, session.ID, int(uc.ttl/time.Second)); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("session renewal failed",
			zap.String("session_id", session.ID), zap.Error(err))
		return
	}
	session.ExpiresAt = now.Add(uc.ttl)
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

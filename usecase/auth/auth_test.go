package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/pkg/hash"
)

type fakeUsers struct {
	byName map[string]domain.User
	err    error
}

func (f *fakeUsers) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUsers) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (f *fakeUsers) DeleteByUsername(context.Context, string) error { return errors.New("not used") }

type memorySessions struct {
	items     map[string]domain.Session
	extended  []string
	extendErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{items: make(map[string]domain.Session)}
}

func (m *memorySessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memorySessions) Save(_ context.Context, s *domain.Session) error {
	m.items[s.ID] = *s
	return nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memorySessions) Extend(_ context.Context, id string, ttlSeconds int) error {
	if m.extendErr != nil {
		return m.extendErr
	}
	s, ok := m.items[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	m.extended = append(m.extended, id)
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	m.items[id] = s
	return nil
}

func newFixture(t *testing.T) (*UseCase, *memorySessions) {
	t.Helper()
	hashed, err := hash.HashPasswordWithCost("coffee-time", bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUsers{byName: map[string]domain.User{
		"alice": {ID: "alice-id", Username: "alice", PasswordHash: hashed},
	}}
	sessions := newMemorySessions()
	return New(users, sessions, time.Hour, nil), sessions
}

func TestLogin(t *testing.T) {
	uc, sessions := newFixture(t)

	session, err := uc.Login(context.Background(), " alice ", "coffee-time", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "alice-id", session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
	assert.Contains(t, sessions.items, session.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, sessions := newFixture(t)
	ctx := context.Background()

	cases := map[string][2]string{
		"wrong password": {"alice", "tea-time"},
		"unknown user":   {"bob", "coffee-time"},
		"empty username": {"", "coffee-time"},
		"empty password": {"alice", ""},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Login(ctx, creds[0], creds[1], time.Hour)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
	assert.Empty(t, sessions.items)
}

func TestLoginPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	uc := New(&fakeUsers{err: boom}, newMemorySessions(), time.Hour, nil)

	_, err := uc.Login(context.Background(), "alice", "coffee-time", time.Hour)
	assert.ErrorIs(t, err, boom)
}

func TestGetSessionDropsExpired(t *testing.T) {
	uc, sessions := newFixture(t)
	ctx := context.Background()

	session, err := uc.Login(ctx, "alice", "coffee-time", time.Hour)
	require.NoError(t, err)

	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	uc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = uc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NotContains(t, sessions.items, session.ID)
}

func TestRevokeSession(t *testing.T) {
	uc, sessions := newFixture(t)
	ctx := context.Background()

	session, err := uc.Login(ctx, "alice", "coffee-time", time.Hour)
	require.NoError(t, err)

	require.NoError(t, uc.RevokeSession(ctx, session.ID))
	assert.Empty(t, sessions.items)
}

func TestGetSessionRenewsPastHalfLife(t *testing.T) {
	uc, sessions := newFixture(t)
	ctx := context.Background()

	session, err := uc.Login(ctx, "alice", "coffee-time", time.Hour)
	require.NoError(t, err)

	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions.extended)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)

	later := time.Now().Add(40 * time.Minute)
	uc.now = func() time.Time { return later }
	got, err = uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{session.ID}, sessions.extended)
	assert.WithinDuration(t, later.Add(time.Hour), got.ExpiresAt, time.Second)
}

func TestGetSessionSurvivesFailedRenewal(t *testing.T) {
	uc, sessions := newFixture(t)
	ctx := context.Background()

	session, err := uc.Login(ctx, "alice", "coffee-time", time.Hour)
	require.NoError(t, err)

	sessions.extendErr = errors.New("store busy")
	uc.now = func() time.Time { return time.Now().Add(45 * time.Minute) }
	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestGetSessionWithoutTTLNeverRenews(t *testing.T) {
	sessions := newMemorySessions()
	uc := New(&fakeUsers{}, sessions, 0, nil)
	now := time.Now()
	sessions.items["sid"] = domain.Session{ID: "sid", UserID: "u", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}

	_, err := uc.GetSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Empty(t, sessions.extended)
}

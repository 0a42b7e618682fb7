package breaks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/breaks/domain"
)

const alice = "alice-id"

type fakeActivities struct {
	items map[int64]domain.Activity
	err   error
}

func (f *fakeActivities) List(context.Context) ([]domain.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Activity, 0, len(f.items))
	for id := int64(1); id <= int64(len(f.items)); id++ {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeActivities) GetByID(_ context.Context, id int64) (*domain.Activity, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return &a, nil
}

func (f *fakeActivities) Create(context.Context, *domain.Activity) (*domain.Activity, error) {
	return nil, errors.New("not used")
}

func (f *fakeActivities) Delete(context.Context, int64) error { return errors.New("not used") }

type fakeBreaks struct {
	rows   []domain.Break
	nextID int64
	clock  time.Time
	limit  int
}

func (f *fakeBreaks) ListRecent(_ context.Context, userID string, limit int) ([]domain.Break, error) {
	f.limit = limit
	var out []domain.Break
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeBreaks) Create(_ context.Context, b *domain.Break) (*domain.Break, error) {
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	b.ID = f.nextID
	b.Date = f.clock
	f.rows = append(f.rows, *b)
	return b, nil
}

func (f *fakeBreaks) SetDone(_ context.Context, id int64, userID string, done bool) (*domain.Break, error) {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			f.rows[i].IsDone = done
			b := f.rows[i]
			return &b, nil
		}
	}
	return nil, domain.ErrBreakNotFound
}

func (f *fakeBreaks) Delete(_ context.Context, id int64, userID string) (*domain.Break, error) {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			b := f.rows[i]
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return &b, nil
		}
	}
	return nil, domain.ErrBreakNotFound
}

type recordingPublisher struct {
	events []domain.BreakEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.BreakEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func newFixture() (*UseCase, *fakeBreaks, *recordingPublisher) {
	activities := &fakeActivities{items: map[int64]domain.Activity{
		1: {ID: 1, Name: "Coffee"},
		2: {ID: 2, Name: "Walk"},
	}}
	breaks := &fakeBreaks{clock: time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)}
	events := &recordingPublisher{}
	return New(activities, breaks, events, nil), breaks, events
}

func TestCreateBreak(t *testing.T) {
	uc, store, events := newFixture()

	created, err := uc.CreateBreak(context.Background(), alice, 1)
	require.NoError(t, err)
	assert.Equal(t, alice, created.UserID)
	assert.Equal(t, "Coffee", created.ActivityName)
	assert.False(t, created.IsDone)
	assert.Len(t, store.rows, 1)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.BreakCreated, events.events[0].Type)
	assert.Equal(t, created.ID, events.events[0].BreakID)
}

func TestCreateBreakUnknownActivity(t *testing.T) {
	uc, store, events := newFixture()

	_, err := uc.CreateBreak(context.Background(), alice, 99)
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	assert.Empty(t, store.rows)
	assert.Empty(t, events.events)
}

func TestCreateBreakRequiresUser(t *testing.T) {
	uc, _, _ := newFixture()
	_, err := uc.CreateBreak(context.Background(), "", 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDashboardShowsTenNewestOwnBreaks(t *testing.T) {
	uc, store, _ := newFixture()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := uc.CreateBreak(ctx, alice, 1)
		require.NoError(t, err)
	}
	_, err := uc.CreateBreak(ctx, "bob-id", 2)
	require.NoError(t, err)

	dash, err := uc.Dashboard(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.RecentBreaksLimit, store.limit)
	assert.Len(t, dash.Activities, 2)
	require.Len(t, dash.Breaks, domain.RecentBreaksLimit)
	for i := 1; i < len(dash.Breaks); i++ {
		assert.True(t, dash.Breaks[i-1].Date.After(dash.Breaks[i].Date))
		assert.Equal(t, alice, dash.Breaks[i].UserID)
	}
}

func TestDashboardPropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	uc := New(&fakeActivities{err: boom}, &fakeBreaks{}, nil, nil)

	_, err := uc.Dashboard(context.Background(), alice)
	assert.ErrorIs(t, err, boom)
}

func TestUpdateBreakChangesOnlyDoneFlag(t *testing.T) {
	uc, store, events := newFixture()
	ctx := context.Background()

	created, err := uc.CreateBreak(ctx, alice, 2)
	require.NoError(t, err)
	before := store.rows[0]

	updated, err := uc.UpdateBreak(ctx, alice, created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.Equal(t, before.Date, store.rows[0].Date)
	assert.Equal(t, before.ActivityID, store.rows[0].ActivityID)
	assert.Equal(t, domain.BreakUpdated, events.events[len(events.events)-1].Type)
}

func TestUpdateBreakOfAnotherUserIsNotFound(t *testing.T) {
	uc, store, _ := newFixture()
	ctx := context.Background()

	created, err := uc.CreateBreak(ctx, alice, 1)
	require.NoError(t, err)

	_, err = uc.UpdateBreak(ctx, "mallory-id", created.ID, true)
	assert.ErrorIs(t, err, domain.ErrBreakNotFound)
	assert.False(t, store.rows[0].IsDone)
}

func TestSkipBreakRemovesExactlyOne(t *testing.T) {
	uc, store, events := newFixture()
	ctx := context.Background()

	first, err := uc.CreateBreak(ctx, alice, 1)
	require.NoError(t, err)
	second, err := uc.CreateBreak(ctx, alice, 2)
	require.NoError(t, err)

	require.NoError(t, uc.SkipBreak(ctx, alice, first.ID))
	require.Len(t, store.rows, 1)
	assert.Equal(t, second.ID, store.rows[0].ID)
	assert.Equal(t, domain.BreakSkipped, events.events[len(events.events)-1].Type)

	assert.ErrorIs(t, uc.SkipBreak(ctx, alice, first.ID), domain.ErrBreakNotFound)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	uc, store, events := newFixture()
	events.err = errors.New("broker unavailable")

	_, err := uc.CreateBreak(context.Background(), alice, 1)
	require.NoError(t, err)
	assert.Len(t, store.rows, 1)
}

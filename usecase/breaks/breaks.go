package breaks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/internal/observability"
	"github.com/fastygo/breaks/pkg/logger"
	"github.com/fastygo/breaks/repository"
	"github.com/fastygo/breaks/usecase"
)

// Dashboard is everything the index page needs for one user.
type Dashboard struct {
	Activities []domain.Activity
	Breaks     []domain.Break
}

type UseCase struct {
	activities repository.ActivityRepository
	breaks     repository.BreakRepository
	events     usecase.EventPublisher
	logger     *zap.Logger
}

func New(
	activities repository.ActivityRepository,
	breaks repository.BreakRepository,
	events usecase.EventPublisher,
	logger *zap.Logger,
) *UseCase {
	if events == nil {
		events = usecase.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		activities: activities,
		breaks:     breaks,
		events:     events,
		logger:     logger,
	}
}

// Dashboard returns all activities and the caller's most recent breaks, newest first.
func (uc *UseCase) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	activities, err := uc.activities.List(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.breaks.ListRecent(ctx, userID, domain.RecentBreaksLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Activities: activities, Breaks: recent}, nil
}

// CreateBreak starts a new, not yet done break on the given activity.
func (uc *UseCase) CreateBreak(ctx context.Context, userID string, activityID int64) (*domain.Break, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	created, err := uc.breaks.Create(ctx, &domain.Break{
		UserID:     userID,
		ActivityID: activity.ID,
		IsDone:     false,
	})
	if err != nil {
		return nil, err
	}
	created.ActivityName = activity.Name

	observability.RecordBreakOperation("create")
	uc.publish(ctx, domain.BreakCreated, created)
	return created, nil
}

// UpdateBreak sets the done flag of one of the caller's breaks.
func (uc *UseCase) UpdateBreak(ctx context.Context, userID string, breakID int64, done bool) (*domain.Break, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	updated, err := uc.breaks.SetDone(ctx, breakID, userID, done)
	if err != nil {
		return nil, err
	}

	observability.RecordBreakOperation("update")
	uc.publish(ctx, domain.BreakUpdated, updated)
	return updated, nil
}

// SkipBreak deletes one of the caller's breaks.
func (uc *UseCase) SkipBreak(ctx context.Context, userID string, breakID int64) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	skipped, err := uc.breaks.Delete(ctx, breakID, userID)
	if err != nil {
		return err
	}

	observability.RecordBreakOperation("skip")
	uc.publish(ctx, domain.BreakSkipped, skipped)
	return nil
}

// publish never fails the caller: the row is already written.
func (uc *UseCase) publish(ctx context.Context, kind domain.BreakEventType, b *domain.Break) {
	event := domain.BreakEvent{
		ID:         uuid.NewString(),
		Type:       kind,
		BreakID:    b.ID,
		UserID:     b.UserID,
		ActivityID: b.ActivityID,
		IsDone:     b.IsDone,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		observability.RecordEventPublishFailure()
		logger.WithRequestID(ctx, uc.logger).Warn("break event not published",
			zap.String("type", string(kind)),
			zap.Int64("break_id", b.ID),
			zap.Error(err))
	}
}

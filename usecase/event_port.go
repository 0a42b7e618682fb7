package usecase

import (
	"context"

	"github.com/fastygo/breaks/domain"
)

// EventPublisher abstracts the event transport so use cases stay broker-agnostic.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BreakEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.BreakEvent) error { return nil }

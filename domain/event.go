package domain

import "time"

type BreakEventType string

const (
	BreakCreated BreakEventType = "break.created"
	BreakUpdated BreakEventType = "break.updated"
	BreakSkipped BreakEventType = "break.skipped"
)

// BreakEvent describes a change applied to a break.
type BreakEvent struct {
	ID         string         `json:"id"`
	Type       BreakEventType `json:"type"`
	BreakID    int64          `json:"break_id"`
	UserID     string         `json:"user_id"`
	ActivityID int64          `json:"activity_id,omitempty"`
	IsDone     bool           `json:"is_done"`
	OccurredAt time.Time      `json:"occurred_at"`
}

package domain

import (
	"fmt"
	"time"
)

// RecentBreaksLimit is how many breaks the dashboard shows per user.
const RecentBreaksLimit = 10

// Break is a user-owned pause spent on an Activity.
type Break struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	ActivityID   int64     `json:"activity_id"`
	ActivityName string    `json:"activity_name,omitempty"`
	Date         time.Time `json:"date"`
	IsDone       bool      `json:"is_done"`
}

// Label renders the break the way the dashboard lists it.
func (b *Break) Label() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s", b.ActivityName, b.Date.Format("Jan 2, 2006, 15:04"))
}

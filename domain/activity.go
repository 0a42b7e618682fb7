package domain

// Activity is a break option seeded by administrators.
type Activity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ActivityNameMaxLen bounds Activity.Name, matching the column width.
const ActivityNameMaxLen = 100

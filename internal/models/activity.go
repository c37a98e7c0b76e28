package models

import "time"

// Activity is a single migration audit record.
type Activity struct {
	Message        string
	Action         string
	Flow           Flow
	LegacyUsername string
	ErrorKind      string
	UserPoolID     string
	ClientID       string
	RequestID      string
	Timestamp      time.Time
}

// UserMigratedEvent is published after a user has been handed over to the new
// identity provider. It never carries credentials or profile attributes.
type UserMigratedEvent struct {
	LegacyUsername  string          `json:"legacy_username"`
	Flow            Flow            `json:"flow"`
	FinalUserStatus FinalUserStatus `json:"final_user_status,omitempty"`
	UserPoolID      string          `json:"user_pool_id,omitempty"`
	MigratedAt      time.Time       `json:"migrated_at"`
}

// Error is the JSON error envelope of the HTTP surface.
type Error struct {
	Status int      `json:"status"`
	Error  []string `json:"error"`
}

// ActivitySearchParams narrows GET /activity results.
type ActivitySearchParams struct {
	Action         string `validate:"omitempty,oneof=migration.succeeded migration.denied migration.failed"`
	Flow           string `validate:"omitempty,oneof=Authentication ForgotPassword"`
	LegacyUsername string `validate:"omitempty,max=128"`
}

// TimeSeriesPoint is one day of activity counts.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ActivityStatsParams selects the window of GET /activity/daily.
type ActivityStatsParams struct {
	Days int `validate:"omitempty,oneof=7 14 30"`
}

package models

import "time"

// TimelineEntry is a row of the timeline_entries table.
type TimelineEntry struct {
	Seq         int64          `db:"seq"`
	EntryID     string         `db:"entry_id"`
	EntityType  string         `db:"entity_type"`
	EntityID    string         `db:"entity_id"`
	Step        string         `db:"step"`
	ActorRole   string         `db:"actor_role"`
	ActorID     string         `db:"actor_id"`
	SignatureID *string        `db:"signature_id"`
	Message     string         `db:"message"`
	Metadata    map[string]any `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Notification is a row of the notifications table.
type Notification struct {
	NotificationID string     `db:"notification_id"`
	UserID         string     `db:"user_id"`
	Title          string     `db:"title"`
	Message        string     `db:"message"`
	ActionURL      string     `db:"action_url"`
	ReadAt         *time.Time `db:"read_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

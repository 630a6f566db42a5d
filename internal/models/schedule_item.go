package models

import "time"

// ScheduleItemStatus is the stored completion flag of one occurrence.
type ScheduleItemStatus string

// Possible schedule item statuses.
const (
	ScheduleItemStatusScheduled ScheduleItemStatus = "SCHEDULED"
	ScheduleItemStatusCompleted ScheduleItemStatus = "COMPLETED"
)

// ScheduleItem is one concrete occurrence of a session on a calendar date.
// Date carries the calendar date only; the wall-clock start is the separate
// "HH:MM" string, interpreted in business time. Every occurrence lasts a
// fixed one hour; no per-item duration is stored.
type ScheduleItem struct {
	ID        string             `db:"id" json:"id"`
	SessionID string             `db:"session_id" json:"session_id"`
	Date      time.Time          `db:"date" json:"date"`
	StartTime string             `db:"start_time" json:"start_time"`
	Status    ScheduleItemStatus `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt time.Time          `db:"updated_at" json:"updated_at"`
}

// Completed reports the stored flag only. Time-based completion is the
// engine's concern.
func (s ScheduleItem) Completed() bool {
	return s.Status == ScheduleItemStatusCompleted
}

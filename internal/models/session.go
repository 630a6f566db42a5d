package models

import "time"

// SessionStatus represents the booking lifecycle of a purchased session.
type SessionStatus string

// Possible session statuses.
const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusApproved  SessionStatus = "APPROVED"
	SessionStatusPaid      SessionStatus = "PAID"
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
	SessionStatusRejected  SessionStatus = "REJECTED"
)

// Session is one purchased engagement between a student and a mentor for a
// named skill. It is owned by the booking workflow and consumed read-only
// by the status engine.
type Session struct {
	ID              string        `db:"id" json:"id"`
	StudentID       string        `db:"student_id" json:"student_id"`
	MentorID        string        `db:"mentor_id" json:"mentor_id"`
	Skill           string        `db:"skill" json:"skill"`
	Status          SessionStatus `db:"status" json:"status"`
	StartDate       *time.Time    `db:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time    `db:"end_date" json:"end_date,omitempty"`
	StartTime       string        `db:"start_time" json:"start_time"`
	EndTime         string        `db:"end_time" json:"end_time"`
	SessionsPerWeek int           `db:"sessions_per_week" json:"sessions_per_week"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionDetail enriches Session with mentor display info for dashboards.
type SessionDetail struct {
	Session
	MentorName string `db:"mentor_name" json:"mentor_name"`
}

// SessionBundle is the eager-loaded query shape the status engine operates
// on: a session together with all of its payments and schedule items.
type SessionBundle struct {
	Session       SessionDetail
	Payments      []Payment
	ScheduleItems []ScheduleItem
}

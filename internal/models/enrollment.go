package models

import "time"

// EnrollmentState is the classifier verdict for one enrollment.
type EnrollmentState string

// Enrollment states. PaymentPending is a read-time-only state and is never
// persisted to the status store.
const (
	EnrollmentPaymentPending EnrollmentState = "PAYMENT_PENDING"
	EnrollmentOngoing        EnrollmentState = "ONGOING"
	EnrollmentCompleted      EnrollmentState = "COMPLETED"
)

// EnrollmentKey identifies one (student, mentor, skill) enrollment.
type EnrollmentKey struct {
	StudentID string `db:"student_id" json:"student_id"`
	MentorID  string `db:"mentor_id" json:"mentor_id"`
	Skill     string `db:"skill" json:"skill"`
}

// GroupKey returns the flat map key used when partitioning a student's
// sessions. The NUL separator keeps mentor IDs and skill names from
// colliding.
func (k EnrollmentKey) GroupKey() string {
	return k.MentorID + "\x00" + k.Skill
}

// EnrollmentGroup is the ephemeral aggregate the classifier operates on:
// every non-cancelled, non-rejected session a student holds with one mentor
// for one skill, with payments and schedule items attached. It is rebuilt
// from raw data on every computation and never persisted.
type EnrollmentGroup struct {
	Key      EnrollmentKey
	Sessions []SessionBundle
}

// AllScheduleItems returns the union of schedule items across the group's
// sessions.
func (g *EnrollmentGroup) AllScheduleItems() []ScheduleItem {
	var items []ScheduleItem
	for _, bundle := range g.Sessions {
		items = append(items, bundle.ScheduleItems...)
	}
	return items
}

// EnrollmentStatus is the persisted projection row: the single source of
// truth dashboards read from. One row per enrollment key, written only by
// the recalculator.
type EnrollmentStatus struct {
	ID         string          `db:"id" json:"id"`
	StudentID  string          `db:"student_id" json:"student_id"`
	MentorID   string          `db:"mentor_id" json:"mentor_id"`
	Skill      string          `db:"skill" json:"skill"`
	State      EnrollmentState `db:"state" json:"state"`
	ComputedAt time.Time       `db:"computed_at" json:"computed_at"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Key returns the enrollment key of the row.
func (s EnrollmentStatus) Key() EnrollmentKey {
	return EnrollmentKey{StudentID: s.StudentID, MentorID: s.MentorID, Skill: s.Skill}
}

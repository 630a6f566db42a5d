package dto

import "time"

// EnrollmentView joins a stored enrollment state with session metadata for
// dashboard listings. Dates are rendered as calendar dates in business time.
type EnrollmentView struct {
	MentorID        string    `json:"mentorId"`
	MentorName      string    `json:"mentorName"`
	Skill           string    `json:"skill"`
	State           string    `json:"state"`
	StartDate       string    `json:"startDate,omitempty"`
	EndDate         string    `json:"endDate,omitempty"`
	StartTime       string    `json:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty"`
	SessionsPerWeek int       `json:"sessionsPerWeek"`
	ComputedAt      time.Time `json:"computedAt"`
}

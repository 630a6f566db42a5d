package dto

// TodayScheduleResponse is the student's live view for one business-time
// calendar day, bucketed by enrollment lifecycle.
type TodayScheduleResponse struct {
	Date            string               `json:"date"`
	PendingApproval []PendingSessionSlot `json:"pendingApproval"`
	PendingPayment  []EnrollmentSlot     `json:"pendingPayment"`
	Ongoing         []EnrollmentDaySlot  `json:"ongoing"`
	Completed       []EnrollmentDaySlot  `json:"completed"`
}

// PendingSessionSlot is a booked session still awaiting mentor approval.
type PendingSessionSlot struct {
	SessionID  string `json:"sessionId"`
	MentorID   string `json:"mentorId"`
	MentorName string `json:"mentorName"`
	Skill      string `json:"skill"`
}

// EnrollmentSlot identifies one (mentor, skill) enrollment on a dashboard.
type EnrollmentSlot struct {
	MentorID   string `json:"mentorId"`
	MentorName string `json:"mentorName"`
	Skill      string `json:"skill"`
}

// EnrollmentDaySlot is an enrollment together with its occurrences that
// fall on the requested day.
type EnrollmentDaySlot struct {
	EnrollmentSlot
	Items []ScheduleItemSlot `json:"items"`
}

// ScheduleItemSlot is one occurrence inside a day slot. EndTime is derived
// from the fixed one-hour duration, not stored.
type ScheduleItemSlot struct {
	ItemID    string `json:"itemId"`
	SessionID string `json:"sessionId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Completed bool   `json:"completed"`
}

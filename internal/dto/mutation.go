package dto

// UpdatePaymentStatusRequest updates one payment record's outcome.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SUCCESS PENDING FAILED"`
}

// MutationResponse reports the outcome of a raw-data mutation together with
// the enrollment state recomputed from it.
type MutationResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	StudentID string `json:"studentId"`
	MentorID  string `json:"mentorId"`
	Skill     string `json:"skill"`
	State     string `json:"state"`
}

// RecalculateEnrollmentRequest targets one enrollment for recomputation.
// Async enqueues the work instead of blocking the caller.
type RecalculateEnrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	MentorID  string `json:"mentorId" validate:"required"`
	Skill     string `json:"skill" validate:"required"`
	Async     bool   `json:"async"`
}

package engine

import "github.com/mentorlink/course-api/internal/models"

// Classify returns the lifecycle state of one enrollment group. The rule is
// evaluated in two gates:
//
//  1. Payment gate: at least one session in the group must be paid,
//     otherwise the group is PAYMENT_PENDING and evaluation stops.
//  2. Completion gate: when the group has schedule items, it is COMPLETED
//     iff every item's stored flag says completed. When it has none, it is
//     COMPLETED iff every session's own status is COMPLETED.
//
// The completion gate deliberately trusts the stored per-item flags instead
// of re-deriving completion from elapsed time; keeping those flags current
// is the schedule workflow's job.
func Classify(group *models.EnrollmentGroup) models.EnrollmentState {
	if !GroupPaid(group) {
		return models.EnrollmentPaymentPending
	}

	items := group.AllScheduleItems()
	if len(items) > 0 {
		for _, item := range items {
			if !item.Completed() {
				return models.EnrollmentOngoing
			}
		}
		return models.EnrollmentCompleted
	}

	for _, bundle := range group.Sessions {
		if bundle.Session.Status != models.SessionStatusCompleted {
			return models.EnrollmentOngoing
		}
	}
	return models.EnrollmentCompleted
}

// GroupPaid reports whether at least one session in the group is paid.
func GroupPaid(group *models.EnrollmentGroup) bool {
	for _, bundle := range group.Sessions {
		if SessionPaid(bundle) {
			return true
		}
	}
	return false
}

// SessionPaid reports whether a single session is paid: either its own
// lifecycle status already implies payment, or any of its payment records
// succeeded. Payments arrive with inconsistent cardinality upstream, so
// zero, one, or many rows are all tolerated.
func SessionPaid(bundle models.SessionBundle) bool {
	switch bundle.Session.Status {
	case models.SessionStatusPaid, models.SessionStatusScheduled:
		return true
	}
	for _, payment := range bundle.Payments {
		if payment.Status == models.PaymentStatusSuccess {
			return true
		}
	}
	return false
}

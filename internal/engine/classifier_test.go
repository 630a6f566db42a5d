package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorlink/course-api/internal/models"
)

func dateUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func bundle(status models.SessionStatus, payments []models.Payment, items []models.ScheduleItem) models.SessionBundle {
	return models.SessionBundle{
		Session: models.SessionDetail{
			Session: models.Session{
				ID:        "ses-1",
				StudentID: "stu-1",
				MentorID:  "men-1",
				Skill:     "system design",
				Status:    status,
			},
		},
		Payments:      payments,
		ScheduleItems: items,
	}
}

func groupOf(bundles ...models.SessionBundle) *models.EnrollmentGroup {
	return &models.EnrollmentGroup{
		Key:      models.EnrollmentKey{StudentID: "stu-1", MentorID: "men-1", Skill: "system design"},
		Sessions: bundles,
	}
}

func item(id string, date time.Time, start string, status models.ScheduleItemStatus) models.ScheduleItem {
	return models.ScheduleItem{ID: id, SessionID: "ses-1", Date: date, StartTime: start, Status: status}
}

func TestClassifyUnpaidIsPaymentPendingRegardlessOfItems(t *testing.T) {
	completedItems := []models.ScheduleItem{
		item("it-1", dateUTC(2024, time.March, 1), "10:00", models.ScheduleItemStatusCompleted),
		item("it-2", dateUTC(2024, time.March, 2), "10:00", models.ScheduleItemStatusCompleted),
	}
	cases := map[string]*models.EnrollmentGroup{
		"no payments at all":  groupOf(bundle(models.SessionStatusApproved, nil, completedItems)),
		"failed payment only": groupOf(bundle(models.SessionStatusPending, []models.Payment{{Status: models.PaymentStatusFailed}}, nil)),
		"pending payment":     groupOf(bundle(models.SessionStatusApproved, []models.Payment{{Status: models.PaymentStatusPending}}, completedItems)),
	}
	for name, group := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, models.EnrollmentPaymentPending, Classify(group))
		})
	}
}

func TestClassifyPaymentGateAcceptsEitherShape(t *testing.T) {
	// Lifecycle status alone implies payment.
	assert.Equal(t, models.EnrollmentOngoing, Classify(groupOf(bundle(models.SessionStatusPaid, nil, nil))))
	assert.Equal(t, models.EnrollmentOngoing, Classify(groupOf(bundle(models.SessionStatusScheduled, nil, nil))))

	// A successful payment row among several also counts.
	payments := []models.Payment{
		{Status: models.PaymentStatusFailed},
		{Status: models.PaymentStatusSuccess},
	}
	assert.Equal(t, models.EnrollmentOngoing, Classify(groupOf(bundle(models.SessionStatusApproved, payments, nil))))
}

func TestClassifyCompletedIffAllItemFlagsSet(t *testing.T) {
	items := []models.ScheduleItem{
		item("it-1", dateUTC(2024, time.March, 1), "10:00", models.ScheduleItemStatusCompleted),
		item("it-2", dateUTC(2024, time.March, 8), "10:00", models.ScheduleItemStatusCompleted),
		item("it-3", dateUTC(2024, time.March, 15), "10:00", models.ScheduleItemStatusCompleted),
	}
	assert.Equal(t, models.EnrollmentCompleted, Classify(groupOf(bundle(models.SessionStatusPaid, nil, items))))

	// Flipping any single flag flips the verdict.
	for i := range items {
		flipped := make([]models.ScheduleItem, len(items))
		copy(flipped, items)
		flipped[i].Status = models.ScheduleItemStatusScheduled
		assert.Equal(t, models.EnrollmentOngoing, Classify(groupOf(bundle(models.SessionStatusPaid, nil, flipped))))
	}
}

func TestClassifyZeroItemsFallsBackToSessionStatus(t *testing.T) {
	paid := []models.Payment{{Status: models.PaymentStatusSuccess}}

	completed := groupOf(bundle(models.SessionStatusCompleted, paid, nil))
	assert.Equal(t, models.EnrollmentCompleted, Classify(completed))

	mixed := groupOf(
		bundle(models.SessionStatusCompleted, paid, nil),
		bundle(models.SessionStatusApproved, nil, nil),
	)
	assert.Equal(t, models.EnrollmentOngoing, Classify(mixed))
}

func TestClassifyTrustsStaleFlagsOverElapsedTime(t *testing.T) {
	// An item far in the past whose flag was never set keeps the group
	// ongoing; time-based completion belongs to the splitter and to whoever
	// maintains the flags.
	items := []models.ScheduleItem{
		item("it-1", dateUTC(2020, time.January, 1), "10:00", models.ScheduleItemStatusScheduled),
	}
	assert.Equal(t, models.EnrollmentOngoing, Classify(groupOf(bundle(models.SessionStatusPaid, nil, items))))
}

func TestClassifyMergedGroupUsesUnionOfItems(t *testing.T) {
	// One paid session with all items done, one unpaid session with none:
	// the payment gate passes on the first, the completion gate sees the
	// union of items from both.
	paidAllDone := bundle(models.SessionStatusPaid, nil, []models.ScheduleItem{
		item("it-1", dateUTC(2024, time.March, 1), "10:00", models.ScheduleItemStatusCompleted),
	})
	unpaidNoItems := bundle(models.SessionStatusApproved, nil, nil)

	assert.Equal(t, models.EnrollmentCompleted, Classify(groupOf(paidAllDone, unpaidNoItems)))

	unpaidWithOpenItem := bundle(models.SessionStatusApproved, nil, []models.ScheduleItem{
		item("it-2", dateUTC(2024, time.March, 8), "10:00", models.ScheduleItemStatusScheduled),
	})
	assert.Equal(t, models.EnrollmentOngoing, Classify(groupOf(paidAllDone, unpaidWithOpenItem)))
}

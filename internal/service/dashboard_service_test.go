package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/pkg/civiltime"
)

type fakeDashboardSessions struct {
	bundles []models.SessionBundle
	err     error
}

func (f *fakeDashboardSessions) ListBundlesByStudent(_ context.Context, _ string) ([]models.SessionBundle, error) {
	return f.bundles, f.err
}

type fakeStatusReader struct {
	rows map[models.EnrollmentState][]models.EnrollmentStatus
	err  error
}

func (f *fakeStatusReader) ListByStudentAndState(_ context.Context, _ string, state models.EnrollmentState) ([]models.EnrollmentStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[state], nil
}

func dashboardBundle(mentor, mentorName, skill string, status models.SessionStatus, items ...models.ScheduleItem) models.SessionBundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC)
	return models.SessionBundle{
		Session: models.SessionDetail{
			Session: models.Session{
				ID:              "sess-" + mentor + "-" + skill,
				StudentID:       "stu-1",
				MentorID:        mentor,
				Skill:           skill,
				Status:          status,
				StartDate:       &start,
				EndDate:         &end,
				StartTime:       "10:00",
				EndTime:         "11:00",
				SessionsPerWeek: 2,
			},
			MentorName: mentorName,
		},
		ScheduleItems: items,
	}
}

func todayItem(id, start string, status models.ScheduleItemStatus) models.ScheduleItem {
	return models.ScheduleItem{
		ID:        id,
		SessionID: "sess-men-1-golang",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		Status:    status,
	}
}

func TestOngoingEnrollmentsDecoratesStoredRows(t *testing.T) {
	statuses := &fakeStatusReader{rows: map[models.EnrollmentState][]models.EnrollmentStatus{
		models.EnrollmentOngoing: {
			{StudentID: "stu-1", MentorID: "men-1", Skill: "golang", State: models.EnrollmentOngoing},
		},
	}}
	sessions := &fakeDashboardSessions{bundles: []models.SessionBundle{
		dashboardBundle("men-1", "Asha Rao", "golang", models.SessionStatusPaid),
	}}
	svc := NewDashboardService(sessions, statuses, nil, 0, nil)

	views, cached, err := svc.OngoingEnrollments(context.Background(), "stu-1")

	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, views, 1)
	view := views[0]
	assert.Equal(t, "Asha Rao", view.MentorName)
	assert.Equal(t, "golang", view.Skill)
	assert.Equal(t, "ONGOING", view.State)
	assert.Equal(t, "2026-01-05", view.StartDate)
	assert.Equal(t, "2026-04-27", view.EndDate)
	assert.Equal(t, 2, view.SessionsPerWeek)
}

func TestCompletedEnrollmentsEmptyStore(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardSessions{}, &fakeStatusReader{}, nil, 0, nil)

	views, cached, err := svc.CompletedEnrollments(context.Background(), "stu-1")

	require.NoError(t, err)
	assert.False(t, cached)
	assert.Empty(t, views)
}

func TestTodaysScheduleBuckets(t *testing.T) {
	sessions := &fakeDashboardSessions{bundles: []models.SessionBundle{
		dashboardBundle("men-1", "Asha Rao", "golang", models.SessionStatusPaid,
			todayItem("it-done", "08:00", models.ScheduleItemStatusScheduled),
			todayItem("it-live", "10:00", models.ScheduleItemStatusScheduled)),
		dashboardBundle("men-2", "Vik Menon", "sql", models.SessionStatusApproved),
		dashboardBundle("men-3", "Lena Paul", "react", models.SessionStatusPending),
	}}
	svc := NewDashboardService(sessions, &fakeStatusReader{}, nil, 0, nil)

	now := civiltime.FromCivil(2026, time.March, 2, 10, 30)
	resp, err := svc.TodaysSchedule(context.Background(), "stu-1", now)

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Date)

	require.Len(t, resp.PendingApproval, 1)
	assert.Equal(t, "react", resp.PendingApproval[0].Skill)

	// Both the unapproved and the approved-but-unpaid enrollments wait on payment.
	require.Len(t, resp.PendingPayment, 2)

	require.Len(t, resp.Ongoing, 1)
	require.Len(t, resp.Ongoing[0].Items, 1)
	assert.Equal(t, "it-live", resp.Ongoing[0].Items[0].ItemID)
	assert.Equal(t, "11:00", resp.Ongoing[0].Items[0].EndTime)

	require.Len(t, resp.Completed, 1)
	require.Len(t, resp.Completed[0].Items, 1)
	assert.Equal(t, "it-done", resp.Completed[0].Items[0].ItemID)
}

func TestTodaysScheduleItemFlipsAfterEffectiveEnd(t *testing.T) {
	sessions := &fakeDashboardSessions{bundles: []models.SessionBundle{
		dashboardBundle("men-1", "Asha Rao", "golang", models.SessionStatusPaid,
			todayItem("it-1", "14:00", models.ScheduleItemStatusScheduled)),
	}}
	svc := NewDashboardService(sessions, &fakeStatusReader{}, nil, 0, nil)

	before, err := svc.TodaysSchedule(context.Background(), "stu-1", civiltime.FromCivil(2026, time.March, 2, 14, 59))
	require.NoError(t, err)
	require.Len(t, before.Ongoing, 1)
	assert.Empty(t, before.Completed)

	after, err := svc.TodaysSchedule(context.Background(), "stu-1", civiltime.FromCivil(2026, time.March, 2, 15, 1))
	require.NoError(t, err)
	assert.Empty(t, after.Ongoing)
	require.Len(t, after.Completed, 1)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/course-api/internal/models"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
)

type fakeSessionReader struct {
	bundles    map[models.EnrollmentKey][]models.SessionBundle
	keys       []models.EnrollmentKey
	bundlesErr map[models.EnrollmentKey]error
	keysErr    error
}

func (f *fakeSessionReader) ListBundlesByEnrollment(_ context.Context, key models.EnrollmentKey) ([]models.SessionBundle, error) {
	if err := f.bundlesErr[key]; err != nil {
		return nil, err
	}
	return f.bundles[key], nil
}

func (f *fakeSessionReader) ListEnrollmentKeys(_ context.Context) ([]models.EnrollmentKey, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	return f.keys, nil
}

type fakeStatusStore struct {
	rows      map[models.EnrollmentKey]*models.EnrollmentStatus
	upserts   int
	upsertErr error
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{rows: make(map[models.EnrollmentKey]*models.EnrollmentStatus)}
}

func (f *fakeStatusStore) Upsert(_ context.Context, status *models.EnrollmentStatus) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	row := *status
	f.rows[status.Key()] = &row
	return nil
}

func (f *fakeStatusStore) Find(_ context.Context, key models.EnrollmentKey) (*models.EnrollmentStatus, error) {
	row, ok := f.rows[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return row, nil
}

func statusKey(student, mentor, skill string) models.EnrollmentKey {
	return models.EnrollmentKey{StudentID: student, MentorID: mentor, Skill: skill}
}

func statusBundle(key models.EnrollmentKey, sessionStatus models.SessionStatus, items ...models.ScheduleItem) models.SessionBundle {
	return models.SessionBundle{
		Session: models.SessionDetail{
			Session: models.Session{
				ID:        "sess-" + key.MentorID + "-" + key.Skill,
				StudentID: key.StudentID,
				MentorID:  key.MentorID,
				Skill:     key.Skill,
				Status:    sessionStatus,
			},
		},
		ScheduleItems: items,
	}
}

func scheduledItem(id string) models.ScheduleItem {
	return models.ScheduleItem{ID: id, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), StartTime: "10:00", Status: models.ScheduleItemStatusScheduled}
}

func completedItem(id string) models.ScheduleItem {
	item := scheduledItem(id)
	item.Status = models.ScheduleItemStatusCompleted
	return item
}

func newStatusService(sessions *fakeSessionReader, store *fakeStatusStore) *StatusService {
	svc := NewStatusService(sessions, store, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRecalculateOnePersistsOngoing(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusPaid, scheduledItem("it-1"))},
	}}
	store := newFakeStatusStore()
	svc := newStatusService(sessions, store)

	state, err := svc.RecalculateOne(context.Background(), key)

	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentOngoing, state)
	require.Contains(t, store.rows, key)
	row := store.rows[key]
	assert.Equal(t, models.EnrollmentOngoing, row.State)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), row.ComputedAt)
}

func TestRecalculateOneNeverPersistsPaymentPending(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusApproved, scheduledItem("it-1"))},
	}}
	store := newFakeStatusStore()
	svc := newStatusService(sessions, store)

	state, err := svc.RecalculateOne(context.Background(), key)

	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentPaymentPending, state)
	assert.Empty(t, store.rows)
	assert.Zero(t, store.upserts)
}

func TestRecalculateOneUnknownEnrollment(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	svc := newStatusService(&fakeSessionReader{}, newFakeStatusStore())

	_, err := svc.RecalculateOne(context.Background(), key)

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRecalculateOneIsIdempotent(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusPaid, completedItem("it-1"), completedItem("it-2"))},
	}}
	store := newFakeStatusStore()
	svc := newStatusService(sessions, store)

	first, err := svc.RecalculateOne(context.Background(), key)
	require.NoError(t, err)
	second, err := svc.RecalculateOne(context.Background(), key)
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentCompleted, first)
	assert.Equal(t, first, second)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 2, store.upserts)
}

func TestRecalculateAllContinuesPastFailures(t *testing.T) {
	good := statusKey("stu-1", "men-1", "golang")
	pending := statusKey("stu-1", "men-2", "sql")
	broken := statusKey("stu-2", "men-1", "golang")
	sessions := &fakeSessionReader{
		keys: []models.EnrollmentKey{good, broken, pending},
		bundles: map[models.EnrollmentKey][]models.SessionBundle{
			good:    {statusBundle(good, models.SessionStatusPaid, scheduledItem("it-1"))},
			pending: {statusBundle(pending, models.SessionStatusPending, scheduledItem("it-2"))},
		},
		bundlesErr: map[models.EnrollmentKey]error{broken: errors.New("connection reset")},
	}
	store := newFakeStatusStore()
	svc := newStatusService(sessions, store)

	report, err := svc.RecalculateAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, RecalcReport{Processed: 3, Upserted: 1, Skipped: 1, Failed: 1}, report)
	assert.Contains(t, store.rows, good)
	assert.NotContains(t, store.rows, pending)
}

func TestRecalculateAllStopsOnCancelledContext(t *testing.T) {
	sessions := &fakeSessionReader{keys: []models.EnrollmentKey{statusKey("stu-1", "men-1", "golang")}}
	svc := newStatusService(sessions, newFakeStatusStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RecalculateAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyOneRepairsDrift(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusPaid, completedItem("it-1"))},
	}}
	store := newFakeStatusStore()
	store.rows[key] = &models.EnrollmentStatus{
		StudentID: key.StudentID, MentorID: key.MentorID, Skill: key.Skill,
		State: models.EnrollmentOngoing,
	}
	svc := newStatusService(sessions, store)

	drifted, err := svc.VerifyOne(context.Background(), key)

	require.NoError(t, err)
	assert.True(t, drifted)
	assert.Equal(t, models.EnrollmentCompleted, store.rows[key].State)
}

func TestVerifyOneConsistentRowIsLeftAlone(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusPaid, scheduledItem("it-1"))},
	}}
	store := newFakeStatusStore()
	store.rows[key] = &models.EnrollmentStatus{
		StudentID: key.StudentID, MentorID: key.MentorID, Skill: key.Skill,
		State: models.EnrollmentOngoing,
	}
	svc := newStatusService(sessions, store)

	drifted, err := svc.VerifyOne(context.Background(), key)

	require.NoError(t, err)
	assert.False(t, drifted)
	assert.Zero(t, store.upserts)
}

func TestVerifyOneMissingRowForPaymentPending(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusApproved, scheduledItem("it-1"))},
	}}
	svc := newStatusService(sessions, newFakeStatusStore())

	drifted, err := svc.VerifyOne(context.Background(), key)

	require.NoError(t, err)
	assert.False(t, drifted)
}

func TestVerifyOneMissingRowForOngoingIsDrift(t *testing.T) {
	key := statusKey("stu-1", "men-1", "golang")
	sessions := &fakeSessionReader{bundles: map[models.EnrollmentKey][]models.SessionBundle{
		key: {statusBundle(key, models.SessionStatusPaid, scheduledItem("it-1"))},
	}}
	store := newFakeStatusStore()
	svc := newStatusService(sessions, store)

	drifted, err := svc.VerifyOne(context.Background(), key)

	require.NoError(t, err)
	assert.True(t, drifted)
	require.Contains(t, store.rows, key)
	assert.Equal(t, models.EnrollmentOngoing, store.rows[key].State)
}

func TestVerifyAllCountsDriftAndFailures(t *testing.T) {
	clean := statusKey("stu-1", "men-1", "golang")
	stale := statusKey("stu-1", "men-2", "sql")
	broken := statusKey("stu-2", "men-1", "golang")
	sessions := &fakeSessionReader{
		keys: []models.EnrollmentKey{clean, stale, broken},
		bundles: map[models.EnrollmentKey][]models.SessionBundle{
			clean: {statusBundle(clean, models.SessionStatusPaid, scheduledItem("it-1"))},
			stale: {statusBundle(stale, models.SessionStatusPaid, completedItem("it-2"))},
		},
		bundlesErr: map[models.EnrollmentKey]error{broken: errors.New("connection reset")},
	}
	store := newFakeStatusStore()
	store.rows[clean] = &models.EnrollmentStatus{
		StudentID: clean.StudentID, MentorID: clean.MentorID, Skill: clean.Skill,
		State: models.EnrollmentOngoing,
	}
	store.rows[stale] = &models.EnrollmentStatus{
		StudentID: stale.StudentID, MentorID: stale.MentorID, Skill: stale.Skill,
		State: models.EnrollmentOngoing,
	}
	svc := newStatusService(sessions, store)

	report, err := svc.VerifyAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, VerifyReport{Checked: 3, Drifted: 1, Repaired: 1, Failed: 1}, report)
	assert.Equal(t, models.EnrollmentCompleted, store.rows[stale].State)
}

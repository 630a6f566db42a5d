package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mentorlink/course-api/internal/models"
)

// SessionRepository reads sessions with their payment and schedule-item
// relations eagerly attached. Session rows are owned by the booking
// workflow; this service never writes them.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `s.id, s.student_id, s.mentor_id, s.skill, s.status,
        s.start_date, s.end_date, s.start_time, s.end_time, s.sessions_per_week,
        s.created_at, s.updated_at, COALESCE(m.full_name, '') AS mentor_name`

// FindByID returns one session regardless of status.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s
        LEFT JOIN mentors m ON m.id = s.mentor_id
        WHERE s.id = $1`, sessionColumns)
	var session models.SessionDetail
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListBundlesByStudent returns every non-cancelled, non-rejected session a
// student holds, with payments and schedule items attached.
func (r *SessionRepository) ListBundlesByStudent(ctx context.Context, studentID string) ([]models.SessionBundle, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s
        LEFT JOIN mentors m ON m.id = s.mentor_id
        WHERE s.student_id = $1 AND s.status NOT IN ($2, $3)
        ORDER BY s.created_at`, sessionColumns)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, studentID,
		models.SessionStatusCancelled, models.SessionStatusRejected); err != nil {
		return nil, fmt.Errorf("list sessions for student: %w", err)
	}
	return r.attachRelations(ctx, sessions)
}

// ListBundlesByEnrollment returns the sessions of a single (student, mentor,
// skill) enrollment, with relations attached.
func (r *SessionRepository) ListBundlesByEnrollment(ctx context.Context, key models.EnrollmentKey) ([]models.SessionBundle, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s
        LEFT JOIN mentors m ON m.id = s.mentor_id
        WHERE s.student_id = $1 AND s.mentor_id = $2 AND s.skill = $3 AND s.status NOT IN ($4, $5)
        ORDER BY s.created_at`, sessionColumns)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, key.StudentID, key.MentorID, key.Skill,
		models.SessionStatusCancelled, models.SessionStatusRejected); err != nil {
		return nil, fmt.Errorf("list sessions for enrollment: %w", err)
	}
	return r.attachRelations(ctx, sessions)
}

// ListEnrollmentKeys returns every distinct (student, mentor, skill) triple
// with at least one non-cancelled session. This drives the full recompute.
func (r *SessionRepository) ListEnrollmentKeys(ctx context.Context) ([]models.EnrollmentKey, error) {
	const query = `SELECT DISTINCT student_id, mentor_id, skill FROM sessions
        WHERE status NOT IN ($1, $2)
        ORDER BY student_id, mentor_id, skill`
	var keys []models.EnrollmentKey
	if err := r.db.SelectContext(ctx, &keys, query,
		models.SessionStatusCancelled, models.SessionStatusRejected); err != nil {
		return nil, fmt.Errorf("list enrollment keys: %w", err)
	}
	return keys, nil
}

func (r *SessionRepository) attachRelations(ctx context.Context, sessions []models.SessionDetail) ([]models.SessionBundle, error) {
	bundles := make([]models.SessionBundle, len(sessions))
	if len(sessions) == 0 {
		return bundles, nil
	}
	index := make(map[string]int, len(sessions))
	ids := make([]string, len(sessions))
	for i, session := range sessions {
		bundles[i] = models.SessionBundle{Session: session}
		index[session.ID] = i
		ids[i] = session.ID
	}

	payments, err := r.listPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, payment := range payments {
		if i, ok := index[payment.SessionID]; ok {
			bundles[i].Payments = append(bundles[i].Payments, payment)
		}
	}

	items, err := r.listScheduleItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if i, ok := index[item.SessionID]; ok {
			bundles[i].ScheduleItems = append(bundles[i].ScheduleItems, item)
		}
	}

	return bundles, nil
}

const relationChunkSize = 100

func (r *SessionRepository) listPayments(ctx context.Context, sessionIDs []string) ([]models.Payment, error) {
	var payments []models.Payment
	for _, chunk := range chunkIDs(sessionIDs, relationChunkSize) {
		placeholders, args := bindPositional(chunk)
		query := fmt.Sprintf(`SELECT id, session_id, status, created_at, updated_at
            FROM payments WHERE session_id IN (%s)`, placeholders)
		var rows []models.Payment
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		payments = append(payments, rows...)
	}
	return payments, nil
}

func (r *SessionRepository) listScheduleItems(ctx context.Context, sessionIDs []string) ([]models.ScheduleItem, error) {
	var items []models.ScheduleItem
	for _, chunk := range chunkIDs(sessionIDs, relationChunkSize) {
		placeholders, args := bindPositional(chunk)
		query := fmt.Sprintf(`SELECT id, session_id, date, start_time, status, created_at, updated_at
            FROM schedule_items WHERE session_id IN (%s)`, placeholders)
		var rows []models.ScheduleItem
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("list schedule items: %w", err)
		}
		items = append(items, rows...)
	}
	return items, nil
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func bindPositional(ids []string) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

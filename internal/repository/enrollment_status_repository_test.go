package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/course-api/internal/models"
)

func TestEnrollmentStatusRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentStatusRepository(db)

	mock.ExpectExec(`INSERT INTO enrollment_statuses .+ON CONFLICT \(student_id, mentor_id, skill\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status := &models.EnrollmentStatus{
		StudentID:  "stu-1",
		MentorID:   "men-1",
		Skill:      "system design",
		State:      models.EnrollmentOngoing,
		ComputedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(context.Background(), status))
	assert.NotEmpty(t, status.ID, "upsert should assign an id")
	assert.False(t, status.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentStatusRepositoryFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentStatusRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM enrollment_statuses WHERE student_id = \$1 AND mentor_id = \$2 AND skill = \$3`).
		WithArgs("stu-1", "men-1", "system design").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "mentor_id", "skill", "state", "computed_at", "created_at", "updated_at"}).
			AddRow("st-1", "stu-1", "men-1", "system design", models.EnrollmentCompleted, now, now, now))

	status, err := repo.Find(context.Background(), models.EnrollmentKey{StudentID: "stu-1", MentorID: "men-1", Skill: "system design"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, status.State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentStatusRepositoryListByStudentAndState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentStatusRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM enrollment_statuses WHERE student_id = \$1 AND state = \$2`).
		WithArgs("stu-1", models.EnrollmentOngoing).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "mentor_id", "skill", "state", "computed_at", "created_at", "updated_at"}).
			AddRow("st-1", "stu-1", "men-1", "system design", models.EnrollmentOngoing, now, now, now).
			AddRow("st-2", "stu-1", "men-2", "go basics", models.EnrollmentOngoing, now, now, now))

	statuses, err := repo.ListByStudentAndState(context.Background(), "stu-1", models.EnrollmentOngoing)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "men-2", statuses[1].MentorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mentorlink/course-api/internal/models"
)

// ScheduleItemRepository handles the completion flag of schedule items.
type ScheduleItemRepository struct {
	db *sqlx.DB
}

// NewScheduleItemRepository constructs the repository.
func NewScheduleItemRepository(db *sqlx.DB) *ScheduleItemRepository {
	return &ScheduleItemRepository{db: db}
}

// FindByID returns one schedule item.
func (r *ScheduleItemRepository) FindByID(ctx context.Context, id string) (*models.ScheduleItem, error) {
	const query = `SELECT id, session_id, date, start_time, status, created_at, updated_at
        FROM schedule_items WHERE id = $1`
	var item models.ScheduleItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStatus flips the stored completion flag.
func (r *ScheduleItemRepository) UpdateStatus(ctx context.Context, id string, status models.ScheduleItemStatus) error {
	const query = `UPDATE schedule_items SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update schedule item status: %w", err)
	}
	return nil
}

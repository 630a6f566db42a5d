package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/models"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
)

type scheduleItemStore interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleItem, error)
	UpdateStatus(ctx context.Context, id string, status models.ScheduleItemStatus) error
}

type sessionFinder interface {
	FindByID(ctx context.Context, id string) (*models.SessionDetail, error)
}

type enrollmentRecalculator interface {
	RecalculateOne(ctx context.Context, key models.EnrollmentKey) (models.EnrollmentState, error)
}

// ScheduleItemService is a mutation inlet: it flips an occurrence's stored
// completion flag and synchronously recomputes the owning enrollment so the
// status store never lags a user-visible write.
type ScheduleItemService struct {
	items    scheduleItemStore
	sessions sessionFinder
	recalc   enrollmentRecalculator
	logger   *zap.Logger
}

// NewScheduleItemService constructs a ScheduleItemService.
func NewScheduleItemService(items scheduleItemStore, sessions sessionFinder, recalc enrollmentRecalculator, logger *zap.Logger) *ScheduleItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleItemService{items: items, sessions: sessions, recalc: recalc, logger: logger}
}

// Complete marks one schedule item as completed and returns the enrollment
// state recomputed from the new raw data. Completing an already-completed
// item is a no-op that still reports the current state.
func (s *ScheduleItemService) Complete(ctx context.Context, itemID string) (*dto.MutationResponse, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load schedule item")
	}

	if !item.Completed() {
		if err := s.items.UpdateStatus(ctx, itemID, models.ScheduleItemStatusCompleted); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to update schedule item")
		}
	}

	session, err := s.sessions.FindByID(ctx, item.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load owning session")
	}
	key := models.EnrollmentKey{StudentID: session.StudentID, MentorID: session.MentorID, Skill: session.Skill}

	resp := &dto.MutationResponse{
		ID:        itemID,
		Status:    string(models.ScheduleItemStatusCompleted),
		StudentID: key.StudentID,
		MentorID:  key.MentorID,
		Skill:     key.Skill,
	}

	state, err := s.recalc.RecalculateOne(ctx, key)
	if err != nil {
		// The flag write already stuck; the periodic pass will repair the
		// projection, so the mutation itself still succeeds.
		s.logger.Error("post-mutation recalculation failed",
			zap.String("item_id", itemID),
			zap.String("student_id", key.StudentID),
			zap.Error(err))
		return resp, nil
	}
	resp.State = string(state)
	return resp, nil
}

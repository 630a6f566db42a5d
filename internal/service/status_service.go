package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/course-api/internal/engine"
	"github.com/mentorlink/course-api/internal/models"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
)

type sessionBundleReader interface {
	ListBundlesByEnrollment(ctx context.Context, key models.EnrollmentKey) ([]models.SessionBundle, error)
	ListEnrollmentKeys(ctx context.Context) ([]models.EnrollmentKey, error)
}

type statusStore interface {
	Upsert(ctx context.Context, status *models.EnrollmentStatus) error
	Find(ctx context.Context, key models.EnrollmentKey) (*models.EnrollmentStatus, error)
}

// RecalcReport summarises one full recompute pass.
type RecalcReport struct {
	Processed int `json:"processed"`
	Upserted  int `json:"upserted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// VerifyReport summarises one drift audit pass.
type VerifyReport struct {
	Checked  int `json:"checked"`
	Drifted  int `json:"drifted"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

// StatusService owns the enrollment status projection: it rebuilds groups
// from raw session data, classifies them, and upserts the result. It is the
// only writer of enrollment_statuses rows.
type StatusService struct {
	sessions sessionBundleReader
	store    statusStore
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatusService constructs a StatusService.
func NewStatusService(sessions sessionBundleReader, store statusStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{
		sessions: sessions,
		store:    store,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// RecalculateOne rebuilds one enrollment group from current raw data,
// classifies it, and upserts the projection row. PAYMENT_PENDING results are
// never persisted; the row (if any) is left untouched. The operation is a
// pure function of current raw state followed by an idempotent upsert, so it
// is safe to re-run arbitrarily often.
func (s *StatusService) RecalculateOne(ctx context.Context, key models.EnrollmentKey) (models.EnrollmentState, error) {
	start := s.now()

	bundles, err := s.sessions.ListBundlesByEnrollment(ctx, key)
	if err != nil {
		s.metrics.RecordRecalculation("failed", time.Since(start))
		return "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load enrollment sessions")
	}
	group, ok := engine.Group(bundles)[key.GroupKey()]
	if !ok {
		s.metrics.RecordRecalculation("skipped", time.Since(start))
		return "", appErrors.Clone(appErrors.ErrNotFound, "enrollment has no active sessions")
	}

	state := engine.Classify(group)
	if state == models.EnrollmentPaymentPending {
		s.metrics.RecordRecalculation("skipped", time.Since(start))
		s.invalidateDashboards(ctx, key.StudentID)
		return state, nil
	}

	row := &models.EnrollmentStatus{
		StudentID:  key.StudentID,
		MentorID:   key.MentorID,
		Skill:      key.Skill,
		State:      state,
		ComputedAt: s.now().UTC(),
	}
	if err := s.store.Upsert(ctx, row); err != nil {
		s.metrics.RecordRecalculation("failed", time.Since(start))
		return "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to store enrollment status")
	}

	s.metrics.RecordRecalculation("upserted", time.Since(start))
	s.invalidateDashboards(ctx, key.StudentID)
	return state, nil
}

// RecalculateAll recomputes every enrollment with at least one active
// session. A failure on one enrollment is logged and counted without
// aborting the rest. The batch stops cleanly between enrollments when the
// context is cancelled; rows already written stay valid because each write
// is independently idempotent.
func (s *StatusService) RecalculateAll(ctx context.Context) (RecalcReport, error) {
	var report RecalcReport

	keys, err := s.sessions.ListEnrollmentKeys(ctx)
	if err != nil {
		return report, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list enrollments")
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("recalculation interrupted: %w", err)
		}
		report.Processed++
		state, err := s.RecalculateOne(ctx, key)
		switch {
		case err != nil:
			report.Failed++
			s.logger.Error("enrollment recalculation failed",
				zap.String("student_id", key.StudentID),
				zap.String("mentor_id", key.MentorID),
				zap.String("skill", key.Skill),
				zap.Error(err))
		case state == models.EnrollmentPaymentPending:
			report.Skipped++
		default:
			report.Upserted++
		}
	}

	s.logger.Info("recalculation batch finished",
		zap.Int("processed", report.Processed),
		zap.Int("upserted", report.Upserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

// VerifyOne compares the stored state of one enrollment with a fresh
// classification. A mismatch is a repair signal: the stored value is never
// trusted over the raw data, so the enrollment is recalculated immediately.
// Returns whether drift was found.
func (s *StatusService) VerifyOne(ctx context.Context, key models.EnrollmentKey) (bool, error) {
	bundles, err := s.sessions.ListBundlesByEnrollment(ctx, key)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load enrollment sessions")
	}
	group, ok := engine.Group(bundles)[key.GroupKey()]
	if !ok {
		return false, appErrors.Clone(appErrors.ErrNotFound, "enrollment has no active sessions")
	}
	fresh := engine.Classify(group)

	stored, err := s.store.Find(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row yet is only consistent with a payment-pending verdict.
			if fresh == models.EnrollmentPaymentPending {
				return false, nil
			}
			stored = nil
		} else {
			return false, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to read enrollment status")
		}
	}

	consistent := stored != nil && stored.State == fresh
	// A persisted row for a now payment-pending enrollment is stale but kept
	// (payment-pending is never written); treat it as consistent.
	if stored != nil && fresh == models.EnrollmentPaymentPending {
		consistent = true
	}
	if consistent {
		return false, nil
	}

	s.metrics.RecordDrift()
	s.logger.Warn("stored enrollment state disagrees with fresh classification",
		zap.String("student_id", key.StudentID),
		zap.String("mentor_id", key.MentorID),
		zap.String("skill", key.Skill),
		zap.String("fresh", string(fresh)))
	if _, err := s.RecalculateOne(ctx, key); err != nil {
		return true, err
	}
	return true, nil
}

// VerifyAll audits every enrollment for drift between the status store and
// a fresh classification, repairing mismatches as it goes.
func (s *StatusService) VerifyAll(ctx context.Context) (VerifyReport, error) {
	var report VerifyReport

	keys, err := s.sessions.ListEnrollmentKeys(ctx)
	if err != nil {
		return report, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list enrollments")
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("verification interrupted: %w", err)
		}
		report.Checked++
		drifted, err := s.VerifyOne(ctx, key)
		if err != nil {
			report.Failed++
			s.logger.Error("enrollment verification failed",
				zap.String("student_id", key.StudentID),
				zap.String("mentor_id", key.MentorID),
				zap.String("skill", key.Skill),
				zap.Error(err))
			continue
		}
		if drifted {
			report.Drifted++
			report.Repaired++
		}
	}
	return report, nil
}

func (s *StatusService) invalidateDashboards(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("dash:%s:*", studentID)); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

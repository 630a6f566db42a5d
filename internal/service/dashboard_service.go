package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/engine"
	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/pkg/civiltime"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
)

const civilDateLayout = "2006-01-02"

type dashboardSessionReader interface {
	ListBundlesByStudent(ctx context.Context, studentID string) ([]models.SessionBundle, error)
}

type enrollmentStatusReader interface {
	ListByStudentAndState(ctx context.Context, studentID string, state models.EnrollmentState) ([]models.EnrollmentStatus, error)
}

// DashboardService serves the student-facing read surface. Enrollment
// listings come straight from the status store; they are never classified
// on the fly. The today view is the one computation that happens at read
// time, because it is minute-accurate by nature.
type DashboardService struct {
	sessions dashboardSessionReader
	statuses enrollmentStatusReader
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(sessions dashboardSessionReader, statuses enrollmentStatusReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{sessions: sessions, statuses: statuses, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// OngoingEnrollments lists the student's enrollments stored as ONGOING.
// The second return reports whether the response came from cache.
func (s *DashboardService) OngoingEnrollments(ctx context.Context, studentID string) ([]dto.EnrollmentView, bool, error) {
	return s.listEnrollments(ctx, studentID, models.EnrollmentOngoing)
}

// CompletedEnrollments lists the student's enrollments stored as COMPLETED.
func (s *DashboardService) CompletedEnrollments(ctx context.Context, studentID string) ([]dto.EnrollmentView, bool, error) {
	return s.listEnrollments(ctx, studentID, models.EnrollmentCompleted)
}

func (s *DashboardService) listEnrollments(ctx context.Context, studentID string, state models.EnrollmentState) ([]dto.EnrollmentView, bool, error) {
	cacheKey := fmt.Sprintf("dash:%s:enrollments:%s", studentID, state)
	var cached []dto.EnrollmentView
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	rows, err := s.statuses.ListByStudentAndState(ctx, studentID, state)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to read enrollment statuses")
	}
	if len(rows) == 0 {
		return []dto.EnrollmentView{}, false, nil
	}

	bundles, err := s.sessions.ListBundlesByStudent(ctx, studentID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load sessions")
	}
	groups := engine.Group(bundles)

	views := make([]dto.EnrollmentView, 0, len(rows))
	for _, row := range rows {
		view := dto.EnrollmentView{
			MentorID:   row.MentorID,
			Skill:      row.Skill,
			State:      string(row.State),
			ComputedAt: row.ComputedAt,
		}
		if group, ok := groups[row.Key().GroupKey()]; ok {
			decorateView(&view, group)
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Skill != views[j].Skill {
			return views[i].Skill < views[j].Skill
		}
		return views[i].MentorName < views[j].MentorName
	})

	if err := s.cache.Set(ctx, cacheKey, views, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}
	return views, false, nil
}

// decorateView fills session metadata onto a status row. Dates span the
// whole group: earliest start to latest end across its sessions.
func decorateView(view *dto.EnrollmentView, group *models.EnrollmentGroup) {
	var start, end *time.Time
	for i, bundle := range group.Sessions {
		session := bundle.Session
		if i == 0 {
			view.MentorName = session.MentorName
			view.StartTime = session.StartTime
			view.EndTime = session.EndTime
		}
		view.SessionsPerWeek += session.SessionsPerWeek
		if session.StartDate != nil && (start == nil || session.StartDate.Before(*start)) {
			start = session.StartDate
		}
		if session.EndDate != nil && (end == nil || session.EndDate.After(*end)) {
			end = session.EndDate
		}
	}
	if start != nil {
		view.StartDate = civiltime.In(*start).Format(civilDateLayout)
	}
	if end != nil {
		view.EndDate = civiltime.In(*end).Format(civilDateLayout)
	}
}

// TodaysSchedule computes the student's live day view at the supplied
// instant. It is recomputed on every call and never cached: the answer can
// flip from one minute to the next as occurrences cross their effective end.
func (s *DashboardService) TodaysSchedule(ctx context.Context, studentID string, now time.Time) (dto.TodayScheduleResponse, error) {
	resp := dto.TodayScheduleResponse{
		Date:            civiltime.In(now).Format(civilDateLayout),
		PendingApproval: []dto.PendingSessionSlot{},
		PendingPayment:  []dto.EnrollmentSlot{},
		Ongoing:         []dto.EnrollmentDaySlot{},
		Completed:       []dto.EnrollmentDaySlot{},
	}

	bundles, err := s.sessions.ListBundlesByStudent(ctx, studentID)
	if err != nil {
		return resp, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load sessions")
	}
	groups := engine.Group(bundles)

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		slot := dto.EnrollmentSlot{
			MentorID: group.Key.MentorID,
			Skill:    group.Key.Skill,
		}
		for _, bundle := range group.Sessions {
			if slot.MentorName == "" {
				slot.MentorName = bundle.Session.MentorName
			}
			if bundle.Session.Status == models.SessionStatusPending {
				resp.PendingApproval = append(resp.PendingApproval, dto.PendingSessionSlot{
					SessionID:  bundle.Session.ID,
					MentorID:   bundle.Session.MentorID,
					MentorName: bundle.Session.MentorName,
					Skill:      bundle.Session.Skill,
				})
			}
		}

		if !engine.GroupPaid(group) {
			resp.PendingPayment = append(resp.PendingPayment, slot)
			continue
		}

		split := engine.SplitToday(group, now)
		for _, warn := range split.Warnings {
			s.logger.Warn("malformed schedule item",
				zap.String("item_id", warn.ItemID),
				zap.String("reason", warn.Reason))
		}
		if len(split.Ongoing) > 0 {
			resp.Ongoing = append(resp.Ongoing, dto.EnrollmentDaySlot{
				EnrollmentSlot: slot,
				Items:          itemSlots(split.Ongoing),
			})
		}
		if len(split.Completed) > 0 {
			resp.Completed = append(resp.Completed, dto.EnrollmentDaySlot{
				EnrollmentSlot: slot,
				Items:          itemSlots(split.Completed),
			})
		}
	}
	return resp, nil
}

func itemSlots(items []models.ScheduleItem) []dto.ScheduleItemSlot {
	slots := make([]dto.ScheduleItemSlot, 0, len(items))
	for _, item := range items {
		end, _ := engine.EffectiveEnd(item)
		slots = append(slots, dto.ScheduleItemSlot{
			ItemID:    item.ID,
			SessionID: item.SessionID,
			StartTime: item.StartTime,
			EndTime:   civiltime.In(end).Format("15:04"),
			Completed: item.Completed(),
		})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })
	return slots
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/engine"
	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/pkg/civiltime"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
	"github.com/mentorlink/course-api/pkg/export"
)

type exportStatusReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentStatus, error)
}

// ExportService renders a student's enrollment report as CSV or PDF from the
// same stored states the dashboards show.
type ExportService struct {
	statuses exportStatusReader
	sessions dashboardSessionReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(statuses exportStatusReader, sessions dashboardSessionReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		statuses: statuses,
		sessions: sessions,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      time.Now,
	}
}

var enrollmentReportHeaders = []string{"Mentor", "Skill", "Status", "Start Date", "End Date", "Start Time", "End Time", "Sessions / Week", "Computed At"}

// EnrollmentReport renders the report in the requested format ("csv" or
// "pdf") and returns the payload, content type, and suggested filename.
func (s *ExportService) EnrollmentReport(ctx context.Context, studentID, format string) ([]byte, string, string, error) {
	rows, err := s.statuses.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to read enrollment statuses")
	}
	bundles, err := s.sessions.ListBundlesByStudent(ctx, studentID)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load sessions")
	}
	groups := engine.Group(bundles)

	dataset := export.Dataset{Headers: enrollmentReportHeaders}
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
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Mentor":          view.MentorName,
			"Skill":           view.Skill,
			"Status":          view.State,
			"Start Date":      view.StartDate,
			"End Date":        view.EndDate,
			"Start Time":      view.StartTime,
			"End Time":        view.EndTime,
			"Sessions / Week": fmt.Sprintf("%d", view.SessionsPerWeek),
			"Computed At":     civiltime.In(view.ComputedAt).Format("2006-01-02 15:04"),
		})
	}

	stamp := civiltime.In(s.now()).Format("20060102")
	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return payload, "text/csv", fmt.Sprintf("enrollments-%s.csv", stamp), nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Enrollment Report", s.now())
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return payload, "application/pdf", fmt.Sprintf("enrollments-%s.pdf", stamp), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

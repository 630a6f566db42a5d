package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/middleware"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
	"github.com/mentorlink/course-api/pkg/response"
)

type enrollmentService interface {
	OngoingEnrollments(ctx context.Context, studentID string) ([]dto.EnrollmentView, bool, error)
	CompletedEnrollments(ctx context.Context, studentID string) ([]dto.EnrollmentView, bool, error)
}

type enrollmentExporter interface {
	EnrollmentReport(ctx context.Context, studentID, format string) ([]byte, string, string, error)
}

// EnrollmentHandler serves the stored-state enrollment listings.
type EnrollmentHandler struct {
	service  enrollmentService
	exporter enrollmentExporter
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service enrollmentService, exporter enrollmentExporter) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, exporter: exporter}
}

// Ongoing godoc
// @Summary List the student's ongoing enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query string false "Student ID (staff only)"
// @Success 200 {object} response.Envelope
// @Router /enrollments/ongoing [get]
func (h *EnrollmentHandler) Ongoing(c *gin.Context) {
	h.list(c, h.service.OngoingEnrollments)
}

// Completed godoc
// @Summary List the student's completed enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query string false "Student ID (staff only)"
// @Success 200 {object} response.Envelope
// @Router /enrollments/completed [get]
func (h *EnrollmentHandler) Completed(c *gin.Context) {
	h.list(c, h.service.CompletedEnrollments)
}

func (h *EnrollmentHandler) list(c *gin.Context, load func(context.Context, string) ([]dto.EnrollmentView, bool, error)) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID := studentIDForRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	views, cacheHit, err := load(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, views, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export the student's enrollment report
// @Tags Enrollments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param studentId query string false "Student ID (staff only)"
// @Success 200 {file} byte
// @Router /enrollments/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID := studentIDForRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	payload, contentType, filename, err := h.exporter.EnrollmentReport(c.Request.Context(), studentID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

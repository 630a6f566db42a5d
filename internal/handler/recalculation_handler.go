package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/internal/service"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
	"github.com/mentorlink/course-api/pkg/jobs"
	"github.com/mentorlink/course-api/pkg/response"
)

// RecalcJobType labels single-enrollment recalculation jobs on the queue.
const RecalcJobType = "enrollment.recalculate"

type recalculationService interface {
	RecalculateOne(ctx context.Context, key models.EnrollmentKey) (models.EnrollmentState, error)
	RecalculateAll(ctx context.Context) (service.RecalcReport, error)
	VerifyAll(ctx context.Context) (service.VerifyReport, error)
}

// RecalculationHandler exposes the admin recompute and audit surface.
type RecalculationHandler struct {
	service recalculationService
	queue   *jobs.Queue
}

// NewRecalculationHandler constructs the handler.
func NewRecalculationHandler(svc recalculationService, queue *jobs.Queue) *RecalculationHandler {
	return &RecalculationHandler{service: svc, queue: queue}
}

// RecalculateAll godoc
// @Summary Recompute every enrollment's stored state
// @Tags Recalculations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /recalculations [post]
func (h *RecalculationHandler) RecalculateAll(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	report, err := h.service.RecalculateAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// RecalculateEnrollment godoc
// @Summary Recompute one enrollment's stored state
// @Tags Recalculations
// @Accept json
// @Produce json
// @Param request body dto.RecalculateEnrollmentRequest true "Enrollment key"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /recalculations/enrollment [post]
func (h *RecalculationHandler) RecalculateEnrollment(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.RecalculateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if req.StudentID == "" || req.MentorID == "" || req.Skill == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId, mentorId and skill are required"))
		return
	}
	key := models.EnrollmentKey{StudentID: req.StudentID, MentorID: req.MentorID, Skill: req.Skill}

	if req.Async && h.queue != nil {
		err := h.queue.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Type:    RecalcJobType,
			Payload: key,
		})
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "recalculation queue unavailable"))
			return
		}
		response.JSON(c, http.StatusAccepted, gin.H{"enqueued": true}, nil)
		return
	}

	state, err := h.service.RecalculateOne(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"state": state}, nil)
}

// Verify godoc
// @Summary Audit stored states against fresh classifications
// @Tags Recalculations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /recalculations/verify [post]
func (h *RecalculationHandler) Verify(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	report, err := h.service.VerifyAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/pkg/civiltime"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
	"github.com/mentorlink/course-api/pkg/response"
)

type todayScheduleService interface {
	TodaysSchedule(ctx context.Context, studentID string, now time.Time) (dto.TodayScheduleResponse, error)
}

type scheduleItemCompleter interface {
	Complete(ctx context.Context, itemID string) (*dto.MutationResponse, error)
}

// ScheduleHandler serves the live day view and the completion inlet.
type ScheduleHandler struct {
	schedule todayScheduleService
	items    scheduleItemCompleter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedule todayScheduleService, items scheduleItemCompleter) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, items: items}
}

// Today godoc
// @Summary Today's schedule, bucketed by enrollment state
// @Tags Schedule
// @Produce json
// @Param studentId query string false "Student ID (staff only)"
// @Success 200 {object} response.Envelope
// @Router /sessions/today [get]
func (h *ScheduleHandler) Today(c *gin.Context) {
	if h.schedule == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID := studentIDForRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.schedule.TodaysSchedule(c.Request.Context(), studentID, civiltime.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// CompleteItem godoc
// @Summary Mark a schedule item completed
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule item ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-items/{id}/complete [patch]
func (h *ScheduleHandler) CompleteItem(c *gin.Context) {
	if h.items == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	itemID := strings.TrimSpace(c.Param("id"))
	if itemID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schedule item id is required"))
		return
	}
	resp, err := h.items.Complete(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

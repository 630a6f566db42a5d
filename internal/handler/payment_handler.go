package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/course-api/internal/dto"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
	"github.com/mentorlink/course-api/pkg/response"
)

type paymentUpdater interface {
	UpdateStatus(ctx context.Context, paymentID string, req dto.UpdatePaymentStatusRequest) (*dto.MutationResponse, error)
}

// PaymentHandler is the HTTP inlet for payment outcome updates.
type PaymentHandler struct {
	service paymentUpdater
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(service paymentUpdater) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// UpdateStatus godoc
// @Summary Record a payment outcome
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body dto.UpdatePaymentStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /payments/{id}/status [post]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	paymentID := strings.TrimSpace(c.Param("id"))
	if paymentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payment id is required"))
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	resp, err := h.service.UpdateStatus(c.Request.Context(), paymentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

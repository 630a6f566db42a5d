package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mentorlink/course-api/internal/dto"
)

type fakePaymentSrv struct {
	resp    *dto.MutationResponse
	err     error
	lastID  string
	lastReq dto.UpdatePaymentStatusRequest
}

func (f *fakePaymentSrv) UpdateStatus(_ context.Context, paymentID string, req dto.UpdatePaymentStatusRequest) (*dto.MutationResponse, error) {
	f.lastID = paymentID
	f.lastReq = req
	return f.resp, f.err
}

func TestPaymentHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakePaymentSrv{resp: &dto.MutationResponse{ID: "pay-1", State: "ONGOING"}}
	handler := NewPaymentHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/payments/pay-1/status", strings.NewReader(`{"status":"SUCCESS"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "pay-1"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pay-1", srv.lastID)
	assert.Equal(t, "SUCCESS", srv.lastReq.Status)
}

func TestPaymentHandlerUpdateStatusMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(&fakePaymentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/payments/pay-1/status", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "pay-1"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

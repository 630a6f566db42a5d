package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/middleware"
	"github.com/mentorlink/course-api/internal/models"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeScheduleSrv struct {
	resp          dto.TodayScheduleResponse
	err           error
	lastStudentID string
}

func (f *fakeScheduleSrv) TodaysSchedule(_ context.Context, studentID string, _ time.Time) (dto.TodayScheduleResponse, error) {
	f.lastStudentID = studentID
	return f.resp, f.err
}

type fakeItemCompleter struct {
	resp   *dto.MutationResponse
	err    error
	lastID string
}

func (f *fakeItemCompleter) Complete(_ context.Context, itemID string) (*dto.MutationResponse, error) {
	f.lastID = itemID
	return f.resp, f.err
}

func studentContext(rec *httptest.ResponseRecorder, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	return c, rec
}

func TestScheduleHandlerTodayUsesCallerIdentity(t *testing.T) {
	srv := &fakeScheduleSrv{resp: dto.TodayScheduleResponse{Date: "2026-03-02"}}
	handler := NewScheduleHandler(srv, &fakeItemCompleter{})

	c, rec := studentContext(httptest.NewRecorder(), http.MethodGet, "/sessions/today?studentId=stu-other")

	handler.Today(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Students never see anyone else's schedule, whatever they pass.
	assert.Equal(t, "stu-1", srv.lastStudentID)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var resp dto.TodayScheduleResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &resp))
	assert.Equal(t, "2026-03-02", resp.Date)
}

func TestScheduleHandlerTodayUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&fakeScheduleSrv{}, &fakeItemCompleter{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sessions/today", nil)

	handler.Today(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScheduleHandlerCompleteItem(t *testing.T) {
	completer := &fakeItemCompleter{resp: &dto.MutationResponse{ID: "it-1", State: "COMPLETED"}}
	handler := NewScheduleHandler(&fakeScheduleSrv{}, completer)

	c, rec := studentContext(httptest.NewRecorder(), http.MethodPatch, "/schedule-items/it-1/complete")
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}

	handler.CompleteItem(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "it-1", completer.lastID)
}

func TestScheduleHandlerCompleteItemNotFound(t *testing.T) {
	completer := &fakeItemCompleter{err: appErrors.Clone(appErrors.ErrNotFound, "schedule item not found")}
	handler := NewScheduleHandler(&fakeScheduleSrv{}, completer)

	c, rec := studentContext(httptest.NewRecorder(), http.MethodPatch, "/schedule-items/missing/complete")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.CompleteItem(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

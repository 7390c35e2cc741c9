package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

type registrationServiceMock struct {
	registerResp *models.Registration
	registerErr  error
	cancelResp   *models.Registration
	cancelErr    error
	lastRequest  dto.RegisterRequest
	lastCancelID string
	lastCancel   dto.CancelRegistrationRequest
	registered   bool
}

func (m *registrationServiceMock) Register(ctx context.Context, req dto.RegisterRequest) (*models.Registration, error) {
	m.registered = true
	m.lastRequest = req
	return m.registerResp, m.registerErr
}

func (m *registrationServiceMock) Cancel(ctx context.Context, id string, req dto.CancelRegistrationRequest) (*models.Registration, error) {
	m.lastCancelID = id
	m.lastCancel = req
	return m.cancelResp, m.cancelErr
}

func (m *registrationServiceMock) Get(ctx context.Context, id string) (*models.Registration, error) {
	if m.registerResp == nil || m.registerResp.ID != id {
		return nil, appErrors.ErrRegistrationNotFound
	}
	return m.registerResp, nil
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
	Meta  map[string]any   `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func jsonContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func sampleRegistration() *models.Registration {
	return &models.Registration{
		ID:            "4b1c2d7e-8f49-4f7d-9a49-6b8f1d6a0c11",
		Name:          "Kim",
		Grade:         2,
		ClassNumber:   3,
		StudentNumber: 14,
		StudentID:     "2-3-14",
		SessionID:     1,
		SeatRow:       "0",
		SeatCol:       "3",
		Date:          "2025-03-10",
		RegisteredAt:  time.Date(2025, 3, 10, 9, 12, 0, 0, time.UTC),
	}
}

func TestRegistrationHandlerRegister(t *testing.T) {
	mockSvc := &registrationServiceMock{registerResp: sampleRegistration()}
	handler := NewRegistrationHandler(mockSvc)

	payload := []byte(`{"name":"Kim","grade":2,"class_number":3,"student_number":14,"session_id":1,"seat_row":"0","seat_col":"3"}`)
	c, w := jsonContext(http.MethodPost, "/registrations", payload)

	handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 14, mockSvc.lastRequest.StudentNumber)
	assert.Equal(t, "3", mockSvc.lastRequest.SeatCol)

	var body dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &body))
	assert.Equal(t, "2-3-14", body.StudentID)
	assert.Equal(t, dto.SeatPosition{Row: "0", Col: "3"}, body.Seat)
}

func TestRegistrationHandlerRegisterInvalidBody(t *testing.T) {
	mockSvc := &registrationServiceMock{}
	handler := NewRegistrationHandler(mockSvc)

	c, w := jsonContext(http.MethodPost, "/registrations", []byte(`{"name":`))
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.registered)
}

func TestRegistrationHandlerRegisterErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"session", appErrors.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"window", appErrors.WithDetails(appErrors.ErrOutOfWindow, "", map[string]string{"window_open": "09:00", "window_close": "09:15"}), http.StatusForbidden, "OUT_OF_WINDOW"},
		{"grade", appErrors.ErrGradeNotEligible, http.StatusForbidden, "GRADE_NOT_ELIGIBLE"},
		{"seat", appErrors.ErrInvalidSeat, http.StatusBadRequest, "INVALID_SEAT"},
		{"taken", appErrors.ErrSeatTaken, http.StatusConflict, "SEAT_TAKEN"},
		{"student", appErrors.ErrAlreadyRegistered, http.StatusConflict, "ALREADY_REGISTERED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRegistrationHandler(&registrationServiceMock{registerErr: tc.err})
			c, w := jsonContext(http.MethodPost, "/registrations", []byte(`{"name":"Kim"}`))

			handler.Register(c)
			require.Equal(t, tc.status, w.Code)
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestRegistrationHandlerWindowDetails(t *testing.T) {
	err := appErrors.WithDetails(appErrors.ErrOutOfWindow, "", map[string]string{"window_open": "09:00", "window_close": "09:15"})
	handler := NewRegistrationHandler(&registrationServiceMock{registerErr: err})
	c, w := jsonContext(http.MethodPost, "/registrations", []byte(`{}`))

	handler.Register(c)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "09:00", env.Error.Details["window_open"])
	assert.Equal(t, "09:15", env.Error.Details["window_close"])
}

func TestRegistrationHandlerCancel(t *testing.T) {
	cancelled := sampleRegistration()
	cancelled.Cancelled = true
	mockSvc := &registrationServiceMock{cancelResp: cancelled}
	handler := NewRegistrationHandler(mockSvc)

	c, w := jsonContext(http.MethodPost, "/registrations/x/cancel", []byte(`{"reason":"left early"}`))
	c.Params = gin.Params{{Key: "id", Value: cancelled.ID}}

	handler.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cancelled.ID, mockSvc.lastCancelID)
	require.NotNil(t, mockSvc.lastCancel.Reason)
	assert.Equal(t, "left early", *mockSvc.lastCancel.Reason)
}

func TestRegistrationHandlerCancelWithoutBody(t *testing.T) {
	mockSvc := &registrationServiceMock{cancelErr: appErrors.Clone(appErrors.ErrConflict, "registration already cancelled")}
	handler := NewRegistrationHandler(mockSvc)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/registrations/x/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.Cancel(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Nil(t, mockSvc.lastCancel.Reason)
}

func TestRegistrationHandlerCancelWithEmptyChunkedBody(t *testing.T) {
	cancelled := sampleRegistration()
	cancelled.Cancelled = true
	mockSvc := &registrationServiceMock{cancelResp: cancelled}
	handler := NewRegistrationHandler(mockSvc)

	c, w := jsonContext(http.MethodPost, "/registrations/x/cancel", nil)
	c.Request.ContentLength = -1
	c.Request.Body = io.NopCloser(strings.NewReader(""))
	c.Params = gin.Params{{Key: "id", Value: cancelled.ID}}

	handler.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cancelled.ID, mockSvc.lastCancelID)
	assert.Nil(t, mockSvc.lastCancel.Reason)
}

func TestRegistrationHandlerCancelMalformedBody(t *testing.T) {
	mockSvc := &registrationServiceMock{cancelResp: sampleRegistration()}
	handler := NewRegistrationHandler(mockSvc)

	c, w := jsonContext(http.MethodPost, "/registrations/x/cancel", []byte(`{"reason":`))
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.Cancel(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockSvc.lastCancelID)
}

func TestRegistrationHandlerGetIncludesIssueAndNote(t *testing.T) {
	reg := sampleRegistration()
	issue := "noise"
	note := "moved from seat 0-2"
	reg.IssueType = &issue
	reg.Note = &note
	handler := NewRegistrationHandler(&registrationServiceMock{registerResp: reg})

	c, w := jsonContext(http.MethodGet, "/registrations/"+reg.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: reg.ID}}
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &body))
	assert.Equal(t, "noise", body["issue_type"])
	assert.Equal(t, "moved from seat 0-2", body["note"])
}

func TestRegistrationHandlerGet(t *testing.T) {
	reg := sampleRegistration()
	handler := NewRegistrationHandler(&registrationServiceMock{registerResp: reg})

	c, w := jsonContext(http.MethodGet, "/registrations/"+reg.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: reg.ID}}
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = jsonContext(http.MethodGet, "/registrations/other", nil)
	c.Params = gin.Params{{Key: "id", Value: "other"}}
	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

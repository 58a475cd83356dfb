// internal/common/errors/errors_test.go
package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.errors = append(l.errors, msg)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeActivityNotFound, http.StatusBadRequest},
		{ErrCodeParticipantNotFound, http.StatusBadRequest},
		{ErrCodeCapacityExceeded, http.StatusBadRequest},
		{ErrCodeDuplicateSignup, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusUnprocessableEntity},
		{ErrCodeRequestCancelled, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	notFound := NewActivityNotFoundError("Chess Club")

	assert.Same(t, notFound, Normalize(notFound))
	assert.Same(t, notFound, Normalize(fmt.Errorf("wrapped: %w", notFound)))
	assert.Equal(t, ErrCodeRequestCancelled, Normalize(context.Canceled).Code)
	assert.Equal(t, ErrCodeInternal, Normalize(fmt.Errorf("boom")).Code)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "LOOKUP", GetErrorCategory(ErrCodeActivityNotFound))
	assert.Equal(t, "LOOKUP", GetErrorCategory(ErrCodeParticipantNotFound))
	assert.Equal(t, "ROSTER", GetErrorCategory(ErrCodeCapacityExceeded))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestHandleHTTPError_ClientError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup", nil)

	stdErr := h.HandleHTTPError(rec, req, NewCapacityExceededError("Chess Club"))

	assert.Equal(t, ErrCodeCapacityExceeded, stdErr.Code)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Activity is full", body.Detail)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
}

func TestHandleHTTPError_InternalError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities", nil)

	h.HandleHTTPError(rec, req, fmt.Errorf("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())
	assert.Len(t, log.errors, 1)
}

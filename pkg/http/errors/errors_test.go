package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestResponders(t *testing.T) {
	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
		status  int
		code    string
		message string
	}{
		{name: "bad request", respond: func(w http.ResponseWriter) { RespondBadRequest(w, "bad id") }, status: 400, code: ErrCodeBadRequest, message: "bad id"},
		{name: "not found", respond: RespondNotFound, status: 404, code: ErrCodeNotFound, message: MsgNotFound},
		{name: "unprocessable", respond: func(w http.ResponseWriter) { RespondUnprocessable(w, MsgUnprocessable) }, status: 422, code: ErrCodeUnprocessable, message: MsgUnprocessable},
		{name: "internal", respond: RespondInternalError, status: 500, code: ErrCodeInternalError, message: MsgInternal},
		{name: "method", respond: RespondMethodNotAllowed, status: 405, code: ErrCodeMethodNotAllowed, message: "Method not allowed"},
		{name: "unavailable", respond: func(w http.ResponseWriter) { RespondServiceUnavailable(w, "storage unavailable") }, status: 503, code: ErrCodeServiceUnavailable, message: "storage unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.respond(rec)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error)
			assert.Equal(t, tt.message, body.Message)
			assert.Empty(t, body.Field)
		})
	}
}

func TestRespondValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidationError(rec, "difficulty must be between 1 and 5", "difficulty")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, ErrCodeUnprocessable, body.Error)
	assert.Equal(t, "difficulty", body.Field)
}

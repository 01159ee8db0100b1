package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskboard/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindAuth, http.StatusUnauthorized},
		{apperr.KindUnauthenticated, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func TestRespondError(t *testing.T) {
	conflict := apperr.New(apperr.KindConflict, CodeEmailAlreadyExists, "user with this email already exists")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantCode    string
	}{
		{
			name:        "classified error",
			err:         fmt.Errorf("register: %w", conflict),
			wantStatus:  http.StatusConflict,
			wantMessage: "user with this email already exists",
			wantCode:    CodeEmailAlreadyExists,
		},
		{
			name:        "internal error hides cause",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantCode:    CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRespondNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

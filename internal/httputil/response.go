package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/redmonkez12/taskboard/internal/apperr"
)

// ErrorResponse represents a standard error response.
// The web client reads Message.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondNoContent sends an empty 204 response.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Message: message, Code: code}, statusCode)
}

// RespondError writes err using its apperr classification.
// Unclassified errors become a 500 whose body withholds the cause.
func RespondError(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		RespondErrorWithCode(w, "internal server error", CodeInternalError, http.StatusInternalServerError)
		return
	}
	RespondErrorWithCode(w, appErr.Message, appErr.Code, StatusFor(appErr.Kind))
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth, apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

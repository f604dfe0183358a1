package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/identity"
)

// ErrorBody is the JSON error envelope. Code is machine-readable so clients
// can special-case benign rejections like already-completed.
type ErrorBody struct {
	Error ErrorInfo `json:"error"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes v as a JSON response.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// Error writes a JSON error envelope.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Error: ErrorInfo{Code: code, Message: message}})
}

// CallerIdentity resolves the caller from the X-User-ID header, which the
// upstream auth proxy sets after verifying the session. A missing header is
// an anonymous caller; a malformed one is a client error.
func CallerIdentity(r *http.Request) (identity.Identity, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return identity.Anonymous(), true
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return identity.Anonymous(), false
	}
	return identity.User(userID), true
}

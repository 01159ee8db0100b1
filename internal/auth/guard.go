package auth

import (
	"net/http"
	"strings"

	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/logging"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

// Guard authorizes requests to protected endpoints.
type Guard struct {
	verifier TokenVerifier
}

func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authorize extracts the bearer token from the Authorization header and
// returns the verified user id. A missing header, a header without a token
// or a scheme other than Bearer yields ErrMissingToken. A token that fails
// verification yields ErrInvalidToken or ErrExpiredToken.
func (g *Guard) Authorize(r *http.Request) (int64, error) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, ErrMissingToken
	}
	return g.verifier.VerifyToken(token)
}

// Protect adapts a handler that needs the caller's identity. The handler
// only runs after Authorize succeeds.
func (g *Guard) Protect(fn func(w http.ResponseWriter, r *http.Request, userID int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := g.Authorize(r)
		if err != nil {
			logging.GetLoggerFromContext(r.Context()).Debug("request rejected by auth guard", "error", err.Error())
			httputil.RespondError(w, err)
			return
		}
		fn(w, r, userID)
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
)

// TokenVerifier validates access tokens presented by clients.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type ctxKey string

const userIDKey ctxKey = "userID"

// requireAccessToken verifies the Bearer token and stores the subject's user
// id in the request context. Expired and invalid tokens are both 401; the
// distinction matters only to the client's retry logic, not to access control.
func (h *Handler) requireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeMessage(w, http.StatusUnauthorized, "Missing access token")
			return
		}

		claims, err := h.verifier.Verify(token)
		if err != nil {
			h.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			h.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

package auth

import (
	"context"
	"net/http"
	"strings"
)

// Decision is the outcome of authorizing a request.
type Decision struct {
	UserID  string
	Allowed bool
	Reason  string
}

// Authorize reads a Bearer token from the Authorization header, or from the
// access_token query parameter for websocket upgrades that cannot set headers.
func (v *Verifier) Authorize(r *http.Request) Decision {
	raw := bearerToken(r.Header.Get("Authorization"))
	if raw == "" {
		raw = r.URL.Query().Get("access_token")
	}
	if raw == "" {
		return Decision{Reason: "missing token"}
	}
	userID, err := v.Verify(raw)
	if err != nil {
		return Decision{Reason: err.Error()}
	}
	return Decision{UserID: userID, Allowed: true}
}

// Guard admits requests carrying a valid token and stores the user id in the
// request context. Denied requests are handed to deny.
func Guard(v *Verifier, deny func(http.ResponseWriter, *http.Request, Decision)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := v.Authorize(r)
			if !decision.Allowed {
				deny(w, r, decision)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), decision.UserID)))
		})
	}
}

type userKey struct{}

func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the authenticated user id set by Guard.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok && userID != ""
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
)

// Middleware attaches bearer-token resolution to routes.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Attach resolves the bearer token when one is present and stores the user in
// the request context. It never rejects; handlers that need a mandatory
// identity use RequireUser or RequireAdmin.
func (m Middleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := m.Service.Resolve(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireUser rejects requests without a valid bearer token.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.Service.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpx.Error(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireAdmin rejects requests whose resolved user is not an administrator.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.IsAdmin {
			httpx.RespondError(w, httpx.Forbiddenf("not authorized to perform this action"))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

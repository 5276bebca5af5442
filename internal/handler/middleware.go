package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/service"
	"github.com/madan1440/svlf-software/pkg/response"
)

type contextKey string

const sessionUserKey contextKey = "session_user"

// SessionFromContext returns the authenticated identity placed by
// AuthMiddleware, or nil outside an authenticated route.
func SessionFromContext(ctx context.Context) *domain.SessionUser {
	user, _ := ctx.Value(sessionUserKey).(*domain.SessionUser)
	return user
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// AuthMiddleware resolves the bearer token to a session user and
// rejects requests without a live session.
func AuthMiddleware(userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "Missing authorization token")
				return
			}

			session, err := userService.ResolveSession(r.Context(), token)
			if err != nil {
				response.Unauthorized(w, "Session expired or invalid")
				return
			}

			ctx := context.WithValue(r.Context(), sessionUserKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects non-admin sessions. Must run inside AuthMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session == nil || !session.IsAdmin() {
			response.Forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

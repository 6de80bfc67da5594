package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/respond"
	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/service"
)

type contextKey string

const (
	UserKey    contextKey = "user"
	SessionKey contextKey = "session"
)

// Auth requires the session cookie together with the CSRF token header.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieValue string
			if cookie, err := r.Cookie(service.SessionCookie); err == nil {
				cookieValue = cookie.Value
			}

			user, session, err := authService.Authenticate(r.Context(), cookieValue, r.Header.Get(service.CSRFHeader))
			if err != nil {
				log.Printf("ERROR [middleware.Auth] %s %s: %v", r.Method, r.URL.Path, err)
				respond.Error(w, "middleware.Auth", err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok
}

func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok
}

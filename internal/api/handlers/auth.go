package handlers

import (
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/middleware"
	"github.com/dom/xwing-campaign/internal/api/respond"
	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the CSRF token; the session token only travels in
// the cookie.
type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "auth.Login", err)
		return
	}

	session, err := h.authService.Login(r.Context(), username, req.Password)
	if err != nil {
		respond.Error(w, "auth.Login", err)
		return
	}

	value, err := h.authService.CookieValue(session)
	if err != nil {
		respond.Error(w, "auth.Login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  session.Expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respond.OK(w, LoginResponse{Token: session.CSRFToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		respond.Error(w, "auth.Logout", domain.Unauthorized("Not logged in"))
		return
	}

	if err := h.authService.Logout(r.Context(), session); err != nil {
		respond.Error(w, "auth.Logout", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respond.Empty(w)
}

// currentUser returns the authenticated caller or writes Unauthorized.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, "handlers", domain.Unauthorized("Not logged in"))
	}
	return user, ok
}

type IDResponse struct {
	ID string `json:"id"`
}

package handlers

import (
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/respond"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UserSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type PutUserRequest struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respond.Error(w, "user.List", err)
		return
	}

	resp := make([]UserSummary, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserSummary{Name: u.Name, DisplayName: u.DisplayName})
	}
	respond.OK(w, resp)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respond.Error(w, "user.Get", err)
		return
	}
	respond.OK(w, user)
}

func (h *UserHandler) Put(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req PutUserRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "user.Put", err)
		return
	}

	user, err := h.userService.Put(r.Context(), caller, service.PutUserInput{
		Name:        chi.URLParam(r, "name"),
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respond.Error(w, "user.Put", err)
		return
	}
	respond.OK(w, IDResponse{ID: user.ID})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), caller, chi.URLParam(r, "name")); err != nil {
		respond.Error(w, "user.Delete", err)
		return
	}
	respond.Empty(w)
}

package handlers

import (
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/respond"
	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/go-chi/chi/v5"
)

type PilotHandler struct {
	pilotService *service.PilotService
}

func NewPilotHandler(pilotService *service.PilotService) *PilotHandler {
	return &PilotHandler{pilotService: pilotService}
}

type PilotAftermathRequest struct {
	Mission string         `json:"mission"`
	XP      int            `json:"xp"`
	Kills   map[string]int `json:"kills"`
}

type BuyUpgradeRequest struct {
	Mission string `json:"mission"`
	Upgrade string `json:"upgrade"`
}

type ChangeShipRequest struct {
	Mission string `json:"mission"`
	Ship    string `json:"ship"`
}

type IncreaseSkillRequest struct {
	Mission    string `json:"mission"`
	IncreaseBy int    `json:"increaseBy"`
}

func (h *PilotHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	pilot, err := h.pilotService.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, "pilot.Get", err)
		return
	}
	respond.OK(w, pilot)
}

func (h *PilotHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var patch domain.PilotPatch
	if err := respond.Decode(r, &patch); err != nil {
		respond.Error(w, "pilot.Update", err)
		return
	}

	if _, err := h.pilotService.Update(r.Context(), caller, chi.URLParam(r, "id"), patch); err != nil {
		respond.Error(w, "pilot.Update", err)
		return
	}
	respond.Empty(w)
}

func (h *PilotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.pilotService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, "pilot.Delete", err)
		return
	}
	respond.Empty(w)
}

func (h *PilotHandler) Aftermath(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req PilotAftermathRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "pilot.Aftermath", err)
		return
	}

	pilot, err := h.pilotService.MissionAftermath(r.Context(), caller, chi.URLParam(r, "id"), req.Mission, req.XP, req.Kills)
	if err != nil {
		respond.Error(w, "pilot.Aftermath", err)
		return
	}
	respond.OK(w, pilot)
}

func (h *PilotHandler) BuyUpgrade(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req BuyUpgradeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "pilot.BuyUpgrade", err)
		return
	}

	pilot, err := h.pilotService.BuyUpgrade(r.Context(), caller, chi.URLParam(r, "id"), req.Mission, req.Upgrade)
	if err != nil {
		respond.Error(w, "pilot.BuyUpgrade", err)
		return
	}
	respond.OK(w, pilot)
}

func (h *PilotHandler) ChangeShip(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ChangeShipRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "pilot.ChangeShip", err)
		return
	}

	pilot, err := h.pilotService.ChangeShip(r.Context(), caller, chi.URLParam(r, "id"), req.Mission, req.Ship)
	if err != nil {
		respond.Error(w, "pilot.ChangeShip", err)
		return
	}
	respond.OK(w, pilot)
}

func (h *PilotHandler) IncreaseSkill(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req IncreaseSkillRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "pilot.IncreaseSkill", err)
		return
	}

	pilot, err := h.pilotService.IncreaseSkill(r.Context(), caller, chi.URLParam(r, "id"), req.Mission, req.IncreaseBy)
	if err != nil {
		respond.Error(w, "pilot.IncreaseSkill", err)
		return
	}
	respond.OK(w, pilot)
}

func (h *PilotHandler) XP(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	xp, err := h.pilotService.XP(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, "pilot.XP", err)
		return
	}
	respond.OK(w, xp)
}

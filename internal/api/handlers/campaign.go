package handlers

import (
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/respond"
	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/go-chi/chi/v5"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
	pilotService    *service.PilotService
}

func NewCampaignHandler(campaignService *service.CampaignService, pilotService *service.PilotService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		pilotService:    pilotService,
	}
}

type CampaignSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Owner       string `json:"owner"`
}

type CreateCampaignRequest struct {
	DisplayName string `json:"displayName"`
}

type PilotSummary struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Callsign string `json:"callsign"`
}

type CreatePilotRequest struct {
	Owner    string `json:"owner"`
	Callsign string `json:"callsign"`
	Ship     string `json:"ship"`
}

type CampaignAftermathRequest struct {
	Mission string `json:"mission"`
	Victory bool   `json:"victory"`
}

type MissionRequest struct {
	Mission string `json:"mission"`
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaigns, err := h.campaignService.ListForUser(r.Context(), caller, chi.URLParam(r, "username"))
	if err != nil {
		respond.Error(w, "campaign.List", err)
		return
	}

	resp := make([]CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		resp = append(resp, CampaignSummary{ID: c.ID, DisplayName: c.DisplayName, Owner: c.Owner})
	}
	respond.OK(w, resp)
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "campaign.Create", err)
		return
	}

	campaign, err := h.campaignService.Create(r.Context(), caller, service.CreateCampaignInput{
		Owner:       chi.URLParam(r, "username"),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respond.Error(w, "campaign.Create", err)
		return
	}
	respond.OK(w, IDResponse{ID: campaign.ID})
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaign, err := h.campaignService.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, "campaign.Get", err)
		return
	}
	respond.OK(w, campaign)
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var patch domain.CampaignPatch
	if err := respond.Decode(r, &patch); err != nil {
		respond.Error(w, "campaign.Update", err)
		return
	}

	if _, err := h.campaignService.Update(r.Context(), caller, chi.URLParam(r, "id"), patch); err != nil {
		respond.Error(w, "campaign.Update", err)
		return
	}
	respond.Empty(w)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.campaignService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, "campaign.Delete", err)
		return
	}
	respond.Empty(w)
}

func (h *CampaignHandler) Pilots(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	pilots, err := h.campaignService.Pilots(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, "campaign.Pilots", err)
		return
	}

	resp := make([]PilotSummary, 0, len(pilots))
	for _, p := range pilots {
		resp = append(resp, PilotSummary{ID: p.ID, Owner: p.Owner, Callsign: p.Callsign})
	}
	respond.OK(w, resp)
}

func (h *CampaignHandler) CreatePilot(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreatePilotRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "campaign.CreatePilot", err)
		return
	}

	pilot, err := h.pilotService.Create(r.Context(), caller, service.CreatePilotInput{
		CampaignID: chi.URLParam(r, "id"),
		Owner:      req.Owner,
		Callsign:   req.Callsign,
		Ship:       req.Ship,
	})
	if err != nil {
		respond.Error(w, "campaign.CreatePilot", err)
		return
	}
	respond.OK(w, IDResponse{ID: pilot.ID})
}

func (h *CampaignHandler) Aftermath(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CampaignAftermathRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "campaign.Aftermath", err)
		return
	}

	campaign, err := h.campaignService.MissionAftermath(r.Context(), caller, chi.URLParam(r, "id"), req.Mission, req.Victory)
	if err != nil {
		respond.Error(w, "campaign.Aftermath", err)
		return
	}
	respond.OK(w, campaign)
}

func (h *CampaignHandler) Undo(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req MissionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "campaign.Undo", err)
		return
	}

	campaign, err := h.campaignService.UndoMissionAftermath(r.Context(), caller, chi.URLParam(r, "id"), req.Mission)
	if err != nil {
		respond.Error(w, "campaign.Undo", err)
		return
	}
	respond.OK(w, campaign)
}

func (h *CampaignHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req MissionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, "campaign.Unlock", err)
		return
	}

	campaign, err := h.campaignService.UnlockMission(r.Context(), caller, chi.URLParam(r, "id"), req.Mission)
	if err != nil {
		respond.Error(w, "campaign.Unlock", err)
		return
	}
	respond.OK(w, campaign)
}

func (h *CampaignHandler) Status(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	status, err := h.campaignService.Status(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, "campaign.Status", err)
		return
	}
	respond.OK(w, status)
}

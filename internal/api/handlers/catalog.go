package handlers

import (
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/respond"
	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type ShipSummary struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	RequiredSkill int    `json:"requiredSkill"`
}

type UpgradeSummary struct {
	Name        string      `json:"name"`
	Slot        domain.Slot `json:"slot"`
	Cost        int         `json:"cost"`
	DisplayName string      `json:"displayName"`
}

type MissionSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (h *CatalogHandler) Ships(w http.ResponseWriter, r *http.Request) {
	ships, err := h.catalogService.ListShips(r.Context())
	if err != nil {
		respond.Error(w, "catalog.Ships", err)
		return
	}

	resp := make([]ShipSummary, len(ships))
	for i, s := range ships {
		resp[i] = ShipSummary{Name: s.Name, DisplayName: s.DisplayName, RequiredSkill: s.RequiredSkill}
	}
	respond.OK(w, resp)
}

func (h *CatalogHandler) Ship(w http.ResponseWriter, r *http.Request) {
	ship, err := h.catalogService.GetShip(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respond.Error(w, "catalog.Ship", err)
		return
	}
	respond.OK(w, ship)
}

// Upgrades lists all upgrades, or those of the {slot} path parameter.
func (h *CatalogHandler) Upgrades(w http.ResponseWriter, r *http.Request) {
	slot := domain.Slot(chi.URLParam(r, "slot"))

	upgrades, err := h.catalogService.ListUpgrades(r.Context(), slot)
	if err != nil {
		respond.Error(w, "catalog.Upgrades", err)
		return
	}

	resp := make([]UpgradeSummary, len(upgrades))
	for i, u := range upgrades {
		resp[i] = UpgradeSummary{Name: u.Name, Slot: u.Slot, Cost: u.Cost, DisplayName: u.DisplayName}
	}
	respond.OK(w, resp)
}

func (h *CatalogHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	upgrade, err := h.catalogService.GetUpgrade(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respond.Error(w, "catalog.Upgrade", err)
		return
	}
	respond.OK(w, upgrade)
}

func (h *CatalogHandler) Missions(w http.ResponseWriter, r *http.Request) {
	h.listMissions(w, r, false)
}

func (h *CatalogHandler) InitialMissions(w http.ResponseWriter, r *http.Request) {
	h.listMissions(w, r, true)
}

func (h *CatalogHandler) listMissions(w http.ResponseWriter, r *http.Request, startingOnly bool) {
	missions, err := h.catalogService.ListMissions(r.Context(), startingOnly)
	if err != nil {
		respond.Error(w, "catalog.Missions", err)
		return
	}

	resp := make([]MissionSummary, len(missions))
	for i, m := range missions {
		resp[i] = MissionSummary{Name: m.Name, DisplayName: m.DisplayName}
	}
	respond.OK(w, resp)
}

func (h *CatalogHandler) Mission(w http.ResponseWriter, r *http.Request) {
	mission, err := h.catalogService.GetMission(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respond.Error(w, "catalog.Mission", err)
		return
	}
	respond.OK(w, mission)
}

package service

import (
	"context"
	"sort"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
)

// CatalogService serves the read-only reference data: ships, missions and
// upgrades.
type CatalogService struct {
	shipRepo    repository.ShipRepository
	missionRepo repository.MissionRepository
	upgradeRepo repository.UpgradeRepository
}

func NewCatalogService(shipRepo repository.ShipRepository, missionRepo repository.MissionRepository, upgradeRepo repository.UpgradeRepository) *CatalogService {
	return &CatalogService{
		shipRepo:    shipRepo,
		missionRepo: missionRepo,
		upgradeRepo: upgradeRepo,
	}
}

func (s *CatalogService) ListShips(ctx context.Context) ([]*domain.Ship, error) {
	ships, err := s.shipRepo.Select(ctx, nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(ships, func(i, j int) bool { return ships[i].Name < ships[j].Name })
	return ships, nil
}

func (s *CatalogService) GetShip(ctx context.Context, name string) (*domain.Ship, error) {
	ship, err := s.shipRepo.FindOne(ctx, repository.Filter{"name": name})
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NotFound("Unknown ship %s", name)
		}
		return nil, err
	}
	return ship, nil
}

// ListMissions returns every mission, or only the starting missions.
func (s *CatalogService) ListMissions(ctx context.Context, startingOnly bool) ([]*domain.Mission, error) {
	filter := repository.Filter{}
	if startingOnly {
		filter["starting_mission"] = true
	}
	missions, err := s.missionRepo.Select(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.Slice(missions, func(i, j int) bool { return missions[i].Name < missions[j].Name })
	return missions, nil
}

func (s *CatalogService) GetMission(ctx context.Context, name string) (*domain.Mission, error) {
	mission, err := s.missionRepo.FindOne(ctx, repository.Filter{"name": name})
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NotFound("Unknown mission %s", name)
		}
		return nil, err
	}
	return mission, nil
}

// ListUpgrades returns every upgrade, or those fitting one slot type.
func (s *CatalogService) ListUpgrades(ctx context.Context, slot domain.Slot) ([]*domain.Upgrade, error) {
	filter := repository.Filter{}
	if slot != "" {
		if !slot.IsValid() {
			return nil, domain.Invalid("Unknown slot %s", slot)
		}
		filter["slot"] = slot
	}
	upgrades, err := s.upgradeRepo.Select(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.Slice(upgrades, func(i, j int) bool { return upgrades[i].Name < upgrades[j].Name })
	return upgrades, nil
}

func (s *CatalogService) GetUpgrade(ctx context.Context, name string) (*domain.Upgrade, error) {
	upgrade, err := s.upgradeRepo.FindOne(ctx, repository.Filter{"name": name})
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NotFound("Unknown upgrade %s", name)
		}
		return nil, err
	}
	return upgrade, nil
}

// upgradesByName loads the catalog entries of the named upgrades.
func (s *CatalogService) upgradesByName(ctx context.Context, names []string) ([]*domain.Upgrade, error) {
	if len(names) == 0 {
		return nil, nil
	}
	upgrades, err := s.upgradeRepo.Select(ctx, repository.Filter{"name": names})
	if err != nil {
		return nil, err
	}
	return upgrades, nil
}

package service

import (
	"context"
	"log"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
)

type PilotService struct {
	pilotRepo    repository.PilotRepository
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	catalog      *CatalogService
	members      membership
	lockRetries  int
}

func NewPilotService(pilotRepo repository.PilotRepository, campaignRepo repository.CampaignRepository, userRepo repository.UserRepository, catalog *CatalogService, lockRetries int) *PilotService {
	return &PilotService{
		pilotRepo:    pilotRepo,
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		catalog:      catalog,
		members:      membership{campaignRepo: campaignRepo, pilotRepo: pilotRepo},
		lockRetries:  lockRetries,
	}
}

type CreatePilotInput struct {
	CampaignID string
	Owner      string
	Callsign   string
	Ship       string
}

// PilotXP breaks down the experience of a pilot.
type PilotXP struct {
	Initial int `json:"initial"`
	Earned  int `json:"earned"`
	Spent   int `json:"spent"`
	Current int `json:"current"`
	Skill   int `json:"skill"`
}

// Create adds a pilot to a campaign. Only the campaign owner may enlist
// pilots, and only in a starting ship.
func (s *PilotService) Create(ctx context.Context, caller *domain.User, input CreatePilotInput) (*domain.Pilot, error) {
	switch {
	case input.Owner == "":
		return nil, domain.Invalid("Owner must be set")
	case input.Callsign == "":
		return nil, domain.Invalid("Callsign must be set")
	case input.Ship == "":
		return nil, domain.Invalid("Ship must be set")
	}

	campaign, err := s.campaignRepo.Get(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(campaign.Owner, caller); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindOne(ctx, repository.Filter{"name": input.Owner}); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NotFound("Unknown user %s", input.Owner)
		}
		return nil, err
	}

	ship, err := s.catalog.GetShip(ctx, input.Ship)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Invalid("Unknown ship %s", input.Ship)
		}
		return nil, err
	}
	if !ship.StartingShip {
		return nil, domain.Invalid("%s is not a starting ship", ship.DisplayName)
	}

	pilot := domain.NewPilot(campaign.ID, input.Owner, input.Callsign, ship.Name, ship.InitialXP)
	if err := pilot.Validate(); err != nil {
		return nil, err
	}

	id, err := s.pilotRepo.Put(ctx, pilot)
	if err != nil {
		return nil, err
	}
	log.Printf("Pilot %s (%s) joined campaign %s", id, pilot.Callsign, campaign.ID)
	return pilot, nil
}

// Get returns a pilot to its owner and to anyone taking part in its campaign.
func (s *PilotService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Pilot, error) {
	pilot, err := s.pilotRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pilot.Owner == caller.Name {
		return pilot, nil
	}

	campaign, err := s.campaignRepo.Get(ctx, pilot.CampaignID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Forbidden("Pilot %s belongs to %s", pilot.Callsign, pilot.Owner)
		}
		return nil, err
	}
	if err := s.members.canRead(ctx, campaign, caller); err != nil {
		return nil, err
	}
	return pilot, nil
}

// Update applies a partial update. A version in the patch must match the
// stored one. Ship and initial XP only change through the XP mutators.
func (s *PilotService) Update(ctx context.Context, caller *domain.User, id string, patch domain.PilotPatch) (*domain.Pilot, error) {
	pilot, err := s.pilotRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(pilot.Owner, caller); err != nil {
		return nil, err
	}
	if err := pilot.Apply(patch); err != nil {
		return nil, err
	}
	if _, err := s.pilotRepo.Put(ctx, pilot); err != nil {
		return nil, err
	}
	return pilot, nil
}

func (s *PilotService) Delete(ctx context.Context, caller *domain.User, id string) error {
	pilot, err := s.pilotRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(pilot.Owner, caller); err != nil {
		return err
	}
	return s.pilotRepo.Delete(ctx, pilot.ID, pilot.Version)
}

// MissionAftermath records XP and kills of one mission. The campaign owner
// may do this for every pilot.
func (s *PilotService) MissionAftermath(ctx context.Context, caller *domain.User, id, missionName string, xp int, kills map[string]int) (*domain.Pilot, error) {
	mission, err := s.catalog.GetMission(ctx, missionName)
	if err != nil {
		return nil, err
	}

	return mutate[domain.Pilot](ctx, s.pilotRepo, s.lockRetries, id, func(p *domain.Pilot) error {
		if p.Owner != caller.Name {
			campaign, err := s.campaignRepo.Get(ctx, p.CampaignID)
			if err != nil {
				return err
			}
			if err := requireOwner(campaign.Owner, caller); err != nil {
				return err
			}
		}
		return p.MissionAftermath(mission.Name, xp, kills)
	})
}

// BuyUpgrade spends XP on an upgrade that fits a free slot of the pilot's ship.
func (s *PilotService) BuyUpgrade(ctx context.Context, caller *domain.User, id, mission, upgradeName string) (*domain.Pilot, error) {
	upgrade, err := s.catalog.GetUpgrade(ctx, upgradeName)
	if err != nil {
		return nil, err
	}

	return mutate[domain.Pilot](ctx, s.pilotRepo, s.lockRetries, id, func(p *domain.Pilot) error {
		if err := requireOwner(p.Owner, caller); err != nil {
			return err
		}
		ship, err := s.catalog.GetShip(ctx, p.Ship)
		if err != nil {
			return err
		}
		owned, err := s.catalog.upgradesByName(ctx, p.Upgrades)
		if err != nil {
			return err
		}
		// BuyUpgrade rejects owned upgrades with a clearer message than
		// the slot check would
		if !p.HasUpgrade(upgrade.Name) {
			if err := p.CheckUpgrade(ship, upgrade, owned); err != nil {
				return err
			}
		}
		return p.BuyUpgrade(mission, upgrade)
	})
}

func (s *PilotService) ChangeShip(ctx context.Context, caller *domain.User, id, mission, shipName string) (*domain.Pilot, error) {
	ship, err := s.catalog.GetShip(ctx, shipName)
	if err != nil {
		return nil, err
	}

	return mutate[domain.Pilot](ctx, s.pilotRepo, s.lockRetries, id, func(p *domain.Pilot) error {
		if err := requireOwner(p.Owner, caller); err != nil {
			return err
		}
		return p.ChangeShip(mission, ship)
	})
}

func (s *PilotService) IncreaseSkill(ctx context.Context, caller *domain.User, id, mission string, increaseBy int) (*domain.Pilot, error) {
	return mutate[domain.Pilot](ctx, s.pilotRepo, s.lockRetries, id, func(p *domain.Pilot) error {
		if err := requireOwner(p.Owner, caller); err != nil {
			return err
		}
		return p.IncreaseSkill(mission, increaseBy)
	})
}

func (s *PilotService) XP(ctx context.Context, caller *domain.User, id string) (*PilotXP, error) {
	pilot, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return &PilotXP{
		Initial: pilot.InitialXP,
		Earned:  pilot.TotalEarnedXP(),
		Spent:   pilot.TotalSpentXP(),
		Current: pilot.CurrentXP(),
		Skill:   pilot.Skill(),
	}, nil
}

package service

import (
	"context"
	"log"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
)

type CampaignService struct {
	campaignRepo repository.CampaignRepository
	pilotRepo    repository.PilotRepository
	catalog      *CatalogService
	members      membership
	lockRetries  int
}

func NewCampaignService(campaignRepo repository.CampaignRepository, pilotRepo repository.PilotRepository, catalog *CatalogService, lockRetries int) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		pilotRepo:    pilotRepo,
		catalog:      catalog,
		members:      membership{campaignRepo: campaignRepo, pilotRepo: pilotRepo},
		lockRetries:  lockRetries,
	}
}

type CreateCampaignInput struct {
	Owner       string
	DisplayName string
}

// CampaignStatus summarizes the standing of a campaign.
type CampaignStatus struct {
	RebelVP        int                  `json:"rebelVP"`
	ImperialVP     int                  `json:"imperialVP"`
	VictoryStatus  domain.MissionStatus `json:"victoryStatus"`
	CurrentMission string               `json:"currentMission"`
	MissionDeck    []string             `json:"missionDeck"`
}

// ListForUser returns the campaigns owned by username.
func (s *CampaignService) ListForUser(ctx context.Context, caller *domain.User, username string) ([]*domain.Campaign, error) {
	if caller.Name != username {
		return nil, domain.Forbidden("Cannot list campaigns of %s", username)
	}
	return s.campaignRepo.Select(ctx, repository.Filter{"owner": username}, "id", "owner", "display_name")
}

// Create stores a new campaign whose deck holds every starting mission.
func (s *CampaignService) Create(ctx context.Context, caller *domain.User, input CreateCampaignInput) (*domain.Campaign, error) {
	if caller.Name != input.Owner {
		return nil, domain.Forbidden("Cannot create campaigns for %s", input.Owner)
	}

	campaign := domain.NewCampaign(input.Owner, input.DisplayName)
	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	starting, err := s.catalog.ListMissions(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, m := range starting {
		campaign.UnlockMission(m.Name)
	}

	id, err := s.campaignRepo.Put(ctx, campaign)
	if err != nil {
		return nil, err
	}
	log.Printf("Campaign %s created by %s", id, caller.Name)
	return campaign, nil
}

func (s *CampaignService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.members.canRead(ctx, campaign, caller); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Update applies a partial update. A version in the patch must match the
// stored one.
func (s *CampaignService) Update(ctx context.Context, caller *domain.User, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(campaign.Owner, caller); err != nil {
		return nil, err
	}
	if err := campaign.Apply(patch); err != nil {
		return nil, err
	}
	if _, err := s.campaignRepo.Put(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Delete removes the campaign and then its pilots.
func (s *CampaignService) Delete(ctx context.Context, caller *domain.User, id string) error {
	campaign, err := s.campaignRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(campaign.Owner, caller); err != nil {
		return err
	}
	if err := s.campaignRepo.Delete(ctx, campaign.ID, campaign.Version); err != nil {
		return err
	}

	pilots, err := s.pilotRepo.Select(ctx, repository.Filter{"campaign_id": id}, "id", "version")
	if err != nil {
		log.Printf("ERROR [campaign.Delete] campaignID=%s listing pilots: %v", id, err)
		return nil
	}
	for _, p := range pilots {
		if err := s.pilotRepo.Delete(ctx, p.ID, p.Version); err != nil {
			log.Printf("ERROR [campaign.Delete] campaignID=%s pilotID=%s: %v", id, p.ID, err)
		}
	}
	return nil
}

// Pilots lists the pilots of a campaign.
func (s *CampaignService) Pilots(ctx context.Context, caller *domain.User, id string) ([]*domain.Pilot, error) {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.pilotRepo.Select(ctx, repository.Filter{"campaign_id": id}, "id", "owner", "callsign")
}

// MissionAftermath records the result of a mission from the deck.
func (s *CampaignService) MissionAftermath(ctx context.Context, caller *domain.User, id, missionName string, victory bool) (*domain.Campaign, error) {
	mission, err := s.catalog.GetMission(ctx, missionName)
	if err != nil {
		return nil, err
	}

	return mutate[domain.Campaign](ctx, s.campaignRepo, s.lockRetries, id, func(c *domain.Campaign) error {
		if err := requireOwner(c.Owner, caller); err != nil {
			return err
		}
		if !c.HasMission(mission.Name) {
			return domain.Conflict("Mission %s is not in the mission deck", mission.Name)
		}
		return c.MissionAftermath(mission, victory)
	})
}

func (s *CampaignService) UndoMissionAftermath(ctx context.Context, caller *domain.User, id, missionName string) (*domain.Campaign, error) {
	mission, err := s.catalog.GetMission(ctx, missionName)
	if err != nil {
		return nil, err
	}

	return mutate[domain.Campaign](ctx, s.campaignRepo, s.lockRetries, id, func(c *domain.Campaign) error {
		if err := requireOwner(c.Owner, caller); err != nil {
			return err
		}
		return c.UndoMissionAftermath(mission)
	})
}

// UnlockMission puts a catalog mission into the deck by hand.
func (s *CampaignService) UnlockMission(ctx context.Context, caller *domain.User, id, missionName string) (*domain.Campaign, error) {
	mission, err := s.catalog.GetMission(ctx, missionName)
	if err != nil {
		return nil, err
	}

	return mutate[domain.Campaign](ctx, s.campaignRepo, s.lockRetries, id, func(c *domain.Campaign) error {
		if err := requireOwner(c.Owner, caller); err != nil {
			return err
		}
		c.UnlockMission(mission.Name)
		return nil
	})
}

func (s *CampaignService) Status(ctx context.Context, caller *domain.User, id string) (*CampaignStatus, error) {
	campaign, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return &CampaignStatus{
		RebelVP:        campaign.TotalRebelVP(),
		ImperialVP:     campaign.TotalImperialVP(),
		VictoryStatus:  campaign.VictoryStatus(),
		CurrentMission: campaign.CurrentMission(),
		MissionDeck:    campaign.MissionDeck,
	}, nil
}

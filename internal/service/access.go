package service

import (
	"context"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
)

// membership answers who may see a campaign and its pilots.
type membership struct {
	campaignRepo repository.CampaignRepository
	pilotRepo    repository.PilotRepository
}

// isMember reports whether username owns a pilot in the campaign.
func (m membership) isMember(ctx context.Context, campaignID, username string) (bool, error) {
	pilots, err := m.pilotRepo.Select(ctx, repository.Filter{"campaign_id": campaignID, "owner": username}, "id")
	if err != nil {
		return false, err
	}
	return len(pilots) > 0, nil
}

func (m membership) canRead(ctx context.Context, campaign *domain.Campaign, caller *domain.User) error {
	if campaign.Owner == caller.Name {
		return nil
	}
	member, err := m.isMember(ctx, campaign.ID, caller.Name)
	if err != nil {
		return err
	}
	if !member {
		return domain.Forbidden("%s is not part of campaign %s", caller.Name, campaign.DisplayName)
	}
	return nil
}

func requireOwner(owner string, caller *domain.User) error {
	if owner != caller.Name {
		return domain.Forbidden("Only %s may change this", owner)
	}
	return nil
}

// mutate loads the document, applies fn and stores it. When the write loses
// a version race the whole cycle is repeated, at most attempts times.
func mutate[T any](ctx context.Context, repo repository.Collection[T], attempts int, id string, fn func(doc *T) error) (*T, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		doc, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(doc); err != nil {
			return nil, err
		}
		if _, err := repo.Put(ctx, doc); err != nil {
			if domain.IsKind(err, domain.KindLocking) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return doc, nil
	}
	return nil, lastErr
}

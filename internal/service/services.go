package service

import (
	"github.com/dom/xwing-campaign/internal/config"
	"github.com/dom/xwing-campaign/internal/repository"
)

type Services struct {
	Auth     *AuthService
	User     *UserService
	Catalog  *CatalogService
	Campaign *CampaignService
	Pilot    *PilotService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	auth := NewAuthService(repos.User, repos.Session, NewBcryptHasher(cfg.BcryptCost), cfg)
	catalog := NewCatalogService(repos.Ship, repos.Mission, repos.Upgrade)

	return &Services{
		Auth:     auth,
		User:     NewUserService(repos.User, auth, cfg.AdminUser),
		Catalog:  catalog,
		Campaign: NewCampaignService(repos.Campaign, repos.Pilot, catalog, cfg.LockRetries),
		Pilot:    NewPilotService(repos.Pilot, repos.Campaign, repos.User, catalog, cfg.LockRetries),
	}
}

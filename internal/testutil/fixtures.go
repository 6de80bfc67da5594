package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name        string
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	name := fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	return &UserBuilder{
		name:        name,
		displayName: name,
		password:    "testpassword123",
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the store and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, repos *repository.Repositories) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Name:        b.name,
		DisplayName: b.displayName,
		PwHash:      string(hashedPassword),
	}

	if _, err := repos.User.Put(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// CampaignBuilder creates test campaigns with a builder pattern
type CampaignBuilder struct {
	owner       *domain.User
	displayName string
	deck        []string
}

func NewCampaignBuilder() *CampaignBuilder {
	return &CampaignBuilder{
		displayName: "Test Campaign",
	}
}

func (b *CampaignBuilder) WithOwner(user *domain.User) *CampaignBuilder {
	b.owner = user
	return b
}

func (b *CampaignBuilder) WithDisplayName(name string) *CampaignBuilder {
	b.displayName = name
	return b
}

func (b *CampaignBuilder) WithDeck(missions ...string) *CampaignBuilder {
	b.deck = missions
	return b
}

// Build creates the campaign, and an owner if none was given
func (b *CampaignBuilder) Build(t *testing.T, repos *repository.Repositories) *domain.Campaign {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, repos)
		b.owner = user
	}

	campaign := domain.NewCampaign(b.owner.Name, b.displayName)
	for _, m := range b.deck {
		campaign.UnlockMission(m)
	}

	if _, err := repos.Campaign.Put(context.Background(), campaign); err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}

	return campaign
}

// PilotBuilder creates test pilots with a builder pattern
type PilotBuilder struct {
	campaign  *domain.Campaign
	owner     *domain.User
	callsign  string
	ship      string
	initialXP int
	missions  []domain.PilotMission
}

func NewPilotBuilder() *PilotBuilder {
	return &PilotBuilder{
		callsign: "Rookie",
		ship:     "x-wing",
	}
}

func (b *PilotBuilder) WithCampaign(campaign *domain.Campaign) *PilotBuilder {
	b.campaign = campaign
	return b
}

func (b *PilotBuilder) WithOwner(user *domain.User) *PilotBuilder {
	b.owner = user
	return b
}

func (b *PilotBuilder) WithCallsign(callsign string) *PilotBuilder {
	b.callsign = callsign
	return b
}

func (b *PilotBuilder) WithShip(ship string) *PilotBuilder {
	b.ship = ship
	return b
}

func (b *PilotBuilder) WithInitialXP(xp int) *PilotBuilder {
	b.initialXP = xp
	return b
}

// WithMission records XP earned in a mission
func (b *PilotBuilder) WithMission(mission string, xp int) *PilotBuilder {
	b.missions = append(b.missions, domain.PilotMission{Mission: mission, XP: xp, Kills: map[string]int{}})
	return b
}

// Build creates the pilot, and a campaign and owner if none were given
func (b *PilotBuilder) Build(t *testing.T, repos *repository.Repositories) *domain.Pilot {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, repos)
		b.owner = user
	}
	if b.campaign == nil {
		b.campaign = NewCampaignBuilder().WithOwner(b.owner).Build(t, repos)
	}

	pilot := domain.NewPilot(b.campaign.ID, b.owner.Name, b.callsign, b.ship, b.initialXP)
	pilot.PlayedMissions = append(pilot.PlayedMissions, b.missions...)

	if _, err := repos.Pilot.Put(context.Background(), pilot); err != nil {
		t.Fatalf("failed to create pilot: %v", err)
	}

	return pilot
}

// CreateShip stores a ship with the given slots
func CreateShip(t *testing.T, repos *repository.Repositories, ship domain.Ship, slots domain.ShipSlots) *domain.Ship {
	t.Helper()

	if ship.DisplayName == "" {
		ship.DisplayName = ship.Name
	}
	ship.Slots = datatypes.NewJSONType(slots)

	if _, err := repos.Ship.Put(context.Background(), &ship); err != nil {
		t.Fatalf("failed to create ship: %v", err)
	}
	return &ship
}

// CreateMission stores a mission
func CreateMission(t *testing.T, repos *repository.Repositories, mission domain.Mission) *domain.Mission {
	t.Helper()

	if mission.DisplayName == "" {
		mission.DisplayName = mission.Name
	}

	if _, err := repos.Mission.Put(context.Background(), &mission); err != nil {
		t.Fatalf("failed to create mission: %v", err)
	}
	return &mission
}

// CreateUpgrade stores an upgrade
func CreateUpgrade(t *testing.T, repos *repository.Repositories, upgrade domain.Upgrade) *domain.Upgrade {
	t.Helper()

	if upgrade.DisplayName == "" {
		upgrade.DisplayName = upgrade.Name
	}

	if _, err := repos.Upgrade.Put(context.Background(), &upgrade); err != nil {
		t.Fatalf("failed to create upgrade: %v", err)
	}
	return &upgrade
}

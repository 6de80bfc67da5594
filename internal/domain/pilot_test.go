package domain_test

import (
	"testing"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newPilot(initialXP int) *domain.Pilot {
	return domain.NewPilot("campaign-1", "wedge", "Red Two", "xwing", initialXP)
}

func TestPilot_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.Pilot)
	}{
		{"missing campaign", func(p *domain.Pilot) { p.CampaignID = "" }},
		{"missing owner", func(p *domain.Pilot) { p.Owner = "" }},
		{"missing callsign", func(p *domain.Pilot) { p.Callsign = "" }},
		{"missing ship", func(p *domain.Pilot) { p.Ship = "" }},
		{"negative initial xp", func(p *domain.Pilot) { p.InitialXP = -1 }},
	}

	require.NoError(t, newPilot(0).Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPilot(0)
			tt.mutate(p)
			assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
		})
	}
}

func TestPilot_MissionAftermathUpserts(t *testing.T) {
	p := newPilot(2)

	require.NoError(t, p.MissionAftermath("m1", 4, map[string]int{"tie": 1}))
	require.NoError(t, p.MissionAftermath("m2", 3, nil))
	require.NoError(t, p.MissionAftermath("m1", 6, map[string]int{"tie": 2}))

	require.Len(t, p.PlayedMissions, 2)
	assert.Equal(t, 6, p.PlayedMissions[0].XP)
	assert.Equal(t, 2, p.PlayedMissions[0].Kills["tie"])
	assert.Equal(t, 9, p.TotalEarnedXP())
	assert.Equal(t, 6, p.TotalEarnedXP("m1"))
	assert.Equal(t, 0, p.TotalEarnedXP("unknown"))
	assert.Equal(t, 11, p.CurrentXP())
}

func TestPilot_BuyUpgrade(t *testing.T) {
	p := newPilot(0)
	require.NoError(t, p.MissionAftermath("M1", 10, map[string]int{}))
	require.Equal(t, 10, p.CurrentXP())

	err := p.BuyUpgrade("M1", &domain.Upgrade{Name: "u1", Cost: 7, DisplayName: "U1"})
	require.NoError(t, err)
	assert.Equal(t, 3, p.CurrentXP())
	assert.Contains(t, []string(p.Upgrades), "u1")

	err = p.BuyUpgrade("M1", &domain.Upgrade{Name: "u2", Cost: 5, DisplayName: "U2"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, p.CurrentXP())
	assert.Len(t, p.SpentXP, 1)
	assert.Equal(t, domain.XPSpend{Mission: "M1", Kind: domain.SpendUpgrade, Value: "u1", XP: 7, DisplayName: "U1"}, p.SpentXP[0])
}

func TestPilot_BuyOwnedUpgradeTwice(t *testing.T) {
	p := newPilot(20)
	unique := &domain.Upgrade{Name: "r2d2", Cost: 4, DisplayName: "R2-D2", Unique: true}
	plain := &domain.Upgrade{Name: "proton", Cost: 4, DisplayName: "Proton Torpedoes"}

	require.NoError(t, p.BuyUpgrade("m1", unique))
	assert.ErrorIs(t, p.BuyUpgrade("m1", unique), domain.ErrConflict)

	require.NoError(t, p.BuyUpgrade("m1", plain))
	assert.ErrorIs(t, p.BuyUpgrade("m1", plain), domain.ErrConflict)

	assert.Equal(t, []string{"r2d2", "proton"}, []string(p.Upgrades))
	assert.Equal(t, 12, p.CurrentXP(), "a rejected purchase is not charged")
	assert.Len(t, p.SpentXP, 2)
}

func TestPilot_Skill(t *testing.T) {
	p := newPilot(0)
	assert.Equal(t, domain.BaseSkill, p.Skill())

	p.SpendXP("m1", domain.SpendSkillIncrease, "3", 0, "Pilot Skill +1")
	p.SpendXP("m1", domain.SpendUpgrade, "u1", 0, "U1")
	assert.Equal(t, 3, p.Skill())
}

func TestPilot_IncreaseSkill(t *testing.T) {
	tests := []struct {
		name       string
		initialXP  int
		increaseBy int
		wantErr    error
		wantSpent  []int
		wantSkill  int
	}{
		{"two steps from base", 14, 2, nil, []int{6, 8}, 4},
		{"one step", 6, 1, nil, []int{6}, 3},
		{"cannot afford all steps", 13, 2, domain.ErrConflict, nil, 2},
		{"zero steps", 100, 0, domain.ErrValidation, nil, 2},
		{"negative steps", 100, -1, domain.ErrValidation, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPilot(tt.initialXP)

			err := p.IncreaseSkill("m1", tt.increaseBy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, p.SpentXP)
			} else {
				require.NoError(t, err)
			}

			var spent []int
			for _, s := range p.SpentXP {
				assert.Equal(t, domain.SpendSkillIncrease, s.Kind)
				assert.Equal(t, "Pilot Skill +1", s.DisplayName)
				spent = append(spent, s.XP)
			}
			assert.Equal(t, tt.wantSpent, spent)
			assert.Equal(t, tt.wantSkill, p.Skill())
			assert.GreaterOrEqual(t, p.CurrentXP(), 0)
		})
	}
}

func TestSkillIncreaseCost(t *testing.T) {
	assert.Equal(t, 14, domain.SkillIncreaseCost(2, 2))
	assert.Equal(t, 10, domain.SkillIncreaseCost(4, 1))
	assert.Equal(t, 0, domain.SkillIncreaseCost(2, 0))
}

func TestPilot_ChangeShip(t *testing.T) {
	ywing := &domain.Ship{Name: "ywing", DisplayName: "Y-Wing", RequiredSkill: 3}
	awing := &domain.Ship{Name: "awing", DisplayName: "A-Wing", RequiredSkill: 5}

	skilled := func(xp, skill int) *domain.Pilot {
		p := newPilot(xp)
		for i := domain.BaseSkill; i < skill; i++ {
			p.SpendXP("m0", domain.SpendSkillIncrease, "", 0, "Pilot Skill +1")
		}
		return p
	}

	tests := []struct {
		name     string
		pilot    *domain.Pilot
		ship     *domain.Ship
		wantErr  error
		wantShip string
	}{
		{"insufficient xp", skilled(4, 4), ywing, domain.ErrConflict, "xwing"},
		{"skill below minimum", skilled(10, 3), ywing, domain.ErrConflict, "xwing"},
		{"ship requires more skill", skilled(10, 4), awing, domain.ErrConflict, "xwing"},
		{"changes ship", skilled(5, 4), ywing, nil, "ywing"},
		{"missing ship", skilled(10, 4), nil, domain.ErrValidation, "xwing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.pilot.SpentXP)

			err := tt.pilot.ChangeShip("m1", tt.ship)

			assert.Equal(t, tt.wantShip, tt.pilot.Ship)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, tt.pilot.SpentXP, before)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tt.pilot.CurrentXP())
			last := tt.pilot.SpentXP[len(tt.pilot.SpentXP)-1]
			assert.Equal(t, domain.SpendShipChange, last.Kind)
			assert.Equal(t, domain.ShipChangeCost, last.XP)
		})
	}
}

func TestPilot_CheckUpgrade(t *testing.T) {
	ship := &domain.Ship{
		Name:        "xwing",
		DisplayName: "X-Wing",
		Slots: datatypes.NewJSONType(domain.ShipSlots{
			1: {domain.SlotAstromech, domain.SlotTorpedo},
			4: {domain.SlotElite},
		}),
	}
	torpedo := &domain.Upgrade{Name: "proton", Slot: domain.SlotTorpedo}
	elite := &domain.Upgrade{Name: "marksmanship", Slot: domain.SlotElite}
	cannon := &domain.Upgrade{Name: "ion", Slot: domain.SlotCannon}

	p := newPilot(0)

	assert.NoError(t, p.CheckUpgrade(ship, torpedo, nil))
	assert.ErrorIs(t, p.CheckUpgrade(ship, torpedo, []*domain.Upgrade{torpedo}), domain.ErrConflict)
	assert.ErrorIs(t, p.CheckUpgrade(ship, elite, nil), domain.ErrConflict)
	assert.ErrorIs(t, p.CheckUpgrade(ship, cannon, nil), domain.ErrConflict)

	p.SpendXP("m1", domain.SpendSkillIncrease, "3", 0, "Pilot Skill +1")
	p.SpendXP("m1", domain.SpendSkillIncrease, "4", 0, "Pilot Skill +1")
	assert.NoError(t, p.CheckUpgrade(ship, elite, nil))
}

func TestPilot_XPNeverNegative(t *testing.T) {
	p := newPilot(3)
	require.NoError(t, p.MissionAftermath("m1", 9, nil))

	ops := []func() error{
		func() error { return p.IncreaseSkill("m1", 1) },
		func() error { return p.BuyUpgrade("m1", &domain.Upgrade{Name: "a", Cost: 5}) },
		func() error { return p.BuyUpgrade("m1", &domain.Upgrade{Name: "b", Cost: 2}) },
		func() error { return p.IncreaseSkill("m1", 1) },
		func() error { return p.ChangeShip("m1", &domain.Ship{Name: "ywing"}) },
		func() error { return p.BuyUpgrade("m1", &domain.Upgrade{Name: "c", Cost: 1}) },
	}

	for _, op := range ops {
		before := len(p.SpentXP)
		if err := op(); err != nil {
			assert.True(t, domain.IsKind(err, domain.KindConflict), "unexpected error %v", err)
			assert.Len(t, p.SpentXP, before)
		}
		assert.GreaterOrEqual(t, p.CurrentXP(), 0)
	}
	assert.Equal(t, 0, p.CurrentXP())
}

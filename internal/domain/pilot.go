package domain

import (
	"strconv"

	"gorm.io/datatypes"
)

// SpendKind is the reason an XP ledger entry was recorded.
type SpendKind string

const (
	SpendSkillIncrease SpendKind = "skillIncrease"
	SpendUpgrade       SpendKind = "upgrade"
	SpendShipChange    SpendKind = "shipChange"
	SpendTalent        SpendKind = "talent"
	SpendAbility       SpendKind = "ability"
)

func (k SpendKind) IsValid() bool {
	switch k {
	case SpendSkillIncrease, SpendUpgrade, SpendShipChange, SpendTalent, SpendAbility:
		return true
	}
	return false
}

const (
	BaseSkill          = 2
	ShipChangeCost     = 5
	ShipChangeMinSkill = 4
)

// PilotMission is the XP and kills a pilot earned in one mission.
type PilotMission struct {
	Mission string         `json:"mission"`
	XP      int            `json:"xp"`
	Kills   map[string]int `json:"kills"`
}

// XPSpend is one entry in the append-only XP ledger.
type XPSpend struct {
	Mission     string    `json:"mission"`
	Kind        SpendKind `json:"kind"`
	Value       string    `json:"value"`
	XP          int       `json:"xp"`
	DisplayName string    `json:"displayName"`
}

/*
Pilot is one player's character in a campaign.

CurrentXP is InitialXP plus everything earned in PlayedMissions minus the
SpentXP ledger. Every spending mutator checks affordability before it
records anything, so CurrentXP never drops below zero through them.
*/
type Pilot struct {
	Record
	CampaignID     string                            `json:"campaignId" gorm:"index;not null"`
	Owner          string                            `json:"owner" gorm:"index;not null"`
	Ship           string                            `json:"ship" gorm:"not null"`
	Callsign       string                            `json:"callsign" gorm:"not null"`
	InitialXP      int                               `json:"initialXP" gorm:"column:initial_xp;not null"`
	PlayedMissions datatypes.JSONSlice[PilotMission] `json:"playedMissions"`
	SpentXP        datatypes.JSONSlice[XPSpend]      `json:"spentXP" gorm:"column:spent_xp"`
	Upgrades       datatypes.JSONSlice[string]       `json:"upgrades"`
}

func NewPilot(campaignID, owner, callsign, ship string, initialXP int) *Pilot {
	return &Pilot{
		CampaignID:     campaignID,
		Owner:          owner,
		Callsign:       callsign,
		Ship:           ship,
		InitialXP:      initialXP,
		PlayedMissions: datatypes.JSONSlice[PilotMission]{},
		SpentXP:        datatypes.JSONSlice[XPSpend]{},
		Upgrades:       datatypes.JSONSlice[string]{},
	}
}

func (p *Pilot) Validate() error {
	if p.CampaignID == "" {
		return Invalid("Campaign must be set")
	}
	if p.Owner == "" {
		return Invalid("Owner must be set")
	}
	if p.Callsign == "" {
		return Invalid("Callsign must be set")
	}
	if p.Ship == "" {
		return Invalid("Ship must be set")
	}
	if p.InitialXP < 0 {
		return Invalid("Initial XP must not be negative")
	}
	return nil
}

// TotalEarnedXP sums the XP of all played missions, or of the named
// missions only when names are given.
func (p *Pilot) TotalEarnedXP(missions ...string) int {
	total := 0
	for _, pm := range p.PlayedMissions {
		if len(missions) > 0 && !containsString(missions, pm.Mission) {
			continue
		}
		total += pm.XP
	}
	return total
}

func (p *Pilot) TotalSpentXP() int {
	total := 0
	for _, s := range p.SpentXP {
		total += s.XP
	}
	return total
}

func (p *Pilot) CurrentXP() int {
	return p.InitialXP + p.TotalEarnedXP() - p.TotalSpentXP()
}

// MissionAftermath records what the pilot earned in a mission. Recording the
// same mission again replaces the earlier result.
func (p *Pilot) MissionAftermath(mission string, xp int, kills map[string]int) error {
	if mission == "" {
		return Invalid("Mission must be set")
	}
	if xp < 0 {
		return Invalid("XP must not be negative")
	}
	if kills == nil {
		kills = map[string]int{}
	}

	for i := range p.PlayedMissions {
		if p.PlayedMissions[i].Mission == mission {
			p.PlayedMissions[i].XP = xp
			p.PlayedMissions[i].Kills = kills
			return nil
		}
	}
	p.PlayedMissions = append(p.PlayedMissions, PilotMission{Mission: mission, XP: xp, Kills: kills})
	return nil
}

// SpendXP appends a ledger entry. Callers check affordability first.
func (p *Pilot) SpendXP(mission string, kind SpendKind, value string, xp int, displayName string) {
	p.SpentXP = append(p.SpentXP, XPSpend{
		Mission:     mission,
		Kind:        kind,
		Value:       value,
		XP:          xp,
		DisplayName: displayName,
	})
}

func (p *Pilot) Skill() int {
	skill := BaseSkill
	for _, s := range p.SpentXP {
		if s.Kind == SpendSkillIncrease {
			skill++
		}
	}
	return skill
}

func (p *Pilot) HasUpgrade(name string) bool {
	return containsString(p.Upgrades, name)
}

// CheckUpgrade tells whether ship can mount upgrade given the pilot's skill
// and the upgrades already owned. owned must hold the catalog entries of
// p.Upgrades.
func (p *Pilot) CheckUpgrade(ship *Ship, upgrade *Upgrade, owned []*Upgrade) error {
	if ship == nil || upgrade == nil {
		return Invalid("Ship and upgrade must be set")
	}

	available := 0
	for _, slot := range ship.SlotsAt(p.Skill()) {
		if slot == upgrade.Slot {
			available++
		}
	}
	if available == 0 {
		return Conflict("%s has no %s slot at skill %d", ship.DisplayName, upgrade.Slot, p.Skill())
	}

	used := 0
	for _, u := range owned {
		if u.Slot == upgrade.Slot {
			used++
		}
	}
	if used >= available {
		return Conflict("All %s slots are taken", upgrade.Slot)
	}
	return nil
}

// BuyUpgrade spends upgrade.Cost XP and adds the upgrade to the owned set.
// An upgrade is owned at most once.
func (p *Pilot) BuyUpgrade(mission string, upgrade *Upgrade) error {
	if upgrade == nil || upgrade.Name == "" {
		return Invalid("Upgrade must be set")
	}
	if upgrade.Cost < 0 {
		return Invalid("Upgrade cost must not be negative")
	}
	if p.HasUpgrade(upgrade.Name) {
		if upgrade.Unique {
			return Conflict("Unique upgrade %s is already owned", upgrade.Name)
		}
		return Conflict("Upgrade %s is already owned", upgrade.Name)
	}
	if p.CurrentXP() < upgrade.Cost {
		return Conflict("Insufficient XP")
	}

	p.SpendXP(mission, SpendUpgrade, upgrade.Name, upgrade.Cost, upgrade.DisplayName)
	p.Upgrades = append(p.Upgrades, upgrade.Name)
	return nil
}

// ChangeShip moves the pilot to ship for ShipChangeCost XP.
func (p *Pilot) ChangeShip(mission string, ship *Ship) error {
	if ship == nil || ship.Name == "" {
		return Invalid("Ship must be set")
	}
	if p.CurrentXP() < ShipChangeCost {
		return Conflict("Insufficient XP")
	}
	skill := p.Skill()
	if skill < ShipChangeMinSkill {
		return Conflict("Pilot skill %d is too low to change ships", skill)
	}
	if ship.RequiredSkill > skill {
		return Conflict("%s requires pilot skill %d", ship.DisplayName, ship.RequiredSkill)
	}

	p.SpendXP(mission, SpendShipChange, ship.Name, ShipChangeCost, ship.DisplayName)
	p.Ship = ship.Name
	return nil
}

// SkillIncreaseCost is the XP needed to raise skill by steps levels starting
// at from. Each single step from level s costs (s+1)*2.
func SkillIncreaseCost(from, steps int) int {
	total := 0
	for i := 0; i < steps; i++ {
		total += (from + i + 1) * 2
	}
	return total
}

// IncreaseSkill raises the pilot skill by increaseBy levels, recording one
// ledger entry per level. The whole increase must be affordable up front.
func (p *Pilot) IncreaseSkill(mission string, increaseBy int) error {
	if increaseBy <= 0 {
		return Invalid("Skill increase must be positive")
	}

	skill := p.Skill()
	if p.CurrentXP() < SkillIncreaseCost(skill, increaseBy) {
		return Conflict("Insufficient XP")
	}

	for i := 0; i < increaseBy; i++ {
		p.SpendXP(mission, SpendSkillIncrease, strconv.Itoa(skill+i+1), SkillIncreaseCost(skill+i, 1), "Pilot Skill +1")
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

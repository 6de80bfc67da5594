package domain

import (
	"gorm.io/datatypes"
)

// CampaignPatch is a partial campaign update. Nil fields are left alone;
// present fields apply even when they hold the zero value. Version, when
// present, is the version the client read and becomes the expected version
// of the following write.
type CampaignPatch struct {
	Version        *int             `json:"version"`
	Owner          *string          `json:"owner"`
	DisplayName    *string          `json:"displayName"`
	MissionDeck    *[]string        `json:"missionDeck"`
	PlayedMissions *[]PlayedMission `json:"playedMissions"`
}

func (c *Campaign) Apply(p CampaignPatch) error {
	if p.Version != nil && *p.Version < 0 {
		return Invalid("Version must not be negative")
	}
	if p.MissionDeck != nil && hasDuplicates(*p.MissionDeck) {
		return Invalid("Mission deck must not contain duplicates")
	}
	if p.PlayedMissions != nil {
		for _, pm := range *p.PlayedMissions {
			if pm.Status != StatusVictory && pm.Status != StatusDefeat {
				return Invalid("Mission status must be %s or %s", StatusVictory, StatusDefeat)
			}
		}
	}

	next := *c
	if p.Version != nil {
		next.Version = *p.Version
	}
	if p.Owner != nil {
		next.Owner = *p.Owner
	}
	if p.DisplayName != nil {
		next.DisplayName = *p.DisplayName
	}
	if p.MissionDeck != nil {
		next.MissionDeck = append(datatypes.JSONSlice[string]{}, *p.MissionDeck...)
	}
	if p.PlayedMissions != nil {
		next.PlayedMissions = append(datatypes.JSONSlice[PlayedMission]{}, *p.PlayedMissions...)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}

// PilotPatch is a partial pilot update with the same rules as CampaignPatch.
// The XP ledger can only grow through the pilot mutators, so SpentXP and
// Upgrades are not patchable. Ship and InitialXP may be sent back unchanged;
// any other value is a Conflict.
type PilotPatch struct {
	Version        *int            `json:"version"`
	Owner          *string         `json:"owner"`
	Ship           *string         `json:"ship"`
	Callsign       *string         `json:"callsign"`
	InitialXP      *int            `json:"initialXP"`
	PlayedMissions *[]PilotMission `json:"playedMissions"`
}

func (p *Pilot) Apply(patch PilotPatch) error {
	if patch.Version != nil && *patch.Version < 0 {
		return Invalid("Version must not be negative")
	}
	if patch.Ship != nil && *patch.Ship != p.Ship {
		return Conflict("Ships are changed with changeShip")
	}
	if patch.InitialXP != nil && *patch.InitialXP != p.InitialXP {
		return Conflict("Initial XP is granted only when the pilot is created")
	}

	next := *p
	if patch.Version != nil {
		next.Version = *patch.Version
	}
	if patch.Owner != nil {
		next.Owner = *patch.Owner
	}
	if patch.Callsign != nil {
		next.Callsign = *patch.Callsign
	}
	if patch.PlayedMissions != nil {
		seen := make(map[string]bool, len(*patch.PlayedMissions))
		for _, pm := range *patch.PlayedMissions {
			if pm.Mission == "" || seen[pm.Mission] {
				return Invalid("Played missions must name distinct missions")
			}
			if pm.XP < 0 {
				return Invalid("XP must not be negative")
			}
			seen[pm.Mission] = true
		}
		next.PlayedMissions = append(datatypes.JSONSlice[PilotMission]{}, *patch.PlayedMissions...)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if next.CurrentXP() < 0 {
		return Conflict("Insufficient XP")
	}

	*p = next
	return nil
}

func hasDuplicates(list []string) bool {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

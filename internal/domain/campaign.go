package domain

import (
	"gorm.io/datatypes"
)

type MissionStatus string

const (
	StatusVictory MissionStatus = "Victory"
	StatusDefeat  MissionStatus = "Defeat"
	StatusDraw    MissionStatus = "Draw"
)

// PlayedMission is the campaign-level record of one played mission.
type PlayedMission struct {
	Name       string        `json:"name"`
	Status     MissionStatus `json:"status"`
	RebelVP    int           `json:"rebelVP"`
	ImperialVP int           `json:"imperialVP"`
}

/*
Campaign tracks which missions are available and how the played ones went.

MissionDeck holds each available mission name at most once; PlayedMissions
is appended to by MissionAftermath and shrunk only by UndoMissionAftermath.
*/
type Campaign struct {
	Record
	Owner          string                             `json:"owner" gorm:"index;not null"`
	DisplayName    string                             `json:"displayName" gorm:"not null"`
	MissionDeck    datatypes.JSONSlice[string]        `json:"missionDeck"`
	PlayedMissions datatypes.JSONSlice[PlayedMission] `json:"playedMissions"`
}

func NewCampaign(owner, displayName string) *Campaign {
	return &Campaign{
		Owner:          owner,
		DisplayName:    displayName,
		MissionDeck:    datatypes.JSONSlice[string]{},
		PlayedMissions: datatypes.JSONSlice[PlayedMission]{},
	}
}

func (c *Campaign) Validate() error {
	if c.Owner == "" {
		return Invalid("Owner must be set")
	}
	if c.DisplayName == "" {
		return Invalid("Display name must be set")
	}
	return nil
}

// CurrentMission returns the name of the most recently played mission, or ""
// if nothing was played yet.
func (c *Campaign) CurrentMission() string {
	if len(c.PlayedMissions) == 0 {
		return ""
	}
	return c.PlayedMissions[len(c.PlayedMissions)-1].Name
}

func (c *Campaign) HasMission(name string) bool {
	for _, m := range c.MissionDeck {
		if m == name {
			return true
		}
	}
	return false
}

// UnlockMission adds name to the mission deck unless it is already there.
func (c *Campaign) UnlockMission(name string) {
	if name == "" || c.HasMission(name) {
		return
	}
	c.MissionDeck = append(c.MissionDeck, name)
}

// RemoveMission drops name from the mission deck if present.
func (c *Campaign) RemoveMission(name string) {
	for i, m := range c.MissionDeck {
		if m == name {
			c.MissionDeck = append(c.MissionDeck[:i], c.MissionDeck[i+1:]...)
			return
		}
	}
}

// MissionAftermath applies the result of playing mission: victory points
// for both sides, deck changes, and a new entry in PlayedMissions.
func (c *Campaign) MissionAftermath(mission *Mission, victory bool) error {
	if mission == nil || mission.Name == "" {
		return Invalid("Mission must be set")
	}

	played := PlayedMission{Name: mission.Name}
	if victory {
		played.Status = StatusVictory
		played.RebelVP = mission.RebelVP
		c.RemoveMission(mission.Name)
		c.UnlockMission(mission.UnlockOnVictory)
	} else {
		played.Status = StatusDefeat
		played.ImperialVP = mission.ImperialVP
		if !mission.ReplayOnDefeat {
			c.RemoveMission(mission.Name)
		}
		c.UnlockMission(mission.UnlockOnDefeat)
	}

	c.PlayedMissions = append(c.PlayedMissions, played)
	return nil
}

// UndoMissionAftermath reverts the most recent play of mission: the mission
// it unlocked leaves the deck, the play record is dropped and the mission
// itself goes back into the deck.
func (c *Campaign) UndoMissionAftermath(mission *Mission) error {
	if mission == nil || mission.Name == "" {
		return Invalid("Mission must be set")
	}

	idx := -1
	for i := len(c.PlayedMissions) - 1; i >= 0; i-- {
		if c.PlayedMissions[i].Name == mission.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Conflict("Mission %s was not played", mission.Name)
	}

	if c.PlayedMissions[idx].Status == StatusVictory {
		if mission.UnlockOnVictory != "" {
			c.RemoveMission(mission.UnlockOnVictory)
		}
	} else if mission.UnlockOnDefeat != "" {
		c.RemoveMission(mission.UnlockOnDefeat)
	}

	c.PlayedMissions = append(c.PlayedMissions[:idx], c.PlayedMissions[idx+1:]...)
	c.UnlockMission(mission.Name)
	return nil
}

func (c *Campaign) TotalRebelVP() int {
	total := 0
	for _, m := range c.PlayedMissions {
		total += m.RebelVP
	}
	return total
}

func (c *Campaign) TotalImperialVP() int {
	total := 0
	for _, m := range c.PlayedMissions {
		total += m.ImperialVP
	}
	return total
}

// VictoryStatus reports the standing of the rebel side.
func (c *Campaign) VictoryStatus() MissionStatus {
	rebel, imperial := c.TotalRebelVP(), c.TotalImperialVP()
	switch {
	case rebel > imperial:
		return StatusVictory
	case rebel < imperial:
		return StatusDefeat
	default:
		return StatusDraw
	}
}

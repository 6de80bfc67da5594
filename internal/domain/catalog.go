package domain

import (
	"sort"

	"gorm.io/datatypes"
)

type Slot string

const (
	SlotAstromech         Slot = "Astromech"
	SlotBomb              Slot = "Bomb"
	SlotCannon            Slot = "Cannon"
	SlotCargo             Slot = "Cargo"
	SlotCrew              Slot = "Crew"
	SlotElite             Slot = "Elite"
	SlotHardpoint         Slot = "Hardpoint"
	SlotIllicit           Slot = "Illicit"
	SlotModification      Slot = "Modification"
	SlotMissile           Slot = "Missile"
	SlotSalvagedAstromech Slot = "Salvaged Astromech"
	SlotSystem            Slot = "System"
	SlotTeam              Slot = "Team"
	SlotTech              Slot = "Tech"
	SlotTitle             Slot = "Title"
	SlotTorpedo           Slot = "Torpedo"
	SlotTurret            Slot = "Turret"
)

var validSlots = map[Slot]bool{
	SlotAstromech: true, SlotBomb: true, SlotCannon: true, SlotCargo: true,
	SlotCrew: true, SlotElite: true, SlotHardpoint: true, SlotIllicit: true,
	SlotModification: true, SlotMissile: true, SlotSalvagedAstromech: true,
	SlotSystem: true, SlotTeam: true, SlotTech: true, SlotTitle: true,
	SlotTorpedo: true, SlotTurret: true,
}

func (s Slot) IsValid() bool {
	return validSlots[s]
}

// Slots returns every known slot in name order.
func Slots() []Slot {
	slots := make([]Slot, 0, len(validSlots))
	for s := range validSlots {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// ShipSlots maps a required pilot skill to the upgrade slots a ship offers
// once that skill is reached. The same slot may appear more than once.
type ShipSlots map[int][]Slot

// Ship is static reference data.
type Ship struct {
	Record
	Name          string                        `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName   string                        `json:"displayName" gorm:"not null"`
	RequiredSkill int                           `json:"requiredSkill" gorm:"not null"`
	StartingShip  bool                          `json:"startingShip" gorm:"not null"`
	InitialXP     int                           `json:"initialXP" gorm:"column:initial_xp;not null"`
	Slots         datatypes.JSONType[ShipSlots] `json:"slots"`
}

// SlotsAt returns every slot available to a pilot with the given skill,
// ordered by required skill.
func (s *Ship) SlotsAt(skill int) []Slot {
	slots := s.Slots.Data()
	levels := make([]int, 0, len(slots))
	for level := range slots {
		if level <= skill {
			levels = append(levels, level)
		}
	}
	sort.Ints(levels)

	var result []Slot
	for _, level := range levels {
		result = append(result, slots[level]...)
	}
	return result
}

// Mission is static reference data. Empty unlock names mean nothing is unlocked.
type Mission struct {
	Record
	Name            string `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName     string `json:"displayName" gorm:"not null"`
	StoryArc        string `json:"storyArc"`
	StartingMission bool   `json:"startingMission" gorm:"index;not null"`
	Warmup          bool   `json:"warmup" gorm:"not null"`
	Territory       string `json:"territory"`
	ReplayOnDefeat  bool   `json:"replayOnDefeat" gorm:"not null"`
	UnlockOnVictory string `json:"unlockOnVictory"`
	UnlockOnDefeat  string `json:"unlockOnDefeat"`
	RebelVP         int    `json:"rebelVP" gorm:"column:rebel_vp;not null"`
	ImperialVP      int    `json:"imperialVP" gorm:"column:imperial_vp;not null"`
	Info            string `json:"info"`
}

// Upgrade is static reference data.
type Upgrade struct {
	Record
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"displayName" gorm:"not null"`
	Slot        Slot   `json:"slot" gorm:"index;not null"`
	Cost        int    `json:"cost" gorm:"not null"`
	Description string `json:"description"`
	Unique      bool   `json:"unique" gorm:"not null"`
}

package domain_test

import (
	"testing"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMission(name string) *domain.Mission {
	return &domain.Mission{
		Name:        name,
		DisplayName: name,
		RebelVP:     3,
		ImperialVP:  2,
	}
}

func TestCampaign_Validate(t *testing.T) {
	tests := []struct {
		name     string
		campaign *domain.Campaign
		wantErr  bool
	}{
		{"valid", domain.NewCampaign("luke", "Rebellion"), false},
		{"missing owner", domain.NewCampaign("", "Rebellion"), true},
		{"missing display name", domain.NewCampaign("luke", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.campaign.Validate()
			if tt.wantErr {
				assert.True(t, domain.IsKind(err, domain.KindValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCampaign_UnlockMissionIsIdempotent(t *testing.T) {
	c := domain.NewCampaign("luke", "Rebellion")

	c.UnlockMission("m1")
	c.UnlockMission("m1")

	assert.Equal(t, []string{"m1"}, []string(c.MissionDeck))
}

func TestCampaign_RemoveMission(t *testing.T) {
	c := domain.NewCampaign("luke", "Rebellion")
	c.UnlockMission("m1")
	c.UnlockMission("m2")

	c.RemoveMission("m1")
	c.RemoveMission("absent")

	assert.Equal(t, []string{"m2"}, []string(c.MissionDeck))
}

func TestCampaign_MissionAftermath(t *testing.T) {
	tests := []struct {
		name       string
		mission    *domain.Mission
		victory    bool
		deck       []string
		wantDeck   []string
		wantPlayed domain.PlayedMission
	}{
		{
			name:       "victory removes mission",
			mission:    newMission("m1"),
			victory:    true,
			deck:       []string{"m1", "m2"},
			wantDeck:   []string{"m2"},
			wantPlayed: domain.PlayedMission{Name: "m1", Status: domain.StatusVictory, RebelVP: 3},
		},
		{
			name: "victory unlocks follow-up once",
			mission: func() *domain.Mission {
				m := newMission("m1")
				m.UnlockOnVictory = "m3"
				return m
			}(),
			victory:    true,
			deck:       []string{"m1", "m3"},
			wantDeck:   []string{"m3"},
			wantPlayed: domain.PlayedMission{Name: "m1", Status: domain.StatusVictory, RebelVP: 3},
		},
		{
			name:       "defeat removes mission",
			mission:    newMission("m1"),
			victory:    false,
			deck:       []string{"m1"},
			wantDeck:   []string{},
			wantPlayed: domain.PlayedMission{Name: "m1", Status: domain.StatusDefeat, ImperialVP: 2},
		},
		{
			name: "defeat keeps replayable mission and unlocks",
			mission: func() *domain.Mission {
				m := newMission("m1")
				m.ReplayOnDefeat = true
				m.UnlockOnDefeat = "m4"
				return m
			}(),
			victory:    false,
			deck:       []string{"m1"},
			wantDeck:   []string{"m1", "m4"},
			wantPlayed: domain.PlayedMission{Name: "m1", Status: domain.StatusDefeat, ImperialVP: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.NewCampaign("luke", "Rebellion")
			for _, m := range tt.deck {
				c.UnlockMission(m)
			}

			require.NoError(t, c.MissionAftermath(tt.mission, tt.victory))

			assert.Equal(t, tt.wantDeck, []string(c.MissionDeck))
			require.Len(t, c.PlayedMissions, 1)
			assert.Equal(t, tt.wantPlayed, c.PlayedMissions[0])
			assert.Equal(t, tt.mission.Name, c.CurrentMission())
		})
	}
}

func TestCampaign_UndoMissionAftermath(t *testing.T) {
	for _, victory := range []bool{true, false} {
		m := newMission("m1")
		m.UnlockOnVictory = "win"
		m.UnlockOnDefeat = "lose"

		c := domain.NewCampaign("luke", "Rebellion")
		c.UnlockMission("m1")
		c.UnlockMission("other")

		require.NoError(t, c.MissionAftermath(m, victory))
		require.NoError(t, c.UndoMissionAftermath(m))

		assert.ElementsMatch(t, []string{"m1", "other"}, []string(c.MissionDeck))
		assert.Empty(t, c.PlayedMissions)
		assert.Equal(t, "", c.CurrentMission())
	}
}

func TestCampaign_UndoMissionAftermathOnlyLatestPlay(t *testing.T) {
	m := newMission("m1")
	m.ReplayOnDefeat = true

	c := domain.NewCampaign("luke", "Rebellion")
	c.UnlockMission("m1")
	require.NoError(t, c.MissionAftermath(m, false))
	require.NoError(t, c.MissionAftermath(m, true))

	require.NoError(t, c.UndoMissionAftermath(m))

	require.Len(t, c.PlayedMissions, 1)
	assert.Equal(t, domain.StatusDefeat, c.PlayedMissions[0].Status)
	assert.Equal(t, []string{"m1"}, []string(c.MissionDeck))
}

func TestCampaign_UndoUnplayedMission(t *testing.T) {
	c := domain.NewCampaign("luke", "Rebellion")

	err := c.UndoMissionAftermath(newMission("m1"))

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCampaign_VictoryStatus(t *testing.T) {
	tests := []struct {
		name   string
		played []domain.PlayedMission
		want   domain.MissionStatus
	}{
		{"no missions is a draw", nil, domain.StatusDraw},
		{"equal totals", []domain.PlayedMission{{RebelVP: 3}, {ImperialVP: 3}}, domain.StatusDraw},
		{"rebels ahead", []domain.PlayedMission{{RebelVP: 4}, {ImperialVP: 3}}, domain.StatusVictory},
		{"empire ahead", []domain.PlayedMission{{RebelVP: 2}, {ImperialVP: 3}}, domain.StatusDefeat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.NewCampaign("luke", "Rebellion")
			c.PlayedMissions = append(c.PlayedMissions, tt.played...)

			assert.Equal(t, tt.want, c.VictoryStatus())
		})
	}
}

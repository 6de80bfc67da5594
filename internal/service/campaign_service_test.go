package service_test

import (
	"context"
	"testing"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/dom/xwing-campaign/internal/repository/gormstore"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/dom/xwing-campaign/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingCampaigns lets another writer update the campaign right before each
// of the first `races` puts.
type racingCampaigns struct {
	repository.CampaignRepository
	races int
	puts  int
}

func (r *racingCampaigns) Put(ctx context.Context, doc *domain.Campaign) (string, error) {
	r.puts++
	if r.races > 0 && !doc.IsNew() {
		r.races--
		theirs, err := r.CampaignRepository.Get(ctx, doc.ID)
		if err != nil {
			return "", err
		}
		theirs.UnlockMission("rival")
		if _, err := r.CampaignRepository.Put(ctx, theirs); err != nil {
			return "", err
		}
	}
	return r.CampaignRepository.Put(ctx, doc)
}

type campaignSetup struct {
	repos   *repository.Repositories
	service *service.CampaignService
	racing  *racingCampaigns
	luke    *domain.User
	wedge   *domain.User
}

func newCampaignSetup(t *testing.T) *campaignSetup {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := gormstore.NewRepositories(testDB.DB)
	racing := &racingCampaigns{CampaignRepository: repos.Campaign}
	catalog := service.NewCatalogService(repos.Ship, repos.Mission, repos.Upgrade)

	luke, _ := testutil.NewUserBuilder().WithName("luke").Build(t, repos)
	wedge, _ := testutil.NewUserBuilder().WithName("wedge").Build(t, repos)

	testutil.CreateMission(t, repos, domain.Mission{Name: "m1", StartingMission: true, RebelVP: 3, ImperialVP: 1, UnlockOnVictory: "m2", UnlockOnDefeat: "m3", ReplayOnDefeat: true})
	testutil.CreateMission(t, repos, domain.Mission{Name: "m2", RebelVP: 2, ImperialVP: 2})
	testutil.CreateMission(t, repos, domain.Mission{Name: "m3", RebelVP: 1, ImperialVP: 4})
	testutil.CreateMission(t, repos, domain.Mission{Name: "m0", StartingMission: true, Warmup: true})

	return &campaignSetup{
		repos:   repos,
		service: service.NewCampaignService(racing, repos.Pilot, catalog, 3),
		racing:  racing,
		luke:    luke,
		wedge:   wedge,
	}
}

func TestCampaignService_Create(t *testing.T) {
	s := newCampaignSetup(t)
	ctx := context.Background()

	campaign, err := s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m0", "m1"}, []string(campaign.MissionDeck))
	assert.Equal(t, 0, campaign.Version)

	_, err = s.service.Create(ctx, s.wedge, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	testutil.AssertErrorKind(t, err, domain.KindForbidden)

	_, err = s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke"})
	testutil.AssertErrorKind(t, err, domain.KindValidation)

	list, err := s.service.ListForUser(ctx, s.luke, "luke")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rebellion", list[0].DisplayName)
}

func TestCampaignService_AftermathRetriesOnLockingError(t *testing.T) {
	s := newCampaignSetup(t)
	ctx := context.Background()

	campaign, err := s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	require.NoError(t, err)

	s.racing.races = 1
	s.racing.puts = 0
	updated, err := s.service.MissionAftermath(ctx, s.luke, campaign.ID, "m1", true)
	require.NoError(t, err)

	assert.Equal(t, 2, s.racing.puts, "the mutation is reapplied after losing the race")
	assert.Equal(t, 2, updated.Version)
	assert.ElementsMatch(t, []string{"m0", "m2", "rival"}, []string(updated.MissionDeck))
	require.Len(t, updated.PlayedMissions, 1)
	assert.Equal(t, domain.StatusVictory, updated.PlayedMissions[0].Status)
}

func TestCampaignService_AftermathGivesUpAfterRetries(t *testing.T) {
	s := newCampaignSetup(t)
	ctx := context.Background()

	campaign, err := s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	require.NoError(t, err)

	s.racing.races = 10
	_, err = s.service.MissionAftermath(ctx, s.luke, campaign.ID, "m1", false)
	testutil.AssertErrorKind(t, err, domain.KindLocking)

	stored, err := s.repos.Campaign.Get(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PlayedMissions)
}

func TestCampaignService_AftermathRules(t *testing.T) {
	s := newCampaignSetup(t)
	ctx := context.Background()

	campaign, err := s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   *domain.User
		mission  string
		wantKind domain.Kind
	}{
		{"not the owner", s.wedge, "m1", domain.KindForbidden},
		{"unknown mission", s.luke, "m9", domain.KindNotFound},
		{"mission not in deck", s.luke, "m2", domain.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.service.MissionAftermath(ctx, tt.caller, campaign.ID, tt.mission, true)
			testutil.AssertErrorKind(t, err, tt.wantKind)
		})
	}

	// replayable defeat keeps the mission in the deck
	updated, err := s.service.MissionAftermath(ctx, s.luke, campaign.ID, "m1", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m0", "m1", "m3"}, []string(updated.MissionDeck))

	updated, err = s.service.UndoMissionAftermath(ctx, s.luke, campaign.ID, "m1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m0", "m1"}, []string(updated.MissionDeck))

	_, err = s.service.UndoMissionAftermath(ctx, s.luke, campaign.ID, "m1")
	testutil.AssertErrorKind(t, err, domain.KindConflict)

	updated, err = s.service.UnlockMission(ctx, s.luke, campaign.ID, "m2")
	require.NoError(t, err)
	assert.Contains(t, []string(updated.MissionDeck), "m2")

	status, err := s.service.Status(ctx, s.luke, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraw, status.VictoryStatus)
	assert.Equal(t, "", status.CurrentMission)
}

func TestCampaignService_Update(t *testing.T) {
	s := newCampaignSetup(t)
	ctx := context.Background()

	campaign, err := s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	require.NoError(t, err)

	name := "Empire Strikes Back"
	zero := 0
	updated, err := s.service.Update(ctx, s.luke, campaign.ID, domain.CampaignPatch{Version: &zero, DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	_, err = s.service.Update(ctx, s.luke, campaign.ID, domain.CampaignPatch{Version: &zero, DisplayName: &name})
	testutil.AssertErrorKind(t, err, domain.KindLocking)

	_, err = s.service.Update(ctx, s.wedge, campaign.ID, domain.CampaignPatch{DisplayName: &name})
	testutil.AssertErrorKind(t, err, domain.KindForbidden)
}

func TestCampaignService_DeleteRemovesPilots(t *testing.T) {
	s := newCampaignSetup(t)
	ctx := context.Background()

	campaign, err := s.service.Create(ctx, s.luke, service.CreateCampaignInput{Owner: "luke", DisplayName: "Rebellion"})
	require.NoError(t, err)
	pilot := testutil.NewPilotBuilder().WithCampaign(campaign).WithOwner(s.wedge).Build(t, s.repos)

	err = s.service.Delete(ctx, s.wedge, campaign.ID)
	testutil.AssertErrorKind(t, err, domain.KindForbidden)

	// the pilot makes wedge a member
	_, err = s.service.Get(ctx, s.wedge, campaign.ID)
	require.NoError(t, err)

	require.NoError(t, s.service.Delete(ctx, s.luke, campaign.ID))

	_, err = s.repos.Pilot.Get(ctx, pilot.ID)
	testutil.AssertErrorKind(t, err, domain.KindNotFound)
}

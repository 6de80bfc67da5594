package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *campaignFixture) createPilot(t *testing.T, campaignID, owner string) string {
	t.Helper()

	resp := f.owner.Do(t, http.MethodPost, "/campaign/"+campaignID+"/pilot",
		map[string]string{"owner": owner, "callsign": "Red Two", "ship": "x-wing"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		ID string `json:"id"`
	}
	testutil.AssertJSONResponse(t, resp, &body)
	require.NotEmpty(t, body.ID)
	return body.ID
}

func TestPilotHandler_Create(t *testing.T) {
	f := setupCampaigns(t)
	id := f.createCampaign(t)

	tests := []struct {
		name     string
		client   *testutil.Client
		body     map[string]string
		wantKind domain.Kind
	}{
		{"not the campaign owner", f.other, map[string]string{"owner": "wedge", "callsign": "Red Two", "ship": "x-wing"}, domain.KindForbidden},
		{"unknown owner", f.owner, map[string]string{"owner": "biggs", "callsign": "Red Three", "ship": "x-wing"}, domain.KindNotFound},
		{"missing callsign", f.owner, map[string]string{"owner": "wedge", "ship": "x-wing"}, domain.KindValidation},
		{"unknown ship", f.owner, map[string]string{"owner": "wedge", "callsign": "Red Two", "ship": "falcon"}, domain.KindValidation},
		{"not a starting ship", f.owner, map[string]string{"owner": "wedge", "callsign": "Red Two", "ship": "b-wing"}, domain.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.client.Do(t, http.MethodPost, "/campaign/"+id+"/pilot", tt.body)
			testutil.AssertErrorResponse(t, resp, tt.wantKind)
		})
	}

	pilotID := f.createPilot(t, id, "wedge")
	resp := f.other.Do(t, http.MethodGet, "/pilot/"+pilotID, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var pilot domain.Pilot
	testutil.AssertJSONResponse(t, resp, &pilot)
	assert.Equal(t, 8, pilot.InitialXP)
	assert.Equal(t, "x-wing", pilot.Ship)
	assert.Equal(t, id, pilot.CampaignID)
}

func TestPilotHandler_Progression(t *testing.T) {
	f := setupCampaigns(t)
	testutil.CreateUpgrade(t, f.ts.Repos, domain.Upgrade{Name: "r2-d2", Slot: domain.SlotAstromech, Cost: 4, Unique: true})
	testutil.CreateUpgrade(t, f.ts.Repos, domain.Upgrade{Name: "chewbacca", Slot: domain.SlotCrew, Cost: 4})

	id := f.createCampaign(t)
	pilotID := f.createPilot(t, id, "wedge")

	// the campaign owner records the aftermath for the pilot
	resp := f.owner.Do(t, http.MethodPost, "/pilot/"+pilotID+"/aftermath",
		map[string]interface{}{"mission": "m1", "xp": 6, "kills": map[string]int{"tie-fighter": 2}})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// 8 initial + 6 earned
	resp = f.other.Do(t, http.MethodPost, "/pilot/"+pilotID+"/upgrades", map[string]string{"mission": "m1", "upgrade": "r2-d2"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = f.other.Do(t, http.MethodPost, "/pilot/"+pilotID+"/upgrades", map[string]string{"mission": "m1", "upgrade": "r2-d2"})
	testutil.AssertErrorResponse(t, resp, domain.KindConflict)

	resp = f.other.Do(t, http.MethodPost, "/pilot/"+pilotID+"/upgrades", map[string]string{"mission": "m1", "upgrade": "chewbacca"})
	testutil.AssertErrorResponse(t, resp, domain.KindConflict)

	resp = f.other.Do(t, http.MethodPost, "/pilot/"+pilotID+"/upgrades", map[string]string{"mission": "m1", "upgrade": "nothing"})
	testutil.AssertErrorResponse(t, resp, domain.KindNotFound)

	resp = f.owner.Do(t, http.MethodPost, "/pilot/"+pilotID+"/skill", map[string]interface{}{"mission": "m1", "increaseBy": 1})
	testutil.AssertErrorResponse(t, resp, domain.KindForbidden)

	resp = f.other.Do(t, http.MethodPost, "/pilot/"+pilotID+"/skill", map[string]interface{}{"mission": "m1", "increaseBy": 1})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = f.other.Do(t, http.MethodPost, "/pilot/"+pilotID+"/ship", map[string]string{"mission": "m1", "ship": "b-wing"})
	testutil.AssertErrorResponse(t, resp, domain.KindConflict)

	resp = f.other.Do(t, http.MethodGet, "/pilot/"+pilotID+"/xp", nil)
	var xp map[string]int
	testutil.AssertJSONResponse(t, resp, &xp)
	assert.Equal(t, 8, xp["initial"])
	assert.Equal(t, 6, xp["earned"])
	assert.Equal(t, 10, xp["spent"])
	assert.Equal(t, 4, xp["current"])
	assert.Equal(t, 3, xp["skill"])
}

func TestPilotHandler_UpdateAndDelete(t *testing.T) {
	f := setupCampaigns(t)
	id := f.createCampaign(t)
	pilotID := f.createPilot(t, id, "wedge")

	resp := f.owner.Do(t, http.MethodPut, "/pilot/"+pilotID, map[string]string{"callsign": "Stolen"})
	testutil.AssertErrorResponse(t, resp, domain.KindForbidden)

	// XP and ship only move through aftermath and the spending endpoints
	resp = f.other.Do(t, http.MethodPut, "/pilot/"+pilotID, map[string]interface{}{"initialXP": 100})
	testutil.AssertErrorResponse(t, resp, domain.KindConflict)
	resp = f.other.Do(t, http.MethodPut, "/pilot/"+pilotID, map[string]interface{}{"ship": "b-wing"})
	testutil.AssertErrorResponse(t, resp, domain.KindConflict)

	resp = f.other.Do(t, http.MethodPut, "/pilot/"+pilotID, map[string]interface{}{"callsign": "Wedge", "initialXP": 8, "ship": "x-wing"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = f.other.Do(t, http.MethodGet, "/pilot/"+pilotID, nil)
	var pilot domain.Pilot
	testutil.AssertJSONResponse(t, resp, &pilot)
	assert.Equal(t, "Wedge", pilot.Callsign)
	assert.Equal(t, 8, pilot.InitialXP)
	assert.Equal(t, "x-wing", pilot.Ship)
	assert.Equal(t, 1, pilot.Version)

	resp = f.owner.Do(t, http.MethodDelete, "/pilot/"+pilotID, nil)
	testutil.AssertErrorResponse(t, resp, domain.KindForbidden)

	resp = f.other.Do(t, http.MethodDelete, "/pilot/"+pilotID, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = f.other.Do(t, http.MethodGet, "/pilot/"+pilotID, nil)
	testutil.AssertErrorResponse(t, resp, domain.KindNotFound)
}

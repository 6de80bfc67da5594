package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// APIClient handles HTTP communication with the backend. One client holds
// one login session.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	jar, _ := cookiejar.New(nil)
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// Response types matching backend

type Campaign struct {
	ID          string   `json:"id"`
	Version     int      `json:"version"`
	Owner       string   `json:"owner"`
	DisplayName string   `json:"displayName"`
	MissionDeck []string `json:"missionDeck"`
}

type Pilot struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Callsign string `json:"callsign"`
	Ship     string `json:"ship"`
}

type Mission struct {
	Name            string `json:"name"`
	DisplayName     string `json:"displayName"`
	StartingMission bool   `json:"startingMission"`
}

type Ship struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	StartingShip bool   `json:"startingShip"`
}

type CampaignStatus struct {
	RebelVP        int      `json:"rebelVP"`
	ImperialVP     int      `json:"imperialVP"`
	VictoryStatus  string   `json:"victoryStatus"`
	CurrentMission string   `json:"currentMission"`
	MissionDeck    []string `json:"missionDeck"`
}

type PilotXP struct {
	Initial int `json:"initial"`
	Earned  int `json:"earned"`
	Spent   int `json:"spent"`
	Current int `json:"current"`
	Skill   int `json:"skill"`
}

type idResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Login opens a session for username
func (c *APIClient) Login(username, password string) error {
	var result struct {
		Token string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/auth/login/"+url.PathEscape(username), map[string]string{"password": password}, &result); err != nil {
		return fmt.Errorf("login %s: %w", username, err)
	}
	c.csrfToken = result.Token
	return nil
}

// PutUser creates a user or resets its password. Admin only.
func (c *APIClient) PutUser(name, displayName, password string) error {
	body := map[string]string{
		"displayName": displayName,
		"password":    password,
	}
	return c.do(http.MethodPut, "/api/user/"+url.PathEscape(name), body, nil)
}

func (c *APIClient) Ships() ([]Ship, error) {
	var ships []Ship
	err := c.do(http.MethodGet, "/api/ships", nil, &ships)
	return ships, err
}

func (c *APIClient) InitialMissions() ([]Mission, error) {
	var missions []Mission
	err := c.do(http.MethodGet, "/api/missions/initial", nil, &missions)
	return missions, err
}

func (c *APIClient) CreateCampaign(owner, displayName string) (string, error) {
	var result idResponse
	err := c.do(http.MethodPost, "/api/campaigns/"+url.PathEscape(owner), map[string]string{"displayName": displayName}, &result)
	return result.ID, err
}

func (c *APIClient) GetCampaign(id string) (*Campaign, error) {
	var campaign Campaign
	if err := c.do(http.MethodGet, "/api/campaign/"+id, nil, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *APIClient) CampaignPilots(id string) ([]Pilot, error) {
	var pilots []Pilot
	err := c.do(http.MethodGet, "/api/campaign/"+id+"/pilots", nil, &pilots)
	return pilots, err
}

func (c *APIClient) CreatePilot(campaignID, owner, callsign, ship string) (string, error) {
	body := map[string]string{
		"owner":    owner,
		"callsign": callsign,
		"ship":     ship,
	}
	var result idResponse
	err := c.do(http.MethodPost, "/api/campaign/"+campaignID+"/pilot", body, &result)
	return result.ID, err
}

func (c *APIClient) CampaignAftermath(campaignID, mission string, victory bool) error {
	body := map[string]interface{}{
		"mission": mission,
		"victory": victory,
	}
	return c.do(http.MethodPost, "/api/campaign/"+campaignID+"/aftermath", body, nil)
}

func (c *APIClient) CampaignStatus(campaignID string) (*CampaignStatus, error) {
	var status CampaignStatus
	if err := c.do(http.MethodGet, "/api/campaign/"+campaignID+"/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *APIClient) PilotAftermath(pilotID, mission string, xp int, kills map[string]int) error {
	body := map[string]interface{}{
		"mission": mission,
		"xp":      xp,
		"kills":   kills,
	}
	return c.do(http.MethodPost, "/api/pilot/"+pilotID+"/aftermath", body, nil)
}

func (c *APIClient) IncreaseSkill(pilotID, mission string, increaseBy int) error {
	body := map[string]interface{}{
		"mission":    mission,
		"increaseBy": increaseBy,
	}
	return c.do(http.MethodPost, "/api/pilot/"+pilotID+"/skill", body, nil)
}

func (c *APIClient) PilotXP(pilotID string) (*PilotXP, error) {
	var xp PilotXP
	if err := c.do(http.MethodGet, "/api/pilot/"+pilotID+"/xp", nil, &xp); err != nil {
		return nil, err
	}
	return &xp, nil
}

// HTTP helpers

func (c *APIClient) do(method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		req.Header.Set("X-Auth-Token", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		bodyBytes, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Name != "" {
			return fmt.Errorf("%s %s failed (status %d): %s: %s", method, path, resp.StatusCode, apiErr.Name, apiErr.Message)
		}
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, string(bodyBytes))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

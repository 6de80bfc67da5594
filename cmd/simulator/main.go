package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

const pilotPassword = "testpassword123"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global settings
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}
	admin := os.Getenv("ADMIN_USER")
	if admin == "" {
		admin = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "full":
		err = fullCmd(apiURL, admin, password, args)
	case "play":
		err = playCmd(apiURL, admin, password, args)
	case "status":
		err = statusCmd(apiURL, admin, password, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Campaign Simulator - Development tool for exercising X-Wing campaigns

USAGE:
  simulator <command> [options]

COMMANDS:
  full      Create pilots and a campaign, then play a few missions
  play      Record the result of one mission for an existing campaign
  status    Show victory points, deck and pilot XP of a campaign
  help      Show this help message

ENVIRONMENT:
  API_URL          Backend URL (default: http://localhost:8080)
  ADMIN_USER       Account that owns the simulated campaign (default: admin)
  ADMIN_PASSWORD   Password of that account (required)

EXAMPLES:
  # Campaign with 3 pilots and 2 played missions
  simulator full

  # 4 pilots, 5 missions
  simulator full --pilots=4 --missions=5

  # Record a defeat
  simulator play --campaign=<id> --mission=local-trouble --victory=false

  simulator status --campaign=<id>`)
}

func login(apiURL, admin, password string) (*APIClient, error) {
	if password == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}
	client := NewAPIClient(apiURL)
	if err := client.Login(admin, password); err != nil {
		return nil, err
	}
	return client, nil
}

func fullCmd(apiURL, admin, password string, args []string) error {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	pilots := fs.Int("pilots", 3, "Number of pilots to enlist")
	missions := fs.Int("missions", 2, "Number of missions to play")
	fs.Parse(args)

	if *pilots < 1 || *pilots > 6 {
		return fmt.Errorf("--pilots must be between 1 and 6")
	}

	fmt.Println("=== Campaign Simulator: Full Flow ===")
	fmt.Println()

	client, err := login(apiURL, admin, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", admin)

	result, err := simulateCampaign(client, apiURL, admin, *pilots, *missions)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  CAMPAIGN SIMULATED")
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  Campaign ID: %s\n", result.CampaignID)
	fmt.Printf("  Missions:    %d played\n", len(result.Played))
	fmt.Println()
	return printStatus(client, result.CampaignID)
}

// simulation is what simulateCampaign created.
type simulation struct {
	CampaignID string
	PilotIDs   []string
	Played     []string
}

func simulateCampaign(client *APIClient, apiURL, owner string, pilotCount, missionCount int) (*simulation, error) {
	ships, err := client.Ships()
	if err != nil {
		return nil, err
	}
	ship := ""
	for _, s := range ships {
		if s.StartingShip {
			ship = s.Name
			break
		}
	}
	if ship == "" {
		return nil, fmt.Errorf("no starting ship in the catalog")
	}

	campaignID, err := client.CreateCampaign(owner, fmt.Sprintf("Simulated campaign %s", time.Now().Format("2006-01-02 15:04")))
	if err != nil {
		return nil, err
	}
	fmt.Printf("  Campaign created: %s\n", campaignID)

	sim := &simulation{CampaignID: campaignID}
	pilotClients := map[string]*APIClient{}

	fmt.Println()
	fmt.Printf("Enlisting %d pilots:\n", pilotCount)
	for i := 1; i <= pilotCount; i++ {
		name := fmt.Sprintf("pilot%d_%d", i, time.Now().UnixNano()%100000)
		if err := client.PutUser(name, fmt.Sprintf("Pilot %d", i), pilotPassword); err != nil {
			return nil, fmt.Errorf("create user %s: %w", name, err)
		}

		pilotID, err := client.CreatePilot(campaignID, name, fmt.Sprintf("Red %d", i), ship)
		if err != nil {
			return nil, err
		}

		pc := NewAPIClient(apiURL)
		if err := pc.Login(name, pilotPassword); err != nil {
			return nil, err
		}
		pilotClients[pilotID] = pc
		sim.PilotIDs = append(sim.PilotIDs, pilotID)
		fmt.Printf("  [%d/%d] %s flies %s\n", i, pilotCount, name, ship)
	}

	fmt.Println()
	for round := 0; round < missionCount; round++ {
		campaign, err := client.GetCampaign(campaignID)
		if err != nil {
			return nil, err
		}
		if len(campaign.MissionDeck) == 0 {
			fmt.Println("Mission deck is empty, campaign is over")
			break
		}

		mission := campaign.MissionDeck[0]
		victory := round%2 == 0
		fmt.Printf("Playing %s (victory=%t)... ", mission, victory)
		if err := client.CampaignAftermath(campaignID, mission, victory); err != nil {
			return nil, err
		}

		for i, pilotID := range sim.PilotIDs {
			kills := map[string]int{"tie-fighter": i + 1}
			if err := client.PilotAftermath(pilotID, mission, 4+i, kills); err != nil {
				return nil, err
			}

			xp, err := pilotClients[pilotID].PilotXP(pilotID)
			if err != nil {
				return nil, err
			}
			if xp.Current >= (xp.Skill+1)*2 {
				if err := pilotClients[pilotID].IncreaseSkill(pilotID, mission, 1); err != nil {
					return nil, err
				}
			}
		}
		sim.Played = append(sim.Played, mission)
		fmt.Println("OK")
	}

	return sim, nil
}

func playCmd(apiURL, admin, password string, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	campaignID := fs.String("campaign", "", "Campaign ID (required)")
	mission := fs.String("mission", "", "Mission name (required)")
	victory := fs.Bool("victory", true, "Whether the rebels won")
	fs.Parse(args)

	if *campaignID == "" || *mission == "" {
		fmt.Println("\nUsage: simulator play --campaign=<id> --mission=<name> [--victory=false]")
		return fmt.Errorf("--campaign and --mission are required")
	}

	client, err := login(apiURL, admin, password)
	if err != nil {
		return err
	}

	fmt.Printf("Recording %s (victory=%t)... ", *mission, *victory)
	if err := client.CampaignAftermath(*campaignID, *mission, *victory); err != nil {
		return err
	}
	fmt.Println("OK")
	fmt.Println()
	return printStatus(client, *campaignID)
}

func statusCmd(apiURL, admin, password string, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	campaignID := fs.String("campaign", "", "Campaign ID (required)")
	fs.Parse(args)

	if *campaignID == "" {
		fmt.Println("\nUsage: simulator status --campaign=<id>")
		return fmt.Errorf("--campaign is required")
	}

	client, err := login(apiURL, admin, password)
	if err != nil {
		return err
	}
	return printStatus(client, *campaignID)
}

func printStatus(client *APIClient, campaignID string) error {
	status, err := client.CampaignStatus(campaignID)
	if err != nil {
		return err
	}
	fmt.Printf("  Rebel VP:     %d\n", status.RebelVP)
	fmt.Printf("  Imperial VP:  %d\n", status.ImperialVP)
	fmt.Printf("  Standing:     %s\n", status.VictoryStatus)
	fmt.Printf("  Last mission: %s\n", status.CurrentMission)
	fmt.Printf("  Deck:         %v\n", status.MissionDeck)

	pilots, err := client.CampaignPilots(campaignID)
	if err != nil {
		return err
	}
	fmt.Println()
	for _, p := range pilots {
		xp, err := client.PilotXP(p.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s %-16s skill %d, %d XP left of %d\n", p.Callsign, p.Owner, xp.Skill, xp.Current, xp.Initial+xp.Earned)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/apiclient"
	"github.com/ruta66/motoclub/internal/auth"
	"github.com/ruta66/motoclub/internal/config"
	"github.com/ruta66/motoclub/internal/dashboard"
	"github.com/ruta66/motoclub/internal/events"
	"github.com/ruta66/motoclub/internal/tokenstore"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	app, err := newCLI()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	switch command {
	case "login":
		loginCmd(app, args)
	case "logout":
		logoutCmd(app)
	case "whoami":
		whoamiCmd(app)
	case "register":
		registerCmd(app, args)
	case "dashboard":
		dashboardCmd(app)
	case "clubs":
		clubsCmd(app)
	case "club":
		clubCmd(app, args)
	case "create-club":
		createClubCmd(app, args)
	case "chapters":
		chaptersCmd(app, args)
	case "create-chapter":
		createChapterCmd(app, args)
	case "members":
		membersCmd(app, args)
	case "create-member":
		createMemberCmd(app, args)
	case "events":
		eventsCmd(app)
	case "map":
		mapCmd(app, args)
	case "profile":
		profileCmd(app, args)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`motoclub - Command-line client for the MotoClub community platform

USAGE:
  motoclub <command> [options]

COMMANDS:
  login           Sign in and store the session locally
  logout          Clear the stored session
  whoami          Show the signed-in user
  register        Create a new account
  dashboard       Show your clubs, chapters, and upcoming events
  clubs           List clubs
  club            Show one club and its chapters
  create-club     Create a club
  chapters        List chapters (optionally of one club)
  create-chapter  Create a chapter in a club
  members         List the members of a chapter
  create-member   Add a member to a chapter
  events          List events
  map             Find chapters near a coordinate
  profile         Update your profile
  help            Show this help message

ENVIRONMENT:
  API_BASE_URL    Backend API URL (required)
  STORAGE_PATH    Credential database path (default: ~/.motoclub/auth.db)

EXAMPLES:
  motoclub login --email rider@example.com --password secret
  motoclub club --id 3
  motoclub map --lat 19.4326 --lon -99.1332`)
}

// cli bundles the composed client stack behind each command.
type cli struct {
	api   *apiclient.Client
	auth  *auth.Manager
	dash  *dashboard.Aggregator
	store *tokenstore.SQLiteStore
}

func newCLI() (*cli, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Commands print their own results; the logger only surfaces problems.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	store, err := tokenstore.OpenSQLite(cfg.StoragePath, log)
	if err != nil {
		return nil, fmt.Errorf("open credential storage: %w", err)
	}

	api := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout, log)
	bus := events.NewBus()
	api.SetEvents(bus)

	mgr := auth.NewManager(api, store, log)
	api.SetCredentials(mgr)
	mgr.Initialize()

	dash := dashboard.New(api, mgr, nil, cfg.DashboardCacheTTL, log)

	return &cli{api: api, auth: mgr, dash: dash, store: store}, nil
}

func (c *cli) Close() {
	c.store.Close()
}

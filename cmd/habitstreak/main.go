package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/cli/habits"
	"github.com/julianstephens/habitstreak/internal/cli/streaks"
	"github.com/julianstephens/habitstreak/internal/cli/system"
	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	DB       string `help:"SQLite database path, PostgreSQL connection string, or 'postgres' to read the connection string from ${env_db_connection} or the OS keyring. Credentials must NOT be embedded in --db." env:"HABITSTREAK_DB" default:"${default_db}"`
	APIURL   string `name:"api-url" help:"Base URL of a remote habit tracker API. Selects the remote backend." env:"HABITSTREAK_API_URL"`
	User     string `help:"Local user id for database backends." env:"HABITSTREAK_USER" default:"${default_user}"`
	Timezone string `help:"IANA timezone that decides which day is today (default: system)." env:"HABITSTREAK_TIMEZONE" default:"Local"`
	Debug    bool   `help:"Enable debug logging to stderr." env:"HABITSTREAK_DEBUG"`

	Init     system.InitCmd      `cmd:"" help:"Initialize habitstreak storage."`
	Migrate  system.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Login    system.LoginCmd     `cmd:"" help:"Log in to the remote API and store the session token."`
	Register system.RegisterCmd  `cmd:"" help:"Create an account on the remote API and store the session token."`
	Logout   system.LogoutCmd    `cmd:"" help:"Revoke the session on the remote API and remove the stored token."`
	Keyring  system.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Habit    habits.HabitCmd     `cmd:"" help:"Manage habits."`
	Done     streaks.DoneCmd     `cmd:"" help:"Record a habit completion and update the streak."`
	Streak   streaks.StreakCmd   `cmd:"" help:"Recompute and show the current streak."`
	Calendar streaks.CalendarCmd `cmd:"" help:"Show a month of completions."`
}

// commands that run before, or without, a loaded store
var skipLoad = map[string]bool{
	"init":     true,
	"login":    true,
	"register": true,
	"logout":   true,
	"keyring":  true,
	"doctor":   true,
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with daily streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":           constants.Version,
			"default_db":        constants.DefaultConfigPath,
			"default_user":      constants.DefaultUserID,
			"env_db_connection": constants.EnvDBConnection,
		},
	)

	configDir, err := cli.ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx, err := cli.NewContext(runCtx, cli.Options{
		DB:       CLI.DB,
		APIURL:   CLI.APIURL,
		User:     CLI.User,
		Timezone: CLI.Timezone,
	})
	if err != nil {
		errors.Fatal(err)
	}
	defer appCtx.Store.Close()

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !skipLoad[command[0]] {
		if err := appCtx.Store.Load(runCtx); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/storage/sqlstore"
)

type InitCmd struct {
	Force    bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Username string `help:"Display name for the local profile (defaults to the user id)."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.API != nil {
		fmt.Printf("Using remote backend at %s; nothing to initialize.\n", ctx.API.GetConfigPath())
		fmt.Printf("Run '%s login' to authenticate.\n", constants.AppName)
		return nil
	}

	if c.Force && ctx.Local.Driver() == sqlstore.DriverSQLite {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	username := c.Username
	if username == "" {
		username = userID
	}
	profile, err := ctx.Local.EnsureProfile(ctx.Ctx, userID, username)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	fmt.Printf("Profile: %s (streak %d, best %d)\n", profile.ID, profile.StreakCount, profile.MaxStreak)
	return nil
}

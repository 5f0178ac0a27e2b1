package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/keyring"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// skipped when the backend could not be reached
	needsStore bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Storage reachable", run: checkStoreReachable},
		{name: "Schema version", run: checkSchemaVersion, needsStore: true},
		{name: "Session", run: checkSession, needsStore: true},
		{name: "Streak sync", run: checkStreakSync, needsStore: true},
		{name: "Keyring available", run: checkKeyring},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	reachable := false
	for i, c := range checks {
		if c.needsStore && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		if err := c.run(ctx); err != nil {
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			continue
		}
		fmt.Printf("✓ %s: OK\n", c.name)
		if i == 0 {
			reachable = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	if ctx.Local == nil {
		// the remote backend owns its schema
		return nil
	}
	status, err := ctx.Local.SchemaStatus(ctx.Ctx)
	if err != nil {
		return err
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d", status.Current, status.Latest)
	}
	if !status.UpToDate() {
		return fmt.Errorf("%d pending migration(s) (version %d of %d); run 'migrate'", len(status.Pending), status.Current, status.Latest)
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	_, err := ctx.UserID()
	return err
}

func checkStreakSync(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	if _, err := ctx.Store.GetProfile(ctx.Ctx, userID); err != nil {
		return fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}
	if _, err := ctx.Store.GetUserLogs(ctx.Ctx, userID); err != nil {
		return fmt.Errorf("failed to load logs for %s: %w", userID, err)
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Location.String()) {
		return fmt.Errorf("invalid timezone %q", ctx.Location.String())
	}
	return nil
}

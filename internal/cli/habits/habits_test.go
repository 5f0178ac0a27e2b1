package habits

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/constants"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	ctx, err := cli.NewContext(context.Background(), cli.Options{DB: dbPath, Timezone: "UTC"})
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if _, err := ctx.Local.EnsureProfile(ctx.Ctx, constants.DefaultUserID, "local"); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	t.Cleanup(func() { ctx.Store.Close() })
	return ctx
}

func TestHabitAddCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     HabitAddCmd
		wantErr bool
		days    string
	}{
		{name: "daily", cmd: HabitAddCmd{Name: "Read", Frequency: "daily"}},
		{name: "daily ignores days", cmd: HabitAddCmd{Name: "Walk", Frequency: "daily", Days: "mon"}},
		{name: "weekly", cmd: HabitAddCmd{Name: "Gym", Frequency: "weekly", Days: "thu,tue"}, days: "2,4"},
		{name: "weekly without days", cmd: HabitAddCmd{Name: "Swim", Frequency: "weekly"}, wantErr: true},
		{name: "bad weekday", cmd: HabitAddCmd{Name: "Run", Frequency: "weekly", Days: "someday"}, wantErr: true},
		{name: "missing name", cmd: HabitAddCmd{Frequency: "daily"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext(t)

			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			habits, err := ctx.Store.GetUserHabits(ctx.Ctx, constants.DefaultUserID)
			if err != nil {
				t.Fatalf("failed to list habits: %v", err)
			}
			if len(habits) != 1 {
				t.Fatalf("expected 1 habit, got %d", len(habits))
			}
			if got := habits[0].TargetDays.String(); got != tt.days {
				t.Errorf("target days = %q, want %q", got, tt.days)
			}
		})
	}
}

func TestHabitAddCmd_DuplicateName(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&HabitAddCmd{Name: "Read", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := (&HabitAddCmd{Name: "read", Frequency: "daily"}).Run(ctx); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if err := (&HabitAddCmd{Name: "Read", Frequency: "daily", Icon: "📚"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&HabitAddCmd{Name: "Read", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := (&HabitDeleteCmd{Habit: "Swim", Yes: true}).Run(ctx); err == nil {
		t.Error("expected unknown habit to fail")
	}

	if err := (&HabitDeleteCmd{Habit: "READ", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	habits, err := ctx.Store.GetUserHabits(ctx.Ctx, constants.DefaultUserID)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected no habits after delete, got %d", len(habits))
	}
}

func TestHabitDueCmd(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&HabitAddCmd{Name: "Gym", Frequency: "weekly", Days: "tue"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// 2024-03-05 is a Tuesday, 2024-03-06 a Wednesday
	for _, date := range []string{"2024-03-05", "2024-03-06", ""} {
		if err := (&HabitDueCmd{Date: date}).Run(ctx); err != nil {
			t.Errorf("due --date %q failed: %v", date, err)
		}
	}

	if err := (&HabitDueCmd{Date: "tuesday"}).Run(ctx); err == nil {
		t.Error("expected invalid date to fail")
	}
}

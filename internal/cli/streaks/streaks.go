package streaks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitstreak/internal/calendar"
	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type DoneCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	habit, err := ctx.ResolveHabit(userID, c.Habit)
	if err != nil {
		return err
	}

	date, err := cli.ParseDate(c.Date, ctx.Location)
	if err != nil {
		return err
	}
	today := ctx.Today()
	if date.IsZero() {
		date = today
	}
	day := utils.DayKeyOf(date)
	if day > utils.DayKeyOf(today) {
		return errors.New("cannot record a completion in the future")
	}
	if !utils.IsDueOn(habit, utils.ISOWeekday(date)) {
		fmt.Printf("Note: %s is not scheduled on %s.\n", habit.Name, date.Weekday())
	}

	result, err := ctx.Sync.RecordCompletion(ctx.Ctx, userID, habit.ID, date)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s done for %s\n", habit.Name, day)
	printStreak(result.Streak)
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	result, err := ctx.Sync.LoadAndSync(ctx.Ctx, userID)
	if err != nil {
		return err
	}

	printStreak(result.Streak)
	fmt.Printf("Completed today: %d habit(s)\n", len(result.CompletedTodayIDs))
	return nil
}

type CalendarCmd struct {
	Month string `help:"Month in YYYY-MM format (default: this month)." default:""`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	today := ctx.Today()
	year, month, err := utils.ParseMonth(c.Month, today)
	if err != nil {
		return err
	}

	logs, err := ctx.Store.GetUserLogs(ctx.Ctx, userID)
	if err != nil {
		return err
	}

	cells := calendar.Build(year, int(month), calendar.CompletedDays(logs))
	fmt.Println(calendar.Render(year, month, cells, utils.DayKeyOf(today)))

	completed := 0
	for _, cell := range cells {
		if cell.Completed {
			completed++
		}
	}
	fmt.Printf("\n%d of %d days with a completion\n", completed, calendar.DaysIn(year, month))
	return nil
}

func printStreak(s models.Streak) {
	fmt.Printf("Current streak: %s\n", days(s.Current))
	fmt.Printf("Best streak:    %s\n", days(s.Max))
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

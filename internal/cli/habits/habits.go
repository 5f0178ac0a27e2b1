package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/streaksync"
	"github.com/julianstephens/habitstreak/internal/tui"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Due    HabitDueCmd    `cmd:"" help:"Show the habits due on a day."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Frequency   string `help:"How often the habit recurs." enum:"daily,weekly" default:"daily" short:"f"`
	Days        string `help:"Weekdays for weekly habits, e.g. mon,wed,fri or 1,3,5."`
	Description string `help:"Optional description."`
	Icon        string `help:"Optional icon (emoji)."`
	Color       string `help:"Optional color, e.g. #ff79c6."`
	Interactive bool   `help:"Fill in the habit with an interactive form." short:"i"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	var habit models.Habit
	if c.Interactive {
		fm := tui.NewHabitFormModel()
		fm.Name = c.Name
		if err := tui.NewHabitForm(fm).RunWithContext(ctx.Ctx); err != nil {
			return err
		}
		habit = fm.Habit(userID)
	} else {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("habit name is required (or use --interactive)")
		}
		habit, err = c.habit(userID)
		if err != nil {
			return err
		}
	}

	if err := habit.Validate(); err != nil {
		return err
	}

	existing, err := ctx.Store.GetUserHabits(ctx.Ctx, userID)
	if err != nil {
		return err
	}
	if _, err := cli.FindHabit(existing, habit.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", habit.Name)
	}

	created, err := ctx.Store.CreateHabit(ctx.Ctx, habit)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", created.Name, created.FormatSchedule())
	return nil
}

func (c *HabitAddCmd) habit(userID string) (models.Habit, error) {
	h := models.Habit{
		UserID:      userID,
		Name:        c.Name,
		Frequency:   constants.Frequency(c.Frequency),
		Description: strings.TrimSpace(c.Description),
		Icon:        strings.TrimSpace(c.Icon),
		Color:       strings.TrimSpace(c.Color),
	}
	if c.Days != "" {
		days, err := cli.ParseWeekdays(c.Days)
		if err != nil {
			return models.Habit{}, err
		}
		h.TargetDays = days
	}
	h.Normalize()
	return h, nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetUserHabits(ctx.Ctx, userID)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		name := h.Name
		if h.Icon != "" {
			name = h.Icon + " " + name
		}
		fmt.Printf("%-24s %-28s %s\n", name, h.FormatSchedule(), h.ID)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	habit, err := ctx.ResolveHabit(userID, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		form := tui.NewConfirmForm(fmt.Sprintf("Delete %q and all of its history?", habit.Name), &confirmed)
		if err := form.RunWithContext(ctx.Ctx); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteHabit(ctx.Ctx, habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitDueCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitDueCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	date, err := cli.ParseDate(c.Date, ctx.Location)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = ctx.Today()
	}

	habits, err := ctx.Store.GetUserHabits(ctx.Ctx, userID)
	if err != nil {
		return err
	}
	logs, err := ctx.Store.GetUserLogs(ctx.Ctx, userID)
	if err != nil {
		return err
	}

	day := utils.DayKeyOf(date)
	due := utils.HabitsDueOn(habits, utils.ISOWeekday(date))
	done := make(map[string]bool)
	for _, id := range streaksync.CompletedOn(logs, day) {
		done[id] = true
	}

	fmt.Printf("Habits due on %s (%s):\n", day, date.Weekday())
	if len(due) == 0 {
		fmt.Println("  Nothing scheduled.")
		return nil
	}

	completed := 0
	for _, h := range due {
		mark := " "
		if done[h.ID] {
			mark = "x"
			completed++
		}
		fmt.Printf("  [%s] %s\n", mark, h.Name)
	}
	fmt.Printf("\n%d of %d done\n", completed, len(due))
	return nil
}

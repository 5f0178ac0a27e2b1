package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
)

// HabitFormModel holds the values bound to the habit form fields
type HabitFormModel struct {
	Name        string
	Description string
	Icon        string
	Color       string
	Frequency   constants.Frequency
	Days        []int
}

func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{Frequency: constants.FrequencyDaily}
}

// Habit converts the form values into a normalized habit owned by userID
func (fm *HabitFormModel) Habit(userID string) models.Habit {
	h := models.Habit{
		UserID:      userID,
		Name:        fm.Name,
		Frequency:   fm.Frequency,
		TargetDays:  models.ParseTargetDays(fm.Days),
		Description: strings.TrimSpace(fm.Description),
		Icon:        strings.TrimSpace(fm.Icon),
		Color:       strings.TrimSpace(fm.Color),
	}
	h.Normalize()
	return h
}

func weekdayOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, constants.DaysPerWeek)
	for d := constants.MinWeekday; d <= constants.MaxWeekday; d++ {
		opts = append(opts, huh.NewOption(models.WeekdayName(d), d))
	}
	return opts
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Icon").
				Description("An emoji or short symbol").
				Value(&fm.Icon),
			huh.NewInput().
				Title("Color").
				Description("Hex color, e.g. #ff79c6").
				Value(&fm.Color),
			huh.NewSelect[constants.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days").
				Description("Weekdays the habit is due on").
				Options(weekdayOptions()...).
				Value(&fm.Days).
				Validate(func(days []int) error {
					if len(days) == 0 {
						return fmt.Errorf("select at least one day for a weekly habit")
					}
					return nil
				}),
		).WithHideFunc(func() bool {
			return fm.Frequency != constants.FrequencyWeekly
		}),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmForm asks a yes/no question bound to confirmed
func NewConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

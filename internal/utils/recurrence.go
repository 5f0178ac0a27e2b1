package utils

import (
	"time"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
)

// ISOWeekday maps a time to its ISO weekday number (Monday=1 ... Sunday=7).
func ISOWeekday(t time.Time) int {
	return FromSundayFirst(int(t.Weekday()))
}

// FromSundayFirst remaps a Sunday-first weekday (0=Sunday) to ISO numbering.
func FromSundayFirst(day int) int {
	if day == 0 {
		return constants.MaxWeekday
	}
	return day
}

// IsDueOn determines if a habit is scheduled on the given ISO weekday based
// on its recurrence rule. Habits with an unknown frequency are never due.
func IsDueOn(habit models.Habit, weekday int) bool {
	switch habit.Frequency {
	case constants.FrequencyDaily:
		return true
	case constants.FrequencyWeekly:
		return models.ParseTargetDays(habit.TargetDays).Contains(weekday)
	default:
		return false
	}
}

// HabitsDueOn returns the habits due on the given ISO weekday, preserving
// input order.
func HabitsDueOn(habits []models.Habit, weekday int) []models.Habit {
	due := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if IsDueOn(h, weekday) {
			due = append(due, h)
		}
	}
	return due
}

package calendar

import (
	"time"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

// Cell is one slot of a month grid. Day is 0 for blank padding cells.
type Cell struct {
	Day       int
	Completed bool
}

// IsBlank reports whether the cell pads the grid outside the month
func (c Cell) IsBlank() bool {
	return c.Day == 0
}

// Build lays out a month as a Monday-first grid of full weeks. Non-blank cells
// are flagged when their day key is in completed. Months outside 1..12 are
// normalized the way time.Date does.
func Build(year, month int, completed map[utils.DayKey]bool) []Cell {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := DaysIn(first.Year(), first.Month())
	leading := LeadingBlanks(first)

	weeks := (leading + daysInMonth + constants.DaysPerWeek - 1) / constants.DaysPerWeek
	cells := make([]Cell, weeks*constants.DaysPerWeek)

	for i := range cells {
		d := i - leading + 1
		if d < 1 || d > daysInMonth {
			continue
		}
		key := utils.DayKeyFor(first.Year(), first.Month(), d)
		cells[i] = Cell{Day: d, Completed: completed[key]}
	}

	return cells
}

// LeadingBlanks returns how many blank cells precede the 1st under a
// Monday-first week.
func LeadingBlanks(firstOfMonth time.Time) int {
	return (int(firstOfMonth.Weekday()) + 6) % constants.DaysPerWeek
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CompletedDays returns the set of day keys with at least one completed entry
func CompletedDays(entries []models.LogEntry) map[utils.DayKey]bool {
	days := make(map[utils.DayKey]bool)
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		if key, ok := utils.NormalizeDate(e.Date); ok {
			days[key] = true
		}
	}
	return days
}

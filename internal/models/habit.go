package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitstreak/internal/constants"
)

// Habit represents a recurring practice owned by a user
type Habit struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Name        string              `json:"name"`
	Frequency   constants.Frequency `json:"frequency"`
	TargetDays  TargetDays          `json:"target_days,omitempty"` // ISO weekdays, weekly habits only
	Description string              `json:"description,omitempty"`
	Icon        string              `json:"icon,omitempty"`
	Color       string              `json:"color,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Normalize applies boundary defaults: an empty frequency is daily and
// daily habits carry no target days.
func (h *Habit) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	if h.Frequency == "" {
		h.Frequency = constants.FrequencyDaily
	}
	if h.Frequency == constants.FrequencyDaily {
		h.TargetDays = nil
	}
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	switch h.Frequency {
	case constants.FrequencyDaily:
	case constants.FrequencyWeekly:
		if len(h.TargetDays) == 0 {
			return fmt.Errorf("weekdays must be specified for weekly habits")
		}
	default:
		return fmt.Errorf("invalid frequency %q (expected daily or weekly)", h.Frequency)
	}

	return nil
}

// FormatSchedule returns a human-readable description of the habit's recurrence
func (h *Habit) FormatSchedule() string {
	switch h.Frequency {
	case constants.FrequencyDaily, "":
		return "Daily"
	case constants.FrequencyWeekly:
		names := make([]string, 0, len(h.TargetDays))
		for _, d := range h.TargetDays {
			names = append(names, WeekdayName(d))
		}
		return fmt.Sprintf("Weekly: %s", strings.Join(names, ", "))
	default:
		return string(h.Frequency)
	}
}

// WeekdayName returns the short English name of an ISO weekday (1=Mon).
func WeekdayName(isoDay int) string {
	if isoDay < constants.MinWeekday || isoDay > constants.MaxWeekday {
		return "?"
	}
	return time.Weekday(isoDay % 7).String()[:3]
}

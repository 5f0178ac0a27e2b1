// Package streak computes consecutive-day completion streaks from habit logs.
//
// A day counts toward a streak when at least one habit was completed on it;
// completions are unioned across all of a user's habits.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

// Calculate returns the current and maximum streak for the given log entries
// as of today. prior carries the previously persisted state: its Max is a
// floor for the returned Max so the best streak never shrinks. prior.Current
// is accepted for symmetry with the persisted state; the current streak is
// always recomputed from the logs. A zero today means time.Now().
//
// Calculate never fails: entries that are not completed, or whose date cannot
// be normalized, are ignored.
func Calculate(entries []models.LogEntry, prior models.Streak, today time.Time) models.Streak {
	if today.IsZero() {
		today = time.Now()
	}
	priorMax := max(prior.Max, 0)
	todayKey := utils.DayKeyOf(today)

	keys := completedDays(entries, todayKey)
	if len(keys) == 0 {
		// No verified completions: the current streak cannot survive
		return models.Streak{Current: 0, Max: priorMax}
	}

	maxRun, tailRun := runs(keys)

	current := 0
	if gap := utils.DaysBetween(keys[len(keys)-1], todayKey); gap <= 1 {
		// gap 0: completed today; gap 1: yesterday, today is the grace day
		current = tailRun
	}

	return models.Streak{
		Current: current,
		Max:     max(maxRun, current, priorMax),
	}
}

// completedDays returns the sorted unique day keys of completed entries,
// excluding days after today.
func completedDays(entries []models.LogEntry, todayKey utils.DayKey) []utils.DayKey {
	seen := make(map[utils.DayKey]struct{}, len(entries))
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		key, ok := utils.NormalizeDate(e.Date)
		if !ok || key > todayKey {
			continue
		}
		seen[key] = struct{}{}
	}

	keys := make([]utils.DayKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// runs walks sorted day keys and returns the longest run of consecutive days
// and the length of the run ending at the last key.
func runs(keys []utils.DayKey) (maxRun, tailRun int) {
	run := 0
	for i, k := range keys {
		if i > 0 && utils.DaysBetween(keys[i-1], k) == 1 {
			run++
		} else {
			run = 1
		}
		maxRun = max(maxRun, run)
	}
	return maxRun, run
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/habitstreak/internal/constants"
)

// TargetDays is the canonical set of ISO weekdays (1=Mon..7=Sun) a weekly
// habit is scheduled on. It is always sorted and free of duplicates.
type TargetDays []int

// ParseTargetDays converts loosely shaped recurrence data into TargetDays.
// It accepts integer slices, JSON-decoded arrays, string slices and
// comma-separated strings such as "2,4". Tokens that are not integers in
// [1,7] are dropped.
func ParseTargetDays(raw any) TargetDays {
	var days []int

	switch v := raw.(type) {
	case nil:
		return nil
	case TargetDays:
		days = append(days, v...)
	case []int:
		days = append(days, v...)
	case []int64:
		for _, n := range v {
			days = append(days, int(n))
		}
	case []float64:
		for _, f := range v {
			if n, ok := integral(f); ok {
				days = append(days, n)
			}
		}
	case []string:
		for _, s := range v {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				days = append(days, n)
			}
		}
	case []any:
		for _, item := range v {
			if n, ok := weekdayToken(item); ok {
				days = append(days, n)
			}
		}
	case []byte:
		return ParseTargetDays(string(v))
	case string:
		s := strings.Trim(strings.TrimSpace(v), "[]")
		for _, part := range strings.Split(s, ",") {
			part = strings.Trim(strings.TrimSpace(part), `"`)
			if n, err := strconv.Atoi(part); err == nil {
				days = append(days, n)
			}
		}
	default:
		if n, ok := weekdayToken(v); ok {
			days = append(days, n)
		}
	}

	return canonical(days)
}

func weekdayToken(item any) (int, bool) {
	switch t := item.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return integral(t)
	case json.Number:
		n, err := strconv.Atoi(t.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func canonical(days []int) TargetDays {
	seen := make(map[int]bool, len(days))
	var out TargetDays
	for _, d := range days {
		if d < constants.MinWeekday || d > constants.MaxWeekday || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Contains reports whether the ISO weekday is part of the set
func (d TargetDays) Contains(weekday int) bool {
	for _, day := range d {
		if day == weekday {
			return true
		}
	}
	return false
}

// String renders the set in its comma-separated storage form, e.g. "2,4"
func (d TargetDays) String() string {
	parts := make([]string, len(d))
	for i, day := range d {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ",")
}

func (d TargetDays) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(d))
}

// UnmarshalJSON accepts an array of integers or a comma-separated string.
// Malformed elements are dropped rather than rejected.
func (d *TargetDays) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding target days: %w", err)
	}
	*d = ParseTargetDays(raw)
	return nil
}

// Scan implements sql.Scanner for the TEXT storage form
func (d *TargetDays) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case string:
		*d = ParseTargetDays(v)
	case []byte:
		*d = ParseTargetDays(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TargetDays", src)
	}
	return nil
}

// Value implements driver.Valuer
func (d TargetDays) Value() (driver.Value, error) {
	return d.String(), nil
}

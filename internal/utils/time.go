package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitstreak/internal/constants"
)

const secondsPerDay = 24 * 60 * 60

// DayKey is a canonical calendar-day key in YYYY-MM-DD form. Lexicographic
// order on day keys equals chronological order.
type DayKey string

// layouts accepted by NormalizeDate, tried in order
var layouts = []string{
	constants.DateFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// NormalizeDate truncates a date-like value to its calendar day. The value's
// own year/month/day components are used; no timezone conversion happens.
// It returns false for unparseable input and never panics.
func NormalizeDate(value any) (DayKey, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case DayKey:
		return NormalizeDate(string(v))
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return DayKeyOf(v), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return NormalizeDate(*v)
	case []byte:
		return NormalizeDate(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", false
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DayKeyOf(t), true
			}
		}
		return "", false
	default:
		return "", false
	}
}

// DayKeyOf returns the day key of t using t's own location
func DayKeyOf(t time.Time) DayKey {
	return DayKey(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// DayKeyFor builds the key for a year/month/day triple, normalizing
// overflowing values the way time.Date does.
func DayKeyFor(year int, month time.Month, day int) DayKey {
	return DayKeyOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Time returns midnight UTC of the key's day
func (k DayKey) Time() (time.Time, bool) {
	t, err := time.Parse(constants.DateFormat, string(k))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (k DayKey) String() string {
	return string(k)
}

// DaysBetween returns the number of calendar days from a to b. Both keys are
// interpreted as UTC midnights so DST never skews the count. Invalid keys
// yield 0.
func DaysBetween(a, b DayKey) int {
	ta, ok := a.Time()
	if !ok {
		return 0
	}
	tb, ok := b.Time()
	if !ok {
		return 0
	}
	return int((tb.Unix() - ta.Unix()) / secondsPerDay)
}

// TodayKey returns the day key of now as observed in loc
func TodayKey(now time.Time, loc *time.Location) DayKey {
	if loc != nil {
		now = now.In(loc)
	}
	return DayKeyOf(now)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseMonth parses a YYYY-MM string. An empty string yields the month of now.
func ParseMonth(s string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(s) == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

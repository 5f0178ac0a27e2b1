package streak

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/habitstreak/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func completions(dates ...string) []models.LogEntry {
	entries := make([]models.LogEntry, len(dates))
	for i, d := range dates {
		entries[i] = models.LogEntry{
			ID:        fmt.Sprintf("log-%d", i),
			HabitID:   "habit-1",
			Date:      d,
			Completed: true,
		}
	}
	return entries
}

func TestCalculate_Scenarios(t *testing.T) {
	history := completions("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")

	tests := []struct {
		name  string
		today string
		want  models.Streak
	}{
		{name: "completed today", today: "2024-01-05", want: models.Streak{Current: 5, Max: 5}},
		{name: "grace day", today: "2024-01-06", want: models.Streak{Current: 5, Max: 5}},
		{name: "two day gap breaks streak", today: "2024-01-07", want: models.Streak{Current: 0, Max: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(history, models.Streak{}, day(tt.today))
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LogEntry
		prior   models.Streak
		today   string
		want    models.Streak
	}{
		{
			name:    "no entries resets current and keeps max",
			entries: nil,
			prior:   models.Streak{Current: 4, Max: 9},
			today:   "2024-01-05",
			want:    models.Streak{Current: 0, Max: 9},
		},
		{
			name: "only incomplete entries",
			entries: []models.LogEntry{
				{HabitID: "h", Date: "2024-01-05", Completed: false},
			},
			prior: models.Streak{Current: 2, Max: 3},
			today: "2024-01-05",
			want:  models.Streak{Current: 0, Max: 3},
		},
		{
			name:    "unparseable dates dropped",
			entries: completions("garbage", "", "2024-01-05"),
			today:   "2024-01-05",
			want:    models.Streak{Current: 1, Max: 1},
		},
		{
			name:    "duplicate days across habits collapse",
			entries: completions("2024-01-04", "2024-01-04T08:00:00Z", "2024-01-05T21:30:00Z", "2024-01-05"),
			today:   "2024-01-05",
			want:    models.Streak{Current: 2, Max: 2},
		},
		{
			name:    "older longer run sets max",
			entries: completions("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-08", "2024-01-09"),
			today:   "2024-01-09",
			want:    models.Streak{Current: 2, Max: 3},
		},
		{
			name:    "prior max dominates",
			entries: completions("2024-01-08", "2024-01-09"),
			prior:   models.Streak{Current: 0, Max: 30},
			today:   "2024-01-10",
			want:    models.Streak{Current: 2, Max: 30},
		},
		{
			name:    "unsorted input",
			entries: completions("2024-01-03", "2024-01-01", "2024-01-02"),
			today:   "2024-01-03",
			want:    models.Streak{Current: 3, Max: 3},
		},
		{
			name:    "run across month boundary",
			entries: completions("2024-01-30", "2024-01-31", "2024-02-01"),
			today:   "2024-02-02",
			want:    models.Streak{Current: 3, Max: 3},
		},
		{
			name:    "run across leap day",
			entries: completions("2024-02-28", "2024-02-29", "2024-03-01"),
			today:   "2024-03-01",
			want:    models.Streak{Current: 3, Max: 3},
		},
		{
			name:    "future entries ignored",
			entries: completions("2024-01-04", "2024-01-05", "2024-01-07"),
			today:   "2024-01-05",
			want:    models.Streak{Current: 2, Max: 2},
		},
		{
			name:    "negative prior max clamped",
			entries: nil,
			prior:   models.Streak{Max: -3},
			today:   "2024-01-05",
			want:    models.Streak{Current: 0, Max: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.entries, tt.prior, day(tt.today))
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
			if got.Max < got.Current {
				t.Errorf("invariant violated: max %d < current %d", got.Max, got.Current)
			}
		})
	}
}

func TestCalculate_ZeroTodayUsesNow(t *testing.T) {
	entries := completions("2024-01-05")

	got := Calculate(entries, models.Streak{}, time.Time{})
	if want := (models.Streak{Current: 0, Max: 1}); got != want {
		t.Errorf("Calculate() = %+v, want %+v", got, want)
	}

	got = Calculate(entries, models.Streak{Max: 9}, time.Time{})
	if want := (models.Streak{Current: 0, Max: 9}); got != want {
		t.Errorf("Calculate() with prior = %+v, want %+v", got, want)
	}

	now := time.Now()
	got = Calculate(completions(now.Format("2006-01-02")), models.Streak{}, time.Time{})
	if got.Current != 1 {
		t.Errorf("Current = %d, want 1 for a completion dated today", got.Current)
	}
}

func TestCalculate_TodayTimeOfDayIgnored(t *testing.T) {
	entries := completions("2024-01-04", "2024-01-05")
	late := time.Date(2024, 1, 6, 23, 59, 59, 0, time.UTC)

	got := Calculate(entries, models.Streak{}, late)
	if got.Current != 2 {
		t.Errorf("Current = %d, want 2 (grace day)", got.Current)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	entries := completions("2024-01-02", "2024-01-01", "2024-01-05", "2024-01-04")
	prior := models.Streak{Current: 1, Max: 2}
	today := day("2024-01-05")

	first := Calculate(entries, prior, today)
	for i := 0; i < 10; i++ {
		if got := Calculate(entries, prior, today); got != first {
			t.Fatalf("run %d: Calculate() = %+v, want %+v", i, got, first)
		}
	}
}

func TestCalculate_MonotonicMax(t *testing.T) {
	// Simulate a user's history growing and shrinking views over time;
	// threading max back in must never let it decrease.
	steps := []struct {
		entries []models.LogEntry
		today   string
	}{
		{completions("2024-01-01", "2024-01-02", "2024-01-03"), "2024-01-03"},
		{completions("2024-01-01", "2024-01-02", "2024-01-03"), "2024-01-10"},
		{nil, "2024-01-11"},
		{completions("2024-01-11"), "2024-01-11"},
		{completions("2024-01-11", "2024-01-12", "2024-01-13", "2024-01-14"), "2024-01-14"},
		{completions("2024-01-20"), "2024-01-25"},
	}

	state := models.Streak{}
	for i, step := range steps {
		next := Calculate(step.entries, state, day(step.today))
		if next.Max < state.Max {
			t.Fatalf("step %d: max decreased from %d to %d", i, state.Max, next.Max)
		}
		state = next
	}
	if state.Max != 4 {
		t.Errorf("final max = %d, want 4", state.Max)
	}
}

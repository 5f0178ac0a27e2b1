// Package streaksync keeps a user's persisted streak in step with their
// habit logs. It is the only component that talks to the stores; the
// arithmetic lives in package streak.
package streaksync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/streak"
	"github.com/julianstephens/habitstreak/internal/utils"
)

// ErrCompletionInFlight rejects a completion while an earlier one for the
// same user and habit has not returned yet.
var ErrCompletionInFlight = errors.New("a completion for this habit is already in progress")

// SyncResult is what the UI needs after a load or a completion
type SyncResult struct {
	// CompletedTodayIDs lists habits with a completed entry today, in the
	// order they first appear in the logs.
	CompletedTodayIDs []string
	Streak            models.Streak
}

// CompletedToday reports whether habitID is in CompletedTodayIDs
func (r SyncResult) CompletedToday(habitID string) bool {
	for _, id := range r.CompletedTodayIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

type flightKey struct {
	userID  string
	habitID string
}

type Coordinator struct {
	logs     storage.LogStore
	profiles storage.ProfileStore
	now      func() time.Time
	loc      *time.Location

	mu       sync.Mutex
	inFlight map[flightKey]struct{}
}

type Option func(*Coordinator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLocation sets the zone that decides which calendar day "today" is
func WithLocation(loc *time.Location) Option {
	return func(c *Coordinator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func New(logs storage.LogStore, profiles storage.ProfileStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		logs:     logs,
		profiles: profiles,
		now:      time.Now,
		loc:      time.Local,
		inFlight: make(map[flightKey]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today returns the current time in the coordinator's location
func (c *Coordinator) Today() time.Time {
	return c.now().In(c.loc)
}

// LoadAndSync recomputes the user's streak from their logs and persists it
func (c *Coordinator) LoadAndSync(ctx context.Context, userID string) (SyncResult, error) {
	entries, profile, err := c.load(ctx, userID)
	if err != nil {
		return SyncResult{}, err
	}
	return c.sync(ctx, userID, entries, profile.Streak())
}

// RecordCompletion logs a completion of habitID on date (today when date is
// zero) and re-syncs the streak. A completion that already exists for that
// day is not an error.
func (c *Coordinator) RecordCompletion(ctx context.Context, userID, habitID string, date time.Time) (SyncResult, error) {
	if habitID == "" {
		return SyncResult{}, errors.New("habit id is required")
	}

	key := flightKey{userID: userID, habitID: habitID}
	if !c.acquire(key) {
		return SyncResult{}, ErrCompletionInFlight
	}
	defer c.release(key)

	if date.IsZero() {
		date = c.Today()
	}
	entry := models.LogEntry{
		HabitID:   habitID,
		Date:      utils.DayKeyOf(date).String(),
		Completed: true,
	}

	if _, err := c.logs.CreateLog(ctx, entry); err != nil {
		if !errors.Is(err, storage.ErrAlreadyCompleted) {
			return SyncResult{}, fmt.Errorf("recording completion: %w", err)
		}
		logger.Info("Habit already completed", "habit", habitID, "date", entry.Date)
	}

	entries, profile, err := c.load(ctx, userID)
	if err != nil {
		return SyncResult{}, err
	}

	// the server may not reflect the new entry yet
	entries = append(entries, entry)
	return c.sync(ctx, userID, entries, profile.Streak())
}

func (c *Coordinator) load(ctx context.Context, userID string) ([]models.LogEntry, models.Profile, error) {
	var (
		entries []models.LogEntry
		profile models.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = c.logs.GetUserLogs(gctx, userID)
		if err != nil {
			return fmt.Errorf("loading logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profile, err = c.profiles.GetProfile(gctx, userID)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, models.Profile{}, err
	}
	return entries, profile, nil
}

func (c *Coordinator) sync(ctx context.Context, userID string, entries []models.LogEntry, prior models.Streak) (SyncResult, error) {
	today := c.Today()
	next := streak.Calculate(entries, prior, today)

	logger.Debug("Recomputed streak",
		"user", userID,
		"entries", len(entries),
		"prior_current", prior.Current,
		"prior_max", prior.Max,
		"current", next.Current,
		"max", next.Max,
	)

	if _, err := c.profiles.UpdateStreak(ctx, userID, next); err != nil {
		return SyncResult{}, fmt.Errorf("saving streak: %w", err)
	}

	return SyncResult{
		CompletedTodayIDs: CompletedOn(entries, utils.DayKeyOf(today)),
		Streak:            next,
	}, nil
}

// CompletedOn returns the unique habit ids with a completed entry on day,
// in first-seen order.
func CompletedOn(entries []models.LogEntry, day utils.DayKey) []string {
	seen := make(map[string]bool)
	ids := []string{}
	for _, e := range entries {
		if !e.Completed || seen[e.HabitID] {
			continue
		}
		if key, ok := utils.NormalizeDate(e.Date); ok && key == day {
			seen[e.HabitID] = true
			ids = append(ids, e.HabitID)
		}
	}
	return ids
}

func (c *Coordinator) acquire(key flightKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *Coordinator) release(key flightKey) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

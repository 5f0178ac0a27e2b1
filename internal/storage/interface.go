package storage

import (
	"context"

	"github.com/julianstephens/habitstreak/internal/models"
)

// LogStore reads and appends habit log entries
type LogStore interface {
	// CreateLog appends an entry. A second completed entry for the same
	// habit and day returns ErrAlreadyCompleted.
	CreateLog(ctx context.Context, entry models.LogEntry) (models.LogEntry, error)
	// GetUserLogs returns every entry across all habits owned by the user
	GetUserLogs(ctx context.Context, userID string) ([]models.LogEntry, error)
}

// ProfileStore reads and writes the persisted streak state of a user
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateStreak(ctx context.Context, userID string, streak models.Streak) (models.Profile, error)
}

type HabitStore interface {
	GetUserHabits(ctx context.Context, userID string) ([]models.Habit, error)
	CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	DeleteHabit(ctx context.Context, habitID string) error
}

// SessionProvider resolves the identity the stores act on behalf of
type SessionProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Provider is a complete backend: either a local database or the remote API
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	LogStore
	ProfileStore
	HabitStore

	// Utils
	GetConfigPath() string
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
)

type profileRow struct {
	ID          string `db:"id"`
	Username    string `db:"username"`
	Email       string `db:"email"`
	StreakCount int    `db:"streak_count"`
	MaxStreak   int    `db:"max_streak"`
	UpdatedAt   string `db:"updated_at"`
}

func (r profileRow) toModel() models.Profile {
	return models.Profile{
		ID:          r.ID,
		Username:    r.Username,
		Email:       r.Email,
		StreakCount: r.StreakCount,
		MaxStreak:   r.MaxStreak,
		UpdatedAt:   parseTimestamp(r.UpdatedAt),
	}
}

func (s *Store) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var row profileRow
	query := s.db.Rebind("SELECT id, username, email, streak_count, max_streak, updated_at FROM profiles WHERE id = ?")
	err := s.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return row.toModel(), nil
}

// UpdateStreak overwrites the persisted streak; the last write wins
func (s *Store) UpdateStreak(ctx context.Context, userID string, streak models.Streak) (models.Profile, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE profiles SET streak_count = ?, max_streak = ?, updated_at = ?
		WHERE id = ?`),
		streak.Current, streak.Max, s.timestamp(), userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to update streak: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Profile{}, fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	return s.GetProfile(ctx, userID)
}

// EnsureProfile creates the profile row for a local user if it is missing
func (s *Store) EnsureProfile(ctx context.Context, userID, username string) (models.Profile, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Profile{}, err
	}
	defer tx.Rollback()

	if err := s.ensureProfile(ctx, tx, userID, username); err != nil {
		return models.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Profile{}, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *Store) ensureProfile(ctx context.Context, tx *sqlx.Tx, userID, username string) error {
	if username == "" {
		username = userID
	}
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO profiles (id, username, email, streak_count, max_streak, updated_at)
		VALUES (?, ?, '', 0, 0, ?)
		ON CONFLICT (id) DO NOTHING`),
		userID, username, s.timestamp())
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
)

type habitRow struct {
	ID          string            `db:"id"`
	UserID      string            `db:"user_id"`
	Name        string            `db:"name"`
	Frequency   string            `db:"frequency"`
	TargetDays  models.TargetDays `db:"target_days"`
	Description string            `db:"description"`
	Icon        string            `db:"icon"`
	Color       string            `db:"color"`
	CreatedAt   string            `db:"created_at"`
}

func (r habitRow) toModel() models.Habit {
	h := models.Habit{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Frequency:   constants.Frequency(r.Frequency),
		TargetDays:  r.TargetDays,
		Description: r.Description,
		Icon:        r.Icon,
		Color:       r.Color,
		CreatedAt:   parseTimestamp(r.CreatedAt),
	}
	h.Normalize()
	return h
}

const habitColumns = "id, user_id, name, frequency, target_days, description, icon, color, created_at"

func (s *Store) GetUserHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	var rows []habitRow
	query := s.db.Rebind("SELECT " + habitColumns + " FROM habits WHERE user_id = ? ORDER BY created_at, name")
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	habits := make([]models.Habit, 0, len(rows))
	for _, r := range rows {
		habits = append(habits, r.toModel())
	}
	return habits, nil
}

// CreateHabit validates and inserts a habit, assigning its id and creation
// time. The owner's profile row is created on first use.
func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	habit.Normalize()
	if err := habit.Validate(); err != nil {
		return models.Habit{}, err
	}
	if habit.UserID == "" {
		return models.Habit{}, fmt.Errorf("habit has no owner")
	}
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}
	created := s.timestamp()
	habit.CreatedAt = parseTimestamp(created)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Habit{}, err
	}
	defer tx.Rollback()

	if err := s.ensureProfile(ctx, tx, habit.UserID, habit.UserID); err != nil {
		return models.Habit{}, err
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		habit.ID, habit.UserID, habit.Name, string(habit.Frequency), habit.TargetDays,
		habit.Description, habit.Icon, habit.Color, created)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit removes a habit together with its log entries
func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM habit_logs WHERE habit_id = ?"), habitID); err != nil {
		return fmt.Errorf("failed to delete habit logs: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM habits WHERE id = ?"), habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	return tx.Commit()
}

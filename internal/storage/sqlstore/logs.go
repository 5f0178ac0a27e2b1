package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type logRow struct {
	ID        string `db:"id"`
	HabitID   string `db:"habit_id"`
	Day       string `db:"day"`
	Completed bool   `db:"completed"`
	CreatedAt string `db:"created_at"`
}

func (r logRow) toModel() models.LogEntry {
	return models.LogEntry{
		ID:        r.ID,
		HabitID:   r.HabitID,
		Date:      r.Day,
		Completed: r.Completed,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

// CreateLog appends an entry stored under its normalized day key. A second
// completed entry for the same habit and day is rejected by the unique
// index and reported as storage.ErrAlreadyCompleted.
func (s *Store) CreateLog(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	day, ok := utils.NormalizeDate(entry.Date)
	if !ok {
		return models.LogEntry{}, fmt.Errorf("invalid log date %q", entry.Date)
	}
	if entry.HabitID == "" {
		return models.LogEntry{}, fmt.Errorf("log entry has no habit")
	}

	entry.Date = day.String()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	created := s.timestamp()
	entry.CreatedAt = parseTimestamp(created)

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO habit_logs (id, habit_id, day, completed, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`),
		entry.ID, entry.HabitID, entry.Date, entry.Completed, created)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("failed to create log entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("failed to create log entry: %w", err)
	}
	if n == 0 {
		return models.LogEntry{}, fmt.Errorf("habit %s on %s: %w", entry.HabitID, entry.Date, storage.ErrAlreadyCompleted)
	}

	return entry, nil
}

// GetUserLogs returns the entries of every habit the user owns, oldest first
func (s *Store) GetUserLogs(ctx context.Context, userID string) ([]models.LogEntry, error) {
	var rows []logRow
	query := s.db.Rebind(`
		SELECT l.id, l.habit_id, l.day, l.completed, l.created_at
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.user_id = ?
		ORDER BY l.day, l.created_at`)
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := make([]models.LogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toModel())
	}
	return entries, nil
}

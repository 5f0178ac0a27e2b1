package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
)

// ID is an identifier that the server may send as a JSON number or string
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so integer-keyed backends accept them
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// server timestamps come with or without a zone suffix
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	constants.DateFormat,
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type habitDTO struct {
	ID          ID                `json:"id,omitempty"`
	UserID      ID                `json:"user_id"`
	Name        string            `json:"name"`
	Frequency   string            `json:"frequency"`
	TargetDays  models.TargetDays `json:"target_days"`
	Description string            `json:"description,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Color       string            `json:"color,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
}

func habitFromModel(h models.Habit) habitDTO {
	return habitDTO{
		ID:          ID(h.ID),
		UserID:      ID(h.UserID),
		Name:        h.Name,
		Frequency:   string(h.Frequency),
		TargetDays:  h.TargetDays,
		Description: h.Description,
		Icon:        h.Icon,
		Color:       h.Color,
	}
}

func (d habitDTO) toModel() models.Habit {
	h := models.Habit{
		ID:          string(d.ID),
		UserID:      string(d.UserID),
		Name:        d.Name,
		Frequency:   constants.Frequency(d.Frequency),
		TargetDays:  d.TargetDays,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		CreatedAt:   parseTime(d.CreatedAt),
	}
	h.Normalize()
	return h
}

type logDTO struct {
	ID        ID     `json:"id,omitempty"`
	HabitID   ID     `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (d logDTO) toModel() models.LogEntry {
	return models.LogEntry{
		ID:        string(d.ID),
		HabitID:   string(d.HabitID),
		Date:      d.Date,
		Completed: d.Completed,
		CreatedAt: parseTime(d.CreatedAt),
	}
}

type userDTO struct {
	ID          ID     `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	StreakCount int    `json:"streak_count"`
	MaxStreak   int    `json:"max_streak"`
	UpdatedAt   string `json:"updated_at"`
}

func (d userDTO) toModel() models.Profile {
	return models.Profile{
		ID:          string(d.ID),
		Username:    d.Username,
		Email:       d.Email,
		StreakCount: d.StreakCount,
		MaxStreak:   d.MaxStreak,
		UpdatedAt:   parseTime(d.UpdatedAt),
	}
}

type streakUpdate struct {
	StreakCount int `json:"streak_count"`
	MaxStreak   int `json:"max_streak"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// meResponse covers both {"sub": ...} and {"user": {"sub": ...}} shapes
type meResponse struct {
	Sub  ID `json:"sub"`
	ID   ID `json:"id"`
	User *struct {
		Sub ID `json:"sub"`
		ID  ID `json:"id"`
	} `json:"user"`
}

func (m meResponse) userID() ID {
	for _, id := range []ID{m.Sub, m.ID} {
		if id != "" {
			return id
		}
	}
	if m.User != nil {
		if m.User.Sub != "" {
			return m.User.Sub
		}
		return m.User.ID
	}
	return ""
}

// decodeList accepts either a bare JSON array or an object wrapping it in "data"
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var items []T
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}

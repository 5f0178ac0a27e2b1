// Package api is a storage.Provider backed by the habit tracker's REST
// backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/utils"
)

const defaultTimeout = 10 * time.Second

// StatusError is a non-2xx response the client has no sentinel for
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// TokenFunc supplies the bearer token for authenticated requests
type TokenFunc func(ctx context.Context) (string, error)

type Client struct {
	base  *url.URL
	http  *http.Client
	token TokenFunc
}

var _ storage.Provider = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Init is a no-op; the server owns its schema
func (c *Client) Init(context.Context) error { return nil }

func (c *Client) Load(context.Context) error { return nil }

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) GetConfigPath() string {
	return c.base.String()
}

// Login exchanges credentials for an access token using the form-encoded
// OAuth2 password flow.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.anonymousRequest(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp tokenResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("login response did not include an access token")
	}
	return resp.AccessToken, nil
}

// Register creates an account and returns the access token issued for it.
// The request uses the same form encoding as Login.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("email", email)
	form.Set("password", password)

	req, err := c.anonymousRequest(ctx, http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp tokenResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("register response did not include an access token")
	}
	return resp.AccessToken, nil
}

// Logout invalidates the current token on the server
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me returns the id of the user the current token belongs to
func (c *Client) Me(ctx context.Context) (string, error) {
	var resp meResponse
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return "", err
	}
	id := resp.userID()
	if id == "" {
		return "", errors.New("/auth/me response did not identify the user")
	}
	return string(id), nil
}

func (c *Client) GetUserHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	dtos, err := callList[habitDTO](ctx, c, "/habits/user/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	habits := make([]models.Habit, 0, len(dtos))
	for _, d := range dtos {
		habits = append(habits, d.toModel())
	}
	return habits, nil
}

func (c *Client) CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	habit.Normalize()
	if err := habit.Validate(); err != nil {
		return models.Habit{}, err
	}

	var created habitDTO
	if err := c.call(ctx, http.MethodPost, "/habits", habitFromModel(habit), &created); err != nil {
		return models.Habit{}, err
	}
	return created.toModel(), nil
}

func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	return c.call(ctx, http.MethodDelete, "/habits/"+url.PathEscape(habitID), nil, nil)
}

func (c *Client) GetUserLogs(ctx context.Context, userID string) ([]models.LogEntry, error) {
	dtos, err := callList[logDTO](ctx, c, "/habit_logs/user/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	entries := make([]models.LogEntry, 0, len(dtos))
	for _, d := range dtos {
		entries = append(entries, d.toModel())
	}
	return entries, nil
}

// CreateLog posts a log entry. The server answers 409 for a duplicate
// completion, reported as storage.ErrAlreadyCompleted.
func (c *Client) CreateLog(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	day, ok := utils.NormalizeDate(entry.Date)
	if !ok {
		return models.LogEntry{}, fmt.Errorf("invalid log date %q", entry.Date)
	}

	body := logDTO{HabitID: ID(entry.HabitID), Date: day.String(), Completed: entry.Completed}
	var created logDTO
	err := c.call(ctx, http.MethodPost, "/habit_logs", body, &created)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict {
		return models.LogEntry{}, fmt.Errorf("habit %s on %s: %w", entry.HabitID, day, storage.ErrAlreadyCompleted)
	}
	if err != nil {
		return models.LogEntry{}, err
	}

	out := created.toModel()
	if out.HabitID == "" {
		out.HabitID = entry.HabitID
	}
	if out.Date == "" {
		out.Date = day.String()
	}
	return out, nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var user userDTO
	if err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return models.Profile{}, err
	}
	return user.toModel(), nil
}

func (c *Client) UpdateStreak(ctx context.Context, userID string, streak models.Streak) (models.Profile, error) {
	body := streakUpdate{StreakCount: streak.Current, MaxStreak: streak.Max}
	var user userDTO
	if err := c.call(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), body, &user); err != nil {
		return models.Profile{}, err
	}

	p := user.toModel()
	if p.ID == "" {
		// some deployments answer with an empty body
		p = models.Profile{ID: userID, StreakCount: streak.Current, MaxStreak: streak.Max}
	}
	return p, nil
}

func (c *Client) anonymousRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// newRequest is anonymousRequest plus the bearer token, when one is configured
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := c.anonymousRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// call sends an optional JSON body and decodes an optional JSON response
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func callList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return items, nil
}

func (c *Client) do(req *http.Request, out any) error {
	path := req.URL.Path
	logger.Debug("api request", "method", req.Method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", req.Method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", req.Method, path, storage.ErrUnauthenticated)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", req.Method, path, storage.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Detail: detail(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", req.Method, path, err)
	}
	return nil
}

// detail extracts a FastAPI-style {"detail": ...} message when present
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	return string(payload.Detail)
}

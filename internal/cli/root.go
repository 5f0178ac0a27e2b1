package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitstreak/internal/api"
	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/keyring"
	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/session"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/storage/sqlstore"
	"github.com/julianstephens/habitstreak/internal/streaksync"
	"github.com/julianstephens/habitstreak/internal/utils"
)

// Options are the global flags that select a backend
type Options struct {
	DB       string
	APIURL   string
	User     string
	Timezone string
}

type Context struct {
	Ctx      context.Context
	Store    storage.Provider
	Session  storage.SessionProvider
	Sync     *streaksync.Coordinator
	Location *time.Location

	// API is set when the remote backend is selected, Local otherwise
	API   *api.Client
	Local *sqlstore.Store
}

// NewContext wires the store, session and coordinator selected by opts
func NewContext(ctx context.Context, opts Options) (*Context, error) {
	loc, err := utils.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
	}

	c := &Context{Ctx: ctx, Location: loc}

	switch {
	case opts.APIURL != "":
		sess := session.NewTokenSession()
		client, err := api.New(opts.APIURL, api.WithToken(func(ctx context.Context) (string, error) {
			token, _, err := sess.Token(ctx)
			return token, err
		}))
		if err != nil {
			return nil, err
		}
		c.API = client
		c.Store = client
		c.Session = sess
	default:
		store, err := openLocal(opts.DB)
		if err != nil {
			return nil, err
		}
		user := opts.User
		if user == "" {
			user = constants.DefaultUserID
		}
		c.Local = store
		c.Store = store
		c.Session = session.Static(user)
	}

	c.Sync = streaksync.New(c.Store, c.Store, streaksync.WithLocation(loc))
	return c, nil
}

func openLocal(db string) (*sqlstore.Store, error) {
	switch {
	case db == sqlstore.DriverPostgres:
		connStr, err := connStringFromEnvOrKeyring()
		if err != nil {
			return nil, err
		}
		return sqlstore.NewPostgres(connStr), nil
	case sqlstore.IsPostgres(db):
		if err := sqlstore.ValidateConnString(db); err != nil {
			if errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with '%s keyring set' or in %s instead",
					err, constants.AppName, constants.EnvDBConnection)
			}
			return nil, err
		}
		return sqlstore.NewPostgres(db), nil
	default:
		if db == "" {
			db = constants.DefaultConfigPath
		}
		path, err := ExpandHome(db)
		if err != nil {
			return nil, err
		}
		return sqlstore.NewSQLite(path), nil
	}
}

// connStringFromEnvOrKeyring reads a PostgreSQL connection string from the
// environment, falling back to the OS keyring. Both sources may carry a
// password.
func connStringFromEnvOrKeyring() (string, error) {
	connStr := os.Getenv(constants.EnvDBConnection)
	source := constants.EnvDBConnection
	if connStr == "" {
		var err error
		connStr, err = keyring.GetConnectionString()
		if err != nil {
			return "", fmt.Errorf("no PostgreSQL connection string in %s or the OS keyring: %w",
				constants.EnvDBConnection, err)
		}
		source = "keyring"
	}

	if err := sqlstore.ValidateConnString(connStr); err != nil && !errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
		return "", err
	}
	logger.Debug("Using PostgreSQL connection string", "source", source)
	return connStr, nil
}

// UserID resolves the user the command acts for
func (c *Context) UserID() (string, error) {
	return c.Session.CurrentUserID(c.Ctx)
}

// Today returns the current time in the configured location
func (c *Context) Today() time.Time {
	return c.Sync.Today()
}

// ResolveHabit finds a habit by id or, failing that, by case-insensitive name
func (c *Context) ResolveHabit(userID, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, errors.New("habit name or id is required")
	}

	habits, err := c.Store.GetUserHabits(c.Ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}
	return FindHabit(habits, ref)
}

// FindHabit matches ref against habit ids first, then names
func FindHabit(habits []models.Habit, ref string) (models.Habit, error) {
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}

	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("habit name %q is ambiguous (%d matches); use the id", ref, len(matches))
	}
}

// ParseWeekdays parses a comma-separated list of weekday names or ISO
// numbers (1=Monday, 7=Sunday).
func ParseWeekdays(s string) (models.TargetDays, error) {
	dayMap := map[string]int{
		"mon":       1,
		"monday":    1,
		"tue":       2,
		"tuesday":   2,
		"wed":       3,
		"wednesday": 3,
		"thu":       4,
		"thursday":  4,
		"fri":       5,
		"friday":    5,
		"sat":       6,
		"saturday":  6,
		"sun":       7,
		"sunday":    7,
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			days = append(days, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < constants.MinWeekday || num > constants.MaxWeekday {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}

	return models.ParseTargetDays(days), nil
}

// ParseDate parses an optional YYYY-MM-DD flag; empty means the zero time
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(constants.DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/streaksync"
	"github.com/julianstephens/habitstreak/internal/tui/components/habits"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateCalendar
	StateAddHabit
	StateConfirmDelete
)

// number of tabbed states; the rest are overlays
const tabCount = 2

type loadedMsg struct {
	habits []models.Habit
	logs   []models.LogEntry
	result streaksync.SyncResult
}

type completedMsg struct {
	logs   []models.LogEntry
	result streaksync.SyncResult
}

type habitSavedMsg struct {
	status string
}

type errMsg struct {
	err error
}

type Model struct {
	ctx    context.Context
	store  storage.Provider
	sync   *streaksync.Coordinator
	userID string

	state         SessionState
	previousState SessionState
	keys          KeyMap
	habitKeys     habits.KeyMap
	help          help.Model
	habitsModel   habits.Model

	form          *huh.Form
	habitForm     *HabitFormModel
	confirmed     bool
	habitToDelete habits.DeleteHabitMsg

	habits []models.Habit
	logs   []models.LogEntry
	result streaksync.SyncResult
	year   int
	month  time.Month

	loading  bool
	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, store storage.Provider, sync *streaksync.Coordinator, userID string) Model {
	today := sync.Today()
	return Model{
		ctx:         ctx,
		store:       store,
		sync:        sync,
		userID:      userID,
		state:       StateToday,
		keys:        DefaultKeyMap(),
		habitKeys:   habits.DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(0, 0),
		year:        today.Year(),
		month:       today.Month(),
		loading:     true,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.habitKeys.Add, m.habitKeys.Mark, m.habitKeys.Delete)
	case StateCalendar:
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		actions = []key.Binding{m.habitKeys.Add, m.habitKeys.Mark, m.habitKeys.Delete}
	case StateCalendar:
		actions = []key.Binding{m.keys.PrevMonth, m.keys.NextMonth, m.keys.ThisMonth}
	}

	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	ctx, store, coord, userID := m.ctx, m.store, m.sync, m.userID
	return func() tea.Msg {
		var msg loadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			msg.habits, err = store.GetUserHabits(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			msg.logs, err = store.GetUserLogs(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			msg.result, err = coord.LoadAndSync(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return errMsg{err}
		}
		return msg
	}
}

func (m Model) markCmd(habitID string) tea.Cmd {
	ctx, store, coord, userID := m.ctx, m.store, m.sync, m.userID
	return func() tea.Msg {
		result, err := coord.RecordCompletion(ctx, userID, habitID, time.Time{})
		if err != nil {
			return errMsg{err}
		}
		logs, err := store.GetUserLogs(ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		return completedMsg{logs: logs, result: result}
	}
}

func (m Model) createHabitCmd(habit models.Habit) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		created, err := store.CreateHabit(ctx, habit)
		if err != nil {
			return errMsg{err}
		}
		return habitSavedMsg{status: "Added habit " + created.Name}
	}
}

func (m Model) deleteHabitCmd(target habits.DeleteHabitMsg) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		if err := store.DeleteHabit(ctx, target.ID); err != nil {
			return errMsg{err}
		}
		return habitSavedMsg{status: "Deleted habit " + target.Name}
	}
}

// refreshHabits rebuilds the habit list for today's weekday
func (m *Model) refreshHabits() {
	weekday := utils.ISOWeekday(m.sync.Today())
	m.habitsModel.SetHabits(m.habits, weekday, m.result.CompletedToday)
}

func (m *Model) resize() {
	// tabs, streak header, status line and help
	const chrome = 8
	h := m.height - chrome
	if h < 0 {
		h = 0
	}
	w := m.width - 4
	if w < 0 {
		w = 0
	}
	m.habitsModel.SetSize(w, h)
}

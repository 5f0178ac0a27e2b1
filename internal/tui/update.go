package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = nil
		m.habits = msg.habits
		m.logs = msg.logs
		m.result = msg.result
		m.refreshHabits()
		return m, nil

	case completedMsg:
		m.err = nil
		m.logs = msg.logs
		m.result = msg.result
		m.status = "Marked done"
		m.refreshHabits()
		return m, nil

	case habitSavedMsg:
		m.err = nil
		m.status = msg.status
		return m, m.loadCmd()

	case errMsg:
		m.loading = false
		m.err = msg.err
		logger.Error("tui operation failed", "err", msg.err)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = NewHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = StateAddHabit
		return m, m.form.Init()

	case habits.MarkHabitMsg:
		m.status = ""
		return m, m.markCmd(msg.ID)

	case habits.DeleteHabitMsg:
		m.habitToDelete = msg
		m.confirmed = false
		m.form = NewConfirmForm("Delete "+msg.Name+" and its history?", &m.confirmed)
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, m.form.Init()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadCmd()
		}

		if m.state == StateCalendar {
			switch {
			case key.Matches(msg, m.keys.PrevMonth):
				m.shiftMonth(-1)
			case key.Matches(msg, m.keys.NextMonth):
				m.shiftMonth(1)
			case key.Matches(msg, m.keys.ThisMonth):
				today := m.sync.Today()
				m.year, m.month = today.Year(), today.Month()
			}
			return m, nil
		}
	}

	if m.state == StateToday {
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) shiftMonth(delta int) {
	first := time.Date(m.year, m.month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	m.year, m.month = first.Year(), first.Month()
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit := m.habitForm.Habit(m.userID)
		if err := habit.Validate(); err != nil {
			m.err = err
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = m.previousState
		return m, m.createHabitCmd(habit)
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		if m.confirmed {
			return m, m.deleteHabitCmd(m.habitToDelete)
		}
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

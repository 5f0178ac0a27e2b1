package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitstreak/internal/calendar"
	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateCalendar:
		content = m.viewCalendar()
	case StateAddHabit, StateConfirmDelete:
		content = m.form.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStreak(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Calendar"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStreak() string {
	if m.loading {
		return headerStyle.Render("Loading...")
	}
	s := m.result.Streak
	return headerStyle.Render(fmt.Sprintf("🔥 %s  %s",
		pluralDays(s.Current),
		mutedStyle.Render("best "+pluralDays(s.Max)),
	))
}

func (m Model) viewToday() string {
	return docStyle.Render(m.habitsModel.View())
}

func (m Model) viewCalendar() string {
	cells := calendar.Build(m.year, int(m.month), calendar.CompletedDays(m.logs))
	today := utils.DayKeyOf(m.sync.Today())
	return docStyle.Render(calendar.Render(m.year, m.month, cells, today))
}

func (m Model) viewStatus() string {
	if m.err != nil {
		msg := apperrors.Format(m.err)
		if hint := apperrors.Hint(m.err); hint != "" {
			msg += " " + hint
		}
		return dangerStyle.Render(msg)
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

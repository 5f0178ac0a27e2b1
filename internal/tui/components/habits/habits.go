package habits

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID   string
	Name string
}

type Item struct {
	Habit models.Habit
	Due   bool
	Done  bool
}

func (i Item) Title() string {
	switch {
	case i.Done:
		return "✓ " + i.Habit.Name
	case i.Due:
		return "○ " + i.Habit.Name
	default:
		return "· " + i.Habit.Name
	}
}

func (i Item) Description() string {
	schedule := i.Habit.FormatSchedule()
	switch {
	case i.Done:
		return schedule + " · completed today"
	case i.Due:
		return schedule + " · due today"
	default:
		return schedule + " · not scheduled today"
	}
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Mark   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "mark done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetHabits rebuilds the items. Habits due on weekday come first, in
// their original order, followed by the rest.
func (m *Model) SetHabits(all []models.Habit, weekday int, done func(id string) bool) {
	due := utils.HabitsDueOn(all, weekday)
	isDue := make(map[string]bool, len(due))
	for _, h := range due {
		isDue[h.ID] = true
	}

	items := make([]list.Item, 0, len(all))
	for _, h := range due {
		items = append(items, Item{Habit: h, Due: true, Done: done(h.ID)})
	}
	for _, h := range all {
		if !isDue[h.ID] {
			items = append(items, Item{Habit: h, Done: done(h.ID)})
		}
	}
	m.list.SetItems(items)
}

func (m Model) Items() []Item {
	raw := m.list.Items()
	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		if i, ok := it.(Item); ok {
			items = append(items, i)
		}
	}
	return items
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Mark):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Due && !i.Done {
				return m, func() tea.Msg { return MarkHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID, Name: i.Habit.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/utils"
)

var dayHeaders = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

var (
	cellStyle = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)

	headerStyle = cellStyle.
			Foreground(lipgloss.Color("240"))

	completedStyle = cellStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	todayStyle = cellStyle.
			Underline(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Width(constants.DaysPerWeek * 4).
			Align(lipgloss.Center)
)

// MonthLabel returns e.g. "March 2024"
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// Render draws a grid produced by Build. Completed days carry a check mark
// and today's cell is underlined.
func Render(year int, month time.Month, cells []Cell, today utils.DayKey) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(MonthLabel(year, month)))
	b.WriteString("\n")

	headers := make([]string, len(dayHeaders))
	for i, h := range dayHeaders {
		headers[i] = headerStyle.Render(h)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for i := 0; i < len(cells); i += constants.DaysPerWeek {
		end := min(i+constants.DaysPerWeek, len(cells))
		row := make([]string, 0, constants.DaysPerWeek)
		for _, c := range cells[i:end] {
			row = append(row, renderCell(year, month, c, today))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return b.String()
}

func renderCell(year int, month time.Month, c Cell, today utils.DayKey) string {
	if c.IsBlank() {
		return cellStyle.Render("")
	}

	text := fmt.Sprintf("%2d ", c.Day)
	style := cellStyle
	if c.Completed {
		text = fmt.Sprintf("%2d✓", c.Day)
		style = completedStyle
	}
	if utils.DayKeyFor(year, month, c.Day) == today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(text)
}

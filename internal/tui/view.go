package tui

import (
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	nameStyle         = lipgloss.NewStyle().Bold(true)
	priceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	availableStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unavailableStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

const defaultWidth = 80

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	state := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("GoRestaurant") + " ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d foods", len(state.Foods))))
	if m.live {
		b.WriteString(mutedStyle.Render(" · live"))
	}
	b.WriteString("\n\n")

	switch {
	case state.EditOpen:
		b.WriteString(m.editForm.View(width))
	case state.CreateOpen:
		b.WriteString(m.createForm.View(width))
	case m.loading && !state.Loaded:
		b.WriteString(m.spinner.View() + " Loading foods…")
	case len(state.Foods) == 0:
		b.WriteString(mutedStyle.Render("No foods yet. Press a to add one."))
	default:
		for i, food := range state.Foods {
			b.WriteString(renderFood(food, i == m.cursor, width))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if state.Notice != "" {
		b.WriteString("\n" + errorStyle.Render(state.Notice))
	}
	if m.loading && state.Loaded {
		b.WriteString("\n" + m.spinner.View() + mutedStyle.Render(" refreshing"))
	}

	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}

func renderFood(food models.Food, selected bool, width int) string {
	cursor := "  "
	name := nameStyle.Render(food.Name)
	if selected {
		cursor = selectedStyle.Render("> ")
		name = selectedStyle.Render(food.Name)
	}

	status := availableStyle.Render("available")
	if !food.Available {
		status = unavailableStyle.Render("unavailable")
	}

	line := fmt.Sprintf("%s%s  %s  %s", cursor, name, priceStyle.Render("R$ "+food.Price.StringFixed(2)), status)

	if food.Description == "" {
		return line
	}
	descWidth := width - 4
	if descWidth < 10 {
		descWidth = 10
	}
	desc := truncate.StringWithTail(food.Description, uint(descWidth), "…")
	return line + "\n    " + mutedStyle.Render(desc)
}

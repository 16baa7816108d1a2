package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	fieldName = iota
	fieldDescription
	fieldPrice
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Description", "Price", "Image URL"}

var (
	errNameRequired = errors.New("name is required")
	errBadPrice     = errors.New("price must be a number, e.g. 19.90")
)

// foodForm is the body of the create and edit modals
type foodForm struct {
	gen    int
	title  string
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
	saving bool
}

func newFoodForm(title string, gen int) foodForm {
	f := foodForm{title: title, gen: gen}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldLabels[i]
		in.CharLimit = 200
		in.Width = 48
		f.inputs[i] = in
	}
	f.inputs[fieldPrice].CharLimit = 16
	return f
}

// fill prefills the inputs with an existing food
func (f *foodForm) fill(food models.Food) {
	f.inputs[fieldName].SetValue(food.Name)
	f.inputs[fieldDescription].SetValue(food.Description)
	f.inputs[fieldPrice].SetValue(food.Price.StringFixed(2))
	f.inputs[fieldImage].SetValue(food.Image)
}

func (f *foodForm) focusField(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// Update moves focus between fields and forwards everything else to the
// focused input. Submit and cancel are handled by the caller.
func (f foodForm) Update(msg tea.Msg) (foodForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, modalKeys.Next):
			return f, f.focusField(f.focus + 1)
		case key.Matches(msg, modalKeys.Prev):
			return f, f.focusField(f.focus - 1)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f foodForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f foodForm) price() (decimal.Decimal, error) {
	p, err := decimal.NewFromString(f.value(fieldPrice))
	if err != nil || p.IsNegative() {
		return decimal.Decimal{}, errBadPrice
	}
	return p, nil
}

// input builds the payload of the create modal
func (f foodForm) input() (models.FoodInput, error) {
	if f.value(fieldName) == "" {
		return models.FoodInput{}, errNameRequired
	}
	price, err := f.price()
	if err != nil {
		return models.FoodInput{}, err
	}

	return models.FoodInput{
		Name:        f.value(fieldName),
		Description: f.value(fieldDescription),
		Price:       price,
		Image:       f.value(fieldImage),
	}, nil
}

// patch collects the fields that differ from orig
func (f foodForm) patch(orig models.Food) (models.FoodPatch, error) {
	var p models.FoodPatch

	name := f.value(fieldName)
	if name == "" {
		return p, errNameRequired
	}
	if name != orig.Name {
		p.Name = &name
	}

	if desc := f.value(fieldDescription); desc != orig.Description {
		p.Description = &desc
	}

	price, err := f.price()
	if err != nil {
		return p, err
	}
	if !price.Equal(orig.Price) {
		p.Price = &price
	}

	if image := f.value(fieldImage); image != orig.Image {
		p.Image = &image
	}

	return p, nil
}

func (f foodForm) View(width int) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := labelStyle.Render(fmt.Sprintf("%-12s", fieldLabels[i]))
		if i == f.focus {
			label = focusedLabelStyle.Render(fmt.Sprintf("%-12s", fieldLabels[i]))
		}
		b.WriteString(label + in.View() + "\n")
	}

	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}

	footer := "tab: next field   enter: save   esc: cancel"
	if f.saving {
		footer = "saving…"
	}
	b.WriteString("\n" + mutedStyle.Render(footer))

	return renderModalBox(width, f.title, b.String())
}

func renderModalBox(screenWidth int, title, body string) string {
	w := screenWidth - 12
	if w < 20 {
		w = 20
	}
	if w > 80 {
		w = 80
	}

	header := lipgloss.NewStyle().Bold(true).Render(title)
	content := header + "\n\n" + body

	box := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62"))
	return box.Render(content)
}

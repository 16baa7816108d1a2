// Package tui is the terminal front end of the food dashboard.
package tui

import (
	"context"

	"github.com/Lixing-Zhang/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Subscriber streams change events from the backend
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan models.Event, error)
}

type (
	loadedMsg  struct{ err error }
	createdMsg struct {
		form int
		food models.Food
		err  error
	}
	updatedMsg struct {
		form int
		id   int64
		food models.Food
		err  error
	}
	toggledMsg struct {
		food models.Food
		err  error
	}
	deletedMsg struct {
		id  int64
		err error
	}
	subscribedMsg struct {
		events <-chan models.Event
		err    error
	}
	eventMsg        models.Event
	eventsClosedMsg struct{}
)

type Option func(*Model)

// WithLiveReload reloads the collection whenever sub reports a change
func WithLiveReload(sub Subscriber) Option {
	return func(m *Model) {
		m.sub = sub
		m.live = sub != nil
	}
}

type Model struct {
	ctx  context.Context
	ctrl *dashboard.Controller

	sub    Subscriber
	events <-chan models.Event
	live   bool

	cursor  int
	loading bool
	spinner spinner.Model
	help    help.Model
	width   int

	createForm foodForm
	editForm   foodForm

	// forms counts opened modals so a late result only closes its own modal
	forms int

	quitting bool
}

func New(ctx context.Context, ctrl *dashboard.Controller, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		spinner: s,
		help:    help.New(),
		loading: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadCmd()}
	if m.live {
		cmds = append(cmds, m.subscribeCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		state := m.ctrl.Snapshot()
		switch {
		case state.EditOpen:
			return m.updateEditForm(msg, state)
		case state.CreateOpen:
			return m.updateCreateForm(msg)
		}
		return m.updateList(msg, state)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case createdMsg:
		if msg.form != m.createForm.gen {
			return m, nil
		}
		m.createForm.saving = false
		if msg.err == nil {
			if m.ctrl.Snapshot().CreateOpen {
				m.ctrl.ToggleCreateModal()
			}
			m.cursor = len(m.ctrl.Snapshot().Foods) - 1
		}
		return m, nil

	case updatedMsg:
		if msg.form != m.editForm.gen {
			return m, nil
		}
		m.editForm.saving = false
		state := m.ctrl.Snapshot()
		if msg.err == nil && state.EditOpen && state.Editing != nil && state.Editing.ID == msg.id {
			m.ctrl.ToggleEditModal()
		}
		return m, nil

	case toggledMsg:
		return m, nil

	case deletedMsg:
		m.clampCursor()
		return m, nil

	case subscribedMsg:
		if msg.err != nil {
			m.live = false
			return m, nil
		}
		m.events = msg.events
		return m, waitForEvent(m.events)

	case eventMsg:
		// An event may carry our own change; reloading is idempotent.
		return m, tea.Batch(m.loadCmd(), waitForEvent(m.events))

	case eventsClosedMsg:
		m.live = false
		return m, nil
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg, state dashboard.State) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(state.Foods)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Reload):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case key.Matches(msg, keys.Add):
		m.ctrl.DismissNotice()
		m.ctrl.OpenCreateModal()
		m.forms++
		m.createForm = newFoodForm("Add food", m.forms)
		return m, m.createForm.focusField(fieldName)

	case key.Matches(msg, keys.Edit):
		food, ok := m.selected(state)
		if !ok {
			return m, nil
		}
		m.ctrl.DismissNotice()
		m.ctrl.BeginEdit(food)
		m.forms++
		m.editForm = newFoodForm("Edit food", m.forms)
		m.editForm.fill(food)
		return m, m.editForm.focusField(fieldName)

	case key.Matches(msg, keys.Toggle):
		food, ok := m.selected(state)
		if !ok {
			return m, nil
		}
		return m, m.toggleCmd(food)

	case key.Matches(msg, keys.Delete):
		food, ok := m.selected(state)
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(food.ID)
	}

	return m, nil
}

func (m Model) updateCreateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, modalKeys.Cancel):
		m.ctrl.ToggleCreateModal()
		return m, nil

	case key.Matches(msg, modalKeys.Submit):
		if m.createForm.saving {
			return m, nil
		}
		input, err := m.createForm.input()
		if err != nil {
			m.createForm.err = err.Error()
			return m, nil
		}
		m.createForm.err = ""
		m.createForm.saving = true
		return m, m.createCmd(m.createForm.gen, input)
	}

	var cmd tea.Cmd
	m.createForm, cmd = m.createForm.Update(msg)
	return m, cmd
}

func (m Model) updateEditForm(msg tea.KeyMsg, state dashboard.State) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, modalKeys.Cancel):
		m.ctrl.ToggleEditModal()
		return m, nil

	case key.Matches(msg, modalKeys.Submit):
		if m.editForm.saving || state.Editing == nil {
			return m, nil
		}
		patch, err := m.editForm.patch(*state.Editing)
		if err != nil {
			m.editForm.err = err.Error()
			return m, nil
		}
		if patch.IsEmpty() {
			m.ctrl.ToggleEditModal()
			return m, nil
		}
		m.editForm.err = ""
		m.editForm.saving = true
		return m, m.updateCmd(m.editForm.gen, state.Editing.ID, patch)
	}

	var cmd tea.Cmd
	m.editForm, cmd = m.editForm.Update(msg)
	return m, cmd
}

func (m Model) selected(state dashboard.State) (models.Food, bool) {
	if m.cursor < 0 || m.cursor >= len(state.Foods) {
		return models.Food{}, false
	}
	return state.Foods[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Snapshot().Foods)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.ctrl.Load(m.ctx)}
	}
}

func (m Model) createCmd(form int, input models.FoodInput) tea.Cmd {
	return func() tea.Msg {
		food, err := m.ctrl.OnCreateSubmit(m.ctx, input)
		return createdMsg{form: form, food: food, err: err}
	}
}

func (m Model) updateCmd(form int, id int64, patch models.FoodPatch) tea.Cmd {
	return func() tea.Msg {
		food, err := m.ctrl.OnEditSubmit(m.ctx, patch)
		return updatedMsg{form: form, id: id, food: food, err: err}
	}
}

func (m Model) toggleCmd(food models.Food) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.ctrl.SetAvailable(m.ctx, food, !food.Available)
		return toggledMsg{food: updated, err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.ctrl.OnDeleteRequest(m.ctx, id)}
	}
}

func (m Model) subscribeCmd() tea.Cmd {
	return func() tea.Msg {
		events, err := m.sub.Subscribe(m.ctx)
		return subscribedMsg{events: events, err: err}
	}
}

func waitForEvent(events <-chan models.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

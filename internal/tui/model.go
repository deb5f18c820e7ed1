// Package tui implements the interactive questionnaire: role selection, data
// entry and results, driven by a session.Controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
	"github.com/greendilt/digicarbon/internal/insight"
	"github.com/greendilt/digicarbon/internal/logging"
	"github.com/greendilt/digicarbon/internal/session"
)

// Default dimensions before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24

	numberInputCharLimit = 8
	numberInputWidth     = 10
)

// Options controls how results are displayed.
type Options struct {
	Unit      greenops.Unit
	Precision int
}

// Model is the Bubble Tea model for the questionnaire.
type Model struct {
	ctx  context.Context
	ctrl *session.Controller
	opts Options

	// Role selection
	roleCursor int

	// Data entry
	fields    []field
	cursor    int
	addType   footprint.DeviceType
	editing   bool
	textInput textinput.Model

	// Results
	payload *insight.Payload

	err      error
	width    int
	height   int
	quitting bool
}

// NewModel returns a model on the controller's current screen.
func NewModel(ctx context.Context, ctrl *session.Controller, opts Options) *Model {
	if opts.Unit == "" {
		opts.Unit = greenops.UnitKilograms
	}
	ti := textinput.New()
	ti.CharLimit = numberInputCharLimit
	ti.Width = numberInputWidth

	m := &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		addType:   footprint.DeviceLaptop,
		textInput: ti,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.sync()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// State returns the controller's screen.
func (m *Model) State() session.State { return m.ctrl.State() }

// Err returns the last error shown to the user, if any.
func (m *Model) Err() error { return m.err }

// sync rebuilds the screen contents after the controller changed.
func (m *Model) sync() {
	switch m.ctrl.State() {
	case session.StateRoleSelect:
		m.fields = nil
		m.payload = nil
	case session.StateDataEntry:
		m.payload = nil
		m.fields = buildFields(m.ctrl, &m.addType)
		m.cursor = min(m.cursor, len(m.fields)-1)
	case session.StateResults:
		m.fields = nil
		if m.payload == nil {
			m.refreshInsights()
		}
	}
}

func (m *Model) refreshInsights() {
	p, err := m.ctrl.Insights()
	if err != nil {
		m.err = err
		return
	}
	m.payload = &p
}

// apply records the outcome of a controller operation and resyncs.
func (m *Model) apply(op string, err error) {
	m.err = err
	if err != nil {
		logging.FromContext(m.ctx).Debug().Ctx(m.ctx).
			Str(logging.FieldComponent, "tui").
			Str(logging.FieldOperation, op).
			Err(err).
			Msg("input rejected")
	}
	m.sync()
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.editing {
			return m.handleEditKey(msg)
		}
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.ctrl.State() {
		case session.StateRoleSelect:
			return m.handleRoleKey(msg)
		case session.StateDataEntry:
			return m.handleFormKey(msg)
		case session.StateResults:
			return m.handleResultsKey(msg)
		}
	}

	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for role selection.
func (m *Model) handleRoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roles := footprint.Roles()
	switch msg.Type {
	case tea.KeyUp:
		if m.roleCursor > 0 {
			m.roleCursor--
		}
	case tea.KeyDown:
		if m.roleCursor < len(roles)-1 {
			m.roleCursor++
		}
	case tea.KeyEnter:
		m.apply("select_role", m.ctrl.SelectRole(roles[m.roleCursor]))
	}
	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for form navigation.
func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.fields[m.cursor]
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case tea.KeyLeft, tea.KeyRight:
		if f.cycle != nil {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = -1
			}
			m.apply("cycle", f.cycle(step))
		}
	case tea.KeyEnter:
		switch f.kind {
		case fieldNumber:
			m.editing = true
			m.textInput.SetValue(f.value)
			m.textInput.CursorEnd()
			m.err = nil
			return m, m.textInput.Focus()
		case fieldAction:
			m.apply("action", f.run())
		case fieldChoice:
			m.apply("cycle", f.cycle(1))
		}
	case tea.KeyCtrlS:
		_, err := m.ctrl.Submit()
		m.apply("submit", err)
	case tea.KeyRunes:
		if msg.String() == "x" && f.deviceID != "" {
			m.apply("remove_device", m.ctrl.RemoveDevice(f.deviceID))
		}
	}
	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for text editing.
func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		f := m.fields[m.cursor]
		m.editing = false
		m.textInput.Blur()
		m.apply("set", f.set(m.textInput.Value()))
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.textInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "b":
		m.apply("back", m.ctrl.Back())
	case "r":
		m.ctrl.Reset()
		m.roleCursor = 0
		m.cursor = 0
		m.apply("reset", nil)
	case "t":
		m.refreshInsights()
	}
	return m, nil
}

// View renders the current screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	switch m.ctrl.State() {
	case session.StateRoleSelect:
		body = RenderRoleSelect(m.roleCursor)
	case session.StateDataEntry:
		body = m.renderForm()
	case session.StateResults:
		if m.payload == nil {
			body = ErrorStyle.Render("no results available")
			break
		}
		body = RenderResults(*m.payload, m.deviceShares(), m.opts, m.width)
	}
	if m.err != nil {
		body += "\n" + ErrorStyle.Render("✗ "+m.err.Error()) + "\n"
	}
	return body
}

func (m *Model) deviceShares() []footprint.DeviceShare {
	snap, ok := m.ctrl.Submitted()
	if !ok {
		return nil
	}
	return footprint.ComputeDeviceShares(snap.Devices)
}

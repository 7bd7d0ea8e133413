package tui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pdxmph/todolist-tui/internal/task"
	"github.com/pdxmph/todolist-tui/internal/todolist"
)

// Model represents the main application state
type Model struct {
	list     *todolist.List
	tasks    []task.Task // snapshot being rendered
	selected int
	width    int
	height   int
	now      func() time.Time

	// Add mode
	addMode   bool
	addField  int
	addInputs []textinput.Model

	// Confirmation overlay
	confirm confirmKind

	// Status line
	status    string
	statusErr bool
	busy      bool

	confirmRemove bool
	confirmQuit   bool
}

// Options tune behaviour that comes from configuration
type Options struct {
	ConfirmRemove bool
	ConfirmQuit   bool
	Now           func() time.Time
}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmRemove
	confirmReload
	confirmQuit
)

// Add field indices
const (
	AddFieldText = iota
	AddFieldDate
	AddFieldTime
	AddFieldCount // Total number of fields
)

// loadedMsg reports the result of loading from the backend
type loadedMsg struct {
	err error
}

// savedMsg reports the result of saving to the backend
type savedMsg struct {
	err error
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	undatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// New creates a new application model
func New(list *todolist.List, opts Options) *Model {
	addInputs := make([]textinput.Model, AddFieldCount)
	for i := range addInputs {
		addInputs[i] = textinput.New()
		addInputs[i].Prompt = ""

		switch i {
		case AddFieldText:
			addInputs[i].Placeholder = "What needs doing?"
			addInputs[i].Width = 40
			addInputs[i].CharLimit = 200
		case AddFieldDate:
			addInputs[i].Placeholder = "YYYY-MM-DD (optional)"
			addInputs[i].Width = 22
			addInputs[i].CharLimit = 10
		case AddFieldTime:
			addInputs[i].Placeholder = "HH:MM (optional)"
			addInputs[i].Width = 22
			addInputs[i].CharLimit = 5
		}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Model{
		list:          list,
		tasks:         list.Tasks(),
		addInputs:     addInputs,
		now:           now,
		confirmRemove: opts.ConfirmRemove,
		confirmQuit:   opts.ConfirmQuit,
		busy:          true, // Init always starts a load
	}
}

// Init loads the task list
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		return loadedMsg{err: list.Load()}
	}
}

func (m Model) saveCmd() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		return savedMsg{err: list.Save()}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.busy = false
		m.refresh()
		if msg.err != nil {
			log.Printf("loading tasks: %v", msg.err)
			m.setError("Error loading tasks: %v", msg.err)
		} else {
			m.setStatus("Loaded %d tasks from %s", len(m.tasks), m.list.Backend().Path())
		}
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			log.Printf("saving tasks: %v", msg.err)
			m.setError("Error saving tasks: %v", msg.err)
		} else {
			m.setStatus("Tasks saved successfully.")
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		if m.addMode {
			return m.updateAdd(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// updateConfirm handles the y/n overlay
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.confirm
	m.confirm = confirmNone

	switch msg.String() {
	case "y", "Y":
		switch kind {
		case confirmRemove:
			m.removeSelected()
		case confirmReload:
			m.busy = true
			return m, m.loadCmd()
		case confirmQuit:
			return m, tea.Quit
		}
	default:
		// Any other key cancels
		m.setStatus("Cancelled")
	}
	return m, nil
}

// updateAdd handles the add form
func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.exitAddMode()
		m.setStatus("")
		return m, nil

	case "enter":
		added, err := m.list.AddInput(
			m.addInputs[AddFieldText].Value(),
			m.addInputs[AddFieldDate].Value(),
			m.addInputs[AddFieldTime].Value(),
		)
		if err != nil {
			var verr *task.ValidationError
			if errors.As(err, &verr) {
				m.setError("%s", verr.Error())
			} else {
				m.setError("Error adding task: %v", err)
			}
			return m, nil
		}

		m.exitAddMode()
		m.refresh()
		m.selectTask(added)
		m.setStatus("Added: %s", added)
		return m, nil

	case "tab", "down":
		m.focusAddField((m.addField + 1) % AddFieldCount)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.focusAddField((m.addField + AddFieldCount - 1) % AddFieldCount)
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.addInputs[m.addField], cmd = m.addInputs[m.addField].Update(msg)
	return m, cmd
}

// updateNormal handles list navigation and commands
func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Nothing may touch the list while a load or save is in flight
	if m.busy {
		switch msg.String() {
		case "a", "n", "d", "x", "delete", "s", "r":
			m.setStatus("Busy, try again in a moment")
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		if m.confirmQuit && m.list.Dirty() && msg.String() == "q" {
			m.confirm = confirmQuit
			return m, nil
		}
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "g", "home":
		m.selected = 0

	case "G", "end":
		m.selected = m.ensureValidSelection(len(m.tasks) - 1)

	case "a", "n":
		m.addMode = true
		m.setStatus("")
		for i := range m.addInputs {
			m.addInputs[i].Reset()
		}
		m.focusAddField(AddFieldText)
		return m, textinput.Blink

	case "d", "x", "delete":
		if len(m.tasks) == 0 {
			return m, nil
		}
		if m.confirmRemove {
			m.confirm = confirmRemove
			return m, nil
		}
		m.removeSelected()

	case "s":
		m.busy = true
		m.setStatus("Saving...")
		return m, m.saveCmd()

	case "r":
		if m.list.Dirty() {
			m.confirm = confirmReload
			return m, nil
		}
		m.busy = true
		m.setStatus("Loading...")
		return m, m.loadCmd()
	}

	return m, nil
}

func (m *Model) removeSelected() {
	removed, err := m.list.Remove(m.selected)
	if err != nil {
		m.setError("Error removing task: %v", err)
		return
	}
	m.refresh()
	m.setStatus("Removed: %s", removed)
}

func (m *Model) focusAddField(field int) {
	m.addInputs[m.addField].Blur()
	m.addField = field
	m.addInputs[m.addField].Focus()
}

// exitAddMode leaves the form and clears pending input
func (m *Model) exitAddMode() {
	m.addMode = false
	for i := range m.addInputs {
		m.addInputs[i].Reset()
		m.addInputs[i].Blur()
	}
	m.addField = AddFieldText
}

// refresh re-reads the snapshot from the list
func (m *Model) refresh() {
	m.tasks = m.list.Tasks()
	m.selected = m.ensureValidSelection(m.selected)
}

// selectTask moves the selection to the first task equal to t
func (m *Model) selectTask(t task.Task) {
	for i, candidate := range m.tasks {
		if task.Equal(candidate, t) {
			m.selected = i
			return
		}
	}
}

func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

// ensureValidSelection clamps a selection to the current snapshot
func (m Model) ensureValidSelection(selected int) int {
	if len(m.tasks) == 0 || selected < 0 {
		return 0
	}
	if selected >= len(m.tasks) {
		return len(m.tasks) - 1
	}
	return selected
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.confirm {
	case confirmRemove:
		if m.selected < len(m.tasks) {
			return m.renderConfirmation(fmt.Sprintf("Remove '%s'? (y/n)", m.tasks[m.selected].Text()))
		}
	case confirmReload:
		return m.renderConfirmation("Discard unsaved changes and reload? (y/n)")
	case confirmQuit:
		return m.renderConfirmation("Quit without saving? (y/n)")
	}

	if m.addMode {
		return m.renderAddForm()
	}

	listHeight := m.height - 4 // border plus status and help lines
	content := borderStyle.
		Width(m.width - 2).
		Height(listHeight).
		Render(m.renderList(m.width-2, listHeight))

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatus(), m.renderHelp())
}

// renderList renders the task list
func (m Model) renderList(width, height int) string {
	var lines []string

	header := fmt.Sprintf("Tasks (%d)", len(m.tasks))
	if m.list.Dirty() {
		header += " [modified]"
	}
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))

	if len(m.tasks) == 0 {
		lines = append(lines, "", undatedStyle.Render("No tasks yet. Press a to add one."))
		return strings.Join(lines, "\n")
	}

	// Calculate visible range
	visibleHeight := height - 2 // account for header
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	now := m.now()
	for i := startIdx; i < len(m.tasks) && i < startIdx+visibleHeight; i++ {
		t := m.tasks[i]
		line := "  " + t.String()

		switch {
		case i == m.selected:
			line = selectedStyle.Render(line)
		case t.IsPast(now):
			line = overdueStyle.Render(line)
		case !t.HasTimestamp():
			line = undatedStyle.Render(line)
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderStatus renders the outcome of the last operation
func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return " " + errorStyle.Render(m.status)
	}
	return " " + okStyle.Render(m.status)
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.confirm != confirmNone {
		return " y: confirm • any other key: cancel"
	}

	if m.addMode {
		return " Tab/↓: next • Shift+Tab/↑: prev • Enter: add • Esc: cancel"
	}

	return " j/k: navigate • a: add • d: remove • s: save • r: reload • q: quit"
}

// renderAddForm renders the add task overlay
func (m Model) renderAddForm() string {
	var lines []string
	lines = append(lines, "Add Task")
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	fieldLabels := []string{
		"Task:  ",
		"Date:  ",
		"Time:  ",
	}

	for i, label := range fieldLabels {
		var fieldView string
		if i == m.addField {
			fieldView = label + m.addInputs[i].View()
		} else {
			value := m.addInputs[i].Value()
			if value == "" {
				value = undatedStyle.Render(m.addInputs[i].Placeholder)
			}
			fieldView = label + value
		}
		lines = append(lines, fieldView)
		lines = append(lines, "")
	}

	if m.status != "" {
		lines = append(lines, m.renderStatus())
		lines = append(lines, "")
	}

	lines = append(lines, "Tab/↓: next field • Shift+Tab/↑: previous • Enter: add • Esc: cancel")

	content := strings.Join(lines, "\n")
	box := borderStyle.
		Padding(1).
		Width(60).
		Background(lipgloss.Color("235")).
		Render(content)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// renderConfirmation renders a y/n prompt
func (m Model) renderConfirmation(prompt string) string {
	width := 60
	height := 7

	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(prompt)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(width).
		Height(height).
		Render(content)

	// Center on screen
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pdxmph/todolist-tui/internal/storage"
	"github.com/pdxmph/todolist-tui/internal/task"
	"github.com/pdxmph/todolist-tui/internal/todolist"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newModel(t *testing.T, backend storage.Backend, opts Options) Model {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	m := New(todolist.New(backend), opts)

	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return run(t, model.(Model), m.Init())
}

// run executes cmd synchronously and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case loadedMsg, savedMsg:
		model, _ := m.Update(msg)
		return model.(Model)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		model, cmd := m.Update(msg)
		m = model.(Model)
		// only these keys start load/save work; other commands are cursor blinks
		if k == "s" || k == "r" || k == "y" {
			m = run(t, m, cmd)
		}
	}
	return m
}

func writeRaw(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func texts(m Model) []string {
	out := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Text()
	}
	return out
}

func TestAddThroughForm(t *testing.T) {
	m := newModel(t, storage.NewMemoryBackend(), Options{})

	m = press(t, m, "a", "Buy milk", "enter")
	m = press(t, m, "a", "Meeting", "tab", "2024-03-01", "tab", "09:00", "enter")
	m = press(t, m, "a", "Call Bob", "enter")

	got := strings.Join(texts(m), ",")
	if got != "Meeting,Buy milk,Call Bob" {
		t.Errorf("Expected Meeting,Buy milk,Call Bob, got %s", got)
	}
	if m.addMode {
		t.Error("Expected add mode to close after a successful add")
	}
	if m.tasks[m.selected].Text() != "Call Bob" {
		t.Errorf("Expected the new task to be selected, got %q", m.tasks[m.selected].Text())
	}
}

func TestAddClearsInputFields(t *testing.T) {
	m := newModel(t, storage.NewMemoryBackend(), Options{})
	m = press(t, m, "a", "Meeting", "tab", "2024-03-01", "enter")

	for i, in := range m.addInputs {
		if in.Value() != "" {
			t.Errorf("Field %d: expected empty input, got %q", i, in.Value())
		}
	}
}

func TestAddValidationErrorKeepsForm(t *testing.T) {
	m := newModel(t, storage.NewMemoryBackend(), Options{})

	m = press(t, m, "a", "enter")
	if !m.addMode || !m.statusErr {
		t.Fatalf("Expected form to stay open with an error, got addMode=%v status=%q", m.addMode, m.status)
	}

	m = press(t, m, "Dentist", "tab", "tomorrow", "enter")
	if !m.addMode || !strings.Contains(m.status, "date") {
		t.Errorf("Expected a date validation error, got %q", m.status)
	}
	if len(m.tasks) != 0 {
		t.Errorf("Expected no tasks after failed adds, got %d", len(m.tasks))
	}

	m = press(t, m, "esc")
	if m.addMode {
		t.Error("Expected esc to close the form")
	}
}

func TestRemoveWithConfirmation(t *testing.T) {
	m := newModel(t, storage.NewMemoryBackend(), Options{ConfirmRemove: true})
	m = press(t, m, "a", "one", "enter", "a", "two", "enter")

	m = press(t, m, "k", "d", "n")
	if len(m.tasks) != 2 {
		t.Fatalf("Expected cancel to keep both tasks, got %d", len(m.tasks))
	}

	m = press(t, m, "d", "y")
	if got := strings.Join(texts(m), ","); got != "two" {
		t.Errorf("Expected only 'two' left, got %s", got)
	}
}

func TestRemoveOnEmptyListIsNoop(t *testing.T) {
	m := newModel(t, storage.NewMemoryBackend(), Options{})
	m = press(t, m, "d")
	if m.confirm != confirmNone || m.statusErr {
		t.Errorf("Expected nothing to happen, got confirm=%v status=%q", m.confirm, m.status)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	m := newModel(t, storage.NewFileBackend(path), Options{})

	m = press(t, m, "a", "Meeting", "tab", "2024-03-01", "tab", "09:00", "enter", "s")
	if m.statusErr || m.status != "Tasks saved successfully." {
		t.Fatalf("Expected successful save, got %q", m.status)
	}

	other := newModel(t, storage.NewFileBackend(path), Options{})
	if got := strings.Join(texts(other), ","); got != "Meeting" {
		t.Errorf("Expected reloaded list to contain Meeting, got %s", got)
	}
	if ts := other.tasks[0].FormatTimestamp(); ts != "2024-03-01 09:00" {
		t.Errorf("Expected timestamp to survive, got %s", ts)
	}
}

func TestLoadFailureIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeRaw(t, path, "not a task line\n")

	m := newModel(t, storage.NewFileBackend(path), Options{})
	if !m.statusErr || !strings.Contains(m.status, "line 1") {
		t.Errorf("Expected load error to be reported, got %q", m.status)
	}
	if len(m.tasks) != 0 {
		t.Errorf("Expected empty list after failed load, got %d", len(m.tasks))
	}
	if view := m.View(); !strings.Contains(view, "No tasks yet") {
		t.Errorf("Expected empty list view, got:\n%s", view)
	}
}

func TestReloadAsksWhenDirty(t *testing.T) {
	seed, _ := task.New("saved", nil)
	m := newModel(t, storage.NewMemoryBackend(seed), Options{})

	m = press(t, m, "a", "unsaved", "enter", "r")
	if m.confirm != confirmReload {
		t.Fatalf("Expected reload confirmation, got %v", m.confirm)
	}
	m = press(t, m, "y")
	if got := strings.Join(texts(m), ","); got != "saved" {
		t.Errorf("Expected reload to discard unsaved task, got %s", got)
	}
}

func TestQuitAsksWhenDirty(t *testing.T) {
	m := newModel(t, storage.NewMemoryBackend(), Options{ConfirmQuit: true})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected clean list to quit immediately")
	}

	m = press(t, m, "a", "pending", "enter", "q")
	if m.confirm != confirmQuit {
		t.Fatalf("Expected quit confirmation, got %v", m.confirm)
	}
	if !strings.Contains(m.View(), "Quit without saving?") {
		t.Error("Expected quit prompt in view")
	}
}

func TestViewRendersTasks(t *testing.T) {
	past, _ := task.New("Renew passport", &time.Time{})
	m := newModel(t, storage.NewMemoryBackend(past), Options{})
	m = press(t, m, "a", "Buy milk", "enter")

	view := m.View()
	for _, want := range []string{"Tasks (2)", "0001-01-01 00:00 - Renew passport", "No Date/Time - Buy milk", "a: add"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestKeysWaitForStartupLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeRaw(t, path, "2024-03-01 09:00;Meeting\n;Buy milk\n")

	m := *New(todolist.New(storage.NewFileBackend(path)), Options{Now: func() time.Time { return fixedNow }})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(Model)
	initCmd := m.Init()

	for _, key := range []string{"s", "a", "d", "r"} {
		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		m = model.(Model)
		if cmd != nil {
			t.Errorf("Expected %q to be ignored before the first load", key)
		}
	}
	if m.addMode || m.confirm != confirmNone {
		t.Fatalf("Expected no mode change while loading, got addMode=%v confirm=%v", m.addMode, m.confirm)
	}

	m = run(t, m, initCmd)
	if got := strings.Join(texts(m), ","); got != "Meeting,Buy milk" {
		t.Errorf("Expected loaded tasks, got %s", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2024-03-01 09:00;Meeting\n;Buy milk\n" {
		t.Errorf("Expected file to be untouched, got %q", data)
	}
}

func TestAddIgnoredDuringReload(t *testing.T) {
	seed, _ := task.New("saved", nil)
	m := newModel(t, storage.NewMemoryBackend(seed), Options{})

	model, reloadCmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = model.(Model)
	if reloadCmd == nil {
		t.Fatal("Expected reload to start a load")
	}

	m = press(t, m, "a", "Urgent", "enter")
	if m.list.Len() != 1 || strings.HasPrefix(m.status, "Added") {
		t.Fatalf("Expected add to be refused during reload, got len=%d status=%q", m.list.Len(), m.status)
	}

	m = run(t, m, reloadCmd)
	if got := strings.Join(texts(m), ","); got != "saved" {
		t.Errorf("Expected reloaded list, got %s", got)
	}
	if m.busy {
		t.Error("Expected model to accept keys again after the load")
	}
}

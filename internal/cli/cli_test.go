package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdxmph/todolist-tui/internal/task"
	"github.com/pdxmph/todolist-tui/internal/todolist"
)

// execute runs the root command with a private HOME so no real config is read
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.txt")

	mustExecute(t, "-f", file, "add", "Buy", "milk")
	out := mustExecute(t, "-f", file, "add", "Meeting", "--date", "2024-03-01", "--time", "09:00")
	if out != "Added: 2024-03-01 09:00 - Meeting\n" {
		t.Errorf("Unexpected add output %q", out)
	}
	mustExecute(t, "-f", file, "add", "Call Bob")

	out = mustExecute(t, "-f", file, "ls")
	want := "0. 2024-03-01 09:00 - Meeting\n1. No Date/Time - Buy milk\n2. No Date/Time - Call Bob\n"
	if out != want {
		t.Errorf("Expected list:\n%s\ngot:\n%s", want, out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2024-03-01 09:00;Meeting\n;Buy milk\n;Call Bob\n" {
		t.Errorf("Unexpected file contents %q", data)
	}
}

func TestListEmpty(t *testing.T) {
	out := mustExecute(t, "-f", filepath.Join(t.TempDir(), "missing.txt"), "list")
	if out != "No tasks.\n" {
		t.Errorf("Expected empty message, got %q", out)
	}
}

func TestAddRejectsTimeWithoutDate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.txt")

	_, err := execute(t, "-f", file, "add", "Standup", "--time", "09:00")
	var verr *task.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("Expected nothing to be saved")
	}
}

func TestRemove(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.txt")
	mustExecute(t, "-f", file, "add", "one")
	mustExecute(t, "-f", file, "add", "two")

	out := mustExecute(t, "-f", file, "rm", "0")
	if out != "Removed: No Date/Time - one\n" {
		t.Errorf("Unexpected remove output %q", out)
	}
	if out := mustExecute(t, "-f", file, "list"); out != "0. No Date/Time - two\n" {
		t.Errorf("Unexpected list after remove %q", out)
	}
}

func TestRemoveBadIndex(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.txt")
	mustExecute(t, "-f", file, "add", "only")

	if _, err := execute(t, "-f", file, "remove", "5"); !errors.Is(err, todolist.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	if _, err := execute(t, "-f", file, "remove", "first"); err == nil || !strings.Contains(err.Error(), "invalid index") {
		t.Errorf("Expected invalid index error, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	mustExecute(t, "-f", src, "add", "Pay rent;urgent", "--date", "2024-02-28")
	mustExecute(t, "-f", src, "add", "Buy milk")

	for _, name := range []string{"tasks.json", "tasks.yaml", "tasks.toml", "tasks.bak"} {
		exported := filepath.Join(dir, name)
		mustExecute(t, "-f", src, "export", exported)

		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			t.Fatal(err)
		}
		out := mustExecute(t, "-f", dst, "import", exported)
		if !strings.HasPrefix(out, "Imported 2 tasks") {
			t.Errorf("%s: unexpected import output %q", name, out)
		}

		if got, want := mustExecute(t, "-f", dst, "list"), mustExecute(t, "-f", src, "list"); got != want {
			t.Errorf("%s: expected\n%s\ngot\n%s", name, want, got)
		}
	}
}

func TestExportFormatFlag(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tasks.txt")
	out := filepath.Join(dir, "export.dat")
	mustExecute(t, "-f", src, "add", "Buy milk")

	mustExecute(t, "-f", src, "export", out, "--format", "json")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"text": "Buy milk"`) {
		t.Errorf("Expected json output, got %s", data)
	}

	if _, err := execute(t, "-f", src, "export", out, "--format", "xml"); err == nil {
		t.Error("Expected unknown format error")
	}
}

func TestImportInvalidLeavesListUntouched(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tasks.txt")
	bad := filepath.Join(dir, "bad.txt")
	mustExecute(t, "-f", file, "add", "keep me")

	if err := os.WriteFile(bad, []byte(";fine\nno separator\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "-f", file, "import", bad); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("Expected line 2 error, got %v", err)
	}
	if out := mustExecute(t, "-f", file, "list"); out != "0. No Date/Time - keep me\n" {
		t.Errorf("Expected list to be unchanged, got %q", out)
	}
}

func TestSample(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.txt")

	out := mustExecute(t, "-f", file, "sample")
	if !strings.HasPrefix(out, "Wrote 8 sample tasks") {
		t.Errorf("Unexpected sample output %q", out)
	}
	if _, err := execute(t, "-f", file, "sample"); err == nil {
		t.Error("Expected sample to refuse a non-empty list")
	}
	mustExecute(t, "-f", file, "sample", "--force")
}

func TestBackends(t *testing.T) {
	out := mustExecute(t, "backends")
	if out != "file (default)\nmemory\nsqlite\n" {
		t.Errorf("Unexpected backends output %q", out)
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := execute(t, "-b", "postgres", "list")
	if err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Errorf("Expected unknown backend error, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out := mustExecute(t, "--config", path, "config", "init")
	if out != "Wrote "+path+"\n" {
		t.Errorf("Unexpected config init output %q", out)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("Expected existing config to be kept without --force")
	}
	mustExecute(t, "--config", path, "config", "init", "--force")
}

func TestConfigSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "todo.db")
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[storage]\nbackend = \"sqlite\"\npath = \"" + filepath.ToSlash(db) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	mustExecute(t, "--config", cfgPath, "add", "Stored in sqlite")
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("Expected sqlite database at %s: %v", db, err)
	}
	if out := mustExecute(t, "--config", cfgPath, "list"); out != "0. No Date/Time - Stored in sqlite\n" {
		t.Errorf("Unexpected list from sqlite %q", out)
	}

	// an explicit file flag wins over the configured path
	other := filepath.Join(dir, "other.db")
	mustExecute(t, "--config", cfgPath, "-f", other, "add", "Elsewhere")
	if out := mustExecute(t, "--config", cfgPath, "list"); strings.Contains(out, "Elsewhere") {
		t.Errorf("Expected configured database to be untouched, got %q", out)
	}
}

// Package codec reads and writes the tasks file format:
// one task per line, "<YYYY-MM-DD HH:MM or empty>;<text>".
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdxmph/todolist-tui/internal/task"
)

// Separator splits the timestamp from the task text. Only the first one counts.
const Separator = ";"

// maxLineSize leaves room above task.MaxTextLength for the timestamp
const maxLineSize = 1024 * 1024

// ErrMissingSeparator is reported for lines without a ';'
var ErrMissingSeparator = errors.New("missing ';' separator")

// FormatError reports a malformed line
type FormatError struct {
	Line int
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// EncodeLine renders a single task as a line without the newline
func EncodeLine(t task.Task) string {
	return t.FormatTimestamp() + Separator + t.Text()
}

// DecodeLine parses a single line without its newline
func DecodeLine(line string) (task.Task, error) {
	stamp, text, found := strings.Cut(line, Separator)
	if !found {
		return task.Task{}, ErrMissingSeparator
	}

	if stamp == "" {
		return task.New(text, nil)
	}

	ts, err := task.ParseDateTime(stamp)
	if err != nil {
		return task.Task{}, fmt.Errorf("parsing timestamp %q: %w", stamp, err)
	}
	return task.New(text, &ts)
}

// Encode writes every task, one per line, in the order given
func Encode(w io.Writer, tasks []task.Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		if _, err := bw.WriteString(EncodeLine(t) + "\n"); err != nil {
			return fmt.Errorf("writing task: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing tasks: %w", err)
	}
	return nil
}

// Decode reads tasks in file order. The first malformed line aborts the
// whole decode and no tasks are returned.
func Decode(r io.Reader) ([]task.Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var tasks []task.Task
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		t, err := DecodeLine(line)
		if err != nil {
			return nil, &FormatError{Line: lineNo, Text: line, Err: err}
		}
		tasks = append(tasks, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}

	return tasks, nil
}

package todolist

import (
	"fmt"
	"time"

	"github.com/pdxmph/todolist-tui/internal/task"
)

// SampleTasks returns a realistic starter list relative to now, used to seed
// a new tasks file for demos and manual testing
func SampleTasks(now time.Time) ([]task.Task, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	at := func(days, hour, min int) *time.Time {
		ts := day.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
		return &ts
	}

	fixtures := []struct {
		text string
		ts   *time.Time
	}{
		{"Renew passport", at(-3, 0, 0)},
		{"Team standup", at(0, 9, 30)},
		{"Dentist appointment", at(1, 15, 0)},
		{"Submit expense report", at(2, 0, 0)},
		{"Call Mom", at(6, 18, 0)},
		{"Buy milk", nil},
		{"Read chapter 4; take notes", nil},
		{"Fix the squeaky door", nil},
	}

	tasks := make([]task.Task, 0, len(fixtures))
	for _, f := range fixtures {
		t, err := task.New(f.text, f.ts)
		if err != nil {
			return nil, fmt.Errorf("creating fixture task %q: %w", f.text, err)
		}
		tasks = append(tasks, t)
	}
	task.Sort(tasks)
	return tasks, nil
}

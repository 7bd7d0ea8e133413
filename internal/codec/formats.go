package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pdxmph/todolist-tui/internal/task"
	"gopkg.in/yaml.v3"
)

// Supported export formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists every format Marshal understands
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatTOML}

// Record is the structured form of a task used by json, yaml and toml
type Record struct {
	Text string `json:"text" yaml:"text" toml:"text"`
	Due  string `json:"due,omitempty" yaml:"due,omitempty" toml:"due,omitempty"`
}

type document struct {
	Tasks []Record `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// FormatFromPath guesses a format from a file extension, defaulting to text
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatText
	}
}

// Marshal renders tasks in the named format
func Marshal(format string, tasks []task.Task) ([]byte, error) {
	if format == FormatText {
		var buf bytes.Buffer
		if err := Encode(&buf, tasks); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	doc := document{Tasks: make([]Record, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, Record{Text: t.Text(), Due: t.FormatTimestamp()})
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("unknown format %q", format)
}

// Unmarshal parses tasks in the named format. Records are validated the same
// way as lines of the text format; the first bad record aborts.
func Unmarshal(format string, data []byte) ([]task.Task, error) {
	var doc document

	switch format {
	case FormatText:
		return Decode(bytes.NewReader(data))
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for i, rec := range doc.Tasks {
		t, err := rec.toTask()
		if err != nil {
			return nil, &FormatError{Line: i + 1, Text: rec.Text, Err: err}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r Record) toTask() (task.Task, error) {
	if r.Due == "" {
		return task.New(r.Text, nil)
	}
	ts, err := task.ParseDateTime(r.Due)
	if err != nil {
		return task.Task{}, fmt.Errorf("parsing due %q: %w", r.Due, err)
	}
	return task.New(r.Text, &ts)
}

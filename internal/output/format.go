// Package output renders tasks for the CLI in text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"tasksync/internal/service"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EmptyMessage is printed in text mode when there is nothing to list.
const EmptyMessage = "no tasks found"

// descIndent lines the description up under the title.
const descIndent = "          "

// Formatter writes tasks to a writer in one format.
type Formatter struct {
	w      io.Writer
	format string
	quiet  bool
	done   lipgloss.Style
}

// New creates a Formatter. Completed titles are struck through only when
// w is a terminal.
func New(w io.Writer, format string, quiet bool) *Formatter {
	if format == "" {
		format = FormatText
	}
	r := lipgloss.NewRenderer(w)
	return &Formatter{
		w:      w,
		format: format,
		quiet:  quiet,
		done:   r.NewStyle().Strikethrough(true).Faint(true),
	}
}

// IsText reports whether the formatter writes human-oriented text.
func (f *Formatter) IsText() bool {
	return f.format == FormatText
}

// Tasks renders the whole collection, numbered from 1.
func (f *Formatter) Tasks(tasks []service.Task) error {
	switch f.format {
	case FormatJSON:
		return f.json(service.CloneTasks(tasks))
	case FormatYAML:
		return f.yaml(service.CloneTasks(tasks))
	}

	if len(tasks) == 0 {
		if !f.quiet {
			fmt.Fprintln(f.w, EmptyMessage)
		}
		return nil
	}
	for i, task := range tasks {
		f.line(i+1, task)
	}
	return nil
}

// Task renders one task. num is its 1-based position in the collection.
// Text output is suppressed in quiet mode.
func (f *Formatter) Task(num int, task service.Task) error {
	switch f.format {
	case FormatJSON:
		return f.json(task)
	case FormatYAML:
		return f.yaml(task)
	}
	if !f.quiet {
		f.line(num, task)
	}
	return nil
}

// Notice prints an informational line in text mode unless quiet.
func (f *Formatter) Notice(format string, args ...any) {
	if f.IsText() && !f.quiet {
		fmt.Fprintf(f.w, format+"\n", args...)
	}
}

// line formats "{N:>4}  [ ] {TITLE}" with the description underneath.
func (f *Formatter) line(num int, task service.Task) {
	mark := "[ ]"
	title := normalizeTitle(task.Title)
	if task.Completed {
		mark = "[x]"
		title = f.done.Render(title)
	}
	fmt.Fprintf(f.w, "%4d  %s %s\n", num, mark, title)
	if desc := normalizeText(task.Description); desc != "" {
		fmt.Fprintf(f.w, "%s%s\n", descIndent, desc)
	}
}

func (f *Formatter) json(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *Formatter) yaml(v any) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText flattens line breaks and trims surrounding space.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

package output

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksync/internal/service"
)

var structured = []service.Task{
	{ID: "1", Title: "Buy milk", Description: "2 liters"},
	{ID: "2", Title: "Water plants", Description: "balcony", Completed: true},
}

func TestTasks_Golden(t *testing.T) {
	tests := []struct {
		name   string
		format string
		tasks  []service.Task
	}{
		{
			name:   "list_text",
			format: FormatText,
			tasks: []service.Task{
				{ID: "1", Title: "Buy milk", Description: "2 liters"},
				{ID: "2", Title: "Water plants", Description: "balcony\nand kitchen", Completed: true},
				{ID: "3", Title: "  ", Description: ""},
			},
		},
		{name: "list_json", format: FormatJSON, tasks: structured},
		{name: "list_yaml", format: FormatYAML, tasks: structured},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, New(&buf, tt.format, false).Tasks(tt.tasks))
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestTasks_Empty(t *testing.T) {
	tests := []struct {
		format string
		quiet  bool
		want   string
	}{
		{FormatText, false, "no tasks found\n"},
		{FormatText, true, ""},
		{FormatJSON, false, "[]\n"},
		{FormatJSON, true, "[]\n"},
		{FormatYAML, false, "[]\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, New(&buf, tt.format, tt.quiet).Tasks(nil))
		assert.Equal(t, tt.want, buf.String(), "format=%s quiet=%v", tt.format, tt.quiet)
	}
}

func TestTask_Single(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, "", false)
	require.NoError(t, f.Task(4, service.Task{ID: "9", Title: "Call mom", Description: "Sunday"}))
	assert.Equal(t, "   4  [ ] Call mom\n          Sunday\n", buf.String())

	buf.Reset()
	require.NoError(t, New(&buf, FormatText, true).Task(4, structured[0]))
	assert.Empty(t, buf.String())

	buf.Reset()
	require.NoError(t, New(&buf, FormatJSON, true).Task(2, structured[1]))
	assert.JSONEq(t, `{"id":"2","title":"Water plants","description":"balcony","completed":true}`, buf.String())
}

func TestNotice(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatText, false).Notice("removed %d: %s", 2, "Water plants")
	assert.Equal(t, "removed 2: Water plants\n", buf.String())

	buf.Reset()
	New(&buf, FormatText, true).Notice("removed")
	New(&buf, FormatYAML, false).Notice("removed")
	assert.Empty(t, buf.String())
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "(untitled)", normalizeTitle(" \n "))
	assert.Equal(t, "a b", normalizeTitle("a\r\nb"))
	assert.Equal(t, "a b c", normalizeTitle("a\nb\rc"))
}

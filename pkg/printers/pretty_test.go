package printers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
)

func TestNotifyJSONLines(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, JSON: true}

	pp.Notify(
		command.Reply{RequestID: 1, Kind: command.NewProjectCreated, ProjectID: 5},
		command.Reply{RequestID: 2, Kind: command.NothingChanged, ProjectID: 5},
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got command.Reply
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, command.NothingChanged, got.Kind)
	assert.Equal(t, uint64(2), got.RequestID)
}

func TestNotifyPretty(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowID: true}

	pp.Notify(command.Reply{
		RequestID: 3,
		Kind:      command.NoteMoved,
		ProjectID: 1,
		PatternID: 2,
		Note:      &model.Note{ID: 9, Key: 64, Offset: 4, Length: 96},
	})

	out := buf.String()
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "note_moved")
	assert.Contains(t, out, "note=9 key=64 offset=4 length=96")
}

func TestHistoryMarksPointer(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}

	pattern := model.NewPattern("Verse")
	entries := []command.Command{
		&command.AddPattern{Pattern: pattern},
		&command.JournalPage{},
	}
	pp.History(entries, 1)

	out := buf.String()
	assert.Contains(t, out, `add pattern "Verse"`)
	assert.Contains(t, out, "journal page (0 commands)")
	assert.Contains(t, out, ">")
}

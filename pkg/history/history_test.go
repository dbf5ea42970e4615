package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
)

// counting fails the test if the history ever applies a command itself.
type counting struct {
	t    *testing.T
	name string
}

func (c *counting) Execute(*model.Project, uint64) []command.Reply {
	c.t.Fatalf("history executed %s", c.name)
	return nil
}

func (c *counting) Rollback(*model.Project, uint64) []command.Reply {
	c.t.Fatalf("history rolled back %s", c.name)
	return nil
}

func cmds(t *testing.T, names ...string) []command.Command {
	out := make([]command.Command, len(names))
	for i, n := range names {
		out[i] = &counting{t: t, name: n}
	}
	return out
}

func TestQueueUndoRedo(t *testing.T) {
	q := NewQueue()
	c := cmds(t, "a", "b", "c")
	for _, cmd := range c {
		q.Push(cmd)
	}
	require.Equal(t, 3, q.Len())
	require.Equal(t, 3, q.Pointer())

	got, ok := q.Undo()
	require.True(t, ok)
	assert.Same(t, c[2], got)
	got, ok = q.Undo()
	require.True(t, ok)
	assert.Same(t, c[1], got)
	assert.Equal(t, 1, q.Pointer())

	got, ok = q.Redo()
	require.True(t, ok)
	assert.Same(t, c[1], got)
	assert.Equal(t, 2, q.Pointer())
	assert.True(t, q.CanRedo())
}

func TestQueueBoundaries(t *testing.T) {
	q := NewQueue()
	_, ok := q.Undo()
	assert.False(t, ok)
	_, ok = q.Redo()
	assert.False(t, ok)

	q.Push(cmds(t, "a")[0])
	_, ok = q.Redo()
	assert.False(t, ok)
	_, ok = q.Undo()
	assert.True(t, ok)
	_, ok = q.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Pointer())
	assert.False(t, q.CanUndo())
}

func TestQueuePushTruncatesRedo(t *testing.T) {
	q := NewQueue()
	c := cmds(t, "a", "b", "c", "d")
	q.Push(c[0])
	q.Push(c[1])
	q.Push(c[2])
	q.Undo()
	q.Undo()

	q.Push(c[3])
	assert.Equal(t, []command.Command{c[0], c[3]}, q.Entries())
	assert.Equal(t, 2, q.Pointer())
	_, ok := q.Redo()
	assert.False(t, ok, "redo history must be gone after a push")
}

func TestQueueEntriesIsCopy(t *testing.T) {
	q := NewQueue()
	q.Push(cmds(t, "a")[0])
	entries := q.Entries()
	entries[0] = nil
	got, ok := q.Undo()
	require.True(t, ok)
	assert.NotNil(t, got)
}

func TestAccumulator(t *testing.T) {
	a := NewAccumulator()
	c := cmds(t, "a", "b")

	assert.ErrorIs(t, a.Accept(c[0]), ErrAccumulatorInactive)
	assert.Equal(t, 0, a.Pending())

	a.Start()
	require.True(t, a.Active())
	require.NoError(t, a.Accept(c[0]))
	a.Start()
	require.NoError(t, a.Accept(c[1]))
	assert.Equal(t, 2, a.Pending())

	page := a.Commit()
	assert.Equal(t, c, page.Commands)
	assert.False(t, a.Active())
	assert.Equal(t, 0, a.Pending())

	empty := a.Commit()
	assert.Equal(t, 0, empty.Len())
}

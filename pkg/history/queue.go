// Package history keeps a project's undo/redo history and the staging buffer
// used to group several edits into a single undo step.
//
// Neither type ever executes or rolls back a command. They only manage order
// and cursor bookkeeping; callers perform the state transition.
package history

import "tableflip.dev/anthem/pkg/command"

// Queue is an undo/redo stack with a movable cursor. Commands before the
// pointer are currently applied; commands at or after it have been undone and
// can be redone.
type Queue struct {
	commands []command.Command
	pointer  int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push records an already applied command. Redo history past the pointer is
// discarded.
func (q *Queue) Push(c command.Command) {
	for i := q.pointer; i < len(q.commands); i++ {
		q.commands[i] = nil
	}
	q.commands = append(q.commands[:q.pointer], c)
	q.pointer = len(q.commands)
	pushesTotal.Inc()
}

// Undo moves the pointer back one step and returns the command the caller
// must roll back. ok is false when there is nothing to undo.
func (q *Queue) Undo() (c command.Command, ok bool) {
	if q.pointer == 0 {
		stepsTotal.WithLabelValues("undo", "empty").Inc()
		return nil, false
	}
	q.pointer--
	stepsTotal.WithLabelValues("undo", "ok").Inc()
	return q.commands[q.pointer], true
}

// Redo returns the command the caller must execute and moves the pointer
// forward one step. ok is false when there is nothing to redo.
func (q *Queue) Redo() (c command.Command, ok bool) {
	if q.pointer == len(q.commands) {
		stepsTotal.WithLabelValues("redo", "empty").Inc()
		return nil, false
	}
	c = q.commands[q.pointer]
	q.pointer++
	stepsTotal.WithLabelValues("redo", "ok").Inc()
	return c, true
}

// Len is the number of recorded commands, including undone ones.
func (q *Queue) Len() int {
	return len(q.commands)
}

// Pointer is the number of currently applied commands.
func (q *Queue) Pointer() int {
	return q.pointer
}

// CanUndo reports whether Undo would return a command.
func (q *Queue) CanUndo() bool {
	return q.pointer > 0
}

// CanRedo reports whether Redo would return a command.
func (q *Queue) CanRedo() bool {
	return q.pointer < len(q.commands)
}

// Entries returns the recorded commands oldest first. The slice is a copy;
// the commands themselves remain owned by the queue.
func (q *Queue) Entries() []command.Command {
	return append([]command.Command(nil), q.commands...)
}

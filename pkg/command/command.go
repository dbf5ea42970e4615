// Package command defines the reversible unit of project mutation.
//
// A Command carries everything needed to apply and invert one edit: the
// values before and after the change are captured when the command is
// built, so Rollback replays stored state instead of recomputing it.
//
// Commands never decide whether they become part of history. That is the job
// of the dispatch routine in package app, which executes a command once and
// then hands it to the project's history.
package command

import (
	"fmt"

	"tableflip.dev/anthem/pkg/model"
)

// Command is a reversible edit against a project.
//
// Execute must only be called when the project is in the state the command
// was built against (first apply) or the state left by its own Rollback
// (redo). Rollback must exactly invert the most recent Execute.
type Command interface {
	Execute(p *model.Project, requestID uint64) []Reply
	Rollback(p *model.Project, requestID uint64) []Reply
}

// JournalPage groups several commands into one undo step.
//
// A page built by the journal accumulator holds commands that were already
// executed one by one, so pushing a page onto history does not execute it.
type JournalPage struct {
	Commands []Command
}

var _ Command = (*JournalPage)(nil)

// Execute applies the children in the order they were recorded.
func (j *JournalPage) Execute(p *model.Project, requestID uint64) []Reply {
	var replies []Reply
	for _, c := range j.Commands {
		replies = append(replies, c.Execute(p, requestID)...)
	}
	return replies
}

// Rollback inverts the children last to first.
func (j *JournalPage) Rollback(p *model.Project, requestID uint64) []Reply {
	var replies []Reply
	for i := len(j.Commands) - 1; i >= 0; i-- {
		replies = append(replies, j.Commands[i].Rollback(p, requestID)...)
	}
	return replies
}

// Len is the number of child commands.
func (j *JournalPage) Len() int {
	return len(j.Commands)
}

func (j *JournalPage) String() string {
	return fmt.Sprintf("journal page (%d commands)", len(j.Commands))
}

// Describe renders a command for history listings.
func Describe(c Command) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}

// invariant aborts on a broken precondition. Commands are built from state
// the caller already validated; a missing target means history and document
// have diverged.
func invariant(err error, format string, args ...any) {
	if err != nil {
		panic(fmt.Sprintf("command: "+format+": %v", append(args, err)...))
	}
}

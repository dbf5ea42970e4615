package history

import (
	"errors"

	"tableflip.dev/anthem/pkg/command"
)

// ErrAccumulatorInactive is returned by Accept when no journal entry is open.
var ErrAccumulatorInactive = errors.New("history: no journal entry is open")

// Accumulator collects commands issued while a journal entry is open so they
// can be committed as one JournalPage.
type Accumulator struct {
	active  bool
	pending []command.Command
}

// NewAccumulator returns an inactive accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Start opens a journal entry. Starting an open entry keeps it open and
// keeps what was already collected.
func (a *Accumulator) Start() {
	a.active = true
}

// Active reports whether a journal entry is open.
func (a *Accumulator) Active() bool {
	return a.active
}

// Pending is the number of commands collected so far.
func (a *Accumulator) Pending() int {
	return len(a.pending)
}

// Accept records an already executed command. It refuses commands while no
// entry is open so an edit can never silently fall out of history.
func (a *Accumulator) Accept(c command.Command) error {
	if !a.active {
		return ErrAccumulatorInactive
	}
	a.pending = append(a.pending, c)
	return nil
}

// Commit closes the entry and hands the collected commands over as a single
// page, leaving the accumulator empty. The page may have no children when
// nothing was collected or no entry was open.
func (a *Accumulator) Commit() *command.JournalPage {
	a.active = false
	page := &command.JournalPage{Commands: a.pending}
	a.pending = nil
	if page.Len() == 0 {
		journalPagesTotal.WithLabelValues("empty").Inc()
	} else {
		journalPagesTotal.WithLabelValues("committed").Inc()
		journalPageSize.Observe(float64(page.Len()))
	}
	return page
}

package app

import "tableflip.dev/anthem/pkg/model"

// Msg is an already decoded inbound request.
type Msg interface {
	msgName() string
}

// Init creates the first project, makes it active and starts the playback
// engine for it.
type Init struct{}

// NewProject opens an empty project.
type NewProject struct{}

type SetActiveProject struct {
	ProjectID uint64
}

type CloseProject struct {
	ProjectID uint64
}

// SaveProject writes the project to Path, or to the project library when
// Path is empty.
type SaveProject struct {
	ProjectID uint64
	Path      string
}

// LoadProject opens a project from Path, or from the project library by
// ProjectID when Path is empty.
type LoadProject struct {
	Path      string
	ProjectID uint64
}

type Undo struct {
	ProjectID uint64
}

type Redo struct {
	ProjectID uint64
}

// JournalStartEntry begins grouping edits into one undo step.
type JournalStartEntry struct {
	ProjectID uint64
}

// JournalCommitEntry closes the open journal entry.
type JournalCommitEntry struct {
	ProjectID uint64
}

type AddPattern struct {
	ProjectID uint64
	Name      string
}

type DeletePattern struct {
	ProjectID uint64
	PatternID uint64
}

// AddNote adds Note to a generator in a pattern. A zero Note.ID is replaced
// with a fresh id.
type AddNote struct {
	ProjectID   uint64
	PatternID   uint64
	GeneratorID uint64
	Note        model.Note
}

type DeleteNote struct {
	ProjectID   uint64
	PatternID   uint64
	GeneratorID uint64
	NoteID      uint64
}

type MoveNote struct {
	ProjectID   uint64
	PatternID   uint64
	GeneratorID uint64
	NoteID      uint64
	Key         uint8
	Offset      uint64
}

type ResizeNote struct {
	ProjectID   uint64
	PatternID   uint64
	GeneratorID uint64
	NoteID      uint64
	Length      uint64
}

func (Init) msgName() string               { return "init" }
func (NewProject) msgName() string         { return "new_project" }
func (SetActiveProject) msgName() string   { return "set_active_project" }
func (CloseProject) msgName() string       { return "close_project" }
func (SaveProject) msgName() string        { return "save_project" }
func (LoadProject) msgName() string        { return "load_project" }
func (Undo) msgName() string               { return "undo" }
func (Redo) msgName() string               { return "redo" }
func (JournalStartEntry) msgName() string  { return "journal_start_entry" }
func (JournalCommitEntry) msgName() string { return "journal_commit_entry" }
func (AddPattern) msgName() string         { return "add_pattern" }
func (DeletePattern) msgName() string      { return "delete_pattern" }
func (AddNote) msgName() string            { return "add_note" }
func (DeleteNote) msgName() string         { return "delete_note" }
func (MoveNote) msgName() string           { return "move_note" }
func (ResizeNote) msgName() string         { return "resize_note" }

// MsgName returns the wire name of a message, as used in scripts and logs.
func MsgName(m Msg) string {
	return m.msgName()
}

package command

import "tableflip.dev/anthem/pkg/model"

// Kind names an outbound notification.
type Kind string

const (
	NewProjectCreated     Kind = "new_project_created"
	ActiveProjectChanged  Kind = "active_project_changed"
	ProjectClosed         Kind = "project_closed"
	ProjectSaved          Kind = "project_saved"
	ProjectLoaded         Kind = "project_loaded"
	NothingChanged        Kind = "nothing_changed"
	JournalEntryStarted   Kind = "journal_entry_started"
	JournalEntryCommitted Kind = "journal_entry_committed"
	EngineStarted         Kind = "engine_started"

	PatternAdded   Kind = "pattern_added"
	PatternDeleted Kind = "pattern_deleted"
	NoteAdded      Kind = "note_added"
	NoteDeleted    Kind = "note_deleted"
	NoteMoved      Kind = "note_moved"
	NoteResized    Kind = "note_resized"
)

// Reply is one notification produced while handling a request. All replies
// for a request carry its RequestID so the receiver can correlate them.
type Reply struct {
	RequestID   uint64         `json:"request_id"`
	Kind        Kind           `json:"kind"`
	ProjectID   uint64         `json:"project_id,omitempty"`
	PatternID   uint64         `json:"pattern_id,omitempty"`
	GeneratorID uint64         `json:"generator_id,omitempty"`
	NoteID      uint64         `json:"note_id,omitempty"`
	Index       int            `json:"index,omitempty"`
	Pattern     *model.Pattern `json:"pattern,omitempty"`
	Note        *model.Note    `json:"note,omitempty"`
	Path        string         `json:"path,omitempty"`
}

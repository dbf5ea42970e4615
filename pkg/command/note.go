package command

import (
	"fmt"

	"tableflip.dev/anthem/pkg/model"
)

// NoteTarget addresses the notes of one generator inside one pattern.
type NoteTarget struct {
	ProjectID   uint64
	PatternID   uint64
	GeneratorID uint64
}

func (t NoteTarget) pattern(p *model.Project) *model.Pattern {
	pattern, err := p.Song.Pattern(t.PatternID)
	invariant(err, "project %d", t.ProjectID)
	return pattern
}

func (t NoteTarget) note(p *model.Project, noteID uint64) *model.Note {
	n, err := t.pattern(p).Note(t.GeneratorID, noteID)
	invariant(err, "pattern %d generator %d", t.PatternID, t.GeneratorID)
	return n
}

func (t NoteTarget) reply(requestID uint64, kind Kind, n *model.Note) Reply {
	cp := *n
	return Reply{
		RequestID:   requestID,
		Kind:        kind,
		ProjectID:   t.ProjectID,
		PatternID:   t.PatternID,
		GeneratorID: t.GeneratorID,
		NoteID:      n.ID,
		Note:        &cp,
	}
}

// AddNote adds Note to a generator's notes.
type AddNote struct {
	NoteTarget
	Note model.Note
}

func (c *AddNote) Execute(p *model.Project, requestID uint64) []Reply {
	c.pattern(p).AddNote(c.GeneratorID, c.Note)
	return []Reply{c.reply(requestID, NoteAdded, &c.Note)}
}

func (c *AddNote) Rollback(p *model.Project, requestID uint64) []Reply {
	invariant(c.pattern(p).RemoveNote(c.GeneratorID, c.Note.ID), "remove note %d", c.Note.ID)
	return []Reply{c.reply(requestID, NoteDeleted, &c.Note)}
}

func (c *AddNote) String() string {
	return fmt.Sprintf("add note %d (key %d at %d)", c.Note.ID, c.Note.Key, c.Note.Offset)
}

// DeleteNote removes a note. Note holds the full note as it was before and
// Index its position among the generator's notes.
type DeleteNote struct {
	NoteTarget
	Note  model.Note
	Index int
}

func (c *DeleteNote) Execute(p *model.Project, requestID uint64) []Reply {
	invariant(c.pattern(p).RemoveNote(c.GeneratorID, c.Note.ID), "remove note %d", c.Note.ID)
	return []Reply{c.reply(requestID, NoteDeleted, &c.Note)}
}

func (c *DeleteNote) Rollback(p *model.Project, requestID uint64) []Reply {
	c.pattern(p).InsertNote(c.GeneratorID, c.Index, c.Note)
	return []Reply{c.reply(requestID, NoteAdded, &c.Note)}
}

func (c *DeleteNote) String() string {
	return fmt.Sprintf("delete note %d", c.Note.ID)
}

// MoveNote changes a note's key and offset.
type MoveNote struct {
	NoteTarget
	NoteID    uint64
	OldKey    uint8
	NewKey    uint8
	OldOffset uint64
	NewOffset uint64
}

func (c *MoveNote) Execute(p *model.Project, requestID uint64) []Reply {
	n := c.note(p, c.NoteID)
	n.Key = c.NewKey
	n.Offset = c.NewOffset
	return []Reply{c.reply(requestID, NoteMoved, n)}
}

func (c *MoveNote) Rollback(p *model.Project, requestID uint64) []Reply {
	n := c.note(p, c.NoteID)
	n.Key = c.OldKey
	n.Offset = c.OldOffset
	return []Reply{c.reply(requestID, NoteMoved, n)}
}

func (c *MoveNote) String() string {
	return fmt.Sprintf("move note %d (key %d at %d -> key %d at %d)",
		c.NoteID, c.OldKey, c.OldOffset, c.NewKey, c.NewOffset)
}

// ResizeNote changes a note's length.
type ResizeNote struct {
	NoteTarget
	NoteID    uint64
	OldLength uint64
	NewLength uint64
}

func (c *ResizeNote) Execute(p *model.Project, requestID uint64) []Reply {
	n := c.note(p, c.NoteID)
	n.Length = c.NewLength
	return []Reply{c.reply(requestID, NoteResized, n)}
}

func (c *ResizeNote) Rollback(p *model.Project, requestID uint64) []Reply {
	n := c.note(p, c.NoteID)
	n.Length = c.OldLength
	return []Reply{c.reply(requestID, NoteResized, n)}
}

func (c *ResizeNote) String() string {
	return fmt.Sprintf("resize note %d (%d -> %d)", c.NoteID, c.OldLength, c.NewLength)
}

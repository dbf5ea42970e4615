package model

import "fmt"

// Pattern is a named clip of notes, grouped per generator.
type Pattern struct {
	ID             uint64                     `json:"id"`
	Name           string                     `json:"name"`
	GeneratorNotes map[uint64]*GeneratorNotes `json:"generator_notes"`
}

// GeneratorNotes are the notes one generator plays within a pattern.
type GeneratorNotes struct {
	Notes []Note `json:"notes"`
}

// Note is a single note event. Offset and Length are in ticks.
type Note struct {
	ID       uint64 `json:"id"`
	Key      uint8  `json:"key"`
	Velocity uint8  `json:"velocity"`
	Length   uint64 `json:"length"`
	Offset   uint64 `json:"offset"`
}

// NewPattern returns an empty pattern with a fresh id.
func NewPattern(name string) *Pattern {
	return &Pattern{
		ID:             NextID(),
		Name:           name,
		GeneratorNotes: make(map[uint64]*GeneratorNotes),
	}
}

// NewNote returns a note with a fresh id.
func NewNote(key, velocity uint8, length, offset uint64) Note {
	return Note{
		ID:       NextID(),
		Key:      key,
		Velocity: velocity,
		Length:   length,
		Offset:   offset,
	}
}

func (p *Pattern) Clone() *Pattern {
	if p == nil {
		return nil
	}
	cp := &Pattern{
		ID:             p.ID,
		Name:           p.Name,
		GeneratorNotes: make(map[uint64]*GeneratorNotes, len(p.GeneratorNotes)),
	}
	for gid, gn := range p.GeneratorNotes {
		cp.GeneratorNotes[gid] = &GeneratorNotes{Notes: append([]Note{}, gn.Notes...)}
	}
	return cp
}

// NoteCount returns the number of notes across all generators.
func (p *Pattern) NoteCount() int {
	n := 0
	for _, gn := range p.GeneratorNotes {
		n += len(gn.Notes)
	}
	return n
}

// AddNote appends n to the generator's notes, creating the bucket if needed.
func (p *Pattern) AddNote(generatorID uint64, n Note) {
	if p.GeneratorNotes == nil {
		p.GeneratorNotes = make(map[uint64]*GeneratorNotes)
	}
	gn, ok := p.GeneratorNotes[generatorID]
	if !ok {
		gn = &GeneratorNotes{}
		p.GeneratorNotes[generatorID] = gn
	}
	gn.Notes = append(gn.Notes, n)
}

// InsertNote places n at index within the generator's notes. An index past
// the end appends.
func (p *Pattern) InsertNote(generatorID uint64, index int, n Note) {
	p.AddNote(generatorID, n)
	notes := p.GeneratorNotes[generatorID].Notes
	if index < 0 || index >= len(notes)-1 {
		return
	}
	copy(notes[index+1:], notes[index:len(notes)-1])
	notes[index] = n
}

// NoteIndex returns the position of the note within its generator's notes.
func (p *Pattern) NoteIndex(generatorID, noteID uint64) (int, error) {
	gn, ok := p.GeneratorNotes[generatorID]
	if !ok {
		return -1, fmt.Errorf("%w: generator %d has no notes", ErrNoteNotFound, generatorID)
	}
	for i := range gn.Notes {
		if gn.Notes[i].ID == noteID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrNoteNotFound, noteID)
}

// RemoveNote deletes the note. A generator left without notes is dropped so
// that add followed by remove leaves the pattern exactly as it was.
func (p *Pattern) RemoveNote(generatorID, noteID uint64) error {
	i, err := p.NoteIndex(generatorID, noteID)
	if err != nil {
		return err
	}
	gn := p.GeneratorNotes[generatorID]
	gn.Notes = append(gn.Notes[:i], gn.Notes[i+1:]...)
	if len(gn.Notes) == 0 {
		delete(p.GeneratorNotes, generatorID)
	}
	return nil
}

// Note returns a pointer into the generator's notes for in-place edits.
func (p *Pattern) Note(generatorID, noteID uint64) (*Note, error) {
	i, err := p.NoteIndex(generatorID, noteID)
	if err != nil {
		return nil, err
	}
	return &p.GeneratorNotes[generatorID].Notes[i], nil
}

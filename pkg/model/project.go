// Package model holds the editable project document: a song made of ordered
// patterns, each pattern holding notes grouped per generator (instrument).
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrPatternNotFound is returned when a pattern id is not part of the song.
	ErrPatternNotFound = errors.New("model: pattern not found")
	// ErrNoteNotFound is returned when a note id is not part of a generator's notes.
	ErrNoteNotFound = errors.New("model: note not found")
)

// Project is one open document.
type Project struct {
	ID   uint64 `json:"id"`
	Song Song   `json:"song"`

	// Saved reports whether the in-memory document matches what was last
	// written. Runtime only.
	Saved bool `json:"-"`
	// FilePath is where the project was last loaded from or saved to.
	FilePath string `json:"-"`
}

// New returns an empty project with a fresh id.
func New() *Project {
	return &Project{
		ID:   NextID(),
		Song: NewSong(),
	}
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Song = p.Song.Clone()
	return &cp
}

// Observe registers every id in the document with the id generator.
func (p *Project) Observe() {
	ObserveID(p.ID)
	for id, pattern := range p.Song.Patterns {
		ObserveID(id)
		for gid, gn := range pattern.GeneratorNotes {
			ObserveID(gid)
			for _, n := range gn.Notes {
				ObserveID(n.ID)
			}
		}
	}
}

// Song is the arrangement-level container for patterns.
type Song struct {
	Patterns     map[uint64]*Pattern `json:"patterns"`
	PatternOrder []uint64            `json:"pattern_order"`
}

// NewSong returns an empty song.
func NewSong() Song {
	return Song{
		Patterns:     make(map[uint64]*Pattern),
		PatternOrder: []uint64{},
	}
}

func (s Song) Clone() Song {
	cp := Song{
		Patterns:     make(map[uint64]*Pattern, len(s.Patterns)),
		PatternOrder: append([]uint64{}, s.PatternOrder...),
	}
	for id, p := range s.Patterns {
		cp.Patterns[id] = p.Clone()
	}
	return cp
}

// Pattern looks up a pattern by id.
func (s *Song) Pattern(id uint64) (*Pattern, error) {
	p, ok := s.Patterns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPatternNotFound, id)
	}
	return p, nil
}

// PatternIndex returns the position of id within the pattern order.
func (s *Song) PatternIndex(id uint64) (int, error) {
	for i, pid := range s.PatternOrder {
		if pid == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrPatternNotFound, id)
}

// InsertPattern places p in the song at index. An index past the end appends.
func (s *Song) InsertPattern(p *Pattern, index int) {
	if s.Patterns == nil {
		s.Patterns = make(map[uint64]*Pattern)
	}
	s.Patterns[p.ID] = p
	if index < 0 || index > len(s.PatternOrder) {
		index = len(s.PatternOrder)
	}
	s.PatternOrder = append(s.PatternOrder, 0)
	copy(s.PatternOrder[index+1:], s.PatternOrder[index:])
	s.PatternOrder[index] = p.ID
}

// RemovePattern drops the pattern from the song.
func (s *Song) RemovePattern(id uint64) error {
	index, err := s.PatternIndex(id)
	if err != nil {
		return err
	}
	delete(s.Patterns, id)
	s.PatternOrder = append(s.PatternOrder[:index], s.PatternOrder[index+1:]...)
	return nil
}

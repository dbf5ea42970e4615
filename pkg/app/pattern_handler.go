package app

import (
	"fmt"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
)

// handlePattern builds the command for a pattern or note edit from the
// current project state and dispatches it. Targets are validated here, before
// anything is executed.
func (s *Service) handlePattern(requestID uint64, msg Msg) (handled bool, err error) {
	var (
		projectID uint64
		c         command.Command
	)

	switch m := msg.(type) {
	case AddPattern:
		p, err := s.Store.Project(m.ProjectID)
		if err != nil {
			return true, err
		}
		projectID = m.ProjectID
		c = &command.AddPattern{
			ProjectID: m.ProjectID,
			Pattern:   model.NewPattern(m.Name),
			Index:     len(p.Song.PatternOrder),
		}
	case DeletePattern:
		p, err := s.Store.Project(m.ProjectID)
		if err != nil {
			return true, err
		}
		pattern, err := p.Song.Pattern(m.PatternID)
		if err != nil {
			return true, invariant("delete pattern", err)
		}
		index, err := p.Song.PatternIndex(m.PatternID)
		if err != nil {
			return true, invariant("delete pattern", err)
		}
		projectID = m.ProjectID
		c = &command.DeletePattern{
			ProjectID: m.ProjectID,
			Pattern:   pattern.Clone(),
			Index:     index,
		}
	case AddNote:
		target := command.NoteTarget{ProjectID: m.ProjectID, PatternID: m.PatternID, GeneratorID: m.GeneratorID}
		pattern, err := s.pattern(target)
		if err != nil {
			return true, invariant("add note", err)
		}
		n := m.Note
		if n.ID == 0 {
			n.ID = model.NextID()
		} else if _, err := pattern.NoteIndex(m.GeneratorID, n.ID); err == nil {
			return true, invariant("add note", fmt.Errorf("note %d already exists", n.ID))
		} else {
			model.ObserveID(n.ID)
		}
		projectID = m.ProjectID
		c = &command.AddNote{NoteTarget: target, Note: n}
	case DeleteNote:
		target := command.NoteTarget{ProjectID: m.ProjectID, PatternID: m.PatternID, GeneratorID: m.GeneratorID}
		pattern, err := s.pattern(target)
		if err != nil {
			return true, invariant("delete note", err)
		}
		index, err := pattern.NoteIndex(m.GeneratorID, m.NoteID)
		if err != nil {
			return true, invariant("delete note", err)
		}
		projectID = m.ProjectID
		c = &command.DeleteNote{
			NoteTarget: target,
			Note:       pattern.GeneratorNotes[m.GeneratorID].Notes[index],
			Index:      index,
		}
	case MoveNote:
		target := command.NoteTarget{ProjectID: m.ProjectID, PatternID: m.PatternID, GeneratorID: m.GeneratorID}
		n, err := s.note(target, m.NoteID)
		if err != nil {
			return true, invariant("move note", err)
		}
		projectID = m.ProjectID
		c = &command.MoveNote{
			NoteTarget: target,
			NoteID:     m.NoteID,
			OldKey:     n.Key,
			NewKey:     m.Key,
			OldOffset:  n.Offset,
			NewOffset:  m.Offset,
		}
	case ResizeNote:
		target := command.NoteTarget{ProjectID: m.ProjectID, PatternID: m.PatternID, GeneratorID: m.GeneratorID}
		n, err := s.note(target, m.NoteID)
		if err != nil {
			return true, invariant("resize note", err)
		}
		projectID = m.ProjectID
		c = &command.ResizeNote{
			NoteTarget: target,
			NoteID:     m.NoteID,
			OldLength:  n.Length,
			NewLength:  m.Length,
		}
	default:
		return false, nil
	}

	return true, s.ExecuteAndPush(requestID, projectID, c)
}

func (s *Service) pattern(t command.NoteTarget) (*model.Pattern, error) {
	p, err := s.Store.Project(t.ProjectID)
	if err != nil {
		return nil, err
	}
	return p.Song.Pattern(t.PatternID)
}

func (s *Service) note(t command.NoteTarget, noteID uint64) (model.Note, error) {
	pattern, err := s.pattern(t)
	if err != nil {
		return model.Note{}, err
	}
	n, err := pattern.Note(t.GeneratorID, noteID)
	if err != nil {
		return model.Note{}, err
	}
	return *n, nil
}

package app

import (
	"context"
	"fmt"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
)

// handleStore processes project lifecycle, history and journal requests.
// handled is false when msg belongs to another handler.
func (s *Service) handleStore(ctx context.Context, requestID uint64, msg Msg) (handled bool, err error) {
	switch m := msg.(type) {
	case Init:
		return true, s.init(ctx, requestID)
	case NewProject:
		s.newProject(requestID)
		return true, nil
	case SetActiveProject:
		if err := s.Store.SetActive(m.ProjectID); err != nil {
			return true, err
		}
		s.notify(command.Reply{RequestID: requestID, Kind: command.ActiveProjectChanged, ProjectID: m.ProjectID})
		return true, nil
	case CloseProject:
		if err := s.Store.Close(m.ProjectID); err != nil {
			return true, err
		}
		s.notify(command.Reply{RequestID: requestID, Kind: command.ProjectClosed, ProjectID: m.ProjectID})
		return true, nil
	case SaveProject:
		return true, s.save(requestID, m)
	case LoadProject:
		return true, s.load(requestID, m)
	case Undo:
		return true, s.undo(requestID, m.ProjectID)
	case Redo:
		return true, s.redo(requestID, m.ProjectID)
	case JournalStartEntry:
		return true, s.journalStart(requestID, m.ProjectID)
	case JournalCommitEntry:
		return true, s.journalCommit(requestID, m.ProjectID)
	}
	return false, nil
}

func (s *Service) newProject(requestID uint64) uint64 {
	p := model.New()
	// A fresh id cannot collide with an open project.
	_ = s.Store.Open(p)
	s.notify(command.Reply{RequestID: requestID, Kind: command.NewProjectCreated, ProjectID: p.ID})
	s.logger().Info("project created", "request", requestID, "project", p.ID)
	return p.ID
}

// init selects a fresh project before the engine is started for it. The
// engine is not waited on.
func (s *Service) init(ctx context.Context, requestID uint64) error {
	id := s.newProject(requestID)
	if err := s.Store.SetActive(id); err != nil {
		return err
	}
	s.notify(command.Reply{RequestID: requestID, Kind: command.ActiveProjectChanged, ProjectID: id})

	if s.Engine == nil {
		return nil
	}
	if err := s.Engine.Start(ctx, id); err != nil {
		return fmt.Errorf("app: start engine: %w", err)
	}
	s.notify(command.Reply{RequestID: requestID, Kind: command.EngineStarted, ProjectID: id})
	return nil
}

// save writes the project without touching its history.
func (s *Service) save(requestID uint64, m SaveProject) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	p, err := s.Store.Project(m.ProjectID)
	if err != nil {
		return err
	}
	if m.Path != "" {
		err = s.Persistence.SaveFile(p, m.Path)
	} else {
		err = s.Persistence.Save(p)
	}
	if err != nil {
		return invariant("save project", err)
	}
	if m.Path != "" {
		p.FilePath = m.Path
	}
	p.Saved = true
	s.notify(command.Reply{RequestID: requestID, Kind: command.ProjectSaved, ProjectID: p.ID, Path: m.Path})
	s.logger().Info("project saved", "request", requestID, "project", p.ID, "path", m.Path)
	return nil
}

// load registers a stored project with empty history.
func (s *Service) load(requestID uint64, m LoadProject) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	var (
		p   *model.Project
		err error
	)
	if m.Path != "" {
		p, err = s.Persistence.LoadFile(m.Path)
	} else {
		p, err = s.Persistence.Load(m.ProjectID)
	}
	if err != nil {
		return invariant("load project", err)
	}
	if p.ID == 0 {
		return invariant("load project", fmt.Errorf("project in %q has no id", m.Path))
	}

	p.Observe()
	p.FilePath = m.Path
	p.Saved = true
	if err := s.Store.Open(p); err != nil {
		return err
	}
	s.notify(command.Reply{RequestID: requestID, Kind: command.ProjectLoaded, ProjectID: p.ID, Path: m.Path})
	s.logger().Info("project loaded", "request", requestID, "project", p.ID, "path", m.Path)
	return nil
}

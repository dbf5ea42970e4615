package app

import (
	"tableflip.dev/anthem/pkg/command"
)

// ExecuteAndPush applies c to the project and records it for undo. This is
// the only way a command enters history.
//
// While a journal entry is open the command is collected by the project's
// accumulator; otherwise it is pushed onto the project's queue, discarding
// any redo history.
func (s *Service) ExecuteAndPush(requestID, projectID uint64, c command.Command) error {
	rec, err := s.Store.lookup(projectID)
	if err != nil {
		return err
	}

	replies := c.Execute(rec.project, requestID)
	rec.project.Saved = false
	s.notify(replies...)

	if rec.accumulator.Active() {
		s.logger().Debug("command collected",
			"request", requestID, "project", projectID,
			"command", command.Describe(c), "pending", rec.accumulator.Pending()+1)
		return rec.accumulator.Accept(c)
	}
	rec.queue.Push(c)
	s.logger().Debug("command pushed",
		"request", requestID, "project", projectID,
		"command", command.Describe(c), "depth", rec.queue.Pointer())
	return nil
}

func (s *Service) undo(requestID, projectID uint64) error {
	rec, err := s.Store.lookup(projectID)
	if err != nil {
		return err
	}
	if rec.accumulator.Active() {
		return ErrJournalOpen
	}

	c, ok := rec.queue.Undo()
	if !ok {
		s.notify(command.Reply{RequestID: requestID, Kind: command.NothingChanged, ProjectID: projectID})
		return nil
	}
	replies := c.Rollback(rec.project, requestID)
	rec.project.Saved = false
	s.notify(replies...)
	s.logger().Debug("undo", "request", requestID, "project", projectID, "command", command.Describe(c))
	return nil
}

func (s *Service) redo(requestID, projectID uint64) error {
	rec, err := s.Store.lookup(projectID)
	if err != nil {
		return err
	}
	if rec.accumulator.Active() {
		return ErrJournalOpen
	}

	c, ok := rec.queue.Redo()
	if !ok {
		s.notify(command.Reply{RequestID: requestID, Kind: command.NothingChanged, ProjectID: projectID})
		return nil
	}
	replies := c.Execute(rec.project, requestID)
	rec.project.Saved = false
	s.notify(replies...)
	s.logger().Debug("redo", "request", requestID, "project", projectID, "command", command.Describe(c))
	return nil
}

func (s *Service) journalStart(requestID, projectID uint64) error {
	acc, err := s.Store.Accumulator(projectID)
	if err != nil {
		return err
	}
	acc.Start()
	s.notify(command.Reply{RequestID: requestID, Kind: command.JournalEntryStarted, ProjectID: projectID})
	return nil
}

// journalCommit pushes the collected commands as one page. The commands were
// executed as they arrived, so the page is recorded without executing it. An
// empty page is not recorded, which keeps redo history intact.
func (s *Service) journalCommit(requestID, projectID uint64) error {
	rec, err := s.Store.lookup(projectID)
	if err != nil {
		return err
	}
	page := rec.accumulator.Commit()
	if page.Len() > 0 {
		rec.queue.Push(page)
	}
	s.logger().Debug("journal committed", "request", requestID, "project", projectID, "commands", page.Len())
	s.notify(command.Reply{RequestID: requestID, Kind: command.JournalEntryCommitted, ProjectID: projectID})
	return nil
}

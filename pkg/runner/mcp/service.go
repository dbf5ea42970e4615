// Package mcp provides the Model Context Protocol server integration for anthem.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
)

// ErrNoActiveProject is returned when a tool omits the project and none is
// active.
var ErrNoActiveProject = errors.New("no active project")

// Service serialises tool calls onto one app.Service. MCP clients may call
// tools concurrently; the engine handles one request at a time.
type Service struct {
	mu        sync.Mutex
	app       *app.Service
	collector *app.Collector
	requestID uint64
}

// ProjectSummary describes an open project.
type ProjectSummary struct {
	ID       uint64 `json:"id"`
	Active   bool   `json:"active"`
	Saved    bool   `json:"saved"`
	Path     string `json:"path,omitempty"`
	Patterns int    `json:"patterns"`
	Undo     int    `json:"undo"`
	Redo     int    `json:"redo"`
	Journal  bool   `json:"journal_open"`
}

// HistoryEntry is one recorded step of a project's undo history.
type HistoryEntry struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Applied     bool   `json:"applied"`
}

// NewService wraps svc. The service's notifier is replaced so replies can be
// returned to the calling tool.
func NewService(svc *app.Service) *Service {
	c := &app.Collector{}
	svc.Notifier = c
	return &Service{app: svc, collector: c}
}

// Do handles msg and returns the replies it produced.
func (s *Service) Do(ctx context.Context, msg app.Msg) ([]command.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestID++
	s.collector.Take()
	err := s.app.Handle(ctx, s.requestID, msg)
	return s.collector.Take(), err
}

// ProjectID resolves id, falling back to the active project when it is 0.
func (s *Service) ProjectID(id uint64) (uint64, error) {
	if id != 0 {
		return id, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if active := s.app.Store.Active(); active != 0 {
		return active, nil
	}
	return 0, ErrNoActiveProject
}

// Projects lists the open projects in the order they were opened.
func (s *Service) Projects() []ProjectSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProjectSummary, 0, s.app.Store.Len())
	for _, id := range s.app.Store.Order() {
		p, err := s.app.Store.Project(id)
		if err != nil {
			continue
		}
		q, _ := s.app.Store.Queue(id)
		acc, _ := s.app.Store.Accumulator(id)
		out = append(out, ProjectSummary{
			ID:       id,
			Active:   id == s.app.Store.Active(),
			Saved:    p.Saved,
			Path:     p.FilePath,
			Patterns: len(p.Song.PatternOrder),
			Undo:     q.Pointer(),
			Redo:     q.Len() - q.Pointer(),
			Journal:  acc.Active(),
		})
	}
	return out
}

// Project returns a copy of an open project.
func (s *Service) Project(id uint64) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.app.Store.Project(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// History lists the undo history of an open project, oldest first.
func (s *Service) History(id uint64) ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.app.Store.Queue(id)
	if err != nil {
		return nil, err
	}
	entries := q.Entries()
	out := make([]HistoryEntry, len(entries))
	for i, c := range entries {
		out[i] = HistoryEntry{Index: i, Description: command.Describe(c), Applied: i < q.Pointer()}
	}
	return out, nil
}

func (s *Service) logger() *slog.Logger {
	if s.app.Logger != nil {
		return s.app.Logger
	}
	return slog.Default()
}

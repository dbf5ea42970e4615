// Package app ties edits to history. The Service owns the store of open
// projects and is the single place where a command is executed and recorded
// for undo, so UIs, scripts and servers share the same behaviour.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/engine"
	"tableflip.dev/anthem/pkg/store"
)

// Service handles requests against the projects in Store, one at a time.
// It is not safe for concurrent use; callers serving several clients must
// serialise Handle calls.
type Service struct {
	Store       *Store
	Notifier    Notifier
	Persistence store.Persistence
	Engine      engine.Launcher
	Logger      *slog.Logger
}

// NewService returns a service with an empty store that reports replies to n.
func NewService(n Notifier) *Service {
	return &Service{
		Store:    NewStore(),
		Notifier: n,
		Engine:   engine.Noop{},
	}
}

// Handle processes one request. Replies are delivered to the Notifier before
// Handle returns. A returned error means the request was rejected; an
// InvariantError means it referenced state that does not exist.
func (s *Service) Handle(ctx context.Context, requestID uint64, msg Msg) error {
	handled, err := s.handleStore(ctx, requestID, msg)
	if !handled && err == nil {
		handled, err = s.handlePattern(requestID, msg)
	}
	if !handled && err == nil {
		err = fmt.Errorf("%w: %T", ErrUnknownMsg, msg)
	}

	name := "unknown"
	if msg != nil {
		name = msg.msgName()
	}
	if err != nil {
		requestsTotal.WithLabelValues(name, "error").Inc()
		s.logger().Warn("request rejected", "request", requestID, "msg", name, "error", err)
		return err
	}
	requestsTotal.WithLabelValues(name, "ok").Inc()
	return nil
}

func (s *Service) notify(replies ...command.Reply) {
	if s.Notifier == nil || len(replies) == 0 {
		return
	}
	s.Notifier.Notify(replies...)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

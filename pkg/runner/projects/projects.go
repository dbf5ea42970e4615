// Package projects lists the project library.
package projects

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"tableflip.dev/anthem/pkg/printers"
	"tableflip.dev/anthem/pkg/store"
)

type Projects struct {
	Persistence store.Persistence
	Out         io.Writer
	JSON        bool
	// Watch keeps running and re-renders whenever the library changes.
	Watch  bool
	Logger *slog.Logger
}

func (n *Projects) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list, no persistence")
	}
	pp := &printers.PrettyPrint{Out: n.Out, JSON: n.JSON}

	n.render(ctx, pp)
	if !n.Watch {
		return nil
	}

	events, err := n.Persistence.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if n.Logger != nil {
				n.Logger.Debug("library changed", "type", ev.Type, "project", ev.ProjectID)
			}
			n.render(ctx, pp)
		}
	}
}

func (n *Projects) render(ctx context.Context, pp *printers.PrettyPrint) {
	summaries := n.Persistence.List(ctx)
	if n.JSON {
		pp.JSONValue(map[string]any{"projects": summaries, "count": len(summaries)})
		return
	}
	pp.NewLine()
	pp.Title("projects")
	pp.Library(summaries...)
}

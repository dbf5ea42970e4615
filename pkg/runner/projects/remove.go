package projects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tableflip.dev/anthem/pkg/printers"
	"tableflip.dev/anthem/pkg/store"
)

// Remove deletes projects from the library by id.
type Remove struct {
	Persistence store.Persistence
	IDs         []uint64
	Out         io.Writer
	JSON        bool
	Logger      *slog.Logger
}

func (r *Remove) Do(_ context.Context) error {
	if r.Persistence == nil {
		return errors.New("can not remove, no persistence")
	}
	if len(r.IDs) == 0 {
		return errors.New("no project ids given")
	}

	removed := make([]uint64, 0, len(r.IDs))
	for _, id := range r.IDs {
		if err := r.Persistence.Delete(id); err != nil {
			return fmt.Errorf("remove project %d: %w", id, err)
		}
		if r.Logger != nil {
			r.Logger.Info("project removed", "project", id)
		}
		removed = append(removed, id)
	}

	pp := &printers.PrettyPrint{Out: r.Out, JSON: r.JSON}
	if r.JSON {
		pp.JSONValue(map[string]any{"removed": removed})
		return nil
	}
	for _, id := range removed {
		_, _ = fmt.Fprintf(pp.Out, "removed project %d\n", id)
	}
	return nil
}

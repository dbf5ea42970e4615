// Package replay runs a request script against a fresh service and prints the
// replies.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/engine"
	"tableflip.dev/anthem/pkg/printers"
	"tableflip.dev/anthem/pkg/script"
	"tableflip.dev/anthem/pkg/store"
)

type Replay struct {
	// Path is the script to run; "-" reads stdin.
	Path string
	// In overrides Path when set.
	In  io.Reader
	Out io.Writer

	JSON        bool
	ShowID      bool
	ShowHistory bool
	// Save writes the active project to the library once the script
	// finishes; SaveTo writes it to a file instead.
	Save   bool
	SaveTo string

	Persistence store.Persistence
	Engine      engine.Launcher
	Logger      *slog.Logger
}

func (r *Replay) Do(ctx context.Context) error {
	in, closer, err := r.input()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	s, err := script.Decode(in)
	if err != nil {
		return err
	}

	pp := &printers.PrettyPrint{Out: r.Out, ShowID: r.ShowID, JSON: r.JSON}
	svc := app.NewService(pp)
	svc.Persistence = r.Persistence
	svc.Logger = r.Logger
	if r.Engine != nil {
		svc.Engine = r.Engine
	}

	if !r.JSON {
		pp.Title(fmt.Sprintf("%d requests", len(s.Requests)))
	}
	if err := script.Run(ctx, svc, s); err != nil {
		return err
	}

	active := svc.Store.Active()
	if r.Save || r.SaveTo != "" {
		if active == 0 {
			return errors.New("replay: no active project to save")
		}
		if err := svc.Handle(ctx, uint64(len(s.Requests)+1), app.SaveProject{ProjectID: active, Path: r.SaveTo}); err != nil {
			return err
		}
	}

	if r.ShowHistory && !r.JSON && active != 0 {
		q, err := svc.Store.Queue(active)
		if err != nil {
			return err
		}
		p, err := svc.Store.Project(active)
		if err != nil {
			return err
		}
		pp.NewLine()
		pp.Title("history")
		pp.History(q.Entries(), q.Pointer())
		pp.Title(fmt.Sprintf("project %d", active))
		pp.Project(p)
	}
	return nil
}

func (r *Replay) input() (io.Reader, io.Closer, error) {
	if r.In != nil {
		return r.In, nil, nil
	}
	if r.Path == "" || r.Path == "-" {
		return os.Stdin, nil, nil
	}
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

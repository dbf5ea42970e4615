package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/anthem/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("ANTHEM_CONFIG_PATH"); override != "" {
		fmt.Fprintln(out, "ANTHEM_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Fprintln(out, "ANTHEM_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Config.path:      ", n.Config.BasePath())
	engine := n.Config.EnginePath()
	if engine == "" {
		engine = "(none)"
	}
	fmt.Fprintln(out, "Config.engine:    ", engine)
	fmt.Fprintln(out, "Config.log_level: ", n.Config.LogLevel())

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	summaries := n.Persistence.List(ctx)
	fmt.Fprintf(out, "Projects: %d\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(out, "  %d (%d patterns, %d notes)\n", s.ID, s.Patterns, s.Notes)
	}
	return nil
}

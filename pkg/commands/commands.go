package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tableflip.dev/anthem/pkg/commands/options"
	"tableflip.dev/anthem/pkg/engine"
	"tableflip.dev/anthem/pkg/store"
)

var (
	oo = &options.OutputOptions{}
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "anthem",
		Short: options.Wrap80("Edit songs with undoable, journaled commands."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addReplay(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addProjects(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// runtime is the configuration, library and logger every command starts
// from.
type runtime struct {
	config      store.Config
	persistence store.Persistence
	logger      *slog.Logger
}

func loadRuntime() (*runtime, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := lo.Logger(cfg.LogLevel())
	p, err := store.Load(cfg, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &runtime{
		config:      cfg,
		persistence: p,
		logger:      logger,
	}, nil
}

// engine returns the configured playback engine, or a no-op launcher.
func (r *runtime) engine() engine.Launcher {
	if r.config.EnginePath() == "" {
		return engine.Noop{}
	}
	return &engine.Process{Binary: r.config.EnginePath(), Logger: r.logger}
}

// stopEngine terminates engines started by l once a long-running command
// returns.
func (r *runtime) stopEngine(l engine.Launcher) {
	if err := engine.Stop(l); err != nil {
		r.logger.Warn("stop engine", "error", err)
	}
}

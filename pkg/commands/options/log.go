package options

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	Level string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "",
		"Log level: debug, info, warn or error. Defaults to the configured log_level.")
}

// Logger builds a text logger on stderr. The flag wins over fallback; an
// unparseable level falls back to warn.
func (o *LogOptions) Logger(fallback string) *slog.Logger {
	name := strings.TrimSpace(o.Level)
	if name == "" {
		name = fallback
	}
	level := slog.LevelWarn
	if name != "" {
		if err := level.UnmarshalText([]byte(name)); err != nil {
			level = slog.LevelWarn
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

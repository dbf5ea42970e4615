package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anthem/pkg/commands/options"
	"tableflip.dev/anthem/pkg/runner/replay"
)

func addReplay(topLevel *cobra.Command) {
	ro := &options.ReplayOptions{}
	ido := &options.IDOptions{}
	o := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a request script and print every reply.",
		Example: `
anthem replay song.yaml
anthem replay song.yaml --history --save
cat song.yaml | anthem replay - --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return o.HandleError(err)
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			r := replay.Replay{
				Path:        path,
				Out:         cmd.OutOrStdout(),
				JSON:        o.JSON,
				ShowID:      ido.ShowID,
				ShowHistory: ro.History,
				Save:        ro.Save,
				SaveTo:      ro.SaveTo,
				Persistence: rt.persistence,
				Engine:      rt.engine(),
				Logger:      rt.logger,
			}
			return o.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddReplayArgs(cmd, ro)
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, o)
	topLevel.AddCommand(cmd)
}

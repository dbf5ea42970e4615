package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anthem/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where projects are stored.",
		Example: `
anthem info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			s := info.Info{
				Config:      rt.config,
				Persistence: rt.persistence,
				Out:         cmd.OutOrStdout(),
			}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive editor",
		Example: `
anthem ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			svc := app.NewService(nil)
			svc.Persistence = rt.persistence
			launcher := rt.engine()
			defer rt.stopEngine(launcher)
			svc.Engine = launcher
			svc.Logger = rt.logger
			return ui.Run(cmd.Context(), svc)
		},
	}

	topLevel.AddCommand(cmd)
}

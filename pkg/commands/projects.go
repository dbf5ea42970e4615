package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/anthem/pkg/commands/options"
	"tableflip.dev/anthem/pkg/runner/projects"
)

func addProjects(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ls"},
		Short:   "List the projects saved in the library.",
		Example: `
anthem projects
anthem projects --watch
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return oo.HandleError(err)
			}
			p := projects.Projects{
				Persistence: rt.persistence,
				Out:         cmd.OutOrStdout(),
				JSON:        oo.JSON,
				Watch:       wo.Watch,
				Logger:      rt.logger,
			}
			return oo.HandleError(p.Do(cmd.Context()))
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddOutputArg(cmd, oo)
	addProjectsRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addProjectsRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete projects from the library.",
		Example: `
anthem projects rm 12
anthem projects rm 12 14 --json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ids, err := parseIDs(args)
			if err != nil {
				return oo.HandleError(err)
			}
			rt, err := loadRuntime()
			if err != nil {
				return oo.HandleError(err)
			}
			r := projects.Remove{
				Persistence: rt.persistence,
				IDs:         ids,
				Out:         cmd.OutOrStdout(),
				JSON:        oo.JSON,
				Logger:      rt.logger,
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func parseIDs(args []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid project id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package options

import (
	"github.com/spf13/cobra"
)

// ReplayOptions
type ReplayOptions struct {
	Save    bool
	SaveTo  string
	History bool
}

func AddReplayArgs(cmd *cobra.Command, o *ReplayOptions) {
	cmd.Flags().BoolVar(&o.Save, "save", false,
		"Save the active project to the library when the script finishes.")
	cmd.Flags().StringVarP(&o.SaveTo, "output-file", "f", "",
		"Save the active project to this file when the script finishes.")
	cmd.Flags().BoolVar(&o.History, "history", false,
		"Print the undo history and the final project.")
}

package flags

import (
	"github.com/spf13/cobra"
)

var debugFlag bool

func AddDebugFlag(cmd *cobra.Command) {
	usage := "If set, copies the game log to stderr."
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, usage)
	cmd.PersistentFlags().MarkHidden("debug")
}

func Debug() bool {
	return debugFlag
}

package flags

import (
	"github.com/spf13/cobra"
)

var logFile string

func AddLogFile(cmd *cobra.Command) {
	usage := "File the game log is appended to. Defaults to the log_file setting."
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", usage)
}

func LogFile() string {
	return logFile
}

package flags

import (
	"github.com/spf13/cobra"
)

var configPath string

func AddConfigPath(cmd *cobra.Command) {
	usage := "Path to the directory holding settings.json."
	cmd.PersistentFlags().StringVar(&configPath, "config-path", "", usage)
}

func ConfigPath() string {
	return configPath
}

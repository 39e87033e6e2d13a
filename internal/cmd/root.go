package cmd

import (
	_ "embed"
	"os"

	"github.com/spf13/cobra"
	"github.com/tursodatabase/tursotris/internal/flags"
)

//go:generate sh -c "printf %s $(git describe --tags --always 2>/dev/null || echo dev) > version.txt"
//go:embed version.txt
var version string

var rootCmd = &cobra.Command{
	Use:     "tursotris",
	Version: version,
	Long:    "Tursotris falling block puzzle engine",
}

func init() {
	flags.AddConfigPath(rootCmd)
	flags.AddLogFile(rootCmd)
	flags.AddDebugFlag(rootCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tursodatabase/tursotris/internal"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage your CLI configuration",
}

var configSetCmd = &cobra.Command{
	Use:               "set {key} {value}",
	Short:             "Set a configuration value",
	Example:           "tursotris config set game.width 12",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: settingKeysArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		settings, err := readSettings()
		if err != nil {
			return err
		}
		if err := settings.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("could not set %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), args[0], "is now", internal.Emph(settings.Get(args[0])))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:               "show",
	Short:             "Show the effective configuration, environment overrides included",
	Args:              cobra.NoArgs,
	ValidArgsFunction: noFilesArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		settings, err := readSettings()
		if err != nil {
			return err
		}
		data := [][]string{}
		for _, key := range settings.Keys() {
			data = append(data, []string{key, settings.Get(key)})
		}
		printTable(cmd.OutOrStdout(), []string{"Key", "Value"}, data)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:               "path",
	Short:             "Print the settings file location",
	Args:              cobra.NoArgs,
	ValidArgsFunction: noFilesArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		settings, err := readSettings()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), settings.Path())
		return nil
	},
}

package cmd

import (
	"github.com/spf13/cobra"
)

func noFilesArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{}, cobra.ShellCompDirectiveNoFileComp
}

func settingKeysArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := readSettings()
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return s.Keys(), cobra.ShellCompDirectiveNoFileComp
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tursodatabase/tursotris/internal"
	"github.com/tursodatabase/tursotris/internal/tetris"
)

func init() {
	rootCmd.AddCommand(piecesCmd)
}

var piecesCmd = &cobra.Command{
	Use:               "pieces",
	Short:             "List the pieces of the catalog.",
	Args:              cobra.NoArgs,
	ValidArgsFunction: noFilesArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		catalog, err := tetris.NewCatalog(tetris.Tetrominoes, 1)
		if err != nil {
			return err
		}

		data := [][]string{}
		for _, id := range catalog.IDs() {
			shape, err := catalog.Shape(id)
			if err != nil {
				return err
			}
			data = append(data, []string{
				fmt.Sprint(int(id)),
				internal.Piece(int(id), shape.Name),
				fmt.Sprint(len(shape.Orientations)),
				formatCells(shape.Orientations[0]),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Orientations", "Cells"}, data)
		return nil
	},
}

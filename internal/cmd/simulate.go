package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tursodatabase/tursotris/internal/autoplay"
	"github.com/tursodatabase/tursotris/internal/flags"
	"github.com/tursodatabase/tursotris/internal/tetris"
)

var simulateMoves int

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVar(&simulateMoves, "moves", 10000, "Number of random moves to play.")
	flags.AddSeed(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:               "simulate",
	Short:             "Play random moves on an unthreaded engine and print a report.",
	Example:           "tursotris simulate --moves 5000 --seed 42",
	Args:              cobra.NoArgs,
	ValidArgsFunction: noFilesArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if simulateMoves < 0 {
			return fmt.Errorf("--moves must not be negative")
		}

		s, err := readSettings()
		if err != nil {
			return err
		}
		cfg, err := gameConfig(s)
		if err != nil {
			return err
		}
		closeLog, err := setupLogging(s)
		if err != nil {
			return err
		}
		defer closeLog()

		engine, err := tetris.NewEngineFromConfig(cfg)
		if err != nil {
			return err
		}
		ranking := tetris.NewRanking()
		stopTracking := ranking.Track(engine)
		defer stopTracking()

		start := time.Now()
		sent, err := autoplay.New(playerSeed(cfg)).Drive(cmd.Context(), engine, simulateMoves)
		if err != nil {
			return err
		}
		snapshot := engine.Snapshot()
		ranking.InsertScore(finalEntry(snapshot))

		printReport(cmd.OutOrStdout(), report{
			name:     runName(),
			elapsed:  time.Since(start),
			moves:    sent,
			snapshot: snapshot,
			catalog:  engine.Catalog(),
			ranking:  ranking.Entries(),
		})
		return nil
	},
}

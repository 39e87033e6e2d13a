package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tursodatabase/tursotris/internal"
	"github.com/tursodatabase/tursotris/internal/flags"
	"github.com/tursodatabase/tursotris/internal/server"
	"github.com/tursodatabase/tursotris/internal/tetris"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on. Defaults to the server.addr setting.")
	flags.AddSeed(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:               "serve",
	Short:             "Run a threaded game and expose it over HTTP until interrupted.",
	Example:           "tursotris serve --addr localhost:9000",
	Args:              cobra.NoArgs,
	ValidArgsFunction: noFilesArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
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

		addr := serveAddr
		if addr == "" {
			addr = s.ServerAddr()
		}

		engine, err := tetris.NewEngineFromConfig(cfg)
		if err != nil {
			return err
		}
		scheduler, err := tetris.NewScheduler(engine, cfg)
		if err != nil {
			return err
		}
		ranking := tetris.NewRanking()
		ranking.Track(scheduler)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		scheduler.Start()
		defer func() {
			scheduler.Stop()
			<-scheduler.Done()
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "Serving game %s on %s\n", internal.Emph(engine.SessionID()), internal.Emph(addr))
		if err := server.New(scheduler, engine.Catalog(), ranking).Run(ctx, addr); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Final score %s\n", internal.Emph(scheduler.Score()))
		return nil
	},
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tursodatabase/tursotris/internal/autoplay"
	"github.com/tursodatabase/tursotris/internal/flags"
	"github.com/tursodatabase/tursotris/internal/prompt/spinner"
	"github.com/tursodatabase/tursotris/internal/tetris"
	"golang.org/x/sync/errgroup"
)

var runDuration time.Duration

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVar(&runDuration, "duration", 30*time.Second, "How long the autoplayer holds keys.")
	flags.AddSeed(runCmd)
}

// statusLine is the live status shown while a game runs
type statusLine interface {
	Text(t string)
	Stop()
}

type noStatus struct{}

func (noStatus) Text(string) {}
func (noStatus) Stop()       {}

func startStatus(text string) statusLine {
	if s := spinner.Start(text); s != nil {
		return s
	}
	return noStatus{}
}

var runCmd = &cobra.Command{
	Use:               "run",
	Short:             "Run a threaded game with an autoplayer holding keys, then print a report.",
	Example:           "tursotris run --duration 1m",
	Args:              cobra.NoArgs,
	ValidArgsFunction: noFilesArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if runDuration <= 0 {
			return fmt.Errorf("--duration must be positive")
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, runDuration)
		defer cancel()

		status := startStatus("Starting game...")
		r, err := runGame(ctx, cfg, autoplay.New(playerSeed(cfg)), s.AutoplayHold(), s.AutoplayGap(), status)
		status.Stop()
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), r)
		return nil
	},
}

// runGame plays a scheduled game driven through an input coalescer until ctx is done
func runGame(ctx context.Context, cfg tetris.Config, player *autoplay.Player, hold time.Duration, gap time.Duration, status statusLine) (report, error) {
	engine, err := tetris.NewEngineFromConfig(cfg)
	if err != nil {
		return report{}, err
	}
	scheduler, err := tetris.NewScheduler(engine, cfg)
	if err != nil {
		return report{}, err
	}
	coalescer, err := tetris.NewInputCoalescer(scheduler, cfg.InputPoll, cfg.InputInterval)
	if err != nil {
		return report{}, err
	}
	ranking := tetris.NewRanking()
	ranking.Track(scheduler)
	scheduler.Subscribe(func(event tetris.Event) {
		if event.Type == tetris.EventPieceMoved {
			return
		}
		status.Text(fmt.Sprintf("score %s  level %d  lines %s",
			humanize.Comma(int64(event.Score)), event.Level, humanize.Comma(int64(event.TotalLines))))
	})

	start := time.Now()
	scheduler.Start()
	coalescer.Start()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := player.Hold(ctx, coalescer, hold, gap)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		coalescer.Stop()
		<-coalescer.Done()
		scheduler.Stop()
		<-scheduler.Done()
		return nil
	})
	if err := g.Wait(); err != nil {
		return report{}, err
	}

	stats := scheduler.Stats()
	snapshot := scheduler.Snapshot()
	ranking.InsertScore(finalEntry(snapshot))
	return report{
		name:     runName(),
		elapsed:  time.Since(start),
		moves:    int(stats.MovesApplied),
		snapshot: snapshot,
		catalog:  engine.Catalog(),
		ranking:  ranking.Entries(),
		stats:    &stats,
	}, nil
}

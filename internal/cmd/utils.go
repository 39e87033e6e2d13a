package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/athoscouto/codename"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rodaine/table"
	"github.com/tursodatabase/tursotris/internal"
	"github.com/tursodatabase/tursotris/internal/flags"
	"github.com/tursodatabase/tursotris/internal/settings"
	"github.com/tursodatabase/tursotris/internal/tetris"
)

func readSettings() (*settings.Settings, error) {
	s, err := settings.ReadSettings(flags.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return s, nil
}

// gameConfig returns the configured game, with the seed flag taking precedence
func gameConfig(s *settings.Settings) (tetris.Config, error) {
	cfg, err := s.Game()
	if err != nil {
		return cfg, fmt.Errorf("invalid game settings in %s: %w", s.Path(), err)
	}
	if flags.Seed() != 0 {
		cfg.Seed = flags.Seed()
	}
	return cfg, nil
}

func playerSeed(cfg tetris.Config) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// setupLogging points the game log at the log file and returns its closer
func setupLogging(s *settings.Settings) (func(), error) {
	path := flags.LogFile()
	if path == "" {
		path = s.LogFile()
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", path, err)
	}
	var out io.Writer = file
	if flags.Debug() {
		out = io.MultiWriter(file, os.Stderr)
	}
	tetris.SetLogger(log.New(out, "", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile))
	return func() {
		tetris.SetLogger(nil)
		file.Close()
	}, nil
}

func runName() string {
	rng, err := codename.DefaultRNG()
	if err != nil {
		return "run"
	}
	return codename.Generate(rng, 0)
}

func printTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)

	table.SetHeader(header)
	table.SetHeaderLine(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(true)

	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("  ")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("     ")

	table.AppendBulk(data)

	table.Render()
}

func formatCells(cells tetris.Orientation) string {
	parts := make([]string, len(cells))
	for i, p := range cells {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// report is the summary printed after a game
type report struct {
	name     string
	elapsed  time.Duration
	moves    int
	snapshot tetris.Snapshot
	catalog  *tetris.Catalog
	ranking  []tetris.RankingEntry
	stats    *tetris.SchedulerStats
}

// finalEntry is the ranking entry of the session still running when a game ends
func finalEntry(snapshot tetris.Snapshot) tetris.RankingEntry {
	return tetris.RankingEntry{
		SessionID: snapshot.SessionID,
		Score:     snapshot.Score,
		Level:     snapshot.Level,
		Lines:     snapshot.TotalLines,
		At:        time.Now(),
	}
}

func newTable(w io.Writer, columns ...interface{}) table.Table {
	columnFmt := color.New(color.FgBlue, color.Bold).SprintfFunc()
	return table.New(columns...).WithWriter(w).WithFirstColumnFormatter(columnFmt)
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "Run %s finished in %s.\n\n", internal.Emph(r.name), r.elapsed.Round(time.Millisecond))

	stats := newTable(w, "STAT", "VALUE")
	stats.AddRow("score", humanize.Comma(int64(r.snapshot.Score)))
	stats.AddRow("level", r.snapshot.Level)
	stats.AddRow("lines", humanize.Comma(int64(r.snapshot.TotalLines)))
	stats.AddRow("moves", humanize.Comma(int64(r.moves)))
	if r.stats != nil {
		stats.AddRow("ticks", humanize.Comma(r.stats.Ticks))
		stats.AddRow("moves applied", humanize.Comma(r.stats.MovesApplied))
		stats.AddRow("gravity drops", humanize.Comma(r.stats.AutoDrops))
		stats.AddRow("tick avg/max", fmt.Sprintf("%s / %s", r.stats.AvgTick, r.stats.MaxTick))
		stats.AddRow("fall interval", r.stats.FallInterval)
	}
	stats.Print()
	fmt.Fprintln(w)

	drops := newTable(w, "PIECE", "DROPPED")
	for _, id := range r.catalog.IDs() {
		count := 0
		if int(id) < len(r.snapshot.DropCounts) {
			count = r.snapshot.DropCounts[id]
		}
		drops.AddRow(internal.Piece(int(id), r.catalog.Name(id)), count)
	}
	drops.Print()

	if len(r.ranking) == 0 {
		return
	}
	fmt.Fprintln(w)
	ranks := newTable(w, "RANK", "SCORE", "LEVEL", "LINES", "SESSION", "WHEN")
	for i, entry := range r.ranking {
		ranks.AddRow(i+1, humanize.Comma(int64(entry.Score)), entry.Level, entry.Lines, entry.SessionID, humanize.Time(entry.At))
	}
	ranks.Print()
}

package tetris

import (
	"errors"
	"io"
	"log"
)

const (
	// CellEmpty is an unoccupied cell
	CellEmpty Cell = -1
	// CellCleared marks a completed row waiting to be removed
	CellCleared Cell = -2

	minHiddenRows         = 2
	initialLinesToLevelUp = 10
	minLinesPerLevel      = 50
	linesPerLevelFactor   = 10
	hardDropPointsPerRow  = 5
	rankingSize           = 9
)

var (
	// ErrUnknownPiece is returned when a piece id is not in the catalog
	ErrUnknownPiece = errors.New("unknown piece")
	// ErrInvalidCatalog is returned when a shape table fails validation
	ErrInvalidCatalog = errors.New("invalid piece catalog")
	// ErrAlreadyThreaded is returned when wrapping a game that already runs its own loop
	ErrAlreadyThreaded = errors.New("game is already threaded")
	// ErrInvalidConfig is returned for unusable configuration values
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownMove is returned when parsing an unrecognized move name
	ErrUnknownMove = errors.New("unknown move")

	// scoreTable is indexed by cleared line count - 1
	scoreTable = [...]int{40, 100, 300, 1200}

	logger = log.New(io.Discard, "", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
)

// SetLogger replaces the package logger. Call before starting any game.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// lineScore returns the base points for clearing count lines at once
func lineScore(count int) int {
	if count < 1 {
		return 0
	}
	if count > len(scoreTable) {
		count = len(scoreTable)
	}
	return scoreTable[count-1]
}

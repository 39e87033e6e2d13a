// Modified and adapted from github.com/MichaelS11/go-tetris.git
// Under MIT.

// Package tetris is a falling block puzzle engine: the board state machine, the piece
// catalog, a fixed tick scheduler and an input coalescer. It draws nothing; presentation
// layers read snapshots and subscribe to events.
package tetris

// Mover accepts moves
type Mover interface {
	DoMove(move Move)
}

// Game is the contract shared by the engine and its threaded wrapper
type Game interface {
	Mover
	NextPiece() Piece
	CurrentAnchor() Point
	Score() int
	Level() int
	TotalLines() int
	CellAt(x int, y int) Cell
	PieceDropCount(id PieceID) int
	Snapshot() Snapshot
	Subscribe(handler Handler) func()
}

// Threaded is a Game that advances on its own goroutine
type Threaded interface {
	Game
	Start()
	Stop()
	Pause()
	Resume()
	IsPaused() bool
}

package tetris

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Engine is the single threaded game state machine. Every method must be called
// from one goroutine; use a Scheduler to drive it concurrently.
type Engine struct {
	catalog *Catalog
	board   *Board
	spawn   Point

	current Piece
	next    Piece
	anchor  Point
	placed  bool

	score          int
	level          int
	linesToLevelUp int
	totalLines     int
	dropCounts     []int
	pendingLines   []int
	sessionID      string

	events router
}

// NewEngine creates an engine with a width x height visible field.
// A nil catalog uses the tetrominoes with a time based seed.
func NewEngine(width int, height int, catalog *Catalog) (*Engine, error) {
	if width < 4 || height < 4 {
		return nil, fmt.Errorf("%w: board %dx%d is smaller than 4x4", ErrInvalidConfig, width, height)
	}
	if catalog == nil {
		var err error
		catalog, err = NewCatalog(Tetrominoes, 0)
		if err != nil {
			return nil, err
		}
	}
	hidden := max(minHiddenRows, catalog.MaxExtent(), 1-catalog.TopOffset())
	engine := &Engine{
		catalog: catalog,
		board:   NewBoard(width, height, hidden),
		spawn:   Point{X: width / 2, Y: -1},
	}
	engine.reset()
	return engine, nil
}

// NewEngineFromConfig creates an engine sized and seeded by cfg
func NewEngineFromConfig(cfg Config) (*Engine, error) {
	catalog, err := NewCatalog(Tetrominoes, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return NewEngine(cfg.Width, cfg.Height, catalog)
}

// reset starts a new session: empty grid, zeroed counters and two fresh pieces
func (engine *Engine) reset() {
	engine.board.Clear()
	engine.score = 0
	engine.level = 0
	engine.linesToLevelUp = initialLinesToLevelUp
	engine.totalLines = 0
	engine.dropCounts = make([]int, engine.catalog.Count())
	engine.pendingLines = nil
	engine.anchor = engine.spawn
	engine.placed = false
	engine.current = engine.catalog.MustGet(engine.catalog.Draw())
	engine.next = engine.catalog.MustGet(engine.catalog.Draw())
	engine.sessionID = uuid.NewString()
	logger.Printf("Engine session %s start", engine.sessionID)
}

// Subscribe registers handler for every event and returns a cancel function
func (engine *Engine) Subscribe(handler Handler) func() {
	return engine.events.subscribe(handler)
}

func (engine *Engine) emit(event Event) {
	event.SessionID = engine.sessionID
	event.Score = engine.score
	event.Level = engine.level
	event.TotalLines = engine.totalLines
	engine.events.dispatch(event)
}

// DoMove applies move immediately
func (engine *Engine) DoMove(move Move) {
	switch move {
	case MoveLeft:
		engine.MoveLeft()
	case MoveRight:
		engine.MoveRight()
	case MoveRotateLeft:
		engine.Rotate(RotateLeftDir)
	case MoveRotateRight:
		engine.Rotate(RotateRightDir)
	case MoveSoftDrop:
		engine.SoftDrop()
	case MoveHardDrop:
		engine.HardDrop()
	}
}

// canManipulate is false while the anchor is still in the spawn buffer
func (engine *Engine) canManipulate() bool {
	return engine.anchor.Y >= 0
}

func (engine *Engine) collides() bool {
	return engine.board.collides(engine.current.Cells(), engine.anchor)
}

// erase lifts the current piece off the grid
func (engine *Engine) erase() {
	if !engine.placed {
		return
	}
	engine.board.stamp(engine.current.Cells(), engine.anchor, CellEmpty)
	engine.placed = false
}

// place writes the current piece into the grid at its anchor
func (engine *Engine) place() {
	engine.board.stamp(engine.current.Cells(), engine.anchor, Cell(engine.current.id))
	engine.placed = true
}

// MoveLeft shifts the current piece one column left
func (engine *Engine) MoveLeft() {
	engine.moveHorizontal(-1)
}

// MoveRight shifts the current piece one column right
func (engine *Engine) MoveRight() {
	engine.moveHorizontal(1)
}

func (engine *Engine) moveHorizontal(dx int) {
	if !engine.canManipulate() {
		return
	}
	engine.erase()
	before := engine.anchor
	engine.anchor.X += dx
	if engine.collides() {
		engine.anchor = before
	}
	engine.place()
	if engine.anchor != before {
		engine.emit(Event{Type: EventPieceMoved})
	}
}

// Rotate turns the current piece one step. A blocked rotation is retried one
// column right, then one column left, before it is abandoned.
func (engine *Engine) Rotate(dir RotationDir) {
	if !engine.canManipulate() {
		return
	}
	engine.erase()
	rotated := true
	engine.current.ring.Rotate(dir)
	if engine.collides() {
		engine.anchor.X++
	}
	if engine.collides() {
		engine.anchor.X -= 2
	}
	if engine.collides() {
		engine.anchor.X++
		engine.current.ring.Revert()
		rotated = false
	}
	engine.place()
	if rotated {
		engine.emit(Event{Type: EventPieceMoved})
	}
}

// SoftDrop advances the current piece one row, landing it when blocked
func (engine *Engine) SoftDrop() {
	engine.flushClearedLines()
	engine.erase()
	engine.anchor.Y++
	if engine.collides() {
		engine.anchor.Y--
		engine.land()
		return
	}
	engine.place()
	engine.emit(Event{Type: EventPieceMoved})
}

// HardDrop drops the current piece to rest, scoring 5 points per row fallen
func (engine *Engine) HardDrop() {
	engine.flushClearedLines()
	engine.erase()
	start := engine.anchor.Y
	for {
		engine.anchor.Y++
		if engine.collides() {
			break
		}
	}
	engine.anchor.Y--
	engine.score += (engine.anchor.Y - start) * hardDropPointsPerRow
	engine.land()
}

// flushClearedLines removes the rows completed by the previous landing
func (engine *Engine) flushClearedLines() {
	if len(engine.pendingLines) == 0 {
		return
	}
	engine.board.eraseCleared()
	engine.board.deleteLines(engine.pendingLines)
	engine.pendingLines = nil
	engine.emit(Event{Type: EventRedraw})
}

// land fixes the current piece in place, scores completed rows, checks for a loss and
// brings in the next piece
func (engine *Engine) land() {
	engine.place()

	lines := engine.board.markFullLines()
	if len(lines) > 0 {
		slices.Sort(lines)
		engine.pendingLines = lines
		engine.addLines(len(lines))
	}

	if engine.board.hiddenOccupied() {
		logger.Printf("Engine session %s lost: score %d level %d lines %d",
			engine.sessionID, engine.score, engine.level, engine.totalLines)
		engine.emit(Event{Type: EventLoss})
		engine.reset()
		return
	}

	engine.dropCounts[engine.current.id]++
	engine.current = engine.next
	engine.anchor = engine.spawn
	engine.placed = false
	engine.next = engine.catalog.MustGet(engine.catalog.Draw())

	engine.emit(Event{Type: EventPieceDropped, Piece: engine.current.id})
	if len(lines) > 0 {
		engine.emit(Event{Type: EventLinesCleared, Rows: slices.Clone(lines)})
	}
}

// addLines adds cleared lines to score and level
func (engine *Engine) addLines(count int) {
	engine.totalLines += count
	engine.score += lineScore(count) * (engine.level + 1)
	engine.linesToLevelUp -= count
	if engine.linesToLevelUp < 1 {
		engine.level++
		leftover := engine.linesToLevelUp
		engine.linesToLevelUp = max(minLinesPerLevel, (engine.level+1)*linesPerLevelFactor) + leftover
		logger.Printf("Engine session %s level %d, %d lines to next level",
			engine.sessionID, engine.level, engine.linesToLevelUp)
	}
}

// Catalog returns the piece catalog
func (engine *Engine) Catalog() *Catalog {
	return engine.catalog
}

// NextPiece returns the piece that spawns after the current one
func (engine *Engine) NextPiece() Piece {
	return engine.next
}

// CurrentPiece returns the falling piece
func (engine *Engine) CurrentPiece() Piece {
	return engine.current
}

// CurrentAnchor returns the anchor of the falling piece
func (engine *Engine) CurrentAnchor() Point {
	return engine.anchor
}

// Score returns the session score
func (engine *Engine) Score() int {
	return engine.score
}

// Level returns the session level
func (engine *Engine) Level() int {
	return engine.level
}

// TotalLines returns the number of rows cleared this session
func (engine *Engine) TotalLines() int {
	return engine.totalLines
}

// LinesToLevelUp returns the rows still needed for the next level
func (engine *Engine) LinesToLevelUp() int {
	return engine.linesToLevelUp
}

// CellAt returns the cell at x, y; negative y reads the buffer rows
func (engine *Engine) CellAt(x int, y int) Cell {
	return engine.board.At(x, y)
}

// PieceDropCount returns how many pieces of id landed this session
func (engine *Engine) PieceDropCount(id PieceID) int {
	if !engine.catalog.Exists(id) {
		return 0
	}
	return engine.dropCounts[id]
}

// Width returns the number of columns
func (engine *Engine) Width() int {
	return engine.board.Width()
}

// Height returns the number of visible rows
func (engine *Engine) Height() int {
	return engine.board.Height()
}

// HiddenRows returns the size of the buffer above the visible field
func (engine *Engine) HiddenRows() int {
	return engine.board.HiddenRows()
}

// SessionID identifies the current session; it changes on every reset
func (engine *Engine) SessionID() string {
	return engine.sessionID
}

// Snapshot copies the observable state
func (engine *Engine) Snapshot() Snapshot {
	cells := engine.current.Cells()
	absolute := make([]Point, len(cells))
	for i, offset := range cells {
		absolute[i] = engine.anchor.Add(offset)
	}
	return Snapshot{
		SessionID:      engine.sessionID,
		Width:          engine.board.Width(),
		Height:         engine.board.Height(),
		HiddenRows:     engine.board.HiddenRows(),
		Cells:          engine.board.cells(),
		Current:        engine.current.id,
		Anchor:         engine.anchor,
		CurrentCells:   absolute,
		Next:           engine.next.id,
		Score:          engine.score,
		Level:          engine.level,
		TotalLines:     engine.totalLines,
		LinesToLevelUp: engine.linesToLevelUp,
		DropCounts:     slices.Clone(engine.dropCounts),
		PendingLines:   slices.Clone(engine.pendingLines),
	}
}

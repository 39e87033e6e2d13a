package tetris

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, width int, height int) *Engine {
	t.Helper()
	catalog, err := NewCatalog(Tetrominoes, 7)
	require.NoError(t, err)
	engine, err := NewEngine(width, height, catalog)
	require.NoError(t, err)
	return engine
}

// setCurrent replaces the falling piece with a fresh id at the spawn point
func setCurrent(engine *Engine, id PieceID) {
	engine.erase()
	engine.current = engine.catalog.MustGet(id)
	engine.anchor = engine.spawn
	engine.placed = false
}

// fillRow puts O blocks in every column of row y except the skipped ones
func fillRow(engine *Engine, y int, skip ...int) {
	for x := 0; x < engine.Width(); x++ {
		skipped := false
		for _, s := range skip {
			skipped = skipped || s == x
		}
		if !skipped {
			engine.board.set(x, y, Cell(PieceO))
		}
	}
}

type eventLog struct {
	events []Event
}

func (l *eventLog) record(event Event) {
	l.events = append(l.events, event)
}

func (l *eventLog) count(eventType EventType) int {
	n := 0
	for _, event := range l.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

func (l *eventLog) last(eventType EventType) (Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Type == eventType {
			return l.events[i], true
		}
	}
	return Event{}, false
}

func watch(engine *Engine) *eventLog {
	log := &eventLog{}
	engine.Subscribe(log.record)
	return log
}

// softDropToRest advances the current piece until it lands
func softDropToRest(t *testing.T, engine *Engine, log *eventLog) {
	t.Helper()
	dropped := log.count(EventPieceDropped) + log.count(EventLoss)
	for i := 0; i < engine.Height()+engine.HiddenRows()+1; i++ {
		engine.SoftDrop()
		if log.count(EventPieceDropped)+log.count(EventLoss) > dropped {
			return
		}
	}
	t.Fatal("piece never landed")
}

func TestNewEngine(t *testing.T) {
	engine := newTestEngine(t, 10, 20)

	require.Equal(t, 0, engine.Score())
	require.Equal(t, 0, engine.Level())
	require.Equal(t, 0, engine.TotalLines())
	require.Equal(t, 10, engine.LinesToLevelUp())
	require.Equal(t, 4, engine.HiddenRows())
	require.Equal(t, Point{X: 5, Y: -1}, engine.CurrentAnchor())
	require.NotEmpty(t, engine.SessionID())
	for y := -engine.HiddenRows(); y < engine.Height(); y++ {
		for x := 0; x < engine.Width(); x++ {
			require.Equal(t, CellEmpty, engine.CellAt(x, y))
		}
	}
}

func TestNewEngineRejectsTinyBoard(t *testing.T) {
	_, err := NewEngine(3, 20, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestManipulationGuard(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	setCurrent(engine, PieceT)

	engine.MoveLeft()
	engine.MoveRight()
	engine.Rotate(RotateRightDir)

	require.Equal(t, Point{X: 5, Y: -1}, engine.CurrentAnchor())
	require.Empty(t, log.events)

	engine.SoftDrop()
	require.Equal(t, Point{X: 5, Y: 0}, engine.CurrentAnchor())
	require.Equal(t, 1, log.count(EventPieceMoved))

	engine.MoveLeft()
	require.Equal(t, Point{X: 4, Y: 0}, engine.CurrentAnchor())
	require.Equal(t, 2, log.count(EventPieceMoved))
}

func TestSoftDropStampsPiece(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceO)

	engine.SoftDrop()
	engine.SoftDrop()

	// O occupies (-1,-1) (-1,0) (0,0) (0,-1) around anchor (5,1)
	for _, p := range []Point{{4, 0}, {4, 1}, {5, 1}, {5, 0}} {
		require.Equal(t, Cell(PieceO), engine.CellAt(p.X, p.Y), "cell %v", p)
	}
	require.Equal(t, CellEmpty, engine.CellAt(5, -1))
}

func TestBlockedHorizontalMoveIsIdentity(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceO)
	engine.SoftDrop()
	for i := 0; i < 10; i++ {
		engine.MoveLeft()
	}
	require.Equal(t, 1, engine.CurrentAnchor().X)

	log := watch(engine)
	before := engine.Snapshot()
	engine.MoveLeft()
	after := engine.Snapshot()

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("blocked move changed state (-before +after):\n%s", diff)
	}
	require.Empty(t, log.events)
}

func TestBlockedByStack(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceO)
	engine.SoftDrop()
	engine.board.set(6, 0, Cell(PieceJ))

	log := watch(engine)
	engine.MoveRight()

	require.Equal(t, Point{X: 5, Y: 0}, engine.CurrentAnchor())
	require.Zero(t, log.count(EventPieceMoved))
	require.Equal(t, Cell(PieceJ), engine.CellAt(6, 0))
}

func TestRotationRoundTrip(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceT)
	for i := 0; i < 5; i++ {
		engine.SoftDrop()
	}
	before := engine.Snapshot()
	log := watch(engine)

	for i := 0; i < 4; i++ {
		engine.Rotate(RotateRightDir)
	}

	if diff := cmp.Diff(before, engine.Snapshot()); diff != "" {
		t.Errorf("four rotations changed state (-before +after):\n%s", diff)
	}
	require.Equal(t, 4, log.count(EventPieceMoved))
}

func TestRotationWallKick(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveLeft()
	}
	require.Equal(t, Point{X: 1, Y: 0}, engine.CurrentAnchor())

	log := watch(engine)
	// horizontal at x=1 spans -1..2, so the kick to the right lands it at 0..3
	engine.Rotate(RotateLeftDir)

	require.Equal(t, Point{X: 2, Y: 0}, engine.CurrentAnchor())
	require.Equal(t, 1, log.count(EventPieceMoved))
	for x := 0; x < 4; x++ {
		require.Equal(t, Cell(PieceI), engine.CellAt(x, 0))
	}
}

func TestRotationWallKickLeft(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveRight()
	}
	require.Equal(t, Point{X: 9, Y: 0}, engine.CurrentAnchor())

	// x=9 spans 7..10 and x=10 spans 8..11, the net left kick spans 6..9
	engine.Rotate(RotateLeftDir)

	require.Equal(t, Point{X: 8, Y: 0}, engine.CurrentAnchor())
}

func TestRotationFailsAfterBothKicks(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveLeft()
	}
	engine.board.set(3, 0, Cell(PieceZ))

	log := watch(engine)
	before := engine.Snapshot()
	engine.Rotate(RotateLeftDir)

	if diff := cmp.Diff(before, engine.Snapshot()); diff != "" {
		t.Errorf("failed rotation changed state (-before +after):\n%s", diff)
	}
	require.Empty(t, log.events)

	// the ring was reverted, so the same turn works once the column is free
	engine.board.set(3, 0, CellEmpty)
	engine.Rotate(RotateLeftDir)
	require.Equal(t, Point{X: 2, Y: 0}, engine.CurrentAnchor())
}

func TestSingleLineClearScenario(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	fillRow(engine, 19, 5, 6, 7, 8, 9)

	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.MoveRight()
	engine.MoveRight()
	softDropToRest(t, engine, log)
	require.Zero(t, log.count(EventLinesCleared))
	for x := 5; x < 9; x++ {
		require.Equal(t, Cell(PieceI), engine.CellAt(x, 19))
	}

	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveRight()
	}
	softDropToRest(t, engine, log)

	cleared, ok := log.last(EventLinesCleared)
	require.True(t, ok)
	require.Equal(t, []int{19}, cleared.Rows)
	require.Equal(t, 40, engine.Score())
	require.Equal(t, 1, engine.TotalLines())
	require.Equal(t, 9, engine.LinesToLevelUp())
	require.Equal(t, 2, engine.PieceDropCount(PieceI))
}

func TestLineClearIsLazy(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	fillRow(engine, 19, 9)
	fillRow(engine, 18, 0, 9)

	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveRight()
	}
	softDropToRest(t, engine, log)

	// the landing only marks the row
	for x := 0; x < 10; x++ {
		require.Equal(t, CellCleared, engine.CellAt(x, 19))
	}
	require.Equal(t, CellEmpty, engine.CellAt(0, 18))
	require.Equal(t, Cell(PieceI), engine.CellAt(9, 16))
	require.Equal(t, []int{19}, engine.Snapshot().PendingLines)
	require.Zero(t, log.count(EventRedraw))

	engine.SoftDrop()

	// row 18 moved into 19 and the I column shifted down by one
	require.Equal(t, CellEmpty, engine.CellAt(0, 19))
	for x := 1; x < 10; x++ {
		require.NotEqual(t, CellCleared, engine.CellAt(x, 19))
		require.True(t, engine.CellAt(x, 19).IsBlock())
	}
	require.Equal(t, CellEmpty, engine.CellAt(9, 16))
	require.Equal(t, Cell(PieceI), engine.CellAt(9, 17))
	require.Empty(t, engine.Snapshot().PendingLines)
	require.Equal(t, 1, log.count(EventRedraw))
}

func TestTetrisScoresAtLevel(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	for y := 16; y < 20; y++ {
		fillRow(engine, y, 9)
	}
	engine.level = 2

	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveRight()
	}
	softDropToRest(t, engine, log)

	cleared, ok := log.last(EventLinesCleared)
	require.True(t, ok)
	require.Equal(t, []int{16, 17, 18, 19}, cleared.Rows)
	require.Equal(t, 1200*3, engine.Score())

	engine.SoftDrop()
	for y := 16; y < 20; y++ {
		for x := 0; x < 10; x++ {
			require.Equal(t, CellEmpty, engine.CellAt(x, y))
		}
	}
}

func TestLineScores(t *testing.T) {
	for _, tt := range []struct {
		lines int
		level int
		want  int
	}{
		{1, 0, 40},
		{2, 0, 100},
		{3, 0, 300},
		{4, 0, 1200},
		{1, 3, 160},
		{2, 1, 200},
		{3, 4, 1500},
		{4, 9, 12000},
	} {
		engine := newTestEngine(t, 10, 20)
		engine.level = tt.level
		engine.linesToLevelUp = 100
		engine.addLines(tt.lines)
		require.Equal(t, tt.want, engine.Score(), "%d lines at level %d", tt.lines, tt.level)
	}
}

func TestLevelUpCarriesShortfall(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	engine.linesToLevelUp = 1

	engine.addLines(3)

	require.Equal(t, 1, engine.Level())
	require.Equal(t, 50-2, engine.LinesToLevelUp())

	engine.level = 5
	engine.linesToLevelUp = 2
	engine.addLines(4)
	require.Equal(t, 6, engine.Level())
	require.Equal(t, 70-2, engine.LinesToLevelUp())
}

func TestHardDropFromSpawn(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	setCurrent(engine, PieceI)
	engine.current.ring.Rotate(RotateRightDir)

	engine.HardDrop()

	for y := 16; y < 20; y++ {
		require.Equal(t, Cell(PieceI), engine.CellAt(5, y))
	}
	require.Equal(t, 19*hardDropPointsPerRow, engine.Score())
	require.Equal(t, 1, engine.PieceDropCount(PieceI))
	dropped, ok := log.last(EventPieceDropped)
	require.True(t, ok)
	require.Equal(t, engine.CurrentPiece().ID(), dropped.Piece)
	require.Equal(t, Point{X: 5, Y: -1}, engine.CurrentAnchor())
	require.Zero(t, log.count(EventPieceMoved))
}

func TestHardDropFlushesPendingLines(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	fillRow(engine, 19, 9)
	setCurrent(engine, PieceI)
	engine.SoftDrop()
	engine.Rotate(RotateRightDir)
	for i := 0; i < 4; i++ {
		engine.MoveRight()
	}
	softDropToRest(t, engine, log)
	require.Equal(t, CellCleared, engine.CellAt(0, 19))

	setCurrent(engine, PieceO)
	engine.HardDrop()

	require.Equal(t, 1, log.count(EventRedraw))
	require.Equal(t, Cell(PieceI), engine.CellAt(9, 19))
	require.Equal(t, Cell(PieceO), engine.CellAt(5, 19))
	require.Equal(t, Cell(PieceO), engine.CellAt(4, 18))
}

func TestLossResetsSession(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	log := watch(engine)
	session := engine.SessionID()

	for i := 0; i < 200 && log.count(EventLoss) == 0; i++ {
		engine.HardDrop()
	}

	loss, ok := log.last(EventLoss)
	require.True(t, ok, "stacking in the middle never lost")
	require.Equal(t, EventLoss, log.events[len(log.events)-1].Type)
	require.Greater(t, loss.Score, 0)
	require.Equal(t, session, loss.SessionID)

	require.Equal(t, 0, engine.Score())
	require.Equal(t, 0, engine.Level())
	require.Equal(t, 0, engine.TotalLines())
	require.NotEqual(t, session, engine.SessionID())
	require.Equal(t, Point{X: 5, Y: -1}, engine.CurrentAnchor())
	for _, id := range engine.Catalog().IDs() {
		require.Zero(t, engine.PieceDropCount(id))
	}
	for y := -engine.HiddenRows(); y < engine.Height(); y++ {
		for x := 0; x < engine.Width(); x++ {
			require.Equal(t, CellEmpty, engine.CellAt(x, y))
		}
	}
}

func TestCellsStayValid(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	rng := rand.New(rand.NewPCG(3, 5))
	count := Cell(engine.Catalog().Count())

	for i := 0; i < 5000; i++ {
		engine.DoMove(Moves[rng.IntN(len(Moves))])
		for y := -engine.HiddenRows(); y < engine.Height(); y++ {
			for x := 0; x < engine.Width(); x++ {
				cell := engine.CellAt(x, y)
				if cell != CellEmpty && cell != CellCleared && (cell < 0 || cell >= count) {
					t.Fatalf("move %d: cell (%d,%d) holds %d", i, x, y, cell)
				}
			}
		}
	}
}

func TestDoMove(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	setCurrent(engine, PieceT)

	engine.DoMove(MoveSoftDrop)
	require.Equal(t, Point{X: 5, Y: 0}, engine.CurrentAnchor())
	engine.DoMove(MoveLeft)
	require.Equal(t, Point{X: 4, Y: 0}, engine.CurrentAnchor())
	engine.DoMove(MoveRight)
	engine.DoMove(MoveRight)
	require.Equal(t, Point{X: 6, Y: 0}, engine.CurrentAnchor())

	cells := engine.CurrentPiece().Cells()
	engine.DoMove(MoveRotateRight)
	engine.DoMove(MoveRotateLeft)
	require.Equal(t, cells, engine.CurrentPiece().Cells())

	engine.DoMove(MoveHardDrop)
	require.Equal(t, 1, engine.PieceDropCount(PieceT))
}

func TestSubscribeCancel(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	calls := 0
	cancel := engine.Subscribe(func(Event) { calls++ })

	engine.SoftDrop()
	cancel()
	cancel()
	engine.SoftDrop()

	require.Equal(t, 1, calls)
	require.Zero(t, engine.events.count())
}

func TestPieceDropCountUnknown(t *testing.T) {
	engine := newTestEngine(t, 10, 20)
	require.Zero(t, engine.PieceDropCount(-1))
	require.Zero(t, engine.PieceDropCount(42))
}

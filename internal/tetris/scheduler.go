package tetris

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// SchedulerStats provides statistics about scheduler execution
type SchedulerStats struct {
	Ticks        int64
	MovesApplied int64
	AutoDrops    int64
	MinTick      time.Duration
	MaxTick      time.Duration
	AvgTick      time.Duration
	LastTick     time.Duration
	FallInterval time.Duration
}

// Scheduler owns a game and advances it on a fixed tick. Moves from any goroutine are
// queued and applied by the tick loop, which is the only goroutine touching the game.
// Events are delivered on the tick goroutine after each move, outside the state lock,
// so handlers may call the read accessors.
type Scheduler struct {
	game       Game
	cfg        Config
	cancelGame func()

	mu      sync.RWMutex
	pending []Event

	queue        moveQueue
	events       router
	gate         *gate
	resumeMu     sync.Mutex
	fallInterval atomic.Int64
	fallTimer    time.Duration

	running atomic.Bool
	stopped atomic.Bool
	done    chan struct{}

	statsMu       sync.Mutex
	ticks         int64
	movesApplied  int64
	autoDrops     int64
	minTick       time.Duration
	maxTick       time.Duration
	lastTick      time.Duration
	totalTickTime time.Duration
}

// NewScheduler wraps game. The game must not already run its own loop and must not be
// used directly afterwards.
func NewScheduler(game Game, cfg Config) (*Scheduler, error) {
	if game == nil {
		return nil, fmt.Errorf("%w: nil game", ErrInvalidConfig)
	}
	if _, ok := game.(Threaded); ok {
		return nil, fmt.Errorf("%w: cannot schedule %T", ErrAlreadyThreaded, game)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scheduler := &Scheduler{
		game:      game,
		cfg:       cfg,
		gate:      newGate(),
		done:      make(chan struct{}),
		fallTimer: cfg.InitialFallInterval,
		minTick:   time.Duration(1<<63 - 1),
	}
	scheduler.fallInterval.Store(int64(cfg.FallInterval(game.Level())))
	scheduler.cancelGame = game.Subscribe(scheduler.collect)
	return scheduler, nil
}

// collect buffers game events raised while the state lock is held
func (s *Scheduler) collect(event Event) {
	switch event.Type {
	case EventLinesCleared:
		s.fallInterval.Store(int64(s.cfg.FallInterval(event.Level)))
	case EventLoss:
		s.fallInterval.Store(int64(s.cfg.FallInterval(0)))
	}
	s.pending = append(s.pending, event)
}

// Start the tick loop. A scheduler runs at most once.
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		go s.run()
	}
}

// Stop asks the loop to exit after the current tick. It does not wait; use Done.
func (s *Scheduler) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	if s.running.CompareAndSwap(false, true) {
		// never started
		s.cancelGame()
		close(s.done)
		return
	}
	s.gate.release()
}

// Done is closed once the loop has exited
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Pause suspends the loop before its next poll
func (s *Scheduler) Pause() {
	if s.stopped.Load() {
		return
	}
	if s.gate.close() {
		logger.Println("Scheduler paused")
	}
}

// Resume queues one soft drop so the piece does not hang, then releases the loop
func (s *Scheduler) Resume() {
	s.resumeMu.Lock()
	defer s.resumeMu.Unlock()
	if !s.gate.isShut() {
		return
	}
	s.queue.push(MoveSoftDrop)
	s.gate.release()
	logger.Println("Scheduler resumed")
}

// IsPaused reports whether the loop is suspended
func (s *Scheduler) IsPaused() bool {
	return s.gate.isShut()
}

// DoMove queues move for the next tick
func (s *Scheduler) DoMove(move Move) {
	s.queue.push(move)
}

// Pending returns the number of queued moves
func (s *Scheduler) Pending() int {
	return s.queue.len()
}

// Subscribe registers handler for game events, delivered on the tick goroutine
func (s *Scheduler) Subscribe(handler Handler) func() {
	return s.events.subscribe(handler)
}

// FallInterval returns the current gravity period
func (s *Scheduler) FallInterval() time.Duration {
	return time.Duration(s.fallInterval.Load())
}

func (s *Scheduler) run() {
	defer close(s.done)
	defer s.cancelGame()
	logger.Println("Scheduler Run start")

	for !s.stopped.Load() {
		s.gate.wait()
		if s.stopped.Load() {
			break
		}
		start := time.Now()
		s.tick()
		elapsed := time.Since(start)
		s.record(elapsed)

		if sleep := s.cfg.PollInterval - elapsed; sleep > 0 {
			time.Sleep(sleep)
		}
	}

	logger.Println("Scheduler Run end")
}

// tick applies gravity and drains the move queue
func (s *Scheduler) tick() {
	s.fallTimer -= s.cfg.PollInterval
	if s.fallTimer < 1 {
		if s.queue.pushGravity() {
			s.statsMu.Lock()
			s.autoDrops++
			s.statsMu.Unlock()
		}
		s.fallTimer = s.FallInterval()
	}
	for {
		move, ok := s.queue.pop()
		if !ok {
			return
		}
		s.apply(move)
		if move.IsDrop() {
			s.fallTimer = s.FallInterval()
		}
	}
}

func (s *Scheduler) apply(move Move) {
	s.mu.Lock()
	s.game.DoMove(move)
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	s.statsMu.Lock()
	s.movesApplied++
	s.statsMu.Unlock()

	for _, event := range events {
		s.events.dispatch(event)
	}
}

func (s *Scheduler) record(elapsed time.Duration) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.ticks++
	s.lastTick = elapsed
	s.totalTickTime += elapsed
	if elapsed < s.minTick {
		s.minTick = elapsed
	}
	if elapsed > s.maxTick {
		s.maxTick = elapsed
	}
}

// Stats returns statistics about the loop so far
func (s *Scheduler) Stats() SchedulerStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	stats := SchedulerStats{
		Ticks:        s.ticks,
		MovesApplied: s.movesApplied,
		AutoDrops:    s.autoDrops,
		MaxTick:      s.maxTick,
		LastTick:     s.lastTick,
		FallInterval: s.FallInterval(),
	}
	if s.ticks > 0 {
		stats.MinTick = s.minTick
		stats.AvgTick = s.totalTickTime / time.Duration(s.ticks)
	}
	return stats
}

// NextPiece returns the piece that spawns after the current one
func (s *Scheduler) NextPiece() Piece {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.NextPiece()
}

// CurrentAnchor returns the anchor of the falling piece
func (s *Scheduler) CurrentAnchor() Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.CurrentAnchor()
}

// Score returns the session score
func (s *Scheduler) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Score()
}

// Level returns the session level
func (s *Scheduler) Level() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Level()
}

// TotalLines returns the rows cleared this session
func (s *Scheduler) TotalLines() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.TotalLines()
}

// CellAt returns the cell at x, y
func (s *Scheduler) CellAt(x int, y int) Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.CellAt(x, y)
}

// PieceDropCount returns how many pieces of id landed this session
func (s *Scheduler) PieceDropCount(id PieceID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.PieceDropCount(id)
}

// Snapshot copies the observable state
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.RLock()
	snapshot := s.game.Snapshot()
	s.mu.RUnlock()
	snapshot.Paused = s.IsPaused()
	return snapshot
}

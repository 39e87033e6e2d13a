package tetris

import "sync"

// moveQueue is the hand off between move producers and the scheduler loop.
// Any goroutine may push; only the scheduler pops.
type moveQueue struct {
	mu    sync.Mutex
	moves []Move
}

func (q *moveQueue) push(move Move) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.moves = append(q.moves, move)
}

// pushGravity queues a soft drop unless the last queued move already drops the piece
func (q *moveQueue) pushGravity() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n := len(q.moves); n > 0 && q.moves[n-1].IsDrop() {
		return false
	}
	q.moves = append(q.moves, MoveSoftDrop)
	return true
}

func (q *moveQueue) pop() (Move, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.moves) == 0 {
		return 0, false
	}
	move := q.moves[0]
	q.moves = q.moves[1:]
	if len(q.moves) == 0 {
		q.moves = nil
	}
	return move, true
}

func (q *moveQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.moves)
}

// gate blocks waiters while shut
type gate struct {
	mu   sync.Mutex
	open chan struct{}
	shut bool
}

func newGate() *gate {
	open := make(chan struct{})
	close(open)
	return &gate{open: open}
}

// wait returns once the gate is open
func (g *gate) wait() {
	g.mu.Lock()
	open := g.open
	g.mu.Unlock()
	<-open
}

// close shuts the gate, reporting whether it was open
func (g *gate) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.shut {
		return false
	}
	g.open = make(chan struct{})
	g.shut = true
	return true
}

// release opens the gate, reporting whether it was shut
func (g *gate) release() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.shut {
		return false
	}
	close(g.open)
	g.shut = false
	return true
}

func (g *gate) isShut() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shut
}

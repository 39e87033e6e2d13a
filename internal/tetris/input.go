package tetris

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// moveFlag is the held state of one move as a bit
type moveFlag uint8

const (
	flagLeft moveFlag = 1 << iota
	flagRight
	flagRotateLeft
	flagRotateRight
	flagSoftDrop
	flagHardDrop

	flagNone       moveFlag = 0
	flagHorizontal          = flagLeft | flagRight
	flagRotation            = flagRotateLeft | flagRotateRight
)

func flagOf(move Move) moveFlag {
	switch move {
	case MoveLeft:
		return flagLeft
	case MoveRight:
		return flagRight
	case MoveRotateLeft:
		return flagRotateLeft
	case MoveRotateRight:
		return flagRotateRight
	case MoveSoftDrop:
		return flagSoftDrop
	case MoveHardDrop:
		return flagHardDrop
	}
	return flagNone
}

// resolve turns held flags into the moves to send and the flags to drop afterwards.
// Hard drop wins outright and is consumed. Otherwise one horizontal move or, failing
// that, one rotation is chosen; opposite pairs cancel. Soft drop combines with either.
func resolve(held moveFlag) ([]Move, moveFlag) {
	if held == flagNone {
		return nil, flagNone
	}
	if held&flagHardDrop != 0 {
		return []Move{MoveHardDrop}, flagHardDrop
	}

	var moves []Move
	switch held & flagHorizontal {
	case flagLeft:
		moves = append(moves, MoveLeft)
	case flagRight:
		moves = append(moves, MoveRight)
	default:
		switch held & flagRotation {
		case flagRotateLeft:
			moves = append(moves, MoveRotateLeft)
		case flagRotateRight:
			moves = append(moves, MoveRotateRight)
		}
	}
	if held&flagSoftDrop != 0 {
		moves = append(moves, MoveSoftDrop)
	}
	return moves, flagNone
}

// InputCoalescer turns held keys into at most one resolved move per interval and sends
// it to a Mover, usually a Scheduler. It runs its own loop, independent of the game tick.
type InputCoalescer struct {
	target   Mover
	poll     time.Duration
	interval time.Duration

	mu         sync.Mutex
	held       moveFlag
	untilInput time.Duration

	enabled atomic.Bool
	running atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
}

// NewInputCoalescer creates a coalescer that checks held keys every poll and sends
// moves to target at most once per interval
func NewInputCoalescer(target Mover, poll time.Duration, interval time.Duration) (*InputCoalescer, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil input target", ErrInvalidConfig)
	}
	if poll <= 0 || interval < 0 {
		return nil, fmt.Errorf("%w: input poll %v interval %v", ErrInvalidConfig, poll, interval)
	}
	coalescer := &InputCoalescer{
		target:   target,
		poll:     poll,
		interval: interval,
		done:     make(chan struct{}),
	}
	coalescer.enabled.Store(true)
	return coalescer, nil
}

// Press marks move as held. It returns false if it already was.
func (c *InputCoalescer) Press(move Move) bool {
	flag := flagOf(move)
	if flag == flagNone {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held&flag == flag {
		return false
	}
	c.held |= flag
	c.untilInput = 0
	return true
}

// Release clears move. It returns false if it was not held.
func (c *InputCoalescer) Release(move Move) bool {
	flag := flagOf(move)
	if flag == flagNone {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held&flag != flag {
		return false
	}
	c.held &^= flag
	c.untilInput = 0
	return true
}

// Held returns the moves currently held, in declaration order
func (c *InputCoalescer) Held() []Move {
	c.mu.Lock()
	held := c.held
	c.mu.Unlock()
	var moves []Move
	for _, move := range Moves {
		if held&flagOf(move) != 0 {
			moves = append(moves, move)
		}
	}
	return moves
}

// SetEnabled turns resolution on or off; held state is kept
func (c *InputCoalescer) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

// Enabled reports whether held keys are being resolved
func (c *InputCoalescer) Enabled() bool {
	return c.enabled.Load()
}

// Start the input loop. A coalescer runs at most once.
func (c *InputCoalescer) Start() {
	if c.running.CompareAndSwap(false, true) {
		go c.run()
	}
}

// Stop asks the loop to exit after its current step
func (c *InputCoalescer) Stop() {
	if c.stopped.Swap(true) {
		return
	}
	if c.running.CompareAndSwap(false, true) {
		close(c.done)
	}
}

// Done is closed once the loop has exited
func (c *InputCoalescer) Done() <-chan struct{} {
	return c.done
}

func (c *InputCoalescer) run() {
	defer close(c.done)
	for !c.stopped.Load() {
		if c.enabled.Load() {
			c.step()
		}
		time.Sleep(c.poll)
	}
}

// step sends the resolved moves once the input counter has run out
func (c *InputCoalescer) step() {
	c.mu.Lock()
	if c.untilInput > 0 {
		c.untilInput -= c.poll
		c.mu.Unlock()
		return
	}
	moves, consumed := resolve(c.held)
	c.held &^= consumed
	c.untilInput = c.interval
	c.mu.Unlock()

	for _, move := range moves {
		c.target.DoMove(move)
	}
}

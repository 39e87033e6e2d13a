// Package autoplay drives a game with seeded random input
package autoplay

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/tursodatabase/tursotris/internal/tetris"
)

// weights biases the random player toward sideways moves and soft drops
var weights = map[tetris.Move]int{
	tetris.MoveLeft:        3,
	tetris.MoveRight:       3,
	tetris.MoveRotateLeft:  1,
	tetris.MoveRotateRight: 2,
	tetris.MoveSoftDrop:    4,
	tetris.MoveHardDrop:    1,
}

// Presser is the key side of an InputCoalescer
type Presser interface {
	Press(move tetris.Move) bool
	Release(move tetris.Move) bool
}

// Player picks weighted random moves. It is not safe for concurrent use.
type Player struct {
	rng   *rand.Rand
	total int
}

// New creates a player; the same seed replays the same moves
func New(seed uint64) *Player {
	total := 0
	for _, move := range tetris.Moves {
		total += weights[move]
	}
	return &Player{
		rng:   rand.New(rand.NewPCG(seed, seed>>1|1)),
		total: total,
	}
}

// NextMove returns the next random move
func (p *Player) NextMove() tetris.Move {
	roll := p.rng.IntN(p.total)
	for _, move := range tetris.Moves {
		roll -= weights[move]
		if roll < 0 {
			return move
		}
	}
	return tetris.MoveSoftDrop
}

// Drive sends n moves to mover, stopping early when ctx is done.
// It returns the number of moves sent.
func (p *Player) Drive(ctx context.Context, mover tetris.Mover, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		mover.DoMove(p.NextMove())
	}
	return n, nil
}

// Hold presses a random key for hold, releases it and waits gap, until ctx is done.
// The last key is always released.
func (p *Player) Hold(ctx context.Context, presser Presser, hold time.Duration, gap time.Duration) error {
	for {
		move := p.NextMove()
		presser.Press(move)
		err := sleep(ctx, hold)
		presser.Release(move)
		if err != nil {
			return err
		}
		if err := sleep(ctx, gap); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

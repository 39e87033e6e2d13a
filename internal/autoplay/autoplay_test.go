package autoplay

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tursodatabase/tursotris/internal/tetris"
)

type keys struct {
	mu       sync.Mutex
	held     map[tetris.Move]bool
	presses  int
	releases int
	moves    []tetris.Move
}

func newKeys() *keys {
	return &keys{held: make(map[tetris.Move]bool)}
}

func (k *keys) DoMove(move tetris.Move) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.moves = append(k.moves, move)
}

func (k *keys) Press(move tetris.Move) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.presses++
	was := k.held[move]
	k.held[move] = true
	return !was
}

func (k *keys) Release(move tetris.Move) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.releases++
	was := k.held[move]
	delete(k.held, move)
	return was
}

func TestNextMoveIsSeeded(t *testing.T) {
	a := New(11)
	b := New(11)
	seen := make(map[tetris.Move]int)

	for i := 0; i < 2000; i++ {
		move := a.NextMove()
		require.Equal(t, move, b.NextMove())
		seen[move]++
	}

	require.Len(t, seen, len(tetris.Moves))
	require.Greater(t, seen[tetris.MoveSoftDrop], seen[tetris.MoveHardDrop])
}

func TestDrive(t *testing.T) {
	target := newKeys()

	sent, err := New(1).Drive(context.Background(), target, 250)

	require.NoError(t, err)
	require.Equal(t, 250, sent)
	require.Len(t, target.moves, 250)
}

func TestDriveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := New(1).Drive(ctx, newKeys(), 10)

	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sent)
}

func TestDriveEngine(t *testing.T) {
	engine, err := tetris.NewEngineFromConfig(tetris.Config{Width: 10, Height: 20, Seed: 5})
	require.NoError(t, err)

	_, err = New(5).Drive(context.Background(), engine, 3000)

	require.NoError(t, err)
	dropped := 0
	for _, id := range engine.Catalog().IDs() {
		dropped += engine.PieceDropCount(id)
	}
	require.Greater(t, dropped+engine.Score(), 0)
}

func TestHold(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		presser := newKeys()
		ctx, cancel := context.WithTimeout(context.Background(), 1005*time.Millisecond)
		defer cancel()

		err := New(3).Hold(ctx, presser, 40*time.Millisecond, 10*time.Millisecond)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, 21, presser.presses)
		require.Equal(t, presser.presses, presser.releases)
		require.Empty(t, presser.held)
	})
}

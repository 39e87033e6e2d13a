package tetris

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: -2}
	q := Point{X: -1, Y: 5}

	require.Equal(t, Point{X: 2, Y: 3}, p.Add(q))
	require.Equal(t, Point{X: 4, Y: -7}, p.Sub(q))
	require.Equal(t, Point{X: -3, Y: 2}, p.Neg())
	require.Equal(t, p, p.Add(q).Sub(q))
	require.Equal(t, "(3,-2)", p.String())
}

func TestRotationRing(t *testing.T) {
	orientations := Tetrominoes[PieceT].Orientations
	ring := NewRotationRing(orientations)
	require.Equal(t, 4, ring.Size())
	require.Equal(t, orientations[0], ring.Cells())

	ring.Rotate(RotateRightDir)
	require.Equal(t, orientations[1], ring.Cells())
	ring.Rotate(RotateLeftDir)
	ring.Rotate(RotateLeftDir)
	require.Equal(t, orientations[3], ring.Cells())

	for i := 0; i < 4; i++ {
		ring.Rotate(RotateRightDir)
	}
	require.Equal(t, orientations[3], ring.Cells())
}

func TestRotationRingRevert(t *testing.T) {
	orientations := Tetrominoes[PieceL].Orientations
	ring := NewRotationRing(orientations)

	ring.Rotate(RotateRightDir)
	ring.Revert()
	require.Equal(t, orientations[0], ring.Cells())

	ring.Rotate(RotateLeftDir)
	require.Equal(t, orientations[3], ring.Cells())
	ring.Revert()
	require.Equal(t, orientations[0], ring.Cells())
}

func TestRotationRingSingleOrientation(t *testing.T) {
	ring := NewRotationRing(Tetrominoes[PieceO].Orientations)

	ring.Rotate(RotateLeftDir)
	ring.Rotate(RotateRightDir)
	ring.Revert()

	require.Equal(t, Tetrominoes[PieceO].Orientations[0], ring.Cells())
}

func TestRotationRingTwoOrientations(t *testing.T) {
	orientations := Tetrominoes[PieceS].Orientations
	ring := NewRotationRing(orientations)

	ring.Rotate(RotateLeftDir)
	require.Equal(t, orientations[1], ring.Cells())
	ring.Rotate(RotateLeftDir)
	require.Equal(t, orientations[0], ring.Cells())
}

func TestOpposite(t *testing.T) {
	require.Equal(t, RotateRightDir, RotateLeftDir.Opposite())
	require.Equal(t, RotateLeftDir, RotateRightDir.Opposite())
}

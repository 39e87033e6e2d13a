package tetris

import "strconv"

// PieceID identifies a shape in a catalog. Ids are dense and start at 0.
type PieceID int

func (id PieceID) String() string {
	if id >= 0 && int(id) < len(Tetrominoes) {
		return Tetrominoes[id].Name
	}
	return strconv.Itoa(int(id))
}

// Piece pairs a catalog id with its own rotation ring
type Piece struct {
	id   PieceID
	name string
	ring RotationRing
}

// ID returns the catalog id of the piece
func (piece Piece) ID() PieceID {
	return piece.id
}

// Name returns the shape name
func (piece Piece) Name() string {
	return piece.name
}

// Cells returns the offsets of the current orientation
func (piece Piece) Cells() Orientation {
	return piece.ring.Cells()
}

// Orientations returns the ring size
func (piece Piece) Orientations() int {
	return piece.ring.Size()
}

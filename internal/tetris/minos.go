package tetris

// Tetromino ids, in catalog order
const (
	PieceI PieceID = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceL
	PieceJ
)

// Shape is the static definition of one piece
type Shape struct {
	Name         string
	Orientations []Orientation
}

// Tetrominoes is the classic seven piece set. Index is the piece id.
var Tetrominoes = []Shape{
	PieceI: {
		Name: "I",
		Orientations: []Orientation{
			{{-2, 0}, {-1, 0}, {0, 0}, {1, 0}},
			{{0, 1}, {0, 0}, {0, -1}, {0, -2}},
		},
	},
	PieceO: {
		Name: "O",
		Orientations: []Orientation{
			{{-1, -1}, {-1, 0}, {0, 0}, {0, -1}},
		},
	},
	PieceT: {
		Name: "T",
		Orientations: []Orientation{
			{{0, 0}, {1, 0}, {0, -1}, {-1, 0}},
			{{0, 0}, {0, 1}, {0, -1}, {1, 0}},
			{{0, 1}, {1, 0}, {0, 0}, {-1, 0}},
			{{0, 0}, {-1, 0}, {0, 1}, {0, -1}},
		},
	},
	PieceS: {
		Name: "S",
		Orientations: []Orientation{
			{{1, -1}, {0, -1}, {0, 0}, {-1, 0}},
			{{0, -1}, {0, 0}, {1, 0}, {1, 1}},
		},
	},
	PieceZ: {
		Name: "Z",
		Orientations: []Orientation{
			{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
			{{1, -1}, {1, 0}, {0, 0}, {0, 1}},
		},
	},
	PieceL: {
		Name: "L",
		Orientations: []Orientation{
			{{1, -1}, {1, 0}, {0, 0}, {-1, 0}},
			{{1, 1}, {0, 1}, {0, 0}, {0, -1}},
			{{-1, 1}, {-1, 0}, {0, 0}, {1, 0}},
			{{-1, -1}, {0, -1}, {0, 0}, {0, 1}},
		},
	},
	PieceJ: {
		Name: "J",
		Orientations: []Orientation{
			{{1, 0}, {0, 0}, {-1, 0}, {-1, -1}},
			{{0, 1}, {0, 0}, {0, -1}, {1, -1}},
			{{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
			{{0, -1}, {0, 0}, {0, 1}, {-1, 1}},
		},
	},
}

// extent returns the lowest and highest row offset of an orientation
func (o Orientation) extent() (top int, bottom int) {
	top, bottom = o[0].Y, o[0].Y
	for _, p := range o[1:] {
		if p.Y < top {
			top = p.Y
		}
		if p.Y > bottom {
			bottom = p.Y
		}
	}
	return top, bottom
}

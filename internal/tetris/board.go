package tetris

// Cell is the content of one board location: CellEmpty, CellCleared or a piece id
type Cell int

// IsBlock reports whether the cell holds a piece
func (cell Cell) IsBlock() bool {
	return cell >= 0
}

// PieceID returns the piece occupying the cell
func (cell Cell) PieceID() (PieceID, bool) {
	if !cell.IsBlock() {
		return 0, false
	}
	return PieceID(cell), true
}

// Board is the playfield. Rows -hidden..-1 are the buffer above the visible field.
type Board struct {
	width  int
	height int
	hidden int
	rows   [][]Cell
}

// NewBoard creates a new clear board
func NewBoard(width int, height int, hidden int) *Board {
	board := &Board{width: width, height: height, hidden: hidden}
	board.rows = make([][]Cell, height+hidden)
	for i := range board.rows {
		board.rows[i] = make([]Cell, width)
	}
	board.Clear()
	return board
}

// Clear empties every cell, buffer rows included
func (board *Board) Clear() {
	for _, row := range board.rows {
		clearRow(row)
	}
}

func clearRow(row []Cell) {
	for i := range row {
		row[i] = CellEmpty
	}
}

// Width returns the number of columns
func (board *Board) Width() int {
	return board.width
}

// Height returns the number of visible rows
func (board *Board) Height() int {
	return board.height
}

// HiddenRows returns the number of buffer rows above the visible field
func (board *Board) HiddenRows() int {
	return board.hidden
}

// Contains reports whether x, y is on the board or in the buffer
func (board *Board) Contains(x int, y int) bool {
	return x >= 0 && x < board.width && y >= -board.hidden && y < board.height
}

// At returns the cell at x, y. Locations off the board read as empty.
func (board *Board) At(x int, y int) Cell {
	if !board.Contains(x, y) {
		return CellEmpty
	}
	return board.rows[y+board.hidden][x]
}

func (board *Board) row(y int) []Cell {
	return board.rows[y+board.hidden]
}

func (board *Board) set(x int, y int, cell Cell) {
	board.rows[y+board.hidden][x] = cell
}

// collides reports whether cells placed at anchor leave the board or overlap a non empty cell.
// Cells above the buffer count as colliding since they cannot be stored.
func (board *Board) collides(cells Orientation, anchor Point) bool {
	for _, offset := range cells {
		p := anchor.Add(offset)
		if p.X < 0 || p.X > board.width-1 || p.Y > board.height-1 || p.Y < -board.hidden {
			return true
		}
		if board.At(p.X, p.Y) != CellEmpty {
			return true
		}
	}
	return false
}

// stamp writes value into every cell of the piece at anchor
func (board *Board) stamp(cells Orientation, anchor Point, value Cell) {
	for _, offset := range cells {
		p := anchor.Add(offset)
		board.set(p.X, p.Y, value)
	}
}

// topRow returns the highest visible row holding a block, or height if there is none
func (board *Board) topRow() int {
	for y := 0; y < board.height; y++ {
		for _, cell := range board.row(y) {
			if cell.IsBlock() {
				return y
			}
		}
	}
	return board.height
}

// isFullLine checks if line is full
func (board *Board) isFullLine(y int) bool {
	for _, cell := range board.row(y) {
		if !cell.IsBlock() {
			return false
		}
	}
	return true
}

// markFullLines marks every complete row as cleared and returns them bottom row first.
// Rows above the highest block cannot be complete and are skipped.
func (board *Board) markFullLines() []int {
	var lines []int
	top := board.topRow()
	for y := board.height - 1; y >= top; y-- {
		if board.isFullLine(y) {
			row := board.row(y)
			for i := range row {
				row[i] = CellCleared
			}
			lines = append(lines, y)
		}
	}
	return lines
}

// eraseCleared empties every row that is still marked cleared
func (board *Board) eraseCleared() {
	for y := 0; y < board.height; y++ {
		row := board.row(y)
		if row[0] == CellCleared {
			clearRow(row)
		}
	}
}

// deleteLines removes lines and shifts everything above them down.
// lines must be sorted top row first so lower indexes stay valid.
func (board *Board) deleteLines(lines []int) {
	for _, line := range lines {
		for y := line; y > -board.hidden; y-- {
			copy(board.row(y), board.row(y-1))
		}
		clearRow(board.row(-board.hidden))
	}
}

// hiddenOccupied reports whether any block rests in the buffer rows
func (board *Board) hiddenOccupied() bool {
	for y := -board.hidden; y < 0; y++ {
		for _, cell := range board.row(y) {
			if cell.IsBlock() {
				return true
			}
		}
	}
	return false
}

// cells returns a copy of the grid, buffer rows first
func (board *Board) cells() [][]Cell {
	out := make([][]Cell, len(board.rows))
	for i, row := range board.rows {
		out[i] = append([]Cell(nil), row...)
	}
	return out
}

package tetris

// Snapshot is a read only copy of a game for presentation layers
type Snapshot struct {
	SessionID      string   `json:"session_id"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	HiddenRows     int      `json:"hidden_rows"`
	Cells          [][]Cell `json:"cells"`
	Current        PieceID  `json:"current"`
	Anchor         Point    `json:"anchor"`
	CurrentCells   []Point  `json:"current_cells"`
	Next           PieceID  `json:"next"`
	Score          int      `json:"score"`
	Level          int      `json:"level"`
	TotalLines     int      `json:"total_lines"`
	LinesToLevelUp int      `json:"lines_to_level_up"`
	DropCounts     []int    `json:"drop_counts"`
	PendingLines   []int    `json:"pending_lines,omitempty"`
	Paused         bool     `json:"paused"`
}

// CellAt returns the cell at x, y of the snapshot; negative y reads the buffer rows
func (s Snapshot) CellAt(x int, y int) Cell {
	row := y + s.HiddenRows
	if x < 0 || x >= s.Width || row < 0 || row >= len(s.Cells) {
		return CellEmpty
	}
	return s.Cells[row][x]
}

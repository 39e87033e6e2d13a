package tetris

import (
	"fmt"
	"strings"
)

// Move is a player or gravity action applied to the current piece
type Move int

const (
	// MoveLeft shifts the piece one column left
	MoveLeft Move = iota
	// MoveRight shifts the piece one column right
	MoveRight
	// MoveRotateLeft rotates the piece counter clockwise
	MoveRotateLeft
	// MoveRotateRight rotates the piece clockwise
	MoveRotateRight
	// MoveSoftDrop advances the piece one row
	MoveSoftDrop
	// MoveHardDrop drops the piece to rest
	MoveHardDrop
)

// Moves lists every move in declaration order
var Moves = [...]Move{MoveLeft, MoveRight, MoveRotateLeft, MoveRotateRight, MoveSoftDrop, MoveHardDrop}

var moveNames = [...]string{
	MoveLeft:        "left",
	MoveRight:       "right",
	MoveRotateLeft:  "rotate-left",
	MoveRotateRight: "rotate-right",
	MoveSoftDrop:    "soft-drop",
	MoveHardDrop:    "hard-drop",
}

func (move Move) String() string {
	if move < 0 || int(move) >= len(moveNames) {
		return fmt.Sprintf("Move(%d)", int(move))
	}
	return moveNames[move]
}

// IsDrop reports whether the move advances the piece downward
func (move Move) IsDrop() bool {
	return move == MoveSoftDrop || move == MoveHardDrop
}

// ParseMove converts a move name, case insensitive, to a Move
func ParseMove(name string) (Move, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for move, moveName := range moveNames {
		if name == moveName {
			return Move(move), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMove, name)
}

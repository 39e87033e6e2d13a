//go:build !windows

package internal

import "github.com/fatih/color"

// Color function for emphasising text.
var Emph = color.New(color.FgBlue, color.Bold).SprintFunc()

var Warn = color.New(color.FgYellow, color.Bold).SprintFunc()

var pieceColors = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgGreen),
	color.New(color.FgRed),
	color.New(color.FgHiYellow),
	color.New(color.FgBlue),
}

// Piece colors text the way the classic games color piece id
func Piece(id int, a ...interface{}) string {
	if id < 0 || id >= len(pieceColors) {
		return color.New(color.FgWhite).Sprint(a...)
	}
	return pieceColors[id].Sprint(a...)
}

package tetris

import "fmt"

// Point is a cell position or offset on the board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns the point mirrored through the origin
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

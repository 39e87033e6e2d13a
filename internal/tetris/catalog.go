package tetris

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Catalog maps piece ids to their shapes and draws random pieces
type Catalog struct {
	shapes []Shape
	last   PieceID
	roll   func(n int) int
}

// NewCatalog validates shapes and creates a catalog seeded with seed.
// A zero seed uses the current time.
func NewCatalog(shapes []Shape, seed uint64) (*Catalog, error) {
	if err := validateShapes(shapes); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Catalog{
		shapes: shapes,
		last:   -1,
		roll:   rng.IntN,
	}, nil
}

func validateShapes(shapes []Shape) error {
	if len(shapes) == 0 {
		return fmt.Errorf("%w: no shapes", ErrInvalidCatalog)
	}
	names := make(map[string]PieceID, len(shapes))
	for i, shape := range shapes {
		id := PieceID(i)
		if shape.Name == "" {
			return fmt.Errorf("%w: piece %d has no name", ErrInvalidCatalog, id)
		}
		if other, ok := names[shape.Name]; ok {
			return fmt.Errorf("%w: pieces %d and %d are both named %q", ErrInvalidCatalog, other, id, shape.Name)
		}
		names[shape.Name] = id
		if len(shape.Orientations) == 0 {
			return fmt.Errorf("%w: piece %s has no orientations", ErrInvalidCatalog, shape.Name)
		}
		for j, orientation := range shape.Orientations {
			if len(orientation) == 0 {
				return fmt.Errorf("%w: piece %s orientation %d is empty", ErrInvalidCatalog, shape.Name, j)
			}
			seen := make(map[Point]struct{}, len(orientation))
			for _, p := range orientation {
				if _, dup := seen[p]; dup {
					return fmt.Errorf("%w: piece %s orientation %d repeats cell %v", ErrInvalidCatalog, shape.Name, j, p)
				}
				seen[p] = struct{}{}
			}
		}
	}
	return nil
}

// Draw picks a random id, rerolling once if it repeats the previous draw
func (c *Catalog) Draw() PieceID {
	id := PieceID(c.roll(len(c.shapes)))
	if id == c.last {
		id = PieceID(c.roll(len(c.shapes)))
	}
	c.last = id
	return id
}

// Exists reports whether id names a piece
func (c *Catalog) Exists(id PieceID) bool {
	return id >= 0 && int(id) < len(c.shapes)
}

// Count returns the number of pieces
func (c *Catalog) Count() int {
	return len(c.shapes)
}

// IDs returns every piece id in ascending order
func (c *Catalog) IDs() []PieceID {
	ids := make([]PieceID, len(c.shapes))
	for i := range c.shapes {
		ids[i] = PieceID(i)
	}
	return ids
}

// Name returns the shape name of id, or an empty string
func (c *Catalog) Name(id PieceID) string {
	if !c.Exists(id) {
		return ""
	}
	return c.shapes[id].Name
}

// Shape returns the static definition of id
func (c *Catalog) Shape(id PieceID) (Shape, error) {
	if !c.Exists(id) {
		return Shape{}, fmt.Errorf("%w: %d", ErrUnknownPiece, id)
	}
	return c.shapes[id], nil
}

// Get returns a new piece at its first orientation
func (c *Catalog) Get(id PieceID) (Piece, error) {
	if !c.Exists(id) {
		return Piece{}, fmt.Errorf("%w: %d", ErrUnknownPiece, id)
	}
	shape := c.shapes[id]
	return Piece{
		id:   id,
		name: shape.Name,
		ring: NewRotationRing(shape.Orientations),
	}, nil
}

// MustGet is Get for ids known to exist
func (c *Catalog) MustGet(id PieceID) Piece {
	piece, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return piece
}

// MaxExtent returns the tallest vertical extent of any orientation
func (c *Catalog) MaxExtent() int {
	extent := 0
	for _, shape := range c.shapes {
		for _, orientation := range shape.Orientations {
			top, bottom := orientation.extent()
			if bottom-top+1 > extent {
				extent = bottom - top + 1
			}
		}
	}
	return extent
}

// TopOffset returns the smallest row offset of any orientation
func (c *Catalog) TopOffset() int {
	offset := 0
	for _, shape := range c.shapes {
		for _, orientation := range shape.Orientations {
			if top, _ := orientation.extent(); top < offset {
				offset = top
			}
		}
	}
	return offset
}

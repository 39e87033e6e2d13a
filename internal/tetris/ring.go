package tetris

// Orientation is one rotational configuration of a shape, as offsets from the anchor
type Orientation []Point

// RotationDir is the direction of a rotation
type RotationDir int

const (
	// RotateLeftDir rotates counter clockwise
	RotateLeftDir RotationDir = iota
	// RotateRightDir rotates clockwise
	RotateRightDir
)

// Opposite returns the reverse direction
func (dir RotationDir) Opposite() RotationDir {
	if dir == RotateLeftDir {
		return RotateRightDir
	}
	return RotateLeftDir
}

// RotationRing is a closed cycle of orientations with one current entry.
// The orientation table is shared and never modified, so copying a ring is safe.
type RotationRing struct {
	orientations []Orientation
	current      int
	revertDir    RotationDir
}

// NewRotationRing creates a ring positioned at its first orientation
func NewRotationRing(orientations []Orientation) RotationRing {
	return RotationRing{
		orientations: orientations,
		revertDir:    RotateLeftDir,
	}
}

// Cells returns the offsets of the current orientation
func (ring *RotationRing) Cells() Orientation {
	return ring.orientations[ring.current]
}

// Size returns the number of orientations in the ring
func (ring *RotationRing) Size() int {
	return len(ring.orientations)
}

// Rotate moves the current orientation one step in dir
func (ring *RotationRing) Rotate(dir RotationDir) {
	size := len(ring.orientations)
	switch dir {
	case RotateLeftDir:
		ring.current = (ring.current + size - 1) % size
	default:
		ring.current = (ring.current + 1) % size
	}
	ring.revertDir = dir.Opposite()
}

// Revert undoes the last rotation
func (ring *RotationRing) Revert() {
	ring.Rotate(ring.revertDir)
}

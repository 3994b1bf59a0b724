// Package core provides fundamental types shared by the game mode, the host
// world and the terminal platform. It has no external dependencies.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Vec3 is a world-space coordinate.
type Vec3 struct {
	X, Y, Z float64
}

// ParseVec3 parses a whitespace separated "x y z" triple.
func ParseVec3(s string) (Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Vec3{}, fmt.Errorf("core: coordinate %q: want 3 components, got %d", s, len(fields))
	}

	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("core: coordinate %q: %w", s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Vec3{}, fmt.Errorf("core: coordinate %q: component %q is not finite", s, f)
		}
		out[i] = v
	}
	return Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// String formats the vector in the same "x y z" form ParseVec3 accepts.
func (v Vec3) String() string {
	return strconv.FormatFloat(v.X, 'f', -1, 64) + " " +
		strconv.FormatFloat(v.Y, 'f', -1, 64) + " " +
		strconv.FormatFloat(v.Z, 'f', -1, 64)
}

// Cell returns the integer grid cell the point falls into (Z ignored).
func (v Vec3) Cell() (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}

// Rect represents an axis-aligned bounding box on the arena grid.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

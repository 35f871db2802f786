package terrain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"voxstream/internal/world"
)

// Shape selects the distance metric of the streaming window.
type Shape int

const (
	ShapeDisk   Shape = iota // Euclidean distance
	ShapeSquare              // Chebyshev distance
)

func (s Shape) String() string {
	if s == ShapeSquare {
		return "square"
	}
	return "disk"
}

// ParseShape converts "disk" or "square" to a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "disk", "circle":
		return ShapeDisk, nil
	case "square":
		return ShapeSquare, nil
	}
	return ShapeDisk, fmt.Errorf("unknown window shape %q", name)
}

// Window decides which chunk coordinates stay live around a viewpoint.
// A coordinate c belongs to the window of view v when the distance from the
// cell centre c+0.5 to v is at most Radius+Bias. Bias is kept slightly
// negative so boundary cells are decided the same way by every test.
type Window struct {
	Radius float64
	Bias   float64
	Shape  Shape
}

func (w Window) limit() float64 {
	return w.Radius + w.Bias
}

// Contains reports whether c is in the window of view.
func (w Window) Contains(c, view world.GridCoord) bool {
	dx := float64(c.X) + 0.5 - float64(view.X)
	dz := float64(c.Z) + 0.5 - float64(view.Z)
	lim := w.limit()
	if lim < 0 {
		return false
	}
	if w.Shape == ShapeSquare {
		return max(math.Abs(dx), math.Abs(dz)) <= lim
	}
	return dx*dx+dz*dz <= lim*lim
}

// Coords lists the window members around view, nearest first. Ties keep
// ascending Z, then X order, so the listing is deterministic.
func (w Window) Coords(view world.GridCoord) []world.GridCoord {
	r := int(math.Ceil(max(w.limit(), 0))) + 1
	out := make([]world.GridCoord, 0, (2*r+1)*(2*r+1))
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			c := view.Add(dx, dz)
			if w.Contains(c, view) {
				out = append(out, c)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b world.GridCoord) int {
		return cmp.Compare(w.centerDist2(a, view), w.centerDist2(b, view))
	})
	return out
}

func (w Window) centerDist2(c, view world.GridCoord) float64 {
	dx := float64(c.X) + 0.5 - float64(view.X)
	dz := float64(c.Z) + 0.5 - float64(view.Z)
	return dx*dx + dz*dz
}

// Size returns the number of coordinates in the window. It does not depend
// on the viewpoint.
func (w Window) Size() int {
	return len(w.Coords(world.GridCoord{}))
}

// Package attr stores the geometric attributes of graph elements.
//
// Records are owned by a [Store] and addressed by graph handles; the
// handles themselves carry no geometry. A Store observes its graph so that
// every live node and edge always has a record, including elements created
// by generators or decoders that never touch the store directly.
//
// Node records hold a position, a size and a shape tag. Edge records hold
// bend points, which layout engines that route edges (Graphviz) fill in and
// which others leave empty.
package attr

import (
	"fmt"
	"math"
)

// Shape is the outline tag of a node.
type Shape string

// Supported shapes.
const (
	ShapeRectangle Shape = "rectangle"
	ShapeEllipse   Shape = "ellipse"
	ShapeRounded   Shape = "rounded"
)

// ParseShape converts a string to a Shape.
// The empty string maps to [ShapeRectangle].
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case "", ShapeRectangle:
		return ShapeRectangle, nil
	case ShapeEllipse, ShapeRounded:
		return Shape(s), nil
	default:
		return "", fmt.Errorf("unknown shape %q", s)
	}
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is the geometry of one node. X and Y locate the node's center.
type Node struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Shape  Shape   `json:"shape,omitempty" bson:"shape,omitempty"`
}

// Position returns the node's center.
func (n Node) Position() Point { return Point{X: n.X, Y: n.Y} }

// Valid reports whether every coordinate is finite and sizes are non-negative.
func (n Node) Valid() bool {
	for _, v := range []float64{n.X, n.Y, n.Width, n.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return n.Width >= 0 && n.Height >= 0
}

// normalized applies the bulk-setter defaults.
func (n Node) normalized() Node {
	if n.Shape == "" {
		n.Shape = ShapeRectangle
	}
	return n
}

// Edge is the geometry of one edge: the bend points between its endpoints,
// excluding the endpoints themselves.
type Edge struct {
	Bends []Point `json:"bends,omitempty" bson:"bends,omitempty"`
}

// Patch is a partial node record. Nil fields keep their current value.
type Patch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Shape  *Shape   `json:"shape,omitempty"`
}

// Apply returns cur with every non-nil field of p replaced.
func (p Patch) Apply(cur Node) Node {
	if p.X != nil {
		cur.X = *p.X
	}
	if p.Y != nil {
		cur.Y = *p.Y
	}
	if p.Width != nil {
		cur.Width = *p.Width
	}
	if p.Height != nil {
		cur.Height = *p.Height
	}
	if p.Shape != nil {
		cur.Shape = *p.Shape
	}
	return cur
}

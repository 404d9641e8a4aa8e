package boundary

import "math"

// Point is a position in screen pixels. Y grows downwards.
type Point struct {
	X, Y float64
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Boundary is a named 2D region that can be hit-tested.
type Boundary interface {
	Name() string
	Within(p Point) bool
}

var (
	_ Boundary = Rectangle{}
	_ Boundary = Circle{}
)

// Rectangle is an axis-aligned region spanned by two corners.
// Containment is inclusive on all four edges.
type Rectangle struct {
	name string
	Min  Point
	Max  Point
}

// NewRectangle creates a rectangle from any two opposite corners.
func NewRectangle(name string, a, b Point) Rectangle {
	return Rectangle{
		name: name,
		Min:  Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max:  Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

func (r Rectangle) Name() string {
	return r.name
}

func (r Rectangle) Within(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint of the rectangle.
func (r Rectangle) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Circle is a disc around Center. Points at exactly Radius are inside.
type Circle struct {
	name   string
	Center Point
	Radius float64
}

// NewCircle creates a circular boundary.
func NewCircle(name string, center Point, radius float64) Circle {
	return Circle{name: name, Center: center, Radius: radius}
}

func (c Circle) Name() string {
	return c.name
}

func (c Circle) Within(p Point) bool {
	dx := p.X - c.Center.X
	dy := p.Y - c.Center.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

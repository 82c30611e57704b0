// Package geom provides the 2D primitives used throughout tessella:
// points and directed line segments in source-image pixel coordinates,
// and row-major affine transforms for composing the symmetry operations.
package geom

import "math"

// Point is a 2D point or vector in Cartesian pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Line is a directed segment between two endpoints. Direction matters:
// it defines the signed axis used by reflections and glide reflections.
type Line struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Ln is shorthand for constructing a Line.
func Ln(x1, y1, x2, y2 float64) Line { return Line{X1: x1, Y1: y1, X2: x2, Y2: y2} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between two points.
func Dist(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Start returns the line's first endpoint.
func (l Line) Start() Point { return Point{l.X1, l.Y1} }

// End returns the line's second endpoint.
func (l Line) End() Point { return Point{l.X2, l.Y2} }

// Midpoint returns the point halfway between the line's endpoints.
func (l Line) Midpoint() Point {
	return Point{(l.X1 + l.X2) / 2, (l.Y1 + l.Y2) / 2}
}

// Angle returns the angle of the line's direction in radians.
// Undefined for degenerate lines; callers must check Degenerate first.
func (l Line) Angle() float64 {
	return math.Atan2(l.Y2-l.Y1, l.X2-l.X1)
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return Dist(l.Start(), l.End())
}

// Degenerate reports whether both endpoints coincide, which would make
// the axis direction undefined.
func (l Line) Degenerate() bool {
	return l.X1 == l.X2 && l.Y1 == l.Y2
}

// Affine is a 2D affine transform in row-major form:
//
//	[ A B C ]
//	[ D E F ]
//
// mapping (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{A: 1, C: tx, E: 1, F: ty}
}

// Rotate returns a rotation by theta radians about the origin.
func Rotate(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return Affine{A: cos, B: -sin, D: sin, E: cos}
}

// FlipY returns a reflection across the horizontal axis (y -> -y).
func FlipY() Affine {
	return Affine{A: 1, E: -1}
}

// Apply transforms a point.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two transforms: the result applies u first, then t.
func (t Affine) Mul(u Affine) Affine {
	return Affine{
		A: t.A*u.A + t.B*u.D,
		B: t.A*u.B + t.B*u.E,
		C: t.A*u.C + t.B*u.F + t.C,
		D: t.D*u.A + t.E*u.D,
		E: t.D*u.B + t.E*u.E,
		F: t.D*u.C + t.E*u.F + t.F,
	}
}

// Inv returns the inverse transform and whether it exists.
func (t Affine) Inv() (Affine, bool) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}
	return Affine{
		A: t.E / det, B: -t.B / det, C: (t.B*t.F - t.C*t.E) / det,
		D: -t.D / det, E: t.A / det, F: (t.C*t.D - t.A*t.F) / det,
	}, true
}

// RotateAbout returns a rotation by theta radians about pivot p.
func RotateAbout(theta float64, p Point) Affine {
	return Translate(p.X, p.Y).Mul(Rotate(theta)).Mul(Translate(-p.X, -p.Y))
}

// ReflectAcross returns a reflection across the infinite line through l's
// endpoints: translate the first endpoint to the origin, rotate the line onto
// the horizontal axis, negate the perpendicular axis, then undo the alignment.
// The caller must reject degenerate lines.
func ReflectAcross(l Line) Affine {
	theta := l.Angle()
	return Translate(l.X1, l.Y1).
		Mul(Rotate(theta)).
		Mul(FlipY()).
		Mul(Rotate(-theta)).
		Mul(Translate(-l.X1, -l.Y1))
}

// GlideAcross returns a glide reflection: a reflection across l composed with
// a translation of dist pixels along l's direction. The slide is applied in
// the axis-aligned frame, after the perpendicular flip and before the
// alignment rotation is undone.
func GlideAcross(l Line, dist float64) Affine {
	theta := l.Angle()
	return Translate(l.X1, l.Y1).
		Mul(Rotate(theta)).
		Mul(Translate(dist, 0)).
		Mul(FlipY()).
		Mul(Rotate(-theta)).
		Mul(Translate(-l.X1, -l.Y1))
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

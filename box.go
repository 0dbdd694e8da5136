package canopy

import "math"

// Box2 is an axis-aligned bounding box defined by its minimum and maximum
// corners. The empty box has Min = (+Inf, +Inf) and Max = (-Inf, -Inf); every
// operation special-cases it so infinities never leak into results.
type Box2 struct {
	Min Vector2
	Max Vector2
}

// NewBox2 returns an empty box.
func NewBox2() Box2 {
	var b Box2
	b.SetEmpty()
	return b
}

// B2 returns a box from the given minimum and maximum coordinates.
func B2(x0, y0, x1, y1 float64) Box2 {
	return Box2{Vector2{x0, y0}, Vector2{x1, y1}}
}

// SetEmpty sets b to the empty box.
func (b *Box2) SetEmpty() {
	b.Min = Vector2{math.Inf(1), math.Inf(1)}
	b.Max = Vector2{math.Inf(-1), math.Inf(-1)}
}

// IsEmpty reports whether max < min on either axis.
func (b Box2) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// Set sets both corners.
func (b *Box2) Set(min, max Vector2) {
	b.Min = min
	b.Max = max
}

// SetFromPoints sets b to the smallest box containing every point. With no
// points b becomes empty.
func (b *Box2) SetFromPoints(points ...Vector2) {
	b.SetEmpty()
	for _, p := range points {
		b.ExpandByPoint(p)
	}
}

// SetFromCenterAndSize sets b from a center point and a full size.
func (b *Box2) SetFromCenterAndSize(center, size Vector2) {
	half := size.MulScalar(0.5)
	b.Min = center.Sub(half)
	b.Max = center.Add(half)
}

// Center returns the center point, or (0, 0) for an empty box.
func (b Box2) Center() Vector2 {
	if b.IsEmpty() {
		return Vector2{}
	}
	return Vector2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Size returns max - min, or (0, 0) for an empty box.
func (b Box2) Size() Vector2 {
	if b.IsEmpty() {
		return Vector2{}
	}
	return b.Max.Sub(b.Min)
}

// ExpandByPoint grows b to include p.
func (b *Box2) ExpandByPoint(p Vector2) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// ExpandByVector grows b by v on each side. No-op on an empty box.
func (b *Box2) ExpandByVector(v Vector2) {
	if b.IsEmpty() {
		return
	}
	b.Min = b.Min.Sub(v)
	b.Max = b.Max.Add(v)
}

// ExpandByScalar grows b by s on each side. No-op on an empty box.
func (b *Box2) ExpandByScalar(s float64) {
	b.ExpandByVector(Vector2{s, s})
}

// ContainsPoint reports whether p lies inside b. Edges count as inside.
func (b Box2) ContainsPoint(p Vector2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsBox reports whether other lies fully inside b.
func (b Box2) ContainsBox(other Box2) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.Min.X <= other.Min.X && other.Max.X <= b.Max.X &&
		b.Min.Y <= other.Min.Y && other.Max.Y <= b.Max.Y
}

// IntersectsBox reports whether b and other overlap. Boxes sharing only an
// edge intersect.
func (b Box2) IntersectsBox(other Box2) bool {
	return !(other.Max.X < b.Min.X || other.Min.X > b.Max.X ||
		other.Max.Y < b.Min.Y || other.Min.Y > b.Max.Y)
}

// Intersect sets b to its intersection with other. Disjoint boxes produce
// the empty box.
func (b *Box2) Intersect(other Box2) {
	b.Min = b.Min.Max(other.Min)
	b.Max = b.Max.Min(other.Max)
	if b.IsEmpty() {
		b.SetEmpty()
	}
}

// Union sets b to the smallest box containing both b and other. The empty
// box is the identity.
func (b *Box2) Union(other Box2) {
	if other.IsEmpty() {
		return
	}
	if b.IsEmpty() {
		*b = other
		return
	}
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// Translate moves b by offset. No-op on an empty box.
func (b *Box2) Translate(offset Vector2) {
	if b.IsEmpty() {
		return
	}
	b.Min = b.Min.Add(offset)
	b.Max = b.Max.Add(offset)
}

// Equals reports whether both corners match exactly. Two empty boxes are
// equal regardless of representation.
func (b Box2) Equals(other Box2) bool {
	if b.IsEmpty() && other.IsEmpty() {
		return true
	}
	return b.Min == other.Min && b.Max == other.Max
}

// Corners returns the four corners: top-left, top-right, bottom-right,
// bottom-left.
func (b Box2) Corners() [4]Vector2 {
	return [4]Vector2{
		{b.Min.X, b.Min.Y},
		{b.Max.X, b.Min.Y},
		{b.Max.X, b.Max.Y},
		{b.Min.X, b.Max.Y},
	}
}

// Transform returns the axis-aligned box spanning all four corners of b
// transformed by m. Transforming only Min and Max would be wrong under
// rotation.
func (b Box2) Transform(m Matrix2) Box2 {
	if b.IsEmpty() {
		return b
	}
	out := NewBox2()
	for _, c := range b.Corners() {
		out.ExpandByPoint(m.TransformPoint(c))
	}
	return out
}

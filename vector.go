package canopy

import "math"

// Vector2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vector2 struct {
	X, Y float64
}

// Vec2 returns a new Vector2.
func Vec2(x, y float64) Vector2 {
	return Vector2{x, y}
}

// Set sets both components.
func (v *Vector2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

// Mul multiplies component-wise.
func (v Vector2) Mul(o Vector2) Vector2 {
	return Vector2{v.X * o.X, v.Y * o.Y}
}

func (v Vector2) MulScalar(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
// Positive when o is clockwise from v in a Y-down coordinate system.
func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the direction of v, or the zero vector
// if v has no length.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

func (v Vector2) DistanceTo(o Vector2) float64 {
	return v.Sub(o).Length()
}

// ManhattanDistanceTo returns |dx| + |dy|.
func (v Vector2) ManhattanDistanceTo(o Vector2) float64 {
	return math.Abs(v.X-o.X) + math.Abs(v.Y-o.Y)
}

// AngleBetween returns the signed angle in radians that rotates v onto o.
// Returns 0 if either vector has no length.
func (v Vector2) AngleBetween(o Vector2) float64 {
	denom := v.Length() * o.Length()
	if denom == 0 {
		return 0
	}
	cos := v.Dot(o) / denom
	// Rounding can push cos slightly outside [-1, 1].
	cos = math.Max(-1, math.Min(1, cos))
	angle := math.Acos(cos)
	if v.Cross(o) < 0 {
		return -angle
	}
	return angle
}

// Rotate returns v rotated by angle radians around the origin.
func (v Vector2) Rotate(angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Min returns the component-wise minimum.
func (v Vector2) Min(o Vector2) Vector2 {
	return Vector2{math.Min(v.X, o.X), math.Min(v.Y, o.Y)}
}

// Max returns the component-wise maximum.
func (v Vector2) Max(o Vector2) Vector2 {
	return Vector2{math.Max(v.X, o.X), math.Max(v.Y, o.Y)}
}

// Equals reports whether both components differ by at most tol.
func (v Vector2) Equals(o Vector2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

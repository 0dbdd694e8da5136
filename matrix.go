package canopy

import (
	"errors"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrSingularMatrix is returned when inverting a matrix whose determinant is
// (numerically) zero.
var ErrSingularMatrix = errors.New("canopy: matrix is not invertible")

const (
	// singularEpsilon is the determinant magnitude below which a matrix is
	// treated as singular.
	singularEpsilon = 1e-24

	// minScale is the smallest scale magnitude allowed into a compose.
	minScale = 1e-6
)

// Matrix2 is a 2D affine matrix.
//
//	Matrix layout: [a, b, c, d, e, f]
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Matrix2 [6]float64

// identityMatrix is the identity affine matrix.
var identityMatrix = Matrix2{1, 0, 0, 1, 0, 0}

// Identity2 returns the identity matrix.
func Identity2() Matrix2 {
	return identityMatrix
}

// Identity resets m to the identity matrix.
func (m *Matrix2) Identity() {
	*m = identityMatrix
}

// multiplyAffine multiplies two 2D affine matrices: result = p * c.
// c is applied first, then p.
func multiplyAffine(p, c Matrix2) Matrix2 {
	return Matrix2{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Multiply sets m = m * other.
func (m *Matrix2) Multiply(other Matrix2) {
	*m = multiplyAffine(*m, other)
}

// Premultiply sets m = other * m.
func (m *Matrix2) Premultiply(other Matrix2) {
	*m = multiplyAffine(other, *m)
}

// Compose rebuilds m from a translation, scale and rotation (radians):
//
//	Translate(px, py) * Rotate(rotation) * Scale(sx, sy)
func (m *Matrix2) Compose(px, py, sx, sy, rotation float64) {
	sin, cos := math.Sincos(rotation)
	*m = Matrix2{cos * sx, sin * sx, -sin * sy, cos * sy, px, py}
}

// Translate sets m = m * Translate(x, y).
func (m *Matrix2) Translate(x, y float64) {
	m[4] += m[0]*x + m[2]*y
	m[5] += m[1]*x + m[3]*y
}

// Rotate sets m = m * Rotate(rad).
func (m *Matrix2) Rotate(rad float64) {
	sin, cos := math.Sincos(rad)
	a := m[0]*cos + m[2]*sin
	b := m[1]*cos + m[3]*sin
	c := m[0]*-sin + m[2]*cos
	d := m[1]*-sin + m[3]*cos
	m[0], m[1], m[2], m[3] = a, b, c, d
}

// Scale sets m = m * Scale(sx, sy).
func (m *Matrix2) Scale(sx, sy float64) {
	m[0] *= sx
	m[1] *= sx
	m[2] *= sy
	m[3] *= sy
}

// Position returns the translation component.
func (m Matrix2) Position() Vector2 {
	return Vector2{m[4], m[5]}
}

// Rotation returns the rotation component in radians. Assumes m has no skew.
func (m Matrix2) Rotation() float64 {
	return math.Atan2(m[1], m[0])
}

// ScaleVector returns the scale component as the magnitudes of the basis
// columns. The sign of a negative scale is folded into Rotation.
func (m Matrix2) ScaleVector() Vector2 {
	return Vector2{
		math.Sqrt(m[0]*m[0] + m[1]*m[1]),
		math.Sqrt(m[2]*m[2] + m[3]*m[3]),
	}
}

// Determinant returns the determinant of the linear part.
func (m Matrix2) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Inverse returns the inverse of m. A singular matrix yields
// ErrSingularMatrix and the identity.
func (m Matrix2) Inverse() (Matrix2, error) {
	det := m.Determinant()
	if math.Abs(det) < singularEpsilon || math.IsNaN(det) {
		return identityMatrix, ErrSingularMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix2{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, nil
}

// MustInverse is like Inverse but panics on a singular matrix. Used on paths
// where scale has already been sanitized, so a failure is a programming error.
func (m Matrix2) MustInverse() Matrix2 {
	inv, err := m.Inverse()
	if err != nil {
		panic(err)
	}
	return inv
}

// TransformPoint applies m to a point.
func (m Matrix2) TransformPoint(v Vector2) Vector2 {
	return Vector2{m[0]*v.X + m[2]*v.Y + m[4], m[1]*v.X + m[3]*v.Y + m[5]}
}

// ApplyToVector applies m to v in place.
func (m Matrix2) ApplyToVector(v *Vector2) {
	x := v.X
	v.X = m[0]*x + m[2]*v.Y + m[4]
	v.Y = m[1]*x + m[3]*v.Y + m[5]
}

// TransformVector applies only the linear part of m (no translation).
// Used for deltas and directions.
func (m Matrix2) TransformVector(v Vector2) Vector2 {
	return Vector2{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y}
}

// transformXY applies m to (x, y) without constructing a Vector2.
func (m Matrix2) transformXY(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Equals reports whether every element differs by at most tol.
func (m Matrix2) Equals(other Matrix2, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

// GeoM converts m to an ebiten.GeoM for native image draws.
func (m Matrix2) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// --- Sanitizing ---

// sanitizeScale keeps a scale component away from zero, preserving its sign.
// NaN becomes minScale.
func sanitizeScale(s float64) float64 {
	if math.IsNaN(s) {
		return minScale
	}
	if s > -minScale && s < minScale {
		if math.Signbit(s) {
			return -minScale
		}
		return minScale
	}
	return s
}

// sanitizeOffset replaces NaN and infinities with 0.
func sanitizeOffset(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package canopy

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vector2) {
	t.Helper()
	if !got.Equals(want, 1e-6) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Matrix2) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestMatrixCompose(t *testing.T) {
	tests := []struct {
		name               string
		px, py, sx, sy, rot float64
		want               Matrix2
	}{
		{"identity", 0, 0, 1, 1, 0, Matrix2{1, 0, 0, 1, 0, 0}},
		{"translation", 10, 20, 1, 1, 0, Matrix2{1, 0, 0, 1, 10, 20}},
		{"scale", 0, 0, 2, 3, 0, Matrix2{2, 0, 0, 3, 0, 0}},
		// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
		{"rot90", 0, 0, 1, 1, math.Pi / 2, Matrix2{0, 1, -1, 0, 0, 0}},
		{"rot90 scaled", 5, 6, 2, 3, math.Pi / 2, Matrix2{0, 2, -3, 0, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Matrix2
			m.Compose(tt.px, tt.py, tt.sx, tt.sy, tt.rot)
			assertMatrix(t, tt.name, m, tt.want)
		})
	}
}

// Compose must equal Translate, then Rotate, then Scale applied to identity.
func TestMatrixComposeMatchesSteps(t *testing.T) {
	var composed Matrix2
	composed.Compose(7, -3, 1.5, 0.5, 0.7)

	stepped := Identity2()
	stepped.Translate(7, -3)
	stepped.Rotate(0.7)
	stepped.Scale(1.5, 0.5)

	assertMatrix(t, "compose", composed, stepped)
}

func TestMatrixMultiplyOrder(t *testing.T) {
	var tr, sc Matrix2
	tr.Compose(10, 0, 1, 1, 0)
	sc.Compose(0, 0, 2, 2, 0)

	// tr * sc scales first: (1,0) → (2,0) → (12,0)
	m := tr
	m.Multiply(sc)
	assertVec(t, "tr*sc", m.TransformPoint(Vec2(1, 0)), Vec2(12, 0))

	// sc * tr translates first: (1,0) → (11,0) → (22,0)
	m = tr
	m.Premultiply(sc)
	assertVec(t, "sc*tr", m.TransformPoint(Vec2(1, 0)), Vec2(22, 0))
}

// randScale returns a magnitude in [0.01, 100], log-uniform.
func randScale(rng *rand.Rand) float64 {
	return math.Pow(10, rng.Float64()*4-2)
}

func TestMatrixInverseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		var m Matrix2
		sx, sy := randScale(rng), randScale(rng)
		if rng.Intn(2) == 0 {
			sx = -sx
		}
		if rng.Intn(2) == 0 {
			sy = -sy
		}
		m.Compose(rng.Float64()*200-100, rng.Float64()*200-100, sx, sy, rng.Float64()*2*math.Pi)

		inv, err := m.Inverse()
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		// Cancellation in the translation column grows with the scale ratio.
		product := m
		product.Multiply(inv)
		if !product.Equals(identityMatrix, 1e-7) {
			t.Fatalf("case %d (sx=%v sy=%v): m * inv = %v", i, sx, sy, product)
		}

		p := Vec2(rng.Float64()*50, rng.Float64()*50)
		back := inv.TransformPoint(m.TransformPoint(p))
		if !back.Equals(p, 1e-7) {
			t.Fatalf("case %d (sx=%v sy=%v): round trip %v → %v", i, sx, sy, p, back)
		}
	}
}

func TestMatrixInverseSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix2
	}{
		{"zero", Matrix2{}},
		{"collapsed x", Matrix2{0, 0, 0, 1, 5, 5}},
		{"parallel columns", Matrix2{1, 2, 2, 4, 0, 0}},
		{"nan", Matrix2{math.NaN(), 0, 0, 1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.m.Inverse()
			if !errors.Is(err, ErrSingularMatrix) {
				t.Fatalf("err = %v, want ErrSingularMatrix", err)
			}
			assertMatrix(t, "inverse", inv, identityMatrix)
		})
	}
}

func TestMatrixMustInversePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Matrix2{}.MustInverse()
}

func TestMatrixTransformVectorIgnoresTranslation(t *testing.T) {
	var m Matrix2
	m.Compose(100, 100, 2, 2, 0)
	assertVec(t, "vector", m.TransformVector(Vec2(1, 1)), Vec2(2, 2))
	assertVec(t, "point", m.TransformPoint(Vec2(1, 1)), Vec2(102, 102))

	v := Vec2(1, 1)
	m.ApplyToVector(&v)
	assertVec(t, "apply", v, Vec2(102, 102))
}

func TestMatrixDecompose(t *testing.T) {
	var m Matrix2
	m.Compose(3, 4, 2, 5, 0.5)
	assertVec(t, "position", m.Position(), Vec2(3, 4))
	assertNear(t, "rotation", m.Rotation(), 0.5)
	assertVec(t, "scale", m.ScaleVector(), Vec2(2, 5))
	assertNear(t, "determinant", m.Determinant(), 10)
}

func TestMatrixDecomposeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		px, py := rng.Float64()*2000-1000, rng.Float64()*2000-1000
		sx, sy := randScale(rng), randScale(rng)
		rot := rng.Float64()*4*math.Pi - 2*math.Pi

		var m Matrix2
		m.Compose(px, py, sx, sy, rot)

		if !m.Position().Equals(Vec2(px, py), 1e-9) {
			t.Fatalf("case %d: position = %v, want (%v, %v)", i, m.Position(), px, py)
		}
		scale := m.ScaleVector()
		if math.Abs(scale.X-sx) > 1e-12*sx || math.Abs(scale.Y-sy) > 1e-12*sy {
			t.Fatalf("case %d: scale = %v, want (%v, %v)", i, scale, sx, sy)
		}
		if d := math.Remainder(m.Rotation()-rot, 2*math.Pi); math.Abs(d) > 1e-9 {
			t.Fatalf("case %d: rotation = %v, want %v mod 2π", i, m.Rotation(), rot)
		}
		if det := m.Determinant(); math.Abs(det-sx*sy) > 1e-12*sx*sy {
			t.Fatalf("case %d: determinant = %v, want %v", i, det, sx*sy)
		}

		var back Matrix2
		back.Compose(m.Position().X, m.Position().Y, scale.X, scale.Y, m.Rotation())
		if !back.Equals(m, 1e-9*math.Max(sx, sy)) {
			t.Fatalf("case %d: recomposed %v, want %v", i, back, m)
		}
	}
}

func TestMatrixGeoM(t *testing.T) {
	var m Matrix2
	m.Compose(10, 20, 2, 3, math.Pi/2)
	g := m.GeoM()
	x, y := g.Apply(1, 1)
	want := m.TransformPoint(Vec2(1, 1))
	assertNear(t, "x", x, want.X)
	assertNear(t, "y", y, want.Y)
}

func TestSanitizeScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{-3, -3},
		{0, minScale},
		{math.Copysign(0, -1), -minScale},
		{1e-9, minScale},
		{-1e-9, -minScale},
		{math.NaN(), minScale},
	}
	for _, tt := range tests {
		if got := sanitizeScale(tt.in); got != tt.want {
			t.Errorf("sanitizeScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeOffset(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := sanitizeOffset(v); got != 0 {
			t.Errorf("sanitizeOffset(%v) = %v, want 0", v, got)
		}
	}
	if got := sanitizeOffset(-7.5); got != -7.5 {
		t.Errorf("sanitizeOffset(-7.5) = %v", got)
	}
}

func BenchmarkMatrixCompose(b *testing.B) {
	var m Matrix2
	for i := 0; i < b.N; i++ {
		m.Compose(10, 20, 2, 2, 0.3)
		m.Translate(-5, -5)
	}
}

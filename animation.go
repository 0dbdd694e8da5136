package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of an Object2D at once.
// Create one with TweenPosition, TweenScale, TweenRotation, TweenOpacity or
// TweenFill and call Update(dt) each frame, typically from the target's
// OnUpdate or a FrameFunc. Written values mark the object dirty. A
// destroyed target stops the group.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Object2D
	Done   bool
}

// Update advances all tweens by dt seconds and writes their values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDestroyed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates o.Position to (toX, toY).
func TweenPosition(o *Object2D, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(&o.Position.X, toX, duration, fn)
	g.add(&o.Position.Y, toY, duration, fn)
	return g
}

// TweenScale animates o.Scale to (toX, toY). The scale is sanitized on the
// next matrix update, so tweening through zero is safe.
func TweenScale(o *Object2D, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(&o.Scale.X, toX, duration, fn)
	g.add(&o.Scale.Y, toY, duration, fn)
	return g
}

// TweenRotation animates o.Rotation to the target angle in radians.
func TweenRotation(o *Object2D, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(&o.Rotation, to, duration, fn)
	return g
}

// TweenOpacity animates o.Opacity.
func TweenOpacity(o *Object2D, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(&o.Opacity, to, duration, fn)
	return g
}

// TweenFill animates the fill color of a styled shape. Returns nil when the
// object's shape has no Style.
func TweenFill(o *Object2D, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	st := styleOf(o.Shape)
	if st == nil {
		return nil
	}
	g := &TweenGroup{target: o}
	g.add(&st.Fill.R, to.R, duration, fn)
	g.add(&st.Fill.G, to.G, duration, fn)
	g.add(&st.Fill.B, to.B, duration, fn)
	g.add(&st.Fill.A, to.A, duration, fn)
	return g
}

// styleOf returns a pointer to the Style of the built-in shapes.
func styleOf(s Shape) *Style {
	switch v := s.(type) {
	case *Box:
		return &v.Style
	case *Circle:
		return &v.Style
	case *Polygon:
		return &v.Style
	case *Line:
		return &v.Style
	case *Text:
		return &v.Style
	}
	return nil
}

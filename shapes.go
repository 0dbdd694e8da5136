package canopy

import (
	"math"
	"strings"
)

// Debug font metrics used by Text and by Canvas.MeasureText.
const (
	textGlyphWidth  = 6
	textLineHeight  = 16
	defaultHitSlack = 4 // line hit tolerance in local units
)

// Style holds the paint applied before a shape draws. A zero alpha disables
// that part (no fill, or no stroke).
type Style struct {
	Fill      Color
	Stroke    Color
	LineWidth float64
}

// ApplyStyle sets ctx's fill, stroke and line width from s.
func (s Style) ApplyStyle(ctx Context) {
	ctx.SetFillColor(s.Fill)
	ctx.SetStrokeColor(s.Stroke)
	lw := s.LineWidth
	if lw <= 0 {
		lw = 1
	}
	ctx.SetLineWidth(lw)
}

func (s Style) filled() bool  { return s.Fill.A > 0 }
func (s Style) stroked() bool { return s.Stroke.A > 0 }

// --- Box ---

// Box is an axis-aligned rectangle in local space.
type Box struct {
	Style
	Rect Box2
}

// NewBox returns a w by h box centered on the local origin.
func NewBox(w, h float64, style Style) *Box {
	return &Box{Style: style, Rect: B2(-w/2, -h/2, w/2, h/2)}
}

// BoundingBox returns the rectangle.
func (b *Box) BoundingBox() Box2 { return b.Rect }

// Contains reports whether p lies inside or on the rectangle.
func (b *Box) Contains(p Vector2) bool { return b.Rect.ContainsPoint(p) }

// Draw fills then strokes the rectangle.
func (b *Box) Draw(ctx Context) {
	if b.filled() {
		ctx.FillRect(b.Rect)
	}
	if b.stroked() {
		ctx.StrokeRect(b.Rect)
	}
}

// --- Circle ---

// Circle is a disc in local space.
type Circle struct {
	Style
	Center Vector2
	Radius float64
}

// NewCircle returns a circle of the given radius centered on the local origin.
func NewCircle(radius float64, style Style) *Circle {
	return &Circle{Style: style, Radius: radius}
}

func (c *Circle) BoundingBox() Box2 {
	var b Box2
	b.SetFromCenterAndSize(c.Center, Vector2{c.Radius * 2, c.Radius * 2})
	return b
}

// Contains reports whether p lies inside or on the circle.
func (c *Circle) Contains(p Vector2) bool {
	dx := p.X - c.Center.X
	dy := p.Y - c.Center.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

func (c *Circle) Draw(ctx Context) {
	if c.filled() {
		ctx.FillCircle(c.Center, c.Radius)
	}
	if c.stroked() {
		ctx.StrokeCircle(c.Center, c.Radius)
	}
}

// --- Polygon ---

// Polygon is a convex polygon in local space. Points may wind either way.
type Polygon struct {
	Style
	Points []Vector2
}

// NewPolygon returns a polygon through the given points.
func NewPolygon(points []Vector2, style Style) *Polygon {
	return &Polygon{Style: style, Points: points}
}

func (p *Polygon) BoundingBox() Box2 {
	var b Box2
	b.SetFromPoints(p.Points...)
	return b
}

// Contains reports whether pt lies inside the polygon using a cross-product
// sign test: the point must be on the same side of every edge.
func (p *Polygon) Contains(pt Vector2) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

func (p *Polygon) Draw(ctx Context) {
	if p.filled() {
		ctx.FillPolygon(p.Points)
	}
	if p.stroked() {
		ctx.StrokePolyline(p.Points, true)
	}
}

// --- Line ---

// Line is a segment in local space. It is hit within Tolerance of the
// segment, or half the line width when that is larger.
type Line struct {
	Style
	From, To  Vector2
	Tolerance float64
}

// NewLine returns a segment between from and to.
func NewLine(from, to Vector2, style Style) *Line {
	return &Line{Style: style, From: from, To: to, Tolerance: defaultHitSlack}
}

func (l *Line) reach() float64 {
	return math.Max(l.Tolerance, l.LineWidth/2)
}

func (l *Line) BoundingBox() Box2 {
	var b Box2
	b.SetFromPoints(l.From, l.To)
	b.ExpandByScalar(l.LineWidth / 2)
	return b
}

// Contains reports whether p is within reach of the segment.
func (l *Line) Contains(p Vector2) bool {
	return distanceToSegment(p, l.From, l.To) <= l.reach()
}

func (l *Line) Draw(ctx Context) {
	ctx.StrokePolyline([]Vector2{l.From, l.To}, false)
}

func distanceToSegment(p, a, b Vector2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(a.Add(ab.MulScalar(t)))
}

// --- Text ---

// Text is a block of debug-font text with its top-left corner at the local
// origin. Each line is textLineHeight tall and textGlyphWidth per rune.
type Text struct {
	Style
	Text string
}

// NewText returns a text shape.
func NewText(s string, style Style) *Text {
	return &Text{Style: style, Text: s}
}

// measureDebugText returns the size of s in debug-font pixels.
func measureDebugText(s string) Vector2 {
	if s == "" {
		return Vector2{}
	}
	lines := strings.Split(s, "\n")
	widest := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > widest {
			widest = n
		}
	}
	return Vector2{float64(widest * textGlyphWidth), float64(len(lines) * textLineHeight)}
}

func (t *Text) BoundingBox() Box2 {
	size := measureDebugText(t.Text)
	if size.X == 0 {
		return NewBox2()
	}
	return B2(0, 0, size.X, size.Y)
}

func (t *Text) Contains(p Vector2) bool {
	return t.BoundingBox().ContainsPoint(p)
}

func (t *Text) Draw(ctx Context) {
	if t.Text == "" {
		return
	}
	ctx.FillText(t.Text, Vector2{})
}

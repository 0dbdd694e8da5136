package canopy

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Canvas is a Context that draws onto an *ebiten.Image. Geometry is
// triangulated in local space, transformed on the CPU and submitted with
// DrawTriangles against a white pixel. Stroke widths are in screen pixels.
type Canvas struct {
	target *ebiten.Image
	w, h   int

	state paintState
	stack []paintState

	pool      *layerPool
	drawCount *int

	// Scratch buffers, reused between calls.
	points []Vector2
	verts  []ebiten.Vertex
	inds   []uint16
}

// NewCanvas returns a Canvas drawing onto target.
func NewCanvas(target *ebiten.Image) *Canvas {
	c := &Canvas{
		state:     defaultPaintState(),
		pool:      &layerPool{},
		drawCount: new(int),
	}
	c.SetTarget(target)
	return c
}

// SetTarget points the canvas at a new image and resets its state. The host
// loop calls this with the screen image every frame.
func (c *Canvas) SetTarget(target *ebiten.Image) {
	c.target = target
	if target != nil {
		b := target.Bounds()
		c.w, c.h = b.Dx(), b.Dy()
	}
	c.state = defaultPaintState()
	c.stack = c.stack[:0]
}

// Target returns the image being drawn onto.
func (c *Canvas) Target() *ebiten.Image { return c.target }

func (c *Canvas) SetTransform(m Matrix2) { c.state.transform = m }
func (c *Canvas) Transform() Matrix2     { return c.state.transform }

func (c *Canvas) Save() { c.stack = append(c.stack, c.state) }

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) SetAlpha(a float64)     { c.state.alpha = clamp01(a) }
func (c *Canvas) Alpha() float64         { return c.state.alpha }
func (c *Canvas) SetFillColor(col Color) { c.state.fill = col }
func (c *Canvas) SetStrokeColor(col Color) {
	c.state.stroke = col
}
func (c *Canvas) SetLineWidth(w float64) { c.state.lineWidth = w }

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) DrawCount() int { return *c.drawCount }

// Clear fills the whole target with col, or clears it when col is fully
// transparent.
func (c *Canvas) Clear(col Color) {
	if c.target == nil {
		return
	}
	if col.A <= 0 {
		c.target.Clear()
		return
	}
	c.target.Fill(col.toRGBA())
}

// --- Fills ---

func (c *Canvas) FillRect(r Box2) {
	if r.IsEmpty() {
		return
	}
	corners := r.Corners()
	c.FillPolygon(corners[:])
}

func (c *Canvas) FillCircle(center Vector2, radius float64) {
	c.FillPolygon(c.circlePoints(center, radius))
}

// FillPolygon fan-triangulates points from the first vertex.
func (c *Canvas) FillPolygon(points []Vector2) {
	n := len(points)
	if n < 3 || c.target == nil {
		return
	}
	c.verts = c.verts[:0]
	for _, p := range points {
		c.verts = append(c.verts, c.vertex(c.state.transform.TransformPoint(p), c.state.fill))
	}
	c.inds = c.inds[:0]
	for i := 0; i < n-2; i++ {
		c.inds = append(c.inds, 0, uint16(i+1), uint16(i+2))
	}
	c.submit()
}

// --- Strokes ---

func (c *Canvas) StrokeRect(r Box2) {
	if r.IsEmpty() {
		return
	}
	corners := r.Corners()
	c.StrokePolyline(corners[:], true)
}

func (c *Canvas) StrokeCircle(center Vector2, radius float64) {
	c.StrokePolyline(c.circlePoints(center, radius), true)
}

// StrokePolyline draws each segment as a screen-space quad of the current
// line width.
func (c *Canvas) StrokePolyline(points []Vector2, closed bool) {
	n := len(points)
	if n < 2 || c.target == nil {
		return
	}
	half := c.state.lineWidth / 2
	segments := n - 1
	if closed {
		segments = n
	}
	c.verts = c.verts[:0]
	c.inds = c.inds[:0]
	for i := 0; i < segments; i++ {
		a := c.state.transform.TransformPoint(points[i])
		b := c.state.transform.TransformPoint(points[(i+1)%n])
		px, py := perpendicular(a, b)
		off := Vector2{px * half, py * half}
		base := uint16(len(c.verts))
		c.verts = append(c.verts,
			c.vertex(a.Add(off), c.state.stroke),
			c.vertex(b.Add(off), c.state.stroke),
			c.vertex(b.Sub(off), c.state.stroke),
			c.vertex(a.Sub(off), c.state.stroke),
		)
		c.inds = append(c.inds, base, base+1, base+2, base, base+2, base+3)
	}
	c.submit()
}

// --- Text ---

// FillText draws s with ebiten's debug font, tinted by the fill color.
func (c *Canvas) FillText(s string, pos Vector2) {
	size := measureDebugText(s)
	if size.X == 0 || c.target == nil {
		return
	}
	img := c.pool.Acquire(int(size.X), int(size.Y))
	ebitenutil.DebugPrintAt(img, s, 0, 0)

	m := c.state.transform
	m.Translate(pos.X, pos.Y)
	op := &ebiten.DrawImageOptions{GeoM: m.GeoM()}
	fill := c.state.fill
	a := float32(fill.A * c.state.alpha)
	op.ColorScale.Scale(float32(fill.R)*a, float32(fill.G)*a, float32(fill.B)*a, a)
	c.target.DrawImage(img, op)
	*c.drawCount++
	c.pool.Release(img)
}

func (c *Canvas) MeasureText(s string) Vector2 { return measureDebugText(s) }

// --- Layers ---

// BeginLayer acquires a pooled offscreen image the size of the target.
func (c *Canvas) BeginLayer() Context {
	img := c.pool.Acquire(c.w, c.h)
	return &Canvas{
		target:    img,
		w:         c.w,
		h:         c.h,
		state:     c.state,
		pool:      c.pool,
		drawCount: c.drawCount,
	}
}

// CompositeLayer draws layer onto c. When mask is set, layer pixels are
// first multiplied by the mask's alpha. Both layers return to the pool.
// Contexts not created by BeginLayer are ignored.
func (c *Canvas) CompositeLayer(layer, mask Context) {
	lc, ok := layer.(*Canvas)
	if !ok || lc.pool != c.pool {
		return
	}
	if mc, ok := mask.(*Canvas); ok && mc.pool == c.pool {
		lc.target.DrawImage(mc.target, &ebiten.DrawImageOptions{Blend: BlendMask.EbitenBlend()})
		*c.drawCount++
		c.pool.Release(mc.target)
	}
	sub := lc.target.SubImage(image.Rect(0, 0, c.w, c.h)).(*ebiten.Image)
	c.target.DrawImage(sub, nil)
	*c.drawCount++
	c.pool.Release(lc.target)
}

// --- Helpers ---

// vertex builds a white-pixel vertex tinted by col and the current alpha
// (premultiplied).
func (c *Canvas) vertex(p Vector2, col Color) ebiten.Vertex {
	a := float32(col.A * c.state.alpha)
	return ebiten.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(col.R) * a,
		ColorG: float32(col.G) * a,
		ColorB: float32(col.B) * a,
		ColorA: a,
	}
}

func (c *Canvas) submit() {
	if len(c.inds) == 0 {
		return
	}
	c.target.DrawTriangles(c.verts, c.inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
	*c.drawCount++
}

// circlePoints approximates a circle with enough segments for its on-screen
// radius.
func (c *Canvas) circlePoints(center Vector2, radius float64) []Vector2 {
	s := c.state.transform.ScaleVector()
	screenR := radius * math.Max(s.X, s.Y)
	segments := int(screenR / 2)
	if segments < 12 {
		segments = 12
	}
	if segments > 64 {
		segments = 64
	}
	c.points = c.points[:0]
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		sin, cos := math.Sincos(float64(i) * step)
		c.points = append(c.points, Vector2{center.X + cos*radius, center.Y + sin*radius})
	}
	return c.points
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vector2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

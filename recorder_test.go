package canopy

import "fmt"

// drawOp is one call recorded by recordingContext.
type drawOp struct {
	kind      string
	transform Matrix2
	alpha     float64
	fill      Color
	stroke    Color
	rect      Box2
	text      string
}

// recordingContext is a Context that records what it is asked to draw.
// Layers record into their own op lists; CompositeLayer appends a
// "composite" op carrying the layer's ops in a flattened form.
type recordingContext struct {
	w, h   int
	state  paintState
	stack  []paintState
	ops    []drawOp
	clears int
	count  *int
	layers int // open layers
}

func newRecordingContext(w, h int) *recordingContext {
	return &recordingContext{w: w, h: h, state: defaultPaintState(), count: new(int)}
}

func (c *recordingContext) record(kind string) {
	*c.count++
	c.ops = append(c.ops, drawOp{
		kind:      kind,
		transform: c.state.transform,
		alpha:     c.state.alpha,
		fill:      c.state.fill,
		stroke:    c.state.stroke,
	})
}

func (c *recordingContext) SetTransform(m Matrix2) { c.state.transform = m }
func (c *recordingContext) Transform() Matrix2     { return c.state.transform }
func (c *recordingContext) Save()                  { c.stack = append(c.stack, c.state) }
func (c *recordingContext) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}
func (c *recordingContext) SetAlpha(a float64)       { c.state.alpha = a }
func (c *recordingContext) Alpha() float64           { return c.state.alpha }
func (c *recordingContext) SetFillColor(col Color)   { c.state.fill = col }
func (c *recordingContext) SetStrokeColor(col Color) { c.state.stroke = col }
func (c *recordingContext) SetLineWidth(w float64)   { c.state.lineWidth = w }

func (c *recordingContext) FillRect(r Box2) {
	c.record("fillRect")
	c.ops[len(c.ops)-1].rect = r
}

func (c *recordingContext) StrokeRect(r Box2) {
	c.record("strokeRect")
	c.ops[len(c.ops)-1].rect = r
}

func (c *recordingContext) FillCircle(Vector2, float64)     { c.record("fillCircle") }
func (c *recordingContext) StrokeCircle(Vector2, float64)   { c.record("strokeCircle") }
func (c *recordingContext) FillPolygon([]Vector2)           { c.record("fillPolygon") }
func (c *recordingContext) StrokePolyline([]Vector2, bool)  { c.record("strokePolyline") }
func (c *recordingContext) MeasureText(s string) Vector2    { return measureDebugText(s) }
func (c *recordingContext) Size() (int, int)                { return c.w, c.h }
func (c *recordingContext) DrawCount() int                  { return *c.count }
func (c *recordingContext) Clear(Color)                     { c.clears++ }

func (c *recordingContext) FillText(s string, _ Vector2) {
	c.record("fillText")
	c.ops[len(c.ops)-1].text = s
}

func (c *recordingContext) BeginLayer() Context {
	c.layers++
	return &recordingContext{w: c.w, h: c.h, state: c.state, count: c.count}
}

func (c *recordingContext) CompositeLayer(layer, mask Context) {
	l := layer.(*recordingContext)
	kind := "composite"
	if mask != nil {
		m := mask.(*recordingContext)
		kind = fmt.Sprintf("composite(mask=%d)", len(m.ops))
		c.layers--
	}
	c.layers--
	c.record(kind)
	c.ops = append(c.ops, l.ops...)
}

// kinds returns the recorded op kinds in order.
func (c *recordingContext) kinds() []string {
	out := make([]string, len(c.ops))
	for i, op := range c.ops {
		out[i] = op.kind
	}
	return out
}

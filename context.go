package canopy

// Context is the immediate-mode drawing surface shapes draw into. Geometry
// is given in the shape's local space; the surface applies the current
// transform. Canvas is the ebiten implementation.
type Context interface {
	// SetTransform replaces the current transform.
	SetTransform(m Matrix2)
	Transform() Matrix2

	// Save pushes transform, alpha and paint state; Restore pops it.
	Save()
	Restore()

	SetAlpha(a float64)
	Alpha() float64
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)

	FillRect(r Box2)
	StrokeRect(r Box2)
	FillCircle(center Vector2, radius float64)
	StrokeCircle(center Vector2, radius float64)
	// FillPolygon fills a convex polygon.
	FillPolygon(points []Vector2)
	StrokePolyline(points []Vector2, closed bool)
	// FillText draws s with its top-left corner at pos using the fill color.
	FillText(s string, pos Vector2)
	MeasureText(s string) Vector2

	Clear(c Color)
	Size() (w, h int)

	// BeginLayer returns an offscreen surface of the same size with the
	// same transform and paint state. It must be handed back through
	// CompositeLayer.
	BeginLayer() Context
	// CompositeLayer draws layer onto this surface, keeping only pixels
	// covered by mask when mask is non-nil, and releases both layers.
	CompositeLayer(layer, mask Context)

	// DrawCount returns the number of draw submissions since creation.
	DrawCount() int
}

// paintState is the part of a Context's state captured by Save.
type paintState struct {
	transform Matrix2
	alpha     float64
	fill      Color
	stroke    Color
	lineWidth float64
}

func defaultPaintState() paintState {
	return paintState{
		transform: identityMatrix,
		alpha:     1,
		fill:      ColorWhite,
		stroke:    ColorWhite,
		lineWidth: 1,
	}
}

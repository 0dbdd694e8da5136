package canopy

// selectionPadding is the gap in screen pixels between a selected object's
// bounds and its outline.
const selectionPadding = 2

// draw clears ctx and draws the gathered objects back to front. Mask
// objects and culled objects are skipped.
func (r *Renderer) draw(camera *Camera2D, ctx Context) {
	ctx.SetTransform(identityMatrix)
	ctx.SetAlpha(1)
	if r.AutoClear {
		ctx.Clear(r.ClearColor)
	}
	before := ctx.DrawCount()

	for i := len(r.visible) - 1; i >= 0; i-- {
		o := r.visible[i]
		if o.IsMask || !o.inViewport || o.destroyed {
			continue
		}
		if o.Shape == nil && !o.IsSelected {
			continue
		}
		r.drawObject(camera, ctx, o)
	}

	r.drawCalls = ctx.DrawCount() - before
}

// drawObject draws one object. Masked objects draw into an offscreen layer
// that is composited through a second layer holding their masks.
func (r *Renderer) drawObject(camera *Camera2D, ctx Context, o *Object2D) {
	target := ctx
	masked := len(o.Masks) > 0
	if masked {
		target = ctx.BeginLayer()
	}

	target.Save()
	target.SetTransform(screenMatrix(camera, o))
	target.SetAlpha(o.GlobalOpacity)
	if o.Shape != nil {
		if s, ok := o.Shape.(Styler); ok {
			s.ApplyStyle(target)
		}
		o.Shape.Draw(target)
	}
	if o.IsSelected {
		drawSelection(target, o)
	}
	target.Restore()

	if !masked {
		return
	}
	mask := ctx.BeginLayer()
	for _, m := range o.Masks {
		if m == nil || m.Shape == nil {
			continue
		}
		mask.Save()
		mask.SetTransform(screenMatrix(camera, m))
		mask.SetAlpha(1)
		if s, ok := m.Shape.(Styler); ok {
			s.ApplyStyle(mask)
		}
		m.Shape.Draw(mask)
		mask.Restore()
	}
	ctx.CompositeLayer(target, mask)
}

// screenMatrix returns camera.Matrix * o.GlobalMatrix.
func screenMatrix(camera *Camera2D, o *Object2D) Matrix2 {
	m := o.GlobalMatrix
	m.Premultiply(camera.Matrix)
	return m
}

// drawSelection strokes the object's bounds, padded in screen pixels.
func drawSelection(ctx Context, o *Object2D) {
	if o.BoundingBox.IsEmpty() {
		return
	}
	m := ctx.Transform()
	corners := o.BoundingBox.Corners()
	var screen [4]Vector2
	for i, c := range corners {
		screen[i] = m.TransformPoint(c)
	}
	var box Box2
	box.SetFromPoints(screen[:]...)
	box.ExpandByScalar(selectionPadding)

	ctx.SetTransform(identityMatrix)
	ctx.SetAlpha(1)
	ctx.SetStrokeColor(SelectionColor)
	ctx.SetLineWidth(1)
	ctx.StrokeRect(box)
}

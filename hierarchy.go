package canopy

import "sort"

// --- Tree manipulation ---

// Add appends children to this object. A child that already belongs to this
// object is left in place; a child parented elsewhere is removed from its old
// parent first. Panics if a child is nil or is an ancestor of this object
// (cycle).
//
// For each added child, the levels and bounding boxes of its subtree are
// recomputed and OnAdd(o) fires on every object in the subtree.
func (o *Object2D) Add(children ...*Object2D) {
	for _, child := range children {
		if child == nil {
			panic("canopy: cannot add nil child")
		}
		if globalDebug {
			debugCheckDestroyed(o, "Add (parent)")
			debugCheckDestroyed(child, "Add (child)")
		}
		if child.Parent == o {
			continue
		}
		if isAncestor(child, o) {
			panic("canopy: adding child would create a cycle")
		}
		if child.Parent != nil {
			child.Parent.Remove(child)
		}
		child.Parent = o
		o.children = append(o.children, child)

		parent := o
		child.Traverse(func(d *Object2D) bool {
			d.Level = d.Parent.Level + 1
			d.ComputeBoundingBox()
			d.MarkDirty()
			if d.OnAdd != nil {
				d.OnAdd(parent)
			}
			return false
		})
		if globalDebug {
			debugCheckTreeDepth(child)
			debugCheckChildCount(o)
		}
	}
}

// Remove detaches children from this object. Children that do not belong to
// this object are ignored. OnRemove(o) fires on every object in each removed
// subtree and their matrices are marked dirty.
func (o *Object2D) Remove(children ...*Object2D) {
	for _, child := range children {
		if child == nil || child.Parent != o {
			continue
		}
		o.removeChildByPtr(child)
		child.Parent = nil

		parent := o
		child.Traverse(func(d *Object2D) bool {
			if d.Parent == nil {
				d.Level = 0
			} else {
				d.Level = d.Parent.Level + 1
			}
			d.MarkDirty()
			if d.OnRemove != nil {
				d.OnRemove(parent)
			}
			return false
		})
	}
}

// RemoveFromParent detaches this object from its parent.
// No-op if this object has no parent.
func (o *Object2D) RemoveFromParent() {
	if o.Parent == nil {
		return
	}
	o.Parent.Remove(o)
}

// Attach reparents child under this object while keeping its world
// transform: the child's new local matrix is the inverse of this object's
// global matrix times the child's current global matrix, decomposed back into
// position, rotation and scale (origin is preserved).
//
// The full world matrix survives only when that local matrix has no skew,
// which holds when neither chain mixes rotation with non-uniform scale. In
// the skewed case the world position is kept and the skew is dropped.
func (o *Object2D) Attach(child *Object2D) {
	if child == nil {
		panic("canopy: cannot attach nil child")
	}
	if child.Parent == o {
		return
	}
	if isAncestor(child, o) {
		panic("canopy: attaching child would create a cycle")
	}

	child.UpdateWorldMatrix()
	world := child.GlobalMatrix

	o.Add(child)
	o.UpdateWorldMatrix()
	setLocalFromWorld(child, world)
	child.Traverse(func(d *Object2D) bool {
		d.UpdateMatrix(true)
		return false
	})
}

// setLocalFromWorld sets o's position, rotation and scale so that its
// global matrix becomes world, given its parent's current GlobalMatrix.
// Skew cannot be represented and is dropped.
func setLocalFromWorld(o *Object2D, world Matrix2) {
	local := world
	if o.Parent != nil {
		local.Premultiply(o.Parent.InverseGlobalMatrix)
	}
	// Undo the origin offset so the translation is the position again.
	local.Translate(o.Origin.X, o.Origin.Y)

	o.Position = local.Position()
	o.Rotation = local.Rotation()
	o.Scale = local.ScaleVector()
	// A mirrored matrix folds one flip into rotation; restore it on Y.
	if local.Determinant() < 0 {
		o.Scale.Y = -o.Scale.Y
	}
	o.MarkDirty()
}

// Destroy recursively destroys every descendant, then removes this object
// from its parent. Calling Destroy twice is a no-op.
func (o *Object2D) Destroy() {
	if o.destroyed {
		return
	}
	for len(o.children) > 0 {
		o.children[len(o.children)-1].Destroy()
	}
	o.RemoveFromParent()
	o.destroyed = true
	o.Masks = nil
	o.Shape = nil
	o.UserData = nil
	o.OnAdd = nil
	o.OnRemove = nil
	o.OnUpdate = nil
	o.OnPointerEnter = nil
	o.OnPointerLeave = nil
	o.OnPointerOver = nil
	o.OnButtonDown = nil
	o.OnButtonUp = nil
	o.OnButtonPressed = nil
	o.OnDoubleClick = nil
	o.OnPointerDragStart = nil
	o.OnPointerDrag = nil
	o.OnPointerDragEnd = nil
}

// IsDestroyed returns true if this object has been destroyed.
func (o *Object2D) IsDestroyed() bool {
	return o.destroyed
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (o *Object2D) Children() []*Object2D {
	return o.children
}

// NumChildren returns the number of children.
func (o *Object2D) NumChildren() int {
	return len(o.children)
}

// ChildAt returns the child at the given index.
func (o *Object2D) ChildAt(index int) *Object2D {
	return o.children[index]
}

// Root returns the topmost ancestor (o itself when unparented).
func (o *Object2D) Root() *Object2D {
	r := o
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// --- Traversal ---

// Traverse calls fn on o and its descendants in depth-first pre-order. When
// fn returns true the children of that object are skipped; siblings still
// run.
func (o *Object2D) Traverse(fn func(*Object2D) bool) {
	if fn(o) {
		return
	}
	for i := 0; i < len(o.children); i++ {
		o.children[i].Traverse(fn)
	}
}

// TraverseVisible is like Traverse but skips invisible objects and their
// whole subtrees.
func (o *Object2D) TraverseVisible(fn func(*Object2D) bool) {
	if !o.Visible {
		return
	}
	if fn(o) {
		return
	}
	for i := 0; i < len(o.children); i++ {
		o.children[i].TraverseVisible(fn)
	}
}

// TraverseAncestors calls fn on each ancestor from the parent upward and
// stops when fn returns true.
func (o *Object2D) TraverseAncestors(fn func(*Object2D) bool) {
	for p := o.Parent; p != nil; p = p.Parent {
		if fn(p) {
			return
		}
	}
}

// --- Ordering ---

// frontOf reports whether a is drawn above b: higher Layer first, then
// deeper Level.
func frontOf(a, b *Object2D) bool {
	if a.Layer != b.Layer {
		return a.Layer > b.Layer
	}
	return a.Level > b.Level
}

// sortFrontToBack stably sorts objects topmost first. Objects with equal
// Layer and Level keep their traversal order.
func sortFrontToBack(objects []*Object2D) {
	sort.SliceStable(objects, func(i, j int) bool {
		return frontOf(objects[i], objects[j])
	})
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Object2D) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from o.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (o *Object2D) removeChildByPtr(child *Object2D) {
	for i, c := range o.children {
		if c == child {
			copy(o.children[i:], o.children[i+1:])
			o.children[len(o.children)-1] = nil
			o.children = o.children[:len(o.children)-1]
			return
		}
	}
}

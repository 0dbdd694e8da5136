// Package canopy is a retained-mode 2D scene graph for interactive editors
// built on [Ebitengine].
//
// A scene is a tree of [Object2D] values. Each object carries a local
// transform (position, rotation, scale, origin), a [Shape] that decides how
// it draws and where it can be hit, and optional hooks for pointer and drag
// events. A [Renderer] takes the tree through a [Camera2D] onto a [Context]
// once per frame.
//
// # Quick start
//
//	scene := canopy.NewScene()
//	box := canopy.NewShape("box", canopy.NewBox(80, 40, canopy.Style{
//		Fill: canopy.ColorFromRGBA(colornames.Steelblue),
//	}))
//	box.Draggable = true
//	scene.Add(box)
//
//	r := canopy.NewRenderer(canopy.DefaultRunConfig())
//	if err := r.Start(scene, canopy.NewCamera2D(), nil, nil); err != nil {
//		log.Fatal(err)
//	}
//
// To drive frames yourself, wrap the screen image in a [Canvas] and call
// [Renderer.Render] from your own ebiten.Game Draw method.
//
// # Frames
//
// Render runs its phases in a fixed order: gather visible objects, sort
// them front to back (higher Layer first, then deeper Level), refresh the
// camera and cull against its viewport, dispatch pointer events, refresh
// matrices while calling OnUpdate hooks, then draw back to front.
//
// # Transforms
//
// An object's Matrix is Translate(Position) * Rotate * Scale *
// Translate(-Origin); its GlobalMatrix is the parent's GlobalMatrix times
// Matrix. MatrixMode decides whether an object recomputes on every sweep
// or only after [Object2D.MarkDirty]. Zero scales are clamped to a tiny
// signed value so every GlobalMatrix stays invertible.
//
// # Interaction
//
// Hover and button hooks fire for every hit object while nothing is being
// dragged. Pressing over a Draggable object makes it the renderer's single
// drag object until the button is released. The default drag behavior
// moves the object once the pointer has travelled the drag dead zone.
// Renderer-level callbacks registered with [Renderer.OnPointerEvent] and
// [Renderer.OnDragEvent] run before the object's own hooks.
//
// [TransformTool] adds move, resize and rotate handles around a selection.
//
// # Testing
//
// Input can be injected with [Renderer.InjectClick], [Renderer.InjectDrag]
// and friends, or scripted with a JSON [TestRunner] that also takes
// screenshots. Injected events are consumed one per frame.
//
// # ECS
//
// The canopy/ecs package forwards interaction events for objects with a
// non-zero EntityID into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package canopy

package canopy

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// ColorTransparent draws nothing.
var ColorTransparent = Color{}

// ColorFromRGBA converts a color.RGBA (for example from colornames) to a Color.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

var (
	// SelectionColor is the outline drawn around selected objects.
	SelectionColor = ColorFromRGBA(colornames.Deepskyblue)
	// HandleColor fills transform tool handles.
	HandleColor = ColorFromRGBA(colornames.White)
	// HandleStrokeColor outlines transform tool handles and the tool frame.
	HandleStrokeColor = ColorFromRGBA(colornames.Dodgerblue)
)

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendMask                    // clip destination to source alpha
	BlendErase                   // destination-out (punch transparent holes)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendMask:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	default:
		return ebiten.BlendSourceOver
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether every modifier in mod is held.
func (k KeyModifiers) Has(mod KeyModifiers) bool {
	return k&mod == mod
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerEnter EventType = iota // pointer entered an object's hit area
	EventPointerLeave                  // pointer left an object's hit area
	EventPointerOver                   // pointer is over an object this frame
	EventButtonDown                    // primary button pressed over an object
	EventButtonUp                      // primary button released over an object
	EventButtonPressed                 // primary button held over an object
	EventDoubleClick                   // primary button double clicked over an object
	EventDragStart                     // object became the drag object
	EventDrag                          // drag object received a frame of movement
	EventDragEnd                       // drag object was released
)

var eventTypeNames = [...]string{
	"pointer-enter", "pointer-leave", "pointer-over",
	"button-down", "button-up", "button-pressed", "double-click",
	"drag-start", "drag", "drag-end",
}

func (e EventType) String() string {
	if int(e) < len(eventTypeNames) {
		return eventTypeNames[e]
	}
	return "unknown"
}

// Cursor is the pointer cursor requested by the topmost hovered object.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorMove
	CursorCrosshair
	CursorText
	CursorResizeEW
	CursorResizeNS
	CursorResizeNESW
	CursorResizeNWSE
)

// ebitenCursor maps a Cursor to the closest ebiten cursor shape.
func (c Cursor) ebitenCursor() ebiten.CursorShapeType {
	switch c {
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorMove:
		return ebiten.CursorShapeMove
	case CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case CursorText:
		return ebiten.CursorShapeText
	case CursorResizeEW:
		return ebiten.CursorShapeEWResize
	case CursorResizeNS:
		return ebiten.CursorShapeNSResize
	case CursorResizeNESW:
		return ebiten.CursorShapeNESWResize
	case CursorResizeNWSE:
		return ebiten.CursorShapeNWSEResize
	default:
		return ebiten.CursorShapeDefault
	}
}

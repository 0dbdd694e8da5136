package ecs

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiStore(world) == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []canopy.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(canopy.InteractionEvent{
		Type:     canopy.EventButtonDown,
		EntityID: 42,
		WorldX:   100,
		WorldY:   200,
		Button:   canopy.MouseButtonLeft,
	})
	store.EmitEvent(canopy.InteractionEvent{
		Type:   canopy.EventDrag,
		DeltaX: 3,
		DeltaY: -1,
	})

	if len(received) != 0 {
		t.Fatalf("events delivered before processing: %d", len(received))
	}
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != canopy.EventButtonDown || e0.EntityID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.WorldX != 100 || e0.WorldY != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.WorldX, e0.WorldY)
	}
	e1 := received[1]
	if e1.Type != canopy.EventDrag || e1.DeltaX != 3 || e1.DeltaY != -1 {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) { count1++ })
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) { count2++ })

	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventDoubleClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

// A renderer with the store attached forwards events only for objects that
// carry an entity ID.
func TestDonburiStore_RendererBridge(t *testing.T) {
	world := donburi.NewWorld()
	r := canopy.NewRenderer(canopy.DefaultRunConfig())
	r.SetEntityStore(NewDonburiStore(world))

	var received []canopy.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) {
		received = append(received, e)
	})

	scene := canopy.NewScene()
	tagged := canopy.NewShape("tagged", canopy.NewBox(40, 40, canopy.Style{}))
	tagged.EntityID = 7
	plain := canopy.NewShape("plain", canopy.NewBox(40, 40, canopy.Style{}))
	plain.SetPosition(100, 0)
	scene.Add(tagged)
	scene.Add(plain)

	cam := canopy.NewCamera2D()
	ctx := canopy.NewCanvas(ebiten.NewImage(200, 200))

	r.InjectClick(10, 10)  // over tagged
	r.InjectClick(100, 10) // over plain
	for i := 0; i < 4; i++ {
		r.Render(scene, cam, ctx, 1.0/60)
	}
	InteractionEventType.ProcessEvents(world)

	if len(received) == 0 {
		t.Fatal("no events forwarded")
	}
	for _, e := range received {
		if e.EntityID != 7 {
			t.Errorf("forwarded event for entity %d: %+v", e.EntityID, e)
		}
	}
}

// Package ecs bridges canopy interaction events into an ECS world.
//
// [NewDonburiStore] returns a canopy.EntityStore that publishes every
// interaction on an object with a non-zero EntityID to a [Donburi] world as
// an [InteractionEventType] event. Systems subscribe to it and drain the
// queue with ProcessEvents.
//
//	store := ecs.NewDonburiStore(world)
//	renderer.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

// Package ecs provides ECS adapters for puppet characters.
//
// [NewDonburiSink] bridges puppet motion events into a [Donburi] world as
// typed events. Subscribe to [MotionEventType] in your ECS systems to
// receive them. [CharacterComponent] attaches a *puppet.Character to an
// entity and [UpdateCharacters] advances every such character once per
// frame.
//
// Usage:
//
//	e := world.Create(ecs.CharacterComponent)
//	ecs.CharacterComponent.SetValue(world.Entry(e), ecs.CharacterData{Character: ch})
//	ch.SetEventSink(ecs.NewDonburiSink(world))
//
//	// each frame
//	ecs.UpdateCharacters(world, dt)
//	ecs.MotionEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

package ecs

import (
	"github.com/phanxgames/puppet"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// MotionEventType is the Donburi event type for puppet motion events.
// Subscribe to this in your ECS systems to receive clip user-data events.
var MotionEventType = events.NewEventType[puppet.MotionEventInfo]()

// CharacterData is the component payload holding a character.
type CharacterData struct {
	Character *puppet.Character
}

// CharacterComponent marks entities driven by a puppet character.
var CharacterComponent = donburi.NewComponentType[CharacterData]()

var characterQuery = donburi.NewQuery(filter.Contains(CharacterComponent))

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Motion events are published to MotionEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) puppet.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitMotionEvent(event puppet.MotionEventInfo) {
	MotionEventType.Publish(s.world, event)
}

// UpdateCharacters advances every character attached to an entity by dt
// seconds. Entities whose component holds a nil character are skipped.
func UpdateCharacters(world donburi.World, dt float64) {
	characterQuery.Each(world, func(e *donburi.Entry) {
		if ch := CharacterComponent.Get(e).Character; ch != nil {
			ch.Update(dt)
		}
	})
}

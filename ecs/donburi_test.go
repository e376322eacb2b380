package ecs

import (
	"testing"

	"github.com/phanxgames/puppet"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

const eventClip = `{
	"Version": 3,
	"Meta": {"Duration": 1.0, "Fps": 30, "Loop": false, "CurveCount": 1,
		"TotalSegmentCount": 1, "TotalPointCount": 2, "UserDataCount": 1,
		"FadeInTime": 0, "FadeOutTime": 0},
	"Curves": [{"Target": "Parameter", "Id": "ParamA", "Segments": [0, 0, 0, 1, 10]}],
	"UserData": [{"Time": 0.5, "Value": "wave"}]
}`

func newCharacter(t *testing.T) *puppet.Character {
	t.Helper()
	model := puppet.NewParameterStore(puppet.ParameterDef{ID: "ParamA", Min: -100, Max: 100})
	cfg := puppet.DefaultCharacterConfig()
	cfg.EyeBlink = nil
	cfg.Breath = nil
	return puppet.NewCharacter(model, cfg)
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitMotionEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []puppet.MotionEventInfo
	MotionEventType.Subscribe(world, func(w donburi.World, e puppet.MotionEventInfo) {
		received = append(received, e)
	})

	sink.EmitMotionEvent(puppet.MotionEventInfo{Handle: 7, Value: "blink", Time: 1.5})
	sink.EmitMotionEvent(puppet.MotionEventInfo{Handle: 8, Value: "nod"})

	// Events are queued until ProcessEvents.
	MotionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Handle != 7 || received[0].Value != "blink" || received[0].Time != 1.5 {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Handle != 8 || received[1].Value != "nod" {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink puppet.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	MotionEventType.Subscribe(world, func(w donburi.World, e puppet.MotionEventInfo) {
		count1++
	})
	MotionEventType.Subscribe(world, func(w donburi.World, e puppet.MotionEventInfo) {
		count2++
	})

	sink.EmitMotionEvent(puppet.MotionEventInfo{Value: "x"})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestUpdateCharacters_AdvancesAndPublishes(t *testing.T) {
	world := donburi.NewWorld()
	ch := newCharacter(t)
	ch.SetEventSink(NewDonburiSink(world))

	m, err := puppet.LoadMotion([]byte(eventClip), puppet.DefaultMotionConfig())
	if err != nil {
		t.Fatalf("LoadMotion: %v", err)
	}
	if h := ch.StartMotion(m, puppet.PriorityNormal); h == puppet.InvalidEntryHandle {
		t.Fatal("StartMotion rejected")
	}

	e := world.Create(CharacterComponent)
	CharacterComponent.SetValue(world.Entry(e), CharacterData{Character: ch})
	// An entity without a character must be skipped.
	world.Create(CharacterComponent)

	var values []string
	MotionEventType.Subscribe(world, func(w donburi.World, ev puppet.MotionEventInfo) {
		if ev.Character != ch {
			t.Errorf("event from unexpected character")
		}
		values = append(values, ev.Value)
	})

	UpdateCharacters(world, 0)
	for i := 0; i < 4; i++ {
		UpdateCharacters(world, 0.25)
	}
	MotionEventType.ProcessEvents(world)

	if ch.Time() != 1.0 {
		t.Errorf("character time = %v, want 1.0", ch.Time())
	}
	if len(values) != 1 || values[0] != "wave" {
		t.Errorf("events = %v, want [wave]", values)
	}
}

package puppet

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// EventSink is the interface for optional ECS integration.
// When set on a Character, motion events are forwarded to it.
type EventSink interface {
	EmitMotionEvent(event MotionEventInfo)
}

// MotionEventInfo carries a fired motion event for the ECS bridge.
type MotionEventInfo struct {
	Character *Character
	Handle    EntryHandle
	Value     string
	// Time is the character clock when the event fired.
	Time float64
}

// Drag contribution per unit of the smoothed gaze position.
const (
	dragAngleX     = 30
	dragAngleY     = 30
	dragAngleZ     = -30
	dragBodyAngleX = 10
)

// CharacterConfig assembles the layers of a Character.
type CharacterConfig struct {
	// EyeBlink enables automatic blinking. Nil disables it.
	EyeBlink *EyeBlinkConfig
	// Breath parameters. Empty disables breathing.
	Breath []BreathParameter
	// LipSync tunes mouth movement.
	LipSync LipSyncConfig
	// Gaze tunes how drag input is smoothed.
	Gaze TargetConfig
	// IdleMotions are picked at random whenever no motion is playing.
	IdleMotions []*Motion
	// Seed drives idle selection.
	Seed uint64
	// SnapshotDir receives a JSON file per snapshot. Empty keeps
	// snapshots in memory only.
	SnapshotDir string
}

// DefaultCharacterConfig enables every layer with the standard parameters.
func DefaultCharacterConfig() CharacterConfig {
	blink := DefaultEyeBlinkConfig()
	return CharacterConfig{
		EyeBlink: &blink,
		Breath:   DefaultBreathParameters(),
		LipSync:  DefaultLipSyncConfig(),
		Gaze:     DefaultTargetConfig(),
		Seed:     1,
	}
}

// Character is the top-level object that owns a model's parameter store and
// drives every animation layer once per frame: motions, automatic blink,
// expressions, drag gaze, breath, lip sync and tweens.
type Character struct {
	model       *ParameterStore
	motions     *MotionManager
	expressions *ExpressionManager
	blink       *EyeBlink
	breath      *Breath
	gaze        *TargetPoint
	lipSync     *LipSync
	tweens      []*ParameterTween

	idle     []*Motion
	rng      *rand.Rand
	library  map[string]*Motion
	faces    map[string]*Expression
	sink     EventSink
	onEvent  EventHandler
	debug    bool
	time     float64
	blinkIDs []ParameterID

	runner        *ScriptRunner
	injectQueue   []syntheticDrag
	snapshotQueue []string
	snapshots     []Snapshot
	snapshotDir   string
}

// NewCharacter creates a character animating model.
func NewCharacter(model *ParameterStore, cfg CharacterConfig) *Character {
	c := &Character{
		model:       model,
		motions:     NewMotionManager(),
		expressions: NewExpressionManager(),
		gaze:        NewTargetPoint(cfg.Gaze),
		lipSync:     NewLipSync(cfg.LipSync),
		idle:        cfg.IdleMotions,
		rng:         rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1)),
		library:     make(map[string]*Motion),
		faces:       make(map[string]*Expression),
		snapshotDir: cfg.SnapshotDir,
	}
	if cfg.EyeBlink != nil {
		c.blink = NewEyeBlink(*cfg.EyeBlink)
		c.blinkIDs = cfg.EyeBlink.IDs
	}
	if len(cfg.Breath) > 0 {
		c.breath = NewBreath(cfg.Breath)
	}
	c.motions.SetEventHandler(c.dispatchEvent)
	model.SaveParameters()
	return c
}

// Model returns the character's parameter store.
func (c *Character) Model() *ParameterStore { return c.model }

// Motions returns the motion manager.
func (c *Character) Motions() *MotionManager { return c.motions }

// Expressions returns the expression manager.
func (c *Character) Expressions() *ExpressionManager { return c.expressions }

// Gaze returns the drag filter.
func (c *Character) Gaze() *TargetPoint { return c.gaze }

// LipSync returns the lip sync layer.
func (c *Character) LipSync() *LipSync { return c.lipSync }

// Time returns the accumulated update time in seconds.
func (c *Character) Time() float64 { return c.time }

// SetEventSink sets the optional ECS bridge.
func (c *Character) SetEventSink(sink EventSink) { c.sink = sink }

// SetEventHandler sets a callback for motion events.
func (c *Character) SetEventHandler(fn EventHandler) { c.onEvent = fn }

// SetDebugMode enables or disables debug mode. When enabled, out-of-range
// fade weights panic and per-frame phase timings are logged at debug level.
func (c *Character) SetDebugMode(enabled bool) {
	c.debug = enabled
	c.motions.SetDebugMode(enabled)
	c.expressions.SetDebugMode(enabled)
}

// RegisterMotion stores a motion under name for StartNamedMotion and scripts.
func (c *Character) RegisterMotion(name string, m *Motion) { c.library[name] = m }

// RegisterExpression stores an expression under name for SetNamedExpression
// and scripts.
func (c *Character) RegisterExpression(name string, e *Expression) { c.faces[name] = e }

// StartMotion starts m at priority. It returns InvalidEntryHandle when a
// motion of equal or higher priority is playing or reserved; PriorityForce
// always starts. Motions without effect ids inherit the character's blink
// and lip sync parameters.
func (c *Character) StartMotion(m *Motion, priority Priority) EntryHandle {
	if m == nil {
		return InvalidEntryHandle
	}
	if priority == PriorityForce {
		c.motions.SetReservePriority(priority)
	} else if !c.motions.ReserveMotion(priority) {
		return InvalidEntryHandle
	}
	if !m.hasEffectIDs() {
		m.SetEffectIDs(c.blinkIDs, c.lipSync.cfg.IDs)
	}
	return c.motions.StartMotionPriority(m, false, priority)
}

// StartNamedMotion starts a registered motion.
func (c *Character) StartNamedMotion(name string, priority Priority) (EntryHandle, error) {
	m, ok := c.library[name]
	if !ok {
		return InvalidEntryHandle, fmt.Errorf("puppet: motion %q: %w", name, ErrUnknownName)
	}
	return c.StartMotion(m, priority), nil
}

// SetExpression fades e in over whatever expression is showing.
func (c *Character) SetExpression(e *Expression) EntryHandle {
	return c.expressions.StartMotion(e, false)
}

// SetNamedExpression shows a registered expression.
func (c *Character) SetNamedExpression(name string) (EntryHandle, error) {
	e, ok := c.faces[name]
	if !ok {
		return InvalidEntryHandle, fmt.Errorf("puppet: expression %q: %w", name, ErrUnknownName)
	}
	return c.SetExpression(e), nil
}

// SetDragging sets the drag position in [-1, 1] on both axes. The head,
// body and eyes follow it smoothly.
func (c *Character) SetDragging(x, y float64) { c.gaze.SetTarget(x, y) }

// SetLipSyncLevel commands the mouth aperture directly.
func (c *Character) SetLipSyncLevel(v float64) { c.lipSync.SetLevel(v) }

// FeedAudio commands the mouth aperture from a block of PCM samples.
func (c *Character) FeedAudio(samples []float32) { c.lipSync.Feed(samples) }

// AddTween runs t after every other layer until it is done.
func (c *Character) AddTween(t *ParameterTween) {
	if t != nil && !t.Done {
		c.tweens = append(c.tweens, t)
	}
}

// Update advances every layer by dt seconds and leaves the final pose in
// the model.
func (c *Character) Update(dt float64) {
	if c.runner != nil {
		c.runner.step(c)
	}
	c.processInjectedDrag()
	c.time += dt

	var stats debugStats
	var t0 time.Time
	if c.debug {
		t0 = time.Now()
	}

	c.model.LoadParameters()
	motionUpdated := false
	if c.motions.IsFinished() {
		c.startIdleMotion()
	} else {
		motionUpdated = c.motions.UpdateMotion(c.model, dt)
	}
	c.model.SaveParameters()

	if c.debug {
		stats.motionTime = time.Since(t0)
		stats.motionCount = len(c.motions.Entries())
		t0 = time.Now()
	}

	if !motionUpdated && c.blink != nil {
		c.blink.UpdateParameters(c.model, dt)
	}
	c.expressions.UpdateMotion(c.model, dt)

	if c.debug {
		stats.expressionTime = time.Since(t0)
		stats.expressionCount = len(c.expressions.Entries())
		t0 = time.Now()
	}

	c.gaze.Update(dt)
	c.applyGaze()
	if c.breath != nil {
		c.breath.UpdateParameters(c.model, dt)
	}
	c.lipSync.Update(dt)
	c.lipSync.Apply(c.model)
	c.updateTweens(float32(dt))

	if c.debug {
		stats.effectTime = time.Since(t0)
		c.debugLog(stats)
	}

	c.flushSnapshots()
}

func (c *Character) applyGaze() {
	g := c.gaze.Value()
	c.model.AddValue(ParamAngleX, g.X*dragAngleX, 1)
	c.model.AddValue(ParamAngleY, g.Y*dragAngleY, 1)
	c.model.AddValue(ParamAngleZ, g.X*g.Y*dragAngleZ, 1)
	c.model.AddValue(ParamBodyAngleX, g.X*dragBodyAngleX, 1)
	c.model.AddValue(ParamEyeBallX, g.X, 1)
	c.model.AddValue(ParamEyeBallY, g.Y, 1)
}

func (c *Character) updateTweens(dt float32) {
	n := 0
	for _, t := range c.tweens {
		t.Update(dt)
		if !t.Done {
			c.tweens[n] = t
			n++
		}
	}
	clear(c.tweens[n:])
	c.tweens = c.tweens[:n]
}

func (c *Character) startIdleMotion() {
	if len(c.idle) == 0 {
		return
	}
	c.StartMotion(c.idle[c.rng.IntN(len(c.idle))], PriorityIdle)
}

func (c *Character) dispatchEvent(h EntryHandle, value string) {
	if c.onEvent != nil {
		c.onEvent(h, value)
	}
	if c.sink != nil {
		c.sink.EmitMotionEvent(MotionEventInfo{Character: c, Handle: h, Value: value, Time: c.time})
	}
}

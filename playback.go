package puppet

import "fmt"

// Playable is a clip that a QueueManager can play: a *Motion or an
// *Expression. The interface is sealed; its unexported methods carry the
// per-frame evaluation.
type Playable interface {
	// Duration returns the play length in seconds, or -1 when unbounded.
	Duration() float64
	FadeInSeconds() float64
	FadeOutSeconds() float64
	// FiredEvents appends to dst the event values whose fire time lies in
	// (before, now], both relative to the entry's start.
	FiredEvents(dst []string, before, now float64) []string
	// Release drops callbacks and data. Called by managers on auto-delete
	// entries once they are reaped.
	Release()

	base() *playback
	doUpdateParameters(model Model, now, fadeWeight float64, e *QueueEntry)
}

// playback holds the state shared by every Playable: fades, weight,
// looping and lifecycle callbacks.
type playback struct {
	fadeInSeconds  float64
	fadeOutSeconds float64
	weight         float64
	offsetSeconds  float64
	loop           bool
	loopFadeIn     bool
	onBegan        func(Playable)
	onFinished     func(Playable)
	onLoop         func(Playable)
}

func newPlayback() playback {
	return playback{
		fadeInSeconds:  1,
		fadeOutSeconds: 1,
		weight:         1,
		loopFadeIn:     true,
	}
}

func (b *playback) base() *playback { return b }

// FadeInSeconds returns the fade-in duration.
func (b *playback) FadeInSeconds() float64 { return b.fadeInSeconds }

// FadeOutSeconds returns the fade-out duration.
func (b *playback) FadeOutSeconds() float64 { return b.fadeOutSeconds }

// SetFadeInSeconds sets the fade-in duration. Zero disables the fade.
func (b *playback) SetFadeInSeconds(s float64) { b.fadeInSeconds = max(s, 0) }

// SetFadeOutSeconds sets the fade-out duration. Zero disables the fade.
func (b *playback) SetFadeOutSeconds(s float64) { b.fadeOutSeconds = max(s, 0) }

// Weight returns the base weight multiplied into every fade.
func (b *playback) Weight() float64 { return b.weight }

// SetWeight sets the base weight, clamped to [0, 1].
func (b *playback) SetWeight(w float64) { b.weight = Range{0, 1}.clamp(w) }

// SetOffsetSeconds makes playback start partway into the clip.
func (b *playback) SetOffsetSeconds(s float64) { b.offsetSeconds = s }

// IsLoop reports whether the clip restarts when it reaches its end.
func (b *playback) IsLoop() bool { return b.loop }

// SetLoop enables or disables looping.
func (b *playback) SetLoop(loop bool) { b.loop = loop }

// SetLoopFadeIn controls whether every loop restarts the fade-in.
func (b *playback) SetLoopFadeIn(fade bool) { b.loopFadeIn = fade }

// SetOnBegan sets the callback fired once when playback is set up.
func (b *playback) SetOnBegan(fn func(Playable)) { b.onBegan = fn }

// SetOnFinished sets the callback fired when a non-looping clip ends.
func (b *playback) SetOnFinished(fn func(Playable)) { b.onFinished = fn }

// SetOnLoop sets the callback fired each time a looping clip restarts.
func (b *playback) SetOnLoop(fn func(Playable)) { b.onLoop = fn }

// setupEntry moves a pending entry to started at time now.
func (b *playback) setupEntry(self Playable, e *QueueEntry, now float64) {
	if e.started || !e.available {
		return
	}
	e.started = true
	e.startTime = now - b.offsetSeconds
	e.fadeInStartTime = now
	if e.endTime < 0 {
		if d := self.Duration(); d <= 0 {
			e.endTime = -1
		} else {
			e.endTime = e.startTime + d
		}
	}
	if b.onBegan != nil {
		b.onBegan(self)
	}
}

// updateFadeWeight computes weight * fadeIn * fadeOut for the entry at now
// and records it on the entry.
func (b *playback) updateFadeWeight(e *QueueEntry, now float64) float64 {
	w := b.weight *
		fadeInWeight(b.fadeInSeconds, e.fadeInStartTime, now) *
		fadeOutWeight(e.fadeOutDuration(b.fadeOutSeconds), e.endTime, now)
	w = checkFadeWeight(w, e.debug)
	e.stateTime = now
	e.fadeWeight = w
	return w
}

// updateParameters sets the entry up if needed, computes its fade weight
// and applies the playable to the model.
func updateParameters(p Playable, model Model, e *QueueEntry, now float64) {
	if !e.available || e.finished {
		return
	}
	b := p.base()
	b.setupEntry(p, e, now)
	w := b.updateFadeWeight(e, now)
	p.doUpdateParameters(model, now, w, e)
	if e.expired(now) {
		e.finished = true
	}
}

// EntryHandle identifies a QueueEntry within its manager. Handles are never
// reused by a manager.
type EntryHandle uint64

// InvalidEntryHandle is returned when a motion could not be started.
const InvalidEntryHandle EntryHandle = 0

// QueueEntry is the live playback state of one Playable in a manager.
type QueueEntry struct {
	handle     EntryHandle
	playable   Playable
	autoDelete bool

	available bool
	started   bool
	finished  bool

	fadeOutTriggered bool
	fadeOutSeconds   float64

	startTime       float64
	fadeInStartTime float64
	endTime         float64
	stateTime       float64
	fadeWeight      float64
	lastEventCheck  float64

	debug bool
}

func newQueueEntry(h EntryHandle, p Playable, autoDelete bool) *QueueEntry {
	return &QueueEntry{
		handle:     h,
		playable:   p,
		autoDelete: autoDelete,
		available:  true,
		startTime:  -1,
		endTime:    -1,
	}
}

// Handle returns the entry's handle.
func (e *QueueEntry) Handle() EntryHandle { return e.handle }

// Playable returns the clip this entry plays.
func (e *QueueEntry) Playable() Playable { return e.playable }

// StartTime returns the manager time at which the clip's time zero lies.
func (e *QueueEntry) StartTime() float64 { return e.startTime }

// FadeInStartTime returns the manager time the current fade-in began.
func (e *QueueEntry) FadeInStartTime() float64 { return e.fadeInStartTime }

// EndTime returns the manager time the entry ends, or -1 if unbounded.
func (e *QueueEntry) EndTime() float64 { return e.endTime }

// SetEndTime overrides the end time. Must be called before the entry starts
// to take effect over the clip's own duration.
func (e *QueueEntry) SetEndTime(t float64) { e.endTime = t }

// FadeWeight returns the fade weight computed on the last update.
func (e *QueueEntry) FadeWeight() float64 { return e.fadeWeight }

// IsStarted reports whether the entry has been set up by an update.
func (e *QueueEntry) IsStarted() bool { return e.started }

// IsFinished reports whether the entry is done and waiting to be reaped.
func (e *QueueEntry) IsFinished() bool { return e.finished }

// IsFadeOutTriggered reports whether a fade-out has been requested.
func (e *QueueEntry) IsFadeOutTriggered() bool { return e.fadeOutTriggered }

// setFadeOut requests a fade-out that the manager applies after the entry's
// next update.
func (e *QueueEntry) setFadeOut(seconds float64) {
	e.fadeOutSeconds = seconds
	e.fadeOutTriggered = true
}

// fadeOutDuration is the fade-out length in effect: the requested one once
// a fade-out has been triggered, the clip's own otherwise.
func (e *QueueEntry) fadeOutDuration(own float64) float64 {
	if e.fadeOutTriggered {
		return e.fadeOutSeconds
	}
	return own
}

// expired reports whether a bounded entry has passed its end time.
func (e *QueueEntry) expired(now float64) bool {
	return e.endTime >= 0 && e.endTime < now
}

// startFadeOut ends the entry at now+seconds unless it already ends sooner.
// The manager repeats the request every update, which never moves the end.
func (e *QueueEntry) startFadeOut(seconds, now float64) {
	end := now + seconds
	e.fadeOutSeconds = seconds
	e.fadeOutTriggered = true
	if e.endTime < 0 || end < e.endTime {
		e.endTime = end
	}
}

// String implements fmt.Stringer for debugging.
func (e *QueueEntry) String() string {
	return fmt.Sprintf("entry#%d{started=%t finished=%t start=%.3f end=%.3f weight=%.3f}",
		e.handle, e.started, e.finished, e.startTime, e.endTime, e.fadeWeight)
}

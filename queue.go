package puppet

import "math"

// EventHandler receives user-data events fired by playing motions.
type EventHandler func(h EntryHandle, value string)

// QueueManager plays any number of Playables at once, each in its own
// QueueEntry, and applies them to a model in start order. Time is kept by
// the manager and advanced by UpdateMotion.
//
// Finished entries stay visible until the start of the next update pass,
// when they are reaped.
type QueueManager struct {
	entries    []*QueueEntry
	nextHandle EntryHandle
	userTime   float64
	onEvent    EventHandler
	debug      bool

	eventBuf []string
}

// NewQueueManager creates an empty manager at time zero.
func NewQueueManager() *QueueManager {
	return &QueueManager{}
}

// SetEventHandler sets the callback for motion user-data events.
func (m *QueueManager) SetEventHandler(fn EventHandler) { m.onEvent = fn }

// SetDebugMode enables fade-weight assertions on entries started afterward.
func (m *QueueManager) SetDebugMode(enabled bool) { m.debug = enabled }

// UserTime returns the manager's accumulated time in seconds.
func (m *QueueManager) UserTime() float64 { return m.userTime }

// StartMotion queues p and flags every entry already playing to fade out
// over its own fade-out duration. The new entry is set up on the next
// update.
// With autoDelete the manager calls p.Release once the entry is reaped.
func (m *QueueManager) StartMotion(p Playable, autoDelete bool) EntryHandle {
	if p == nil {
		return InvalidEntryHandle
	}
	for _, e := range m.entries {
		e.setFadeOut(e.playable.FadeOutSeconds())
	}
	m.nextHandle++
	e := newQueueEntry(m.nextHandle, p, autoDelete)
	e.debug = m.debug
	m.entries = append(m.entries, e)
	return e.handle
}

// UpdateMotion advances time by dt seconds and applies every playing entry
// to the model. It reports whether any entry was applied.
func (m *QueueManager) UpdateMotion(model Model, dt float64) bool {
	m.userTime += dt
	return m.doUpdateMotion(model, m.userTime)
}

func (m *QueueManager) doUpdateMotion(model Model, now float64) bool {
	m.reap()
	updated := false
	for _, e := range m.entries {
		if e.finished {
			continue
		}
		wasStarted := e.started
		prevStart := e.startTime

		updateParameters(e.playable, model, e, now)
		updated = true

		m.dispatchEvents(e, wasStarted, prevStart, now)

		if e.fadeOutTriggered && !e.finished {
			e.startFadeOut(e.fadeOutSeconds, now)
		}
	}
	return updated
}

// dispatchEvents fires the events crossed since the entry's last check.
// A loop restart during the update splits the window into the tail of the
// old cycle and the head of the new one.
func (m *QueueManager) dispatchEvents(e *QueueEntry, wasStarted bool, prevStart, now float64) {
	if m.onEvent == nil {
		e.lastEventCheck = now
		return
	}
	buf := m.eventBuf[:0]
	switch {
	case !wasStarted:
		rel := now - e.startTime
		buf = e.playable.FiredEvents(buf, math.Nextafter(rel, math.Inf(-1)), rel)
	case e.startTime != prevStart:
		buf = e.playable.FiredEvents(buf, e.lastEventCheck-prevStart, math.Inf(1))
		buf = e.playable.FiredEvents(buf, math.Inf(-1), now-e.startTime)
	default:
		buf = e.playable.FiredEvents(buf, e.lastEventCheck-e.startTime, now-e.startTime)
	}
	e.lastEventCheck = now
	for _, v := range buf {
		m.onEvent(e.handle, v)
	}
	m.eventBuf = buf[:0]
}

// reap drops finished entries, releasing auto-delete playables.
func (m *QueueManager) reap() {
	n := 0
	for _, e := range m.entries {
		if e.finished {
			if e.autoDelete {
				e.playable.Release()
			}
			continue
		}
		m.entries[n] = e
		n++
	}
	clear(m.entries[n:])
	m.entries = m.entries[:n]
}

// removeBefore drops the first n entries immediately, releasing
// auto-delete playables.
func (m *QueueManager) removeBefore(n int) {
	for _, e := range m.entries[:n] {
		if e.autoDelete {
			e.playable.Release()
		}
	}
	rest := copy(m.entries, m.entries[n:])
	clear(m.entries[rest:])
	m.entries = m.entries[:rest]
}

// IsFinished reports whether every entry has finished. An empty manager is
// finished.
func (m *QueueManager) IsFinished() bool {
	for _, e := range m.entries {
		if !e.finished {
			return false
		}
	}
	return true
}

// IsFinishedHandle reports whether the entry for h has finished or is gone.
func (m *QueueManager) IsFinishedHandle(h EntryHandle) bool {
	e := m.Entry(h)
	return e == nil || e.finished
}

// Entry returns the live entry for h, or nil once it has been reaped.
func (m *QueueManager) Entry(h EntryHandle) *QueueEntry {
	for _, e := range m.entries {
		if e.handle == h {
			return e
		}
	}
	return nil
}

// Entries returns the live entries in start order.
// The returned slice MUST NOT be mutated.
func (m *QueueManager) Entries() []*QueueEntry { return m.entries }

// StartFadeOut ends the entry for h within seconds. It reports whether the
// entry was found.
func (m *QueueManager) StartFadeOut(h EntryHandle, seconds float64) bool {
	e := m.Entry(h)
	if e == nil || e.finished {
		return false
	}
	e.startFadeOut(seconds, m.userTime)
	return true
}

// FadeOutAllMotions ends every entry within seconds.
func (m *QueueManager) FadeOutAllMotions(seconds float64) {
	for _, e := range m.entries {
		if !e.finished {
			e.startFadeOut(seconds, m.userTime)
		}
	}
}

// StopMotion finishes the entry for h at once. It stops contributing and is
// reaped on the next update.
func (m *QueueManager) StopMotion(h EntryHandle) bool {
	e := m.Entry(h)
	if e == nil {
		return false
	}
	e.endTime = m.userTime
	e.finished = true
	return true
}

// StopAllMotions finishes every entry at once.
func (m *QueueManager) StopAllMotions() {
	for _, e := range m.entries {
		e.endTime = m.userTime
		e.finished = true
	}
}

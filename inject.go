package puppet

// syntheticDrag represents a single injected drag sample. Coordinates are
// in the same [-1, 1] space as SetDragging.
type syntheticDrag struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a drag press at the given position. The sample is
// consumed on the next Update.
func (c *Character) InjectPress(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticDrag{x: x, y: y, pressed: true})
}

// InjectMove queues a drag move with the pointer held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (c *Character) InjectMove(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticDrag{x: x, y: y, pressed: true})
}

// InjectRelease queues a release. The gaze returns to center.
func (c *Character) InjectRelease(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticDrag{x: x, y: y})
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (c *Character) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	c.InjectRelease(toX, toY)
}

// processInjectedDrag pops one sample from the inject queue and feeds it to
// SetDragging. Returns true if a sample was consumed.
func (c *Character) processInjectedDrag() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	if evt.pressed {
		c.SetDragging(evt.x, evt.y)
	} else {
		c.SetDragging(0, 0)
	}
	return true
}

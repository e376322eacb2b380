package puppet

import (
	"fmt"
	"time"
)

// debugStats holds per-frame phase timings and queue sizes.
// Only populated when Character.debug is true.
type debugStats struct {
	motionTime      time.Duration
	expressionTime  time.Duration
	effectTime      time.Duration
	motionCount     int
	expressionCount int
}

// debugLog logs phase timings and queue sizes at debug level.
func (c *Character) debugLog(stats debugStats) {
	if !c.debug {
		return
	}
	total := stats.motionTime + stats.expressionTime + stats.effectTime
	Logger().Debug("puppet frame",
		"motion", stats.motionTime,
		"expression", stats.expressionTime,
		"effects", stats.effectTime,
		"total", total,
		"motions", stats.motionCount,
		"expressions", stats.expressionCount,
		"time", c.time)
}

// checkFadeWeight validates a fade weight. In debug mode a weight outside
// [0, 1] panics with a descriptive message; otherwise it is clamped.
func checkFadeWeight(w float64, debug bool) float64 {
	if w >= 0 && w <= 1 {
		return w
	}
	if debug {
		panic(fmt.Sprintf("puppet debug: fade weight %v outside [0, 1]", w))
	}
	return Range{0, 1}.clamp(w)
}

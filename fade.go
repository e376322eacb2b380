package puppet

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// easeSine maps a fade progress ratio to a weight: 0.5 - 0.5*cos(x*pi),
// clamped to [0, 1] outside the unit interval.
func easeSine(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return float64(ease.InOutSine(float32(x), 0, 1, 1))
}

// fadeInWeight is the eased fade-in factor at now. A zero or negative
// duration means no fade.
func fadeInWeight(seconds, startTime, now float64) float64 {
	if seconds <= 0 {
		return 1
	}
	return easeSine((now - startTime) / seconds)
}

// fadeOutWeight is the eased fade-out factor at now. Unbounded entries
// (endTime < 0) and zero durations never fade out.
func fadeOutWeight(seconds, endTime, now float64) float64 {
	if seconds <= 0 || endTime < 0 {
		return 1
	}
	return easeSine((endTime - now) / seconds)
}

const maxTweenTargets = 4

// ParameterTween animates up to 4 model parameters toward target values.
// Create one with TweenParameter or TweenParameters and call Update(dt)
// each frame, after motions and expressions so the tween has the last word.
// Parameters missing from the model are ignored; if none exist the tween
// is Done immediately.
type ParameterTween struct {
	tweens  [maxTweenTargets]*gween.Tween
	indices [maxTweenTargets]int
	count   int
	model   Model
	Done    bool
}

// Update advances all tweens by dt seconds and writes their values into the
// model at full weight.
func (g *ParameterTween) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.model.SetParameterValue(g.indices[i], float64(val), 1)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenParameter creates a ParameterTween moving one parameter from its
// current value to `to` over duration seconds using the easing function.
func TweenParameter(model Model, id ParameterID, to float64, duration float32, fn ease.TweenFunc) *ParameterTween {
	return TweenParameters(model, map[ParameterID]float64{id: to}, duration, fn)
}

// TweenParameters creates a ParameterTween for up to 4 parameters sharing
// one duration and easing function. Extra targets beyond 4 are ignored in
// unspecified order.
func TweenParameters(model Model, targets map[ParameterID]float64, duration float32, fn ease.TweenFunc) *ParameterTween {
	g := &ParameterTween{model: model}
	for id, to := range targets {
		if g.count == maxTweenTargets {
			break
		}
		idx := model.ParameterIndex(id)
		if idx < 0 {
			continue
		}
		from := model.ParameterValue(idx)
		g.tweens[g.count] = gween.New(float32(from), float32(to), duration, fn)
		g.indices[g.count] = idx
		g.count++
	}
	g.Done = g.count == 0
	return g
}

package puppet

import "math"

// BreathParameter is one sine-driven parameter of Breath.
type BreathParameter struct {
	ID     ParameterID
	Offset float64
	Peak   float64
	// Cycle is the period in seconds.
	Cycle  float64
	Weight float64
}

// DefaultBreathParameters returns a slow idle sway of the head and body plus
// the breath parameter itself. The periods are mutually prime so the sway
// does not visibly repeat.
func DefaultBreathParameters() []BreathParameter {
	return []BreathParameter{
		{ID: ParamAngleX, Offset: 0, Peak: 15, Cycle: 6.5345, Weight: 0.5},
		{ID: ParamAngleY, Offset: 0, Peak: 8, Cycle: 3.5345, Weight: 0.5},
		{ID: ParamAngleZ, Offset: 0, Peak: 10, Cycle: 5.5345, Weight: 0.5},
		{ID: ParamBodyAngleX, Offset: 0, Peak: 4, Cycle: 15.5345, Weight: 0.5},
		{ID: ParamBreath, Offset: 0.5, Peak: 0.5, Cycle: 3.2345, Weight: 1},
	}
}

// Breath adds offset + peak*sin(2πt/cycle) to each parameter every frame.
type Breath struct {
	params []BreathParameter
	t      float64
}

// NewBreath creates a breath effect at phase zero.
func NewBreath(params []BreathParameter) *Breath {
	return &Breath{params: append([]BreathParameter(nil), params...)}
}

// Parameters returns the driven parameters.
// The returned slice MUST NOT be mutated.
func (b *Breath) Parameters() []BreathParameter { return b.params }

// UpdateParameters advances the phase by dt and adds every sine to model.
func (b *Breath) UpdateParameters(model Model, dt float64) {
	b.t += dt
	for _, p := range b.params {
		if p.Cycle <= 0 {
			continue
		}
		idx := model.ParameterIndex(p.ID)
		if idx < 0 {
			continue
		}
		v := p.Offset + p.Peak*math.Sin(2*math.Pi*b.t/p.Cycle)
		model.AddParameterValue(idx, v, p.Weight)
	}
}

package puppet

import "math/rand/v2"

// BlinkState is the phase of an EyeBlink.
type BlinkState uint8

const (
	BlinkFirst    BlinkState = iota // not yet scheduled
	BlinkInterval                   // eyes open, waiting for the next blink
	BlinkClosing
	BlinkClosed
	BlinkOpening
)

// EyeBlinkConfig tunes an EyeBlink. Durations are in seconds.
type EyeBlinkConfig struct {
	IDs      []ParameterID
	Interval float64
	Closing  float64
	Closed   float64
	Opening  float64
	// Seed makes the blink schedule reproducible.
	Seed uint64
}

// DefaultEyeBlinkConfig blinks both eyes about every 4 seconds.
func DefaultEyeBlinkConfig() EyeBlinkConfig {
	return EyeBlinkConfig{
		IDs:      []ParameterID{ParamEyeLOpen, ParamEyeROpen},
		Interval: 4,
		Closing:  0.1,
		Closed:   0.05,
		Opening:  0.15,
		Seed:     1,
	}
}

// EyeBlink writes an automatic blink into the eye-open parameters. It is
// run only on frames where no motion drove the model.
type EyeBlink struct {
	cfg       EyeBlinkConfig
	rng       *rand.Rand
	state     BlinkState
	now       float64
	stateTime float64
	nextBlink float64
}

// NewEyeBlink creates a blink with a seeded schedule.
func NewEyeBlink(cfg EyeBlinkConfig) *EyeBlink {
	return &EyeBlink{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// State returns the current blink phase.
func (b *EyeBlink) State() BlinkState { return b.state }

// IDs returns the driven parameters.
// The returned slice MUST NOT be mutated.
func (b *EyeBlink) IDs() []ParameterID { return b.cfg.IDs }

func (b *EyeBlink) scheduleNext() float64 {
	return b.now + b.rng.Float64()*(2*b.cfg.Interval-1)
}

// UpdateParameters advances the blink by dt and writes the eye openness.
func (b *EyeBlink) UpdateParameters(model Model, dt float64) {
	b.now += dt
	var v float64
	switch b.state {
	case BlinkClosing:
		t := phase(b.now-b.stateTime, b.cfg.Closing)
		if t >= 1 {
			t = 1
			b.state = BlinkClosed
			b.stateTime = b.now
		}
		v = 1 - t
	case BlinkClosed:
		if phase(b.now-b.stateTime, b.cfg.Closed) >= 1 {
			b.state = BlinkOpening
			b.stateTime = b.now
		}
		v = 0
	case BlinkOpening:
		t := phase(b.now-b.stateTime, b.cfg.Opening)
		if t >= 1 {
			t = 1
			b.state = BlinkInterval
			b.nextBlink = b.scheduleNext()
		}
		v = t
	case BlinkInterval:
		if b.nextBlink < b.now {
			b.state = BlinkClosing
			b.stateTime = b.now
		}
		v = 1
	default:
		b.state = BlinkInterval
		b.nextBlink = b.scheduleNext()
		v = 1
	}

	for _, id := range b.cfg.IDs {
		if idx := model.ParameterIndex(id); idx >= 0 {
			model.SetParameterValue(idx, v, 1)
		}
	}
}

// phase returns elapsed/duration, 1 for a zero duration.
func phase(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return elapsed / duration
}

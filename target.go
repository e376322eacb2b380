package puppet

import "math"

// TargetConfig tunes the critically braked approach of TargetPoint and
// Approach. Speeds are expressed per frame at FrameRate.
type TargetConfig struct {
	// FrameRate is the reference update rate the speeds are tuned for.
	FrameRate float64
	// VelocityConstant is the top speed in units per second.
	VelocityConstant float64
	// TimeToMaxSpeed is the time to accelerate from rest to top speed.
	TimeToMaxSpeed float64
	// Epsilon is the per-axis distance under which the target counts as reached.
	Epsilon float64
	// Bounds clamps the output on every axis.
	Bounds Range
}

// DefaultTargetConfig returns the gaze tuning: top speed 4 units/s reached
// in 0.15 s at 30 fps, output within [-1, 1].
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		FrameRate:        30,
		VelocityConstant: 4,
		TimeToMaxSpeed:   0.15,
		Epsilon:          0.01,
		Bounds:           Range{-1, 1},
	}
}

// DefaultApproachConfig returns the aperture tuning used for lip sync:
// the gaze tuning with output within [0, 1].
func DefaultApproachConfig() TargetConfig {
	cfg := DefaultTargetConfig()
	cfg.Bounds = Range{0, 1}
	return cfg
}

// TargetPoint smooths a commanded 2D target into a position that
// accelerates, caps its speed and brakes so it stops at the target without
// overshoot.
type TargetPoint struct {
	cfg    TargetConfig
	pos    Vec2
	vel    Vec2
	target Vec2
}

// NewTargetPoint creates a filter at rest at the origin.
func NewTargetPoint(cfg TargetConfig) *TargetPoint {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}
	if cfg.TimeToMaxSpeed <= 0 {
		cfg.TimeToMaxSpeed = 0.15
	}
	return &TargetPoint{cfg: cfg}
}

// SetTarget sets the commanded position, clamped to the bounds.
func (p *TargetPoint) SetTarget(x, y float64) {
	p.target = Vec2{X: p.cfg.Bounds.clamp(x), Y: p.cfg.Bounds.clamp(y)}
}

// Target returns the commanded position.
func (p *TargetPoint) Target() Vec2 { return p.target }

// Value returns the smoothed position.
func (p *TargetPoint) Value() Vec2 { return p.pos }

// X returns the smoothed horizontal position.
func (p *TargetPoint) X() float64 { return p.pos.X }

// Y returns the smoothed vertical position.
func (p *TargetPoint) Y() float64 { return p.pos.Y }

// SetValueImmediate moves the filter to v and stops it.
func (p *TargetPoint) SetValueImmediate(v Vec2) {
	p.pos = Vec2{X: p.cfg.Bounds.clamp(v.X), Y: p.cfg.Bounds.clamp(v.Y)}
	p.vel = Vec2{}
}

// Update advances the filter by dt seconds.
func (p *TargetPoint) Update(dt float64) {
	if dt <= 0 {
		return
	}
	c := &p.cfg

	dx := p.target.X - p.pos.X
	dy := p.target.Y - p.pos.Y
	if math.Abs(dx) <= c.Epsilon && math.Abs(dy) <= c.Epsilon {
		return
	}

	maxV := c.VelocityConstant / c.FrameRate
	frames := dt * c.FrameRate
	maxA := frames * maxV / (c.TimeToMaxSpeed * c.FrameRate)

	d := math.Hypot(dx, dy)
	vx := maxV * dx / d
	vy := maxV * dy / d

	ax := vx - p.vel.X
	ay := vy - p.vel.Y
	if a := math.Hypot(ax, ay); a > maxA {
		ax *= maxA / a
		ay *= maxA / a
	}
	p.vel.X += ax
	p.vel.Y += ay

	// Top speed from which a constant maxA deceleration stops within d.
	brake := 0.5 * (math.Sqrt(maxA*maxA+8*maxA*d) - maxA)
	if v := math.Hypot(p.vel.X, p.vel.Y); v > brake {
		p.vel.X *= brake / v
		p.vel.Y *= brake / v
	}

	p.pos.X += p.vel.X
	p.pos.Y += p.vel.Y
	if x := c.Bounds.clamp(p.pos.X); x != p.pos.X {
		p.pos.X = x
		p.vel.X = 0
	}
	if y := c.Bounds.clamp(p.pos.Y); y != p.pos.Y {
		p.pos.Y = y
		p.vel.Y = 0
	}
}

// Approach is the one-dimensional TargetPoint, used to smooth a scalar such
// as mouth aperture.
type Approach struct {
	p TargetPoint
}

// NewApproach creates a scalar filter at rest at the lower bound, or 0 when
// 0 is within the bounds.
func NewApproach(cfg TargetConfig) *Approach {
	a := &Approach{p: *NewTargetPoint(cfg)}
	a.p.SetValueImmediate(Vec2{})
	return a
}

// SetTarget sets the commanded value, clamped to the bounds.
func (a *Approach) SetTarget(v float64) { a.p.SetTarget(v, 0) }

// Target returns the commanded value.
func (a *Approach) Target() float64 { return a.p.target.X }

// Update advances the filter by dt seconds.
func (a *Approach) Update(dt float64) { a.p.Update(dt) }

// Value returns the smoothed value.
func (a *Approach) Value() float64 { return a.p.pos.X }

// SetValueImmediate moves the filter to v and stops it.
func (a *Approach) SetValueImmediate(v float64) { a.p.SetValueImmediate(Vec2{X: v}) }

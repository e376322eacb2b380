package puppet

import (
	"math"
	"testing"
)

func TestTargetPointMonotonicApproach(t *testing.T) {
	for _, target := range []float64{1, 0.5, -0.3} {
		p := NewTargetPoint(DefaultTargetConfig())
		p.SetTarget(target, 0)
		sign := math.Copysign(1, target)

		prev := 0.0
		for i := 0; i < 120; i++ {
			p.Update(1.0 / 60)
			x := p.X()
			if (x-prev)*sign < 0 {
				t.Fatalf("target %v: frame %d moved backward from %v to %v", target, i, prev, x)
			}
			if (x-target)*sign > 1e-12 {
				t.Fatalf("target %v: frame %d overshot to %v", target, i, x)
			}
			if p.Y() != 0 {
				t.Fatalf("target %v: Y drifted to %v", target, p.Y())
			}
			prev = x
		}
		if math.Abs(p.X()-target) > DefaultTargetConfig().Epsilon {
			t.Errorf("target %v: settled at %v", target, p.X())
		}
	}
}

func TestTargetPointEpsilon(t *testing.T) {
	p := NewTargetPoint(DefaultTargetConfig())
	p.SetValueImmediate(Vec2{0.5, 0.5})
	p.SetTarget(0.505, 0.495)
	p.Update(1.0 / 30)
	if p.Value() != (Vec2{0.5, 0.5}) {
		t.Errorf("moved within epsilon to %v", p.Value())
	}

	p.Update(0)
	p.Update(-1)
	if p.Value() != (Vec2{0.5, 0.5}) {
		t.Errorf("non-positive dt moved the filter to %v", p.Value())
	}
}

func TestTargetPointClamp(t *testing.T) {
	p := NewTargetPoint(DefaultTargetConfig())
	p.SetValueImmediate(Vec2{2, -3})
	if p.Value() != (Vec2{1, -1}) {
		t.Errorf("SetValueImmediate = %v, want clamped (1, -1)", p.Value())
	}
	p.SetTarget(5, 5)
	if p.Target() != (Vec2{1, 1}) {
		t.Errorf("Target = %v, want clamped (1, 1)", p.Target())
	}

	for i := 0; i < 200; i++ {
		p.Update(1.0 / 30)
		v := p.Value()
		if v.X < -1 || v.X > 1 || v.Y < -1 || v.Y > 1 {
			t.Fatalf("frame %d left the bounds: %v", i, v)
		}
	}
	if v := p.Value(); math.Abs(v.Y-1) > 0.01 || v.X != 1 {
		t.Errorf("settled at %v, want (1, 1)", v)
	}
}

func TestTargetPointDiagonal(t *testing.T) {
	p := NewTargetPoint(DefaultTargetConfig())
	p.SetTarget(0.6, 0.6)
	for i := 0; i < 60; i++ {
		p.Update(1.0 / 30)
		if v := p.Value(); math.Abs(v.X-v.Y) > 1e-12 {
			t.Fatalf("frame %d left the diagonal: %v", i, v)
		}
	}
	if v := p.Value(); math.Abs(v.X-0.6) > 0.01 {
		t.Errorf("settled at %v, want (0.6, 0.6)", v)
	}
}

func TestApproach(t *testing.T) {
	a := NewApproach(DefaultApproachConfig())
	if a.Value() != 0 {
		t.Errorf("initial value = %v, want 0", a.Value())
	}
	a.SetTarget(2)
	if a.Target() != 1 {
		t.Errorf("Target = %v, want clamped 1", a.Target())
	}
	for range 60 {
		a.Update(1.0 / 30)
	}
	if v := a.Value(); v < 0.99 || v > 1 {
		t.Errorf("value = %v, want within epsilon of 1", v)
	}
	a.SetValueImmediate(0.25)
	if a.Value() != 0.25 {
		t.Errorf("SetValueImmediate = %v, want 0.25", a.Value())
	}
}

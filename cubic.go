package puppet

import (
	"math"

	"honnef.co/go/curve"
)

// machineEpsilon is the gap between 1 and the next float64.
const machineEpsilon = 0x1p-52

// Roots whose distance from the middle of [0, 1] is below
// cardanoCenter+cardanoTolerance are accepted as the curve parameter.
const (
	cardanoCenter    = 0.5
	cardanoTolerance = 0.01
)

// cardanoForBezier returns the root in [0, 1] of a·t³ + b·t² + c·t + d = 0
// for the time polynomial of a Bezier segment. A vanishing leading
// coefficient falls back to the quadratic (or linear) equation.
func cardanoForBezier(a, b, c, d float64) float64 {
	if math.Abs(a) < machineEpsilon {
		return Range{0, 1}.clamp(quadraticForBezier(b, c, d))
	}

	ba := b / a
	ca := c / a
	da := d / a

	p := (3*ca - ba*ba) / 3
	p3 := p / 3
	q := (2*ba*ba*ba - 9*ba*ca + 27*da) / 27
	q2 := q / 2
	discriminant := q2*q2 + p3*p3*p3

	const threshold = cardanoCenter + cardanoTolerance
	unit := Range{0, 1}

	if discriminant < 0 {
		mp3 := -p / 3
		r := math.Sqrt(mp3 * mp3 * mp3)
		cosphi := Range{-1, 1}.clamp(-q / (2 * r))
		phi := math.Acos(cosphi)
		t1 := 2 * math.Cbrt(r)

		root1 := t1*math.Cos(phi/3) - ba/3
		if math.Abs(root1-cardanoCenter) < threshold {
			return unit.clamp(root1)
		}
		root2 := t1*math.Cos((phi+2*math.Pi)/3) - ba/3
		if math.Abs(root2-cardanoCenter) < threshold {
			return unit.clamp(root2)
		}
		root3 := t1*math.Cos((phi+4*math.Pi)/3) - ba/3
		return unit.clamp(root3)
	}

	if discriminant == 0 {
		u1 := -math.Cbrt(q2)
		root1 := 2*u1 - ba/3
		if math.Abs(root1-cardanoCenter) < threshold {
			return unit.clamp(root1)
		}
		root2 := -u1 - ba/3
		return unit.clamp(root2)
	}

	sd := math.Sqrt(discriminant)
	u1 := math.Cbrt(sd - q2)
	v1 := math.Cbrt(sd + q2)
	return unit.clamp(u1 - v1 - ba/3)
}

// quadraticForBezier solves a·t² + b·t + c = 0 and returns the root closest
// to the middle of the segment. It returns 0 when there is no real root.
func quadraticForBezier(a, b, c float64) float64 {
	roots, n := curve.SolveQuadratic(c, b, a)
	if n == 0 {
		return 0
	}
	best := roots[0]
	for _, r := range roots[1:n] {
		if math.Abs(r-cardanoCenter) < math.Abs(best-cardanoCenter) {
			best = r
		}
	}
	return best
}

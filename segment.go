package puppet

import "honnef.co/go/curve"

// evaluateSegment returns the value of a segment of type typ whose points
// start at pts[0]. Bezier segments use the given strategy, which must not be
// BezierAuto.
func evaluateSegment(typ SegmentType, pts []Point, time float64, bezier BezierStrategy) float64 {
	switch typ {
	case SegmentLinear:
		return linearEvaluate(pts, time)
	case SegmentBezier:
		switch bezier {
		case BezierCardano:
			return bezierEvaluateCardano(pts, time)
		case BezierBinarySearch:
			return bezierEvaluateBinarySearch(pts, time)
		default:
			return bezierEvaluate(pts, time)
		}
	case SegmentStepped:
		return steppedEvaluate(pts, time)
	case SegmentInverseStepped:
		return inverseSteppedEvaluate(pts, time)
	default:
		return pts[0].Value
	}
}

// linearEvaluate interpolates between pts[0] and pts[1]. Times before the
// segment clamp to the first value; times after it extrapolate.
func linearEvaluate(pts []Point, time float64) float64 {
	t := (time - pts[0].Time) / (pts[1].Time - pts[0].Time)
	if t < 0 {
		t = 0
	}
	return pts[0].Value + (pts[1].Value-pts[0].Value)*t
}

func steppedEvaluate(pts []Point, _ float64) float64 {
	return pts[0].Value
}

func inverseSteppedEvaluate(pts []Point, _ float64) float64 {
	return pts[1].Value
}

// bezierOf builds the (time, value) cubic of a Bezier segment.
func bezierOf(pts []Point) curve.CubicBez {
	return curve.CubicBez{
		P0: curve.Pt(pts[0].Time, pts[0].Value),
		P1: curve.Pt(pts[1].Time, pts[1].Value),
		P2: curve.Pt(pts[2].Time, pts[2].Value),
		P3: curve.Pt(pts[3].Time, pts[3].Value),
	}
}

// bezierEvaluate takes the curve parameter linearly from time. Exact when
// the time handles sit at thirds of the segment.
func bezierEvaluate(pts []Point, time float64) float64 {
	t := (time - pts[0].Time) / (pts[3].Time - pts[0].Time)
	if t < 0 {
		t = 0
	}
	return bezierOf(pts).Eval(t).Y
}

// bezierEvaluateCardano solves the time polynomial for the curve parameter
// in closed form.
func bezierEvaluateCardano(pts []Point, time float64) float64 {
	x1, cx1, cx2, x2 := pts[0].Time, pts[1].Time, pts[2].Time, pts[3].Time

	a := x2 - 3*cx2 + 3*cx1 - x1
	b := 3*cx2 - 6*cx1 + 3*x1
	c := 3*cx1 - 3*x1
	d := x1 - time

	t := cardanoForBezier(a, b, c, d)
	return bezierOf(pts).Eval(t).Y
}

// Binary search tuning.
const (
	bezierSearchIterations = 20
	bezierSearchTolerance  = 0.01
)

// bezierEvaluateBinarySearch bisects the time control polygon with de
// Casteljau subdivision until the split point lands within tolerance.
func bezierEvaluateBinarySearch(pts []Point, time float64) float64 {
	x := time
	x1, x2 := pts[0].Time, pts[3].Time
	cx1, cx2 := pts[1].Time, pts[2].Time

	ta, tb := 0.0, 1.0
	t := 0.0
	i := 0
	for ; i < bezierSearchIterations; i++ {
		if x < x1+bezierSearchTolerance {
			t = ta
			break
		}
		if x2-bezierSearchTolerance < x {
			t = tb
			break
		}

		center := (cx1 + cx2) * 0.5
		cx1 = (x1 + cx1) * 0.5
		cx2 = (x2 + cx2) * 0.5
		ctrl12 := (cx1 + center) * 0.5
		ctrl21 := (cx2 + center) * 0.5
		center = (ctrl12 + ctrl21) * 0.5

		if x < center {
			tb = (ta + tb) * 0.5
			if center-bezierSearchTolerance < x {
				t = tb
				break
			}
			x2 = center
			cx2 = ctrl12
		} else {
			ta = (ta + tb) * 0.5
			if x < center+bezierSearchTolerance {
				t = ta
				break
			}
			x1 = center
			cx1 = ctrl21
		}
	}
	if i == bezierSearchIterations {
		t = (ta + tb) * 0.5
	}
	t = Range{0, 1}.clamp(t)
	return bezierOf(pts).Eval(t).Y
}

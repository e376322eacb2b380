package puppet

// Point is one keyframe control point of a curve.
type Point struct {
	Time  float64
	Value float64
}

// Segment is a run of points evaluated with one interpolation rule.
// BasePoint indexes the segment's first point in MotionData.Points; the
// first point is shared with the previous segment's last point.
type Segment struct {
	Type      SegmentType
	BasePoint int
}

// Curve drives one target over time with a contiguous run of segments.
type Curve struct {
	Target       CurveTarget
	ID           ParameterID
	BaseSegment  int
	SegmentCount int
	// FadeInTime and FadeOutTime override the motion's fades for this curve
	// when >= 0. The value -1 means "use the motion default".
	FadeInTime  float64
	FadeOutTime float64
}

// MotionEvent is a user-data marker that fires once when playback crosses
// FireTime.
type MotionEvent struct {
	FireTime float64
	Value    string
}

// MotionData is a parsed, immutable animation clip. Curves are ordered by
// target kind: all TargetModel curves, then TargetParameter, then
// TargetPartOpacity.
type MotionData struct {
	Duration float64
	Loop     bool
	FPS      float64
	Curves   []Curve
	Segments []Segment
	Points   []Point
	Events   []MotionEvent
	// Restricted reports that Bezier handles were authored so that time is
	// linear in the curve parameter.
	Restricted bool
	// Bezier is the evaluator used for Bezier segments.
	Bezier BezierStrategy
}

// evaluateCurve returns the value of curve ci at time. When correct is set
// and time lies past the last keyframe but before endTime, the value is
// interpolated toward the curve's first point placed at endTime so that
// looping clips have no seam.
func (d *MotionData) evaluateCurve(ci int, time float64, correct bool, endTime float64) float64 {
	c := &d.Curves[ci]
	if c.SegmentCount == 0 {
		return 0
	}
	last := c.BaseSegment + c.SegmentCount
	target := -1
	pointPos := 0
	for i := c.BaseSegment; i < last; i++ {
		seg := d.Segments[i]
		pointPos = seg.BasePoint + seg.Type.pointCount() - 1
		if d.Points[pointPos].Time > time {
			target = i
			break
		}
	}

	if target == -1 {
		if correct && time < endTime {
			first := d.Segments[c.BaseSegment].BasePoint
			return d.correctEndPoint(last-1, first, pointPos, time, endTime)
		}
		return d.Points[pointPos].Value
	}

	seg := d.Segments[target]
	return evaluateSegment(seg.Type, d.Points[seg.BasePoint:], time, d.bezierStrategy())
}

// correctEndPoint evaluates the gap between the curve's last point and its
// first point moved to endTime, using the last segment's stepping rule.
func (d *MotionData) correctEndPoint(segIndex, beginPoint, endPoint int, time, endTime float64) float64 {
	pts := [2]Point{
		d.Points[endPoint],
		{Time: endTime, Value: d.Points[beginPoint].Value},
	}
	switch d.Segments[segIndex].Type {
	case SegmentStepped:
		return steppedEvaluate(pts[:], time)
	case SegmentInverseStepped:
		return inverseSteppedEvaluate(pts[:], time)
	default:
		return linearEvaluate(pts[:], time)
	}
}

// bezierStrategy resolves BezierAuto against the clip's Restricted flag.
func (d *MotionData) bezierStrategy() BezierStrategy {
	if d.Bezier != BezierAuto {
		return d.Bezier
	}
	if d.Restricted {
		return BezierParametric
	}
	return BezierCardano
}

// firedEvents appends to dst the values of events with before < FireTime <= now.
func (d *MotionData) firedEvents(dst []string, before, now float64) []string {
	for _, ev := range d.Events {
		if ev.FireTime > before && ev.FireTime <= now {
			dst = append(dst, ev.Value)
		}
	}
	return dst
}

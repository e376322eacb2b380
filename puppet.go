package puppet

// ParameterID names a scalar degree of freedom of a model, e.g. "ParamMouthOpenY".
type ParameterID string

// Vec2 is a 2D vector used for gaze targets and drag positions.
type Vec2 struct {
	X, Y float64
}

// Range is a general-purpose min/max range.
// Used by the target-point filters to bound their output.
type Range struct {
	Min, Max float64
}

// clamp restricts v to the range.
func (r Range) clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// BlendType selects how an expression parameter combines with the model value.
type BlendType uint8

const (
	BlendAdditive  BlendType = iota // value is added on top of the current value
	BlendMultiply                   // current value is scaled by the value
	BlendOverwrite                  // value replaces the current value
)

// String returns the name used for the blend in expression files.
func (b BlendType) String() string {
	switch b {
	case BlendAdditive:
		return "Add"
	case BlendMultiply:
		return "Multiply"
	case BlendOverwrite:
		return "Overwrite"
	default:
		return "unknown"
	}
}

// CurveTarget identifies what a motion curve drives.
type CurveTarget uint8

const (
	TargetModel       CurveTarget = iota // model-wide effect gates (EyeBlink, LipSync, Opacity)
	TargetParameter                      // a model parameter, blended by fade weight
	TargetPartOpacity                    // a part opacity, written without blending
)

// String returns the name used for the target in motion files.
func (t CurveTarget) String() string {
	switch t {
	case TargetModel:
		return "Model"
	case TargetParameter:
		return "Parameter"
	case TargetPartOpacity:
		return "PartOpacity"
	default:
		return "unknown"
	}
}

// SegmentType is the interpolation rule of one curve segment.
type SegmentType uint8

const (
	SegmentLinear         SegmentType = iota // 2 points, straight interpolation
	SegmentBezier                            // 4 points, cubic Bezier in (time, value)
	SegmentStepped                           // 2 points, holds the first value
	SegmentInverseStepped                    // 2 points, holds the second value
)

// pointCount returns how many points a segment of this type spans,
// including the shared first point.
func (s SegmentType) pointCount() int {
	if s == SegmentBezier {
		return 4
	}
	return 2
}

// BezierStrategy selects how Bezier segments map time to curve parameter.
type BezierStrategy uint8

const (
	BezierAuto         BezierStrategy = iota // parametric for restricted clips, Cardano otherwise
	BezierParametric                         // t taken linearly from time (de Casteljau)
	BezierCardano                            // closed-form cubic root of the time polynomial
	BezierBinarySearch                       // bisection on the time control polygon
)

// MotionBehavior selects versioned loop semantics for motions.
type MotionBehavior uint8

const (
	// MotionBehaviorV2 pads the loop by one frame, corrects the curve end
	// toward the first point and restarts loops relative to the wrapped time.
	MotionBehaviorV2 MotionBehavior = iota
	// MotionBehaviorV1 wraps on the raw duration and restarts loops at the
	// current time.
	MotionBehaviorV1
)

// Priority gates which motion may interrupt the one currently playing.
type Priority int

const (
	PriorityNone   Priority = iota // no motion playing
	PriorityIdle                   // idle loops, replaced by anything
	PriorityNormal                 // regular reactions
	PriorityForce                  // always starts, overriding reservations
)

// Standard parameter ids used by Character for drag, breath and effects.
const (
	ParamAngleX     ParameterID = "ParamAngleX"
	ParamAngleY     ParameterID = "ParamAngleY"
	ParamAngleZ     ParameterID = "ParamAngleZ"
	ParamBodyAngleX ParameterID = "ParamBodyAngleX"
	ParamEyeBallX   ParameterID = "ParamEyeBallX"
	ParamEyeBallY   ParameterID = "ParamEyeBallY"
	ParamEyeLOpen   ParameterID = "ParamEyeLOpen"
	ParamEyeROpen   ParameterID = "ParamEyeROpen"
	ParamMouthOpenY ParameterID = "ParamMouthOpenY"
	ParamBreath     ParameterID = "ParamBreath"
)

// Model curve ids carrying effect gates rather than parameter values.
const (
	curveIDEyeBlink ParameterID = "EyeBlink"
	curveIDLipSync  ParameterID = "LipSync"
	curveIDOpacity  ParameterID = "Opacity"
)

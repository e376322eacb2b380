package puppet

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// motionFile mirrors the motion clip JSON layout.
type motionFile struct {
	Version  int            `json:"Version"`
	Meta     motionMeta     `json:"Meta"`
	Curves   []curveJSON    `json:"Curves"`
	UserData []userDataJSON `json:"UserData"`
}

type motionMeta struct {
	Duration             float64  `json:"Duration"`
	Fps                  float64  `json:"Fps"`
	Loop                 bool     `json:"Loop"`
	AreBeziersRestricted bool     `json:"AreBeziersRestricted"`
	CurveCount           int      `json:"CurveCount"`
	TotalSegmentCount    int      `json:"TotalSegmentCount"`
	TotalPointCount      int      `json:"TotalPointCount"`
	UserDataCount        int      `json:"UserDataCount"`
	TotalUserDataSize    int      `json:"TotalUserDataSize"`
	FadeInTime           *float64 `json:"FadeInTime"`
	FadeOutTime          *float64 `json:"FadeOutTime"`
}

type curveJSON struct {
	Target      string    `json:"Target"`
	ID          string    `json:"Id"`
	FadeInTime  *float64  `json:"FadeInTime"`
	FadeOutTime *float64  `json:"FadeOutTime"`
	Segments    []float64 `json:"Segments"`
}

type userDataJSON struct {
	Time  float64 `json:"Time"`
	Value string  `json:"Value"`
}

// defaultMotionFPS is assumed when a clip omits its frame rate.
const defaultMotionFPS = 30

func parseCurveTarget(s string) (CurveTarget, bool) {
	switch s {
	case "Model":
		return TargetModel, true
	case "Parameter":
		return TargetParameter, true
	case "PartOpacity":
		return TargetPartOpacity, true
	}
	return 0, false
}

// curveFade returns an optional per-curve fade, -1 when absent or negative.
func curveFade(v *float64) float64 {
	if v == nil || *v < 0 {
		return -1
	}
	return *v
}

// parseMotionJSON decodes a clip into flat curve, segment and point arrays.
// Curves with an unknown target are skipped; an unknown segment type ends
// the curve at the last good segment. Both are logged as warnings.
func parseMotionJSON(jsonData []byte, cfg MotionConfig) (*MotionData, motionMeta, error) {
	var f motionFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, motionMeta{}, fmt.Errorf("puppet: %w: %w", ErrInvalidMotion, err)
	}
	if f.Meta.Duration < 0 || math.IsNaN(f.Meta.Duration) {
		return nil, f.Meta, fmt.Errorf("puppet: %w: negative duration %v", ErrInvalidMotion, f.Meta.Duration)
	}

	d := &MotionData{
		Duration:   f.Meta.Duration,
		Loop:       f.Meta.Loop,
		FPS:        f.Meta.Fps,
		Restricted: f.Meta.AreBeziersRestricted,
		Bezier:     cfg.Bezier,
		Curves:     make([]Curve, 0, len(f.Curves)),
	}
	if d.FPS <= 0 {
		d.FPS = defaultMotionFPS
	}
	if d.Bezier == BezierAuto && cfg.LegacyBezier {
		d.Bezier = BezierParametric
	}
	if f.Meta.TotalSegmentCount > 0 {
		d.Segments = make([]Segment, 0, f.Meta.TotalSegmentCount)
	}
	if f.Meta.TotalPointCount > 0 {
		d.Points = make([]Point, 0, f.Meta.TotalPointCount)
	}

	for _, cj := range f.Curves {
		target, ok := parseCurveTarget(cj.Target)
		if !ok {
			Logger().Warn("puppet: unknown motion curve target", "target", cj.Target, "id", cj.ID)
			continue
		}
		c := Curve{
			Target:      target,
			ID:          ParameterID(cj.ID),
			BaseSegment: len(d.Segments),
			FadeInTime:  curveFade(cj.FadeInTime),
			FadeOutTime: curveFade(cj.FadeOutTime),
		}
		c.SegmentCount = d.appendSegments(cj)
		if c.SegmentCount == 0 {
			Logger().Warn("puppet: motion curve has no segments", "id", cj.ID)
			continue
		}
		d.Curves = append(d.Curves, c)
	}

	slices.SortStableFunc(d.Curves, func(a, b Curve) int {
		return cmp.Compare(a.Target, b.Target)
	})

	for _, u := range f.UserData {
		d.Events = append(d.Events, MotionEvent{FireTime: u.Time, Value: u.Value})
	}

	if cfg.CheckConsistency {
		if err := checkMotionCounts(&f, d); err != nil {
			return nil, f.Meta, err
		}
	}
	return d, f.Meta, nil
}

// appendSegments decodes one curve's flat segment stream and returns the
// number of segments appended.
func (d *MotionData) appendSegments(cj curveJSON) int {
	s := cj.Segments
	if len(s) < 2 {
		return 0
	}
	firstPoint := len(d.Points)
	d.Points = append(d.Points, Point{Time: s[0], Value: s[1]})

	count := 0
	for pos := 2; pos < len(s); {
		raw := s[pos]
		if raw != math.Trunc(raw) || raw < 0 || raw > float64(SegmentInverseStepped) {
			Logger().Warn("puppet: unknown motion segment type", "id", cj.ID, "type", raw)
			break
		}
		typ := SegmentType(raw)
		n := typ.pointCount() - 1
		if pos+1+2*n > len(s) {
			Logger().Warn("puppet: truncated motion segment", "id", cj.ID, "offset", pos)
			break
		}
		base := len(d.Points) - 1
		for k := 0; k < n; k++ {
			d.Points = append(d.Points, Point{Time: s[pos+1+2*k], Value: s[pos+2+2*k]})
		}
		d.Segments = append(d.Segments, Segment{Type: typ, BasePoint: base})
		pos += 1 + 2*n
		count++
	}
	if count == 0 {
		d.Points = d.Points[:firstPoint]
	}
	return count
}

// checkMotionCounts compares the Meta counts against the decoded data.
func checkMotionCounts(f *motionFile, d *MotionData) error {
	switch {
	case f.Meta.CurveCount != len(f.Curves):
		return fmt.Errorf("puppet: %w: curve count %d, meta says %d",
			ErrInvalidMotion, len(f.Curves), f.Meta.CurveCount)
	case f.Meta.TotalSegmentCount != len(d.Segments):
		return fmt.Errorf("puppet: %w: segment count %d, meta says %d",
			ErrInvalidMotion, len(d.Segments), f.Meta.TotalSegmentCount)
	case f.Meta.TotalPointCount != len(d.Points):
		return fmt.Errorf("puppet: %w: point count %d, meta says %d",
			ErrInvalidMotion, len(d.Points), f.Meta.TotalPointCount)
	case f.Meta.UserDataCount != len(f.UserData):
		return fmt.Errorf("puppet: %w: user data count %d, meta says %d",
			ErrInvalidMotion, len(f.UserData), f.Meta.UserDataCount)
	}
	return nil
}

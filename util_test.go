package puppet

import (
	"bytes"
	"cmp"
	"log/slog"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...gocmp.Option) {
	t.Helper()
	if d := gocmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// captureLogs routes puppet's logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

// newTestModel returns a store with a few plain parameters plus the
// standard effect and gaze parameters.
func newTestModel() *ParameterStore {
	return NewParameterStore(
		ParameterDef{ID: "ParamA", Min: -100, Max: 100},
		ParameterDef{ID: "ParamB", Min: -100, Max: 100},
		ParameterDef{ID: "ParamC", Min: -100, Max: 100},
		ParameterDef{ID: "ParamSpin", Min: -180, Max: 180, Repeat: true},
		ParameterDef{ID: "PartArm", Min: 0, Max: 1, Default: 1},
		ParameterDef{ID: ParamEyeLOpen, Min: 0, Max: 1, Default: 1},
		ParameterDef{ID: ParamEyeROpen, Min: 0, Max: 1, Default: 1},
		ParameterDef{ID: ParamMouthOpenY, Min: 0, Max: 1},
		ParameterDef{ID: ParamAngleX, Min: -30, Max: 30},
		ParameterDef{ID: ParamAngleY, Min: -30, Max: 30},
		ParameterDef{ID: ParamAngleZ, Min: -30, Max: 30},
		ParameterDef{ID: ParamBodyAngleX, Min: -10, Max: 10},
		ParameterDef{ID: ParamEyeBallX, Min: -1, Max: 1},
		ParameterDef{ID: ParamEyeBallY, Min: -1, Max: 1},
		ParameterDef{ID: ParamBreath, Min: 0, Max: 1},
	)
}

// clipBuilder assembles MotionData by hand for tests that need exact curves.
type clipBuilder struct {
	d MotionData
}

func newClip(duration float64) *clipBuilder {
	return &clipBuilder{d: MotionData{Duration: duration, FPS: 30}}
}

// linear adds a curve of linear segments through pts.
func (b *clipBuilder) linear(target CurveTarget, id ParameterID, pts ...Point) *clipBuilder {
	return b.curve(Curve{Target: target, ID: id, FadeInTime: -1, FadeOutTime: -1}, SegmentLinear, pts...)
}

// curve adds c with one segment of type typ between consecutive points.
func (b *clipBuilder) curve(c Curve, typ SegmentType, pts ...Point) *clipBuilder {
	c.BaseSegment = len(b.d.Segments)
	base := len(b.d.Points)
	b.d.Points = append(b.d.Points, pts...)
	for i := 0; i+1 < len(pts); i++ {
		b.d.Segments = append(b.d.Segments, Segment{Type: typ, BasePoint: base + i})
	}
	c.SegmentCount = len(pts) - 1
	b.d.Curves = append(b.d.Curves, c)
	return b
}

// bezier adds a curve of Bezier segments; pts holds the first point followed
// by three points per segment.
func (b *clipBuilder) bezier(id ParameterID, pts ...Point) *clipBuilder {
	c := Curve{Target: TargetParameter, ID: id, BaseSegment: len(b.d.Segments), FadeInTime: -1, FadeOutTime: -1}
	base := len(b.d.Points)
	b.d.Points = append(b.d.Points, pts...)
	for i := 0; i+3 < len(pts); i += 3 {
		b.d.Segments = append(b.d.Segments, Segment{Type: SegmentBezier, BasePoint: base + i})
		c.SegmentCount++
	}
	b.d.Curves = append(b.d.Curves, c)
	return b
}

func (b *clipBuilder) event(at float64, value string) *clipBuilder {
	b.d.Events = append(b.d.Events, MotionEvent{FireTime: at, Value: value})
	return b
}

func (b *clipBuilder) loop() *clipBuilder {
	b.d.Loop = true
	return b
}

func (b *clipBuilder) build() *MotionData {
	slices.SortStableFunc(b.d.Curves, func(x, y Curve) int { return cmp.Compare(x.Target, y.Target) })
	d := b.d
	return &d
}

// motionWithFades wraps data in a Motion with explicit fades.
func motionWithFades(d *MotionData, fadeIn, fadeOut float64) *Motion {
	cfg := DefaultMotionConfig()
	cfg.FadeInSeconds = fadeIn
	cfg.FadeOutSeconds = fadeOut
	return NewMotion(d, cfg)
}

// startedEntry returns an entry already set up at startTime with its
// fade-in complete.
func startedEntry(p Playable, startTime float64) *QueueEntry {
	e := newQueueEntry(1, p, false)
	e.started = true
	e.startTime = startTime
	e.fadeInStartTime = startTime - 100
	return e
}

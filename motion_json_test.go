package puppet

import (
	"errors"
	"strings"
	"testing"
)

const testMotionJSON = `{
  "Version": 3,
  "Meta": {
    "Duration": 2,
    "Fps": 30,
    "Loop": false,
    "AreBeziersRestricted": false,
    "CurveCount": 3,
    "TotalSegmentCount": 4,
    "TotalPointCount": 9,
    "UserDataCount": 1,
    "TotalUserDataSize": 4,
    "FadeInTime": 0.25
  },
  "Curves": [
    {"Target": "Parameter", "Id": "ParamA", "Segments": [0, 0, 1, 0.3, 1, 0.6, 1, 1, 1, 0, 2, 5]},
    {"Target": "Model", "Id": "EyeBlink", "Segments": [0, 1, 2, 1, 0]},
    {"Target": "PartOpacity", "Id": "PartArm", "FadeInTime": 0.5, "Segments": [0, 1, 3, 2, 0]}
  ],
  "UserData": [{"Time": 0.5, "Value": "wave"}]
}`

func TestParseMotionJSON(t *testing.T) {
	d, _, err := parseMotionJSON([]byte(testMotionJSON), DefaultMotionConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := &MotionData{
		Duration: 2,
		FPS:      30,
		Curves: []Curve{
			{Target: TargetModel, ID: "EyeBlink", BaseSegment: 2, SegmentCount: 1, FadeInTime: -1, FadeOutTime: -1},
			{Target: TargetParameter, ID: "ParamA", BaseSegment: 0, SegmentCount: 2, FadeInTime: -1, FadeOutTime: -1},
			{Target: TargetPartOpacity, ID: "PartArm", BaseSegment: 3, SegmentCount: 1, FadeInTime: 0.5, FadeOutTime: -1},
		},
		Segments: []Segment{
			{Type: SegmentBezier, BasePoint: 0},
			{Type: SegmentLinear, BasePoint: 3},
			{Type: SegmentStepped, BasePoint: 5},
			{Type: SegmentInverseStepped, BasePoint: 7},
		},
		Points: []Point{
			{0, 0}, {0.3, 1}, {0.6, 1}, {1, 1}, {2, 5},
			{0, 1}, {1, 0},
			{0, 1}, {2, 0},
		},
		Events: []MotionEvent{{FireTime: 0.5, Value: "wave"}},
	}
	diff(t, want, d)
}

func TestLoadMotionFades(t *testing.T) {
	m, err := LoadMotion([]byte(testMotionJSON), DefaultMotionConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m.FadeInSeconds() != 0.25 {
		t.Errorf("FadeInSeconds = %v, want 0.25 from Meta", m.FadeInSeconds())
	}
	if m.FadeOutSeconds() != 1 {
		t.Errorf("FadeOutSeconds = %v, want default 1", m.FadeOutSeconds())
	}
	if m.Duration() != 2 || m.IsLoop() {
		t.Errorf("Duration = %v loop = %t, want 2 false", m.Duration(), m.IsLoop())
	}

	cfg := DefaultMotionConfig()
	cfg.FadeInSeconds = 0
	cfg.FadeOutSeconds = 0.7
	m, err = LoadMotion([]byte(testMotionJSON), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.FadeInSeconds() != 0 || m.FadeOutSeconds() != 0.7 {
		t.Errorf("fades = %v/%v, want config override 0/0.7", m.FadeInSeconds(), m.FadeOutSeconds())
	}
}

func TestLoadMotionBezierStrategy(t *testing.T) {
	cfg := DefaultMotionConfig()
	cfg.LegacyBezier = true
	m, err := LoadMotion([]byte(testMotionJSON), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Data().bezierStrategy(); got != BezierParametric {
		t.Errorf("legacy strategy = %v, want BezierParametric", got)
	}

	cfg.Bezier = BezierBinarySearch
	m, err = LoadMotion([]byte(testMotionJSON), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Data().bezierStrategy(); got != BezierBinarySearch {
		t.Errorf("forced strategy = %v, want BezierBinarySearch", got)
	}
}

func TestLoadMotionConsistency(t *testing.T) {
	cfg := DefaultMotionConfig()
	cfg.CheckConsistency = true
	if _, err := LoadMotion([]byte(testMotionJSON), cfg); err != nil {
		t.Fatalf("consistent clip rejected: %v", err)
	}

	tests := []struct {
		name, from, to string
	}{
		{"curves", `"CurveCount": 3`, `"CurveCount": 4`},
		{"segments", `"TotalSegmentCount": 4`, `"TotalSegmentCount": 5`},
		{"points", `"TotalPointCount": 9`, `"TotalPointCount": 10`},
		{"user data", `"UserDataCount": 1`, `"UserDataCount": 0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(testMotionJSON, tt.from, tt.to, 1)
			m, err := LoadMotion([]byte(data), cfg)
			if !errors.Is(err, ErrInvalidMotion) {
				t.Fatalf("err = %v, want ErrInvalidMotion", err)
			}
			if m != nil {
				t.Error("failed load should return a nil motion")
			}
		})
	}

	// Without the check the mismatch is accepted.
	data := strings.Replace(testMotionJSON, `"CurveCount": 3`, `"CurveCount": 4`, 1)
	if _, err := LoadMotion([]byte(data), DefaultMotionConfig()); err != nil {
		t.Errorf("unchecked load failed: %v", err)
	}
}

func TestLoadMotionMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"Meta": `},
		{"negative duration", `{"Meta": {"Duration": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMotion([]byte(tt.data), DefaultMotionConfig()); !errors.Is(err, ErrInvalidMotion) {
				t.Errorf("err = %v, want ErrInvalidMotion", err)
			}
		})
	}
}

func TestParseMotionUnknownSegmentType(t *testing.T) {
	logs := captureLogs(t)
	data := `{"Meta": {"Duration": 2}, "Curves": [
		{"Target": "Parameter", "Id": "ParamA", "Segments": [0, 0, 0, 1, 1, 7, 2, 2]}
	]}`
	d, _, err := parseMotionJSON([]byte(data), DefaultMotionConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Curves) != 1 || d.Curves[0].SegmentCount != 1 {
		t.Fatalf("curves = %+v, want one curve with one segment", d.Curves)
	}
	diff(t, []Point{{0, 0}, {1, 1}}, d.Points)
	if d.FPS != defaultMotionFPS {
		t.Errorf("FPS = %v, want default %v", d.FPS, defaultMotionFPS)
	}
	if !strings.Contains(logs.String(), "unknown motion segment type") {
		t.Errorf("missing warning, logs: %s", logs)
	}
}

func TestParseMotionSkipsBadCurves(t *testing.T) {
	logs := captureLogs(t)
	data := `{"Meta": {"Duration": 1}, "Curves": [
		{"Target": "Glow", "Id": "X", "Segments": [0, 0, 0, 1, 1]},
		{"Target": "Parameter", "Id": "Empty", "Segments": [0, 0]},
		{"Target": "Parameter", "Id": "Short", "Segments": [0, 0, 1, 0.5, 1]},
		{"Target": "Parameter", "Id": "ParamB", "Segments": [0, 0, 0, 1, 1]}
	]}`
	d, _, err := parseMotionJSON([]byte(data), DefaultMotionConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Curves) != 1 || d.Curves[0].ID != "ParamB" {
		t.Fatalf("curves = %+v, want only ParamB", d.Curves)
	}
	// Dropped curves leave no points behind.
	diff(t, []Point{{0, 0}, {1, 1}}, d.Points)
	for _, msg := range []string{"unknown motion curve target", "truncated motion segment", "no segments"} {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("missing warning %q, logs: %s", msg, logs)
		}
	}
}

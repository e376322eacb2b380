package puppet

import "math"

// maxEffectTargets bounds the eye-blink and lip-sync id lists a motion
// tracks overrides for.
const maxEffectTargets = 64

// effectAbsent marks an effect gate whose Model curve is missing.
const effectAbsent = math.MaxFloat64

// MotionConfig controls how a motion clip is loaded and played.
type MotionConfig struct {
	// FadeInSeconds and FadeOutSeconds override the clip's fades when >= 0.
	// Negative values use the clip's Meta fades, or 1 second if absent.
	FadeInSeconds  float64
	FadeOutSeconds float64

	// Behavior selects the loop semantics.
	Behavior MotionBehavior

	// Bezier forces a Bezier evaluator. BezierAuto picks per clip.
	Bezier BezierStrategy

	// LegacyBezier evaluates every Bezier parametrically, matching clips
	// authored before closed-form evaluation existed. Ignored when Bezier
	// is not BezierAuto.
	LegacyBezier bool

	// CheckConsistency rejects clips whose Meta counts disagree with the
	// curve data.
	CheckConsistency bool

	// EyeBlinkIDs and LipSyncIDs are the parameters the clip's EyeBlink and
	// LipSync gates apply to.
	EyeBlinkIDs []ParameterID
	LipSyncIDs  []ParameterID

	OnBegan    func(Playable)
	OnFinished func(Playable)
	OnLoop     func(Playable)
}

// DefaultMotionConfig returns a config that takes fades from the clip and
// uses the current loop behavior.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		FadeInSeconds:  -1,
		FadeOutSeconds: -1,
	}
}

// Motion plays a MotionData clip: it evaluates every curve at the entry's
// elapsed time and blends the results into the model by fade weight.
type Motion struct {
	playback

	data        *MotionData
	behavior    MotionBehavior
	eyeBlinkIDs []ParameterID
	lipSyncIDs  []ParameterID
	opacity     float64
	lastWeight  float64
}

var _ Playable = (*Motion)(nil)

// NewMotion wraps parsed clip data. Fades come from cfg, defaulting to
// 1 second when negative.
func NewMotion(data *MotionData, cfg MotionConfig) *Motion {
	m := &Motion{
		playback: newPlayback(),
		data:     data,
		behavior: cfg.Behavior,
		opacity:  1,
	}
	m.loop = data.Loop
	if cfg.FadeInSeconds >= 0 {
		m.fadeInSeconds = cfg.FadeInSeconds
	}
	if cfg.FadeOutSeconds >= 0 {
		m.fadeOutSeconds = cfg.FadeOutSeconds
	}
	m.onBegan = cfg.OnBegan
	m.onFinished = cfg.OnFinished
	m.onLoop = cfg.OnLoop
	m.SetEffectIDs(cfg.EyeBlinkIDs, cfg.LipSyncIDs)
	return m
}

// LoadMotion parses a motion clip and returns a playable Motion. On any
// error it returns nil; callers must not start playback.
func LoadMotion(jsonData []byte, cfg MotionConfig) (*Motion, error) {
	data, meta, err := parseMotionJSON(jsonData, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.FadeInSeconds < 0 {
		cfg.FadeInSeconds = metaFade(meta.FadeInTime)
	}
	if cfg.FadeOutSeconds < 0 {
		cfg.FadeOutSeconds = metaFade(meta.FadeOutTime)
	}
	return NewMotion(data, cfg), nil
}

// metaFade returns the clip-level fade, 1 second when absent or negative.
func metaFade(v *float64) float64 {
	if v == nil || *v < 0 {
		return 1
	}
	return *v
}

// Data returns the clip. The returned value MUST NOT be mutated.
func (m *Motion) Data() *MotionData { return m.data }

// Behavior returns the loop semantics in use.
func (m *Motion) Behavior() MotionBehavior { return m.behavior }

// SetBehavior selects the loop semantics.
func (m *Motion) SetBehavior(b MotionBehavior) { m.behavior = b }

// Duration implements Playable. Looping motions are unbounded.
func (m *Motion) Duration() float64 {
	if m.loop || m.data == nil {
		return -1
	}
	return m.data.Duration
}

// LoopDuration returns the clip length regardless of looping.
func (m *Motion) LoopDuration() float64 {
	if m.data == nil {
		return 0
	}
	return m.data.Duration
}

// SetEffectIDs sets the parameters that the clip's EyeBlink and LipSync
// gates drive. Only the first 64 of each list are honoured.
func (m *Motion) SetEffectIDs(eyeBlink, lipSync []ParameterID) {
	if len(eyeBlink) > maxEffectTargets || len(lipSync) > maxEffectTargets {
		Logger().Warn("puppet: effect target list truncated",
			"eyeBlink", len(eyeBlink), "lipSync", len(lipSync), "max", maxEffectTargets)
	}
	m.eyeBlinkIDs = append([]ParameterID(nil), eyeBlink[:min(len(eyeBlink), maxEffectTargets)]...)
	m.lipSyncIDs = append([]ParameterID(nil), lipSync[:min(len(lipSync), maxEffectTargets)]...)
}

// hasEffectIDs reports whether any effect target has been configured.
func (m *Motion) hasEffectIDs() bool {
	return len(m.eyeBlinkIDs) > 0 || len(m.lipSyncIDs) > 0
}

// Opacity returns the last value of the clip's Opacity curve, 1 if none.
func (m *Motion) Opacity() float64 { return m.opacity }

// LastWeight returns the fade weight of the most recent update.
func (m *Motion) LastWeight() float64 { return m.lastWeight }

// FiredEvents implements Playable.
func (m *Motion) FiredEvents(dst []string, before, now float64) []string {
	if m.data == nil {
		return dst
	}
	return m.data.firedEvents(dst, before, now)
}

// Release implements Playable. A released motion no longer updates.
func (m *Motion) Release() {
	m.data = nil
	m.onBegan = nil
	m.onFinished = nil
	m.onLoop = nil
}

// wrapTime folds an elapsed time into [0, duration).
func wrapTime(t, duration float64) float64 {
	if duration <= 0 || t < duration {
		return t
	}
	return math.Mod(t, duration)
}

func (m *Motion) doUpdateParameters(model Model, now, fadeWeight float64, e *QueueEntry) {
	d := m.data
	if d == nil {
		return
	}

	timeOffset := max(now-e.startTime, 0)

	fadeIn := fadeInWeight(m.fadeInSeconds, e.fadeInStartTime, now)
	fadeOut := fadeOutWeight(e.fadeOutDuration(m.fadeOutSeconds), e.endTime, now)

	t := timeOffset
	duration := d.Duration
	correct := m.behavior == MotionBehaviorV2 && m.loop
	if m.loop {
		if m.behavior == MotionBehaviorV2 && d.FPS > 0 {
			duration += 1 / d.FPS
		}
		t = wrapTime(t, duration)
	}

	eyeBlinkValue := effectAbsent
	lipSyncValue := effectAbsent

	c := 0
	for ; c < len(d.Curves) && d.Curves[c].Target == TargetModel; c++ {
		v := d.evaluateCurve(c, t, correct, duration)
		switch d.Curves[c].ID {
		case curveIDEyeBlink:
			eyeBlinkValue = v
		case curveIDLipSync:
			lipSyncValue = v
		case curveIDOpacity:
			m.opacity = v
			if os, ok := model.(OpacitySetter); ok {
				os.SetOpacity(v)
			}
		}
	}

	var eyeBlinkFlags, lipSyncFlags uint64
	for ; c < len(d.Curves) && d.Curves[c].Target == TargetParameter; c++ {
		cv := &d.Curves[c]
		idx := model.ParameterIndex(cv.ID)
		if idx < 0 {
			continue
		}
		source := model.ParameterValue(idx)
		v := d.evaluateCurve(c, t, correct, duration)

		if eyeBlinkValue != effectAbsent {
			if i := indexOfID(m.eyeBlinkIDs, cv.ID); i >= 0 {
				v *= eyeBlinkValue
				eyeBlinkFlags |= 1 << i
			}
		}
		if lipSyncValue != effectAbsent {
			if i := indexOfID(m.lipSyncIDs, cv.ID); i >= 0 {
				v += lipSyncValue
				lipSyncFlags |= 1 << i
			}
		}

		if model.IsRepeatParameter(idx) {
			lo, hi := model.ParameterRange(idx)
			v = repeatValue(v, lo, hi)
		}

		w := fadeWeight
		if cv.FadeInTime >= 0 || cv.FadeOutTime >= 0 {
			fin, fout := fadeIn, fadeOut
			if cv.FadeInTime >= 0 {
				fin = fadeInWeight(cv.FadeInTime, e.fadeInStartTime, now)
			}
			if cv.FadeOutTime >= 0 {
				fout = fadeOutWeight(cv.FadeOutTime, e.endTime, now)
			}
			w = m.weight * fin * fout
		}
		model.SetParameterValue(idx, source+(v-source)*w, 1)
	}

	if eyeBlinkValue != effectAbsent {
		applyEffect(model, m.eyeBlinkIDs, eyeBlinkFlags, eyeBlinkValue, fadeWeight)
	}
	if lipSyncValue != effectAbsent {
		applyEffect(model, m.lipSyncIDs, lipSyncFlags, lipSyncValue, fadeWeight)
	}

	for ; c < len(d.Curves) && d.Curves[c].Target == TargetPartOpacity; c++ {
		idx := model.ParameterIndex(d.Curves[c].ID)
		if idx < 0 {
			continue
		}
		model.SetParameterValue(idx, d.evaluateCurve(c, t, correct, duration), 1)
	}

	if timeOffset >= duration {
		if m.loop {
			m.restartLoop(e, now, t)
		} else {
			if m.onFinished != nil {
				m.onFinished(m)
			}
			e.finished = true
		}
	}
	m.lastWeight = fadeWeight
}

// restartLoop rebases the entry so the next frame continues the loop.
// wrapped is the time already consumed in the new cycle.
func (m *Motion) restartLoop(e *QueueEntry, now, wrapped float64) {
	start := now
	if m.behavior == MotionBehaviorV2 {
		start = now - wrapped
	}
	e.startTime = start
	if m.loopFadeIn {
		e.fadeInStartTime = start
	}
	if m.onLoop != nil {
		m.onLoop(m)
	}
}

// applyEffect blends an effect gate into every target not already folded
// into a parameter curve.
func applyEffect(model Model, ids []ParameterID, overridden uint64, value, weight float64) {
	for i, id := range ids {
		if overridden>>i&1 == 1 {
			continue
		}
		idx := model.ParameterIndex(id)
		if idx < 0 {
			continue
		}
		source := model.ParameterValue(idx)
		model.SetParameterValue(idx, source+(value-source)*weight, 1)
	}
}

func indexOfID(ids []ParameterID, id ParameterID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

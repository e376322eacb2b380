package puppet

import "math"

// LipSyncConfig tunes how audio loudness maps to mouth aperture.
type LipSyncConfig struct {
	// IDs are the parameters the aperture is added to.
	IDs []ParameterID
	// Weight scales the aperture when it is added to IDs.
	Weight float64
	// FloorDB and CeilDB bound the loudness mapped onto [0, 1].
	FloorDB float64
	CeilDB  float64
	// Gamma shapes the loudness curve. 1 is linear in dB.
	Gamma float64
	// Filter smooths the aperture.
	Filter TargetConfig
}

// DefaultLipSyncConfig drives ParamMouthOpenY at weight 0.8 from speech
// between -46 and -18 dBFS.
func DefaultLipSyncConfig() LipSyncConfig {
	return LipSyncConfig{
		IDs:     []ParameterID{ParamMouthOpenY},
		Weight:  0.8,
		FloorDB: -46,
		CeilDB:  -18,
		Gamma:   0.9,
		Filter:  DefaultApproachConfig(),
	}
}

// LipSync turns audio loudness, or a commanded level, into a smoothed mouth
// aperture in [0, 1].
type LipSync struct {
	cfg    LipSyncConfig
	filter *Approach
}

// NewLipSync creates a lip sync with a closed mouth.
func NewLipSync(cfg LipSyncConfig) *LipSync {
	return &LipSync{cfg: cfg, filter: NewApproach(cfg.Filter)}
}

// SetLevel commands an aperture directly.
func (l *LipSync) SetLevel(v float64) { l.filter.SetTarget(v) }

// Feed commands the aperture from a block of PCM samples in [-1, 1].
func (l *LipSync) Feed(samples []float32) {
	l.filter.SetTarget(l.loudness(rmsDBFS(samples)))
}

// FeedInt16 commands the aperture from a block of 16-bit PCM samples.
func (l *LipSync) FeedInt16(samples []int16) {
	if len(samples) == 0 {
		l.filter.SetTarget(0)
		return
	}
	var sum float64
	for _, s := range samples {
		f := float64(s) / 32768
		sum += f * f
	}
	l.filter.SetTarget(l.loudness(dbfs(sum, len(samples))))
}

// Update advances the smoothing by dt seconds.
func (l *LipSync) Update(dt float64) { l.filter.Update(dt) }

// Value returns the smoothed aperture.
func (l *LipSync) Value() float64 { return l.filter.Value() }

// Reset closes the mouth immediately.
func (l *LipSync) Reset() {
	l.filter.SetTarget(0)
	l.filter.SetValueImmediate(0)
}

// Apply adds the aperture to the configured parameters.
func (l *LipSync) Apply(model Model) {
	v := l.Value()
	for _, id := range l.cfg.IDs {
		if idx := model.ParameterIndex(id); idx >= 0 {
			model.AddParameterValue(idx, v, l.cfg.Weight)
		}
	}
}

// silenceDB is reported for an empty block.
const silenceDB = -100

func rmsDBFS(samples []float32) float64 {
	if len(samples) == 0 {
		return silenceDB
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return dbfs(sum, len(samples))
}

func dbfs(sumSquares float64, n int) float64 {
	rms := math.Sqrt(sumSquares/float64(n) + 1e-12)
	return 20 * math.Log10(rms+1e-12)
}

// loudness maps a dBFS level onto [0, 1].
func (l *LipSync) loudness(db float64) float64 {
	span := l.cfg.CeilDB - l.cfg.FloorDB
	if span <= 0 {
		return 0
	}
	t := Range{0, 1}.clamp((db - l.cfg.FloorDB) / span)
	if l.cfg.Gamma > 0 && l.cfg.Gamma != 1 {
		t = math.Pow(t, l.cfg.Gamma)
	}
	return t
}

package puppet

import "math"

// Model is the parameter store the animation core reads and writes. The
// renderer owns the concrete type; the core only sees indices and values.
//
// Indices are resolved once per id with ParameterIndex; -1 means the model
// has no such parameter and callers skip it.
type Model interface {
	ParameterIndex(id ParameterID) int
	ParameterValue(index int) float64
	// SetParameterValue blends value into the current value:
	// current*(1-weight) + value*weight.
	SetParameterValue(index int, value, weight float64)
	// AddParameterValue sets current + value*weight.
	AddParameterValue(index int, value, weight float64)
	// MultiplyParameterValue sets current * (1 + (value-1)*weight).
	MultiplyParameterValue(index int, value, weight float64)
	IsRepeatParameter(index int) bool
	ParameterRange(index int) (min, max float64)
}

// OpacitySetter is implemented by models that accept a model-wide opacity
// from motion "Opacity" curves.
type OpacitySetter interface {
	SetOpacity(opacity float64)
}

// ParameterDef describes one parameter of a ParameterStore.
type ParameterDef struct {
	ID      ParameterID
	Min     float64
	Max     float64
	Default float64
	// Repeat wraps out-of-range values around [Min, Max] instead of clamping.
	Repeat bool
}

// ParameterStore is an in-memory Model. It also keeps a saved copy of the
// values so a host can restore the pre-animation baseline every frame.
type ParameterStore struct {
	defs    []ParameterDef
	index   map[ParameterID]int
	values  []float64
	saved   []float64
	opacity float64
}

var _ Model = (*ParameterStore)(nil)
var _ OpacitySetter = (*ParameterStore)(nil)

// NewParameterStore creates a store holding the given parameters at their
// default values.
func NewParameterStore(defs ...ParameterDef) *ParameterStore {
	s := &ParameterStore{
		index:   make(map[ParameterID]int, len(defs)),
		opacity: 1,
	}
	for _, d := range defs {
		s.AddParameter(d)
	}
	return s
}

// AddParameter registers a parameter and returns its index. Registering an
// existing id replaces its definition and resets its value.
func (s *ParameterStore) AddParameter(def ParameterDef) int {
	if def.Max < def.Min {
		def.Min, def.Max = def.Max, def.Min
	}
	if i, ok := s.index[def.ID]; ok {
		s.defs[i] = def
		s.values[i] = def.Default
		s.saved[i] = def.Default
		return i
	}
	i := len(s.defs)
	s.defs = append(s.defs, def)
	s.values = append(s.values, def.Default)
	s.saved = append(s.saved, def.Default)
	s.index[def.ID] = i
	return i
}

// ParameterCount returns the number of registered parameters.
func (s *ParameterStore) ParameterCount() int {
	return len(s.defs)
}

// Parameters returns the parameter definitions in index order.
// The returned slice MUST NOT be mutated.
func (s *ParameterStore) Parameters() []ParameterDef {
	return s.defs
}

// ParameterIndex implements Model.
func (s *ParameterStore) ParameterIndex(id ParameterID) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// ParameterValue implements Model. Out-of-range indices read as 0.
func (s *ParameterStore) ParameterValue(index int) float64 {
	if index < 0 || index >= len(s.values) {
		return 0
	}
	return s.values[index]
}

// SetParameterValue implements Model. The stored value is clamped to the
// parameter range, or wrapped for repeat parameters, before blending.
func (s *ParameterStore) SetParameterValue(index int, value, weight float64) {
	if index < 0 || index >= len(s.values) {
		return
	}
	def := &s.defs[index]
	if def.Repeat {
		value = repeatValue(value, def.Min, def.Max)
	} else {
		value = Range{def.Min, def.Max}.clamp(value)
	}
	if weight == 1 {
		s.values[index] = value
		return
	}
	s.values[index] = s.values[index]*(1-weight) + value*weight
}

// AddParameterValue implements Model.
func (s *ParameterStore) AddParameterValue(index int, value, weight float64) {
	s.SetParameterValue(index, s.ParameterValue(index)+value*weight, 1)
}

// MultiplyParameterValue implements Model.
func (s *ParameterStore) MultiplyParameterValue(index int, value, weight float64) {
	s.SetParameterValue(index, s.ParameterValue(index)*(1+(value-1)*weight), 1)
}

// IsRepeatParameter implements Model.
func (s *ParameterStore) IsRepeatParameter(index int) bool {
	if index < 0 || index >= len(s.defs) {
		return false
	}
	return s.defs[index].Repeat
}

// ParameterRange implements Model.
func (s *ParameterStore) ParameterRange(index int) (min, max float64) {
	if index < 0 || index >= len(s.defs) {
		return 0, 0
	}
	return s.defs[index].Min, s.defs[index].Max
}

// Value returns the current value of id, or 0 if the id is unknown.
func (s *ParameterStore) Value(id ParameterID) float64 {
	return s.ParameterValue(s.ParameterIndex(id))
}

// SetValue sets id to value at full weight. Unknown ids are ignored.
func (s *ParameterStore) SetValue(id ParameterID, value float64) {
	s.SetParameterValue(s.ParameterIndex(id), value, 1)
}

// AddValue adds value*weight to id. Unknown ids are ignored.
func (s *ParameterStore) AddValue(id ParameterID, value, weight float64) {
	s.AddParameterValue(s.ParameterIndex(id), value, weight)
}

// MultiplyValue scales id by value at the given weight. Unknown ids are ignored.
func (s *ParameterStore) MultiplyValue(id ParameterID, value, weight float64) {
	s.MultiplyParameterValue(s.ParameterIndex(id), value, weight)
}

// Values copies the current values into dst (grown as needed) and returns it.
func (s *ParameterStore) Values(dst []float64) []float64 {
	return append(dst[:0], s.values...)
}

// SaveParameters records the current values as the baseline.
func (s *ParameterStore) SaveParameters() {
	copy(s.saved, s.values)
}

// LoadParameters restores the values recorded by SaveParameters.
func (s *ParameterStore) LoadParameters() {
	copy(s.values, s.saved)
}

// Reset restores every parameter and the saved baseline to its default.
func (s *ParameterStore) Reset() {
	for i, d := range s.defs {
		s.values[i] = d.Default
		s.saved[i] = d.Default
	}
	s.opacity = 1
}

// Opacity returns the model-wide opacity last set by a motion.
func (s *ParameterStore) Opacity() float64 {
	return s.opacity
}

// SetOpacity implements OpacitySetter.
func (s *ParameterStore) SetOpacity(opacity float64) {
	s.opacity = opacity
}

// repeatValue wraps value into [min, max] for parameters that rotate freely.
func repeatValue(value, min, max float64) float64 {
	size := max - min
	if value > max {
		over := math.Mod(value-max, size)
		if math.IsNaN(over) {
			return max
		}
		value = min + over
	}
	if value < min {
		over := math.Mod(min-value, size)
		if math.IsNaN(over) {
			return min
		}
		value = max - over
	}
	return value
}

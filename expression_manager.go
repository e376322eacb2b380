package puppet

// ExpressionManager layers expressions. Each update it folds every playing
// expression into per-parameter accumulators, later expressions cross-fading
// over earlier ones, then writes the result once per parameter. Once the
// newest expression has fully faded in, the older ones are dropped.
type ExpressionManager struct {
	QueueManager

	values []expressionValue
}

// NewExpressionManager creates an empty manager.
func NewExpressionManager() *ExpressionManager {
	return &ExpressionManager{}
}

// StartMotion queues an expression to fade in over the ones showing. Any
// other Playable is refused with InvalidEntryHandle.
func (m *ExpressionManager) StartMotion(p Playable, autoDelete bool) EntryHandle {
	if expr, ok := p.(*Expression); !ok || expr == nil {
		return InvalidEntryHandle
	}
	return m.QueueManager.StartMotion(p, autoDelete)
}

// FadeWeight returns the fade weight of the i-th playing expression, or 0
// if there is none.
func (m *ExpressionManager) FadeWeight(i int) float64 {
	if i < 0 || i >= len(m.entries) {
		return 0
	}
	return m.entries[i].fadeWeight
}

// SetFadeWeight overrides the fade weight of the i-th playing expression
// until its next update.
func (m *ExpressionManager) SetFadeWeight(i int, w float64) {
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.entries[i].fadeWeight = w
}

// UpdateMotion advances time by dt and applies the layered expressions to
// the model. Parameters ever touched by an expression keep being written
// afterward, at the aggregate fade-in weight, so they settle back to the
// model value once nothing drives them.
func (m *ExpressionManager) UpdateMotion(model Model, dt float64) bool {
	m.userTime += dt
	now := m.userTime
	m.reap()

	updated := false
	expressionWeight := 0.0
	for i, e := range m.entries {
		expr, ok := e.playable.(*Expression)
		if !ok {
			e.finished = true
			continue
		}
		if !e.started {
			m.track(model, expr)
		}

		b := expr.base()
		b.setupEntry(expr, e, now)
		w := b.updateFadeWeight(e, now)
		expr.calculateExpressionParameters(model, m.values, i, w)

		expressionWeight += fadeInWeight(expr.fadeInSeconds, e.fadeInStartTime, now)
		updated = true

		if e.fadeOutTriggered {
			e.startFadeOut(e.fadeOutSeconds, now)
		}
		if e.expired(now) {
			e.finished = true
		}
	}

	if n := len(m.entries); n > 1 && m.entries[n-1].fadeWeight >= 1 {
		m.removeBefore(n - 1)
	}
	expressionWeight = min(expressionWeight, 1)

	for i := range m.values {
		v := &m.values[i]
		model.SetParameterValue(v.index, (v.overwrite+v.additive)*v.multiply, expressionWeight)
		v.additive = 0
		v.multiply = 1
	}
	return updated
}

// track registers accumulators for the parameters of expr the manager has
// not seen yet.
func (m *ExpressionManager) track(model Model, expr *Expression) {
	for _, p := range expr.params {
		idx := model.ParameterIndex(p.ID)
		if idx < 0 || m.tracked(p.ID) {
			continue
		}
		m.values = append(m.values, expressionValue{
			id:        p.ID,
			index:     idx,
			multiply:  1,
			overwrite: model.ParameterValue(idx),
		})
	}
}

func (m *ExpressionManager) tracked(id ParameterID) bool {
	for i := range m.values {
		if m.values[i].id == id {
			return true
		}
	}
	return false
}

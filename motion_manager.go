package puppet

// MotionManager is a QueueManager with a priority gate: a motion may be
// reserved at a priority higher than both the playing and the reserved
// one, then started at that priority.
type MotionManager struct {
	QueueManager

	currentPriority Priority
	reservePriority Priority
}

// NewMotionManager creates an idle manager.
func NewMotionManager() *MotionManager {
	return &MotionManager{}
}

// CurrentPriority returns the priority of the motion playing, or
// PriorityNone once the manager has finished.
func (m *MotionManager) CurrentPriority() Priority { return m.currentPriority }

// ReservePriority returns the reserved priority.
func (m *MotionManager) ReservePriority() Priority { return m.reservePriority }

// SetReservePriority sets the reservation unconditionally.
func (m *MotionManager) SetReservePriority(p Priority) { m.reservePriority = p }

// ReserveMotion reserves priority p if it is strictly higher than both the
// current reservation and the playing motion.
func (m *MotionManager) ReserveMotion(p Priority) bool {
	if p <= m.reservePriority || p <= m.currentPriority {
		return false
	}
	m.reservePriority = p
	return true
}

// StartMotionPriority starts p at the given priority. A reservation at the
// same priority is consumed.
func (m *MotionManager) StartMotionPriority(p Playable, autoDelete bool, priority Priority) EntryHandle {
	if priority == m.reservePriority {
		m.reservePriority = PriorityNone
	}
	m.currentPriority = priority
	return m.StartMotion(p, autoDelete)
}

// UpdateMotion advances the queue and clears the current priority once
// every motion has finished.
func (m *MotionManager) UpdateMotion(model Model, dt float64) bool {
	updated := m.QueueManager.UpdateMotion(model, dt)
	if m.IsFinished() {
		m.currentPriority = PriorityNone
	}
	return updated
}

package puppet

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a playback script.
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	Name     string  `json:"name,omitempty"`
	Priority int     `json:"priority,omitempty"`
	Value    float64 `json:"value,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a playback script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"snapshot":   true,
	"motion":     true,
	"expression": true,
	"look":       true,
	"drag":       true,
	"lipsync":    true,
	"stop":       true,
	"wait":       true,
}

// ScriptRunner sequences motions, expressions, drag input and snapshots
// across frames for reproducible animation tests. Attach to a Character
// via SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON playback script and returns a ScriptRunner ready
// to be attached to a Character via SetScriptRunner.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("puppet: %w: %w", ErrInvalidScript, err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("puppet: %w: no steps", ErrInvalidScript)
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("puppet: %w: step %d: unknown action %q", ErrInvalidScript, i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the character. The runner's
// step method is called at the start of Character.Update each frame.
func (c *Character) SetScriptRunner(runner *ScriptRunner) {
	c.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Character.Update.
func (r *ScriptRunner) step(c *Character) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(c.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		c.Snapshot(st.Label)
	case "motion":
		p := Priority(st.Priority)
		if p == PriorityNone {
			p = PriorityNormal
		}
		if _, err := c.StartNamedMotion(st.Name, p); err != nil {
			Logger().Warn("puppet: script step", "step", r.cursor-1, "err", err)
		}
	case "expression":
		if _, err := c.SetNamedExpression(st.Name); err != nil {
			Logger().Warn("puppet: script step", "step", r.cursor-1, "err", err)
		}
	case "look":
		c.SetDragging(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "lipsync":
		c.SetLipSyncLevel(st.Value)
	case "stop":
		c.motions.StopAllMotions()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(c.injectQueue) == 0 {
		r.done = true
	}
}

package puppet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshot is the model pose captured at the end of one Update.
type Snapshot struct {
	Label  string                  `json:"label"`
	Time   float64                 `json:"time"`
	Values map[ParameterID]float64 `json:"values"`
}

// Snapshot queues a labeled pose capture at the end of the current frame's
// Update. When the character has a snapshot directory, each capture is also
// written there as JSON with a timestamped filename.
func (c *Character) Snapshot(label string) {
	c.snapshotQueue = append(c.snapshotQueue, label)
}

// Snapshots returns the captured poses in order.
// The returned slice MUST NOT be mutated.
func (c *Character) Snapshots() []Snapshot {
	return c.snapshots
}

// flushSnapshots records the current pose for every queued label.
// Called at the end of Character.Update.
func (c *Character) flushSnapshots() {
	if len(c.snapshotQueue) == 0 {
		return
	}

	values := make(map[ParameterID]float64, c.model.ParameterCount())
	for i, d := range c.model.Parameters() {
		values[d.ID] = c.model.ParameterValue(i)
	}

	writeFiles := c.snapshotDir != ""
	if writeFiles {
		if err := os.MkdirAll(c.snapshotDir, 0o755); err != nil {
			Logger().Warn("puppet: snapshot mkdir", "dir", c.snapshotDir, "err", err)
			writeFiles = false
		}
	}
	stamp := time.Now().Format("20060102_150405")

	for _, label := range c.snapshotQueue {
		snap := Snapshot{Label: label, Time: c.time, Values: values}
		c.snapshots = append(c.snapshots, snap)
		if !writeFiles {
			continue
		}
		path := filepath.Join(c.snapshotDir, fmt.Sprintf("%s_%s.json", stamp, sanitizeLabel(label)))
		if err := writeSnapshot(path, snap); err != nil {
			Logger().Warn("puppet: snapshot write", "err", err)
		}
	}

	c.snapshotQueue = c.snapshotQueue[:0]
}

// writeSnapshot encodes a snapshot to a JSON file at the given path.
func writeSnapshot(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

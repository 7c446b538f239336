package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// Report is the JSON summary written after a run.
type Report struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Root      string    `json:"root"`
	Duration  string    `json:"duration"`
	Stats     Stats     `json:"stats"`
}

// WriteReport replaces path with the JSON encoding of r in one atomic rename.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(append(data, '\n')))
}

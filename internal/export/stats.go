package export

import (
	"fmt"
	"time"
)

type Stats struct {
	Scanned   int           `json:"scanned"`
	Exported  int           `json:"exported"`
	Skipped   int           `json:"skipped"`
	Open      int           `json:"open"`
	Ignored   int           `json:"ignored"`
	Messages  int           `json:"messages"`
	Comments  int           `json:"comments"`
	Malformed int           `json:"malformed"`
	Errors    int           `json:"errors"`
	DryRun    bool          `json:"dry_run"`
	Duration  time.Duration `json:"-"`
	Failures  []Failure     `json:"failures,omitempty"`
}

// Failure is one file that could not be exported in this run.
type Failure struct {
	File  string `json:"file"`
	Stage string `json:"stage"` // "check", "read" or "commit"
	Error string `json:"error"`
}

func (s *Stats) fail(file, stage string, err error) {
	s.Errors++
	s.Failures = append(s.Failures, Failure{File: file, Stage: stage, Error: err.Error()})
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d exported=%d skipped=%d open=%d ignored=%d messages=%d malformed=%d errors=%d",
		s.Scanned, s.Exported, s.Skipped, s.Open, s.Ignored, s.Messages, s.Malformed, s.Errors)
}

package pipeline

import (
	"fmt"
	"log/slog"
)

// State is the position of one image task in the pipeline.
type State int

const (
	Discovered State = iota
	IDParsed
	Detected
	Persisted
	Failed
)

func (s State) String() string {
	switch s {
	case Discovered:
		return "discovered"
	case IDParsed:
		return "id_parsed"
	case Detected:
		return "detected"
	case Persisted:
		return "persisted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stage names the step a failed task stopped at.
type Stage string

const (
	StageScan    Stage = "scan"
	StageParse   Stage = "parse"
	StageDetect  Stage = "detect"
	StagePersist Stage = "persist"
)

// Outcome is the tagged result of processing one image task. Err, Stage, and
// Reached are set only when State is Failed; Reached is the last state the
// task completed before the failing stage. A task that ends in Detected had
// no detections and wrote nothing; Persisted carries the committed row count.
type Outcome struct {
	State     State
	Stage     Stage
	Reached   State
	MessageID int64
	Rows      int
	Err       error
}

func failed(stage Stage, reached State, err error) Outcome {
	return Outcome{State: Failed, Stage: stage, Reached: reached, Err: err}
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	Discovered int
	Persisted  int
	Empty      int
	Failed     int
	Rows       int
	Bytes      int64
	Failures   map[Stage]int
}

func (s *Summary) record(o Outcome) {
	switch o.State {
	case Detected:
		s.Empty++
	case Persisted:
		s.Persisted++
		s.Rows += o.Rows
	case Failed:
		s.Failed++
		if s.Failures == nil {
			s.Failures = make(map[Stage]int)
		}
		s.Failures[o.Stage]++
	}
}

// LogValue renders the summary as a group with one count per failure stage.
func (s Summary) LogValue() slog.Value {
	stages := []Stage{StageScan, StageParse, StageDetect, StagePersist}
	failures := make([]any, 0, len(stages))
	for _, st := range stages {
		failures = append(failures, slog.Int(string(st), s.Failures[st]))
	}

	return slog.GroupValue(
		slog.Int("discovered", s.Discovered),
		slog.Int("persisted", s.Persisted),
		slog.Int("empty", s.Empty),
		slog.Int("failed", s.Failed),
		slog.Int("rows", s.Rows),
		slog.Int64("bytes", s.Bytes),
		slog.Group("failures", failures...),
	)
}

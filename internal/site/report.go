package site

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Outcome values reported for a finished build.
const (
	OutcomeSuccess  = "success"
	OutcomeWarning  = "warning"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Report summarizes one pipeline run.
type Report struct {
	RunID            string            `json:"run_id"`
	StartedAt        time.Time         `json:"started_at"`
	Duration         time.Duration     `json:"-"`
	DurationMS       int64             `json:"duration_ms"`
	Outcome          string            `json:"outcome"`
	PagesWritten     int               `json:"pages_written"`
	Documents        int               `json:"documents"`
	DescribeFailures int               `json:"describe_failures"`
	StageDurationsMS map[string]int64  `json:"stage_durations_ms"`
	StageResults     map[string]string `json:"stage_results"`
	Errors           []string          `json:"errors,omitempty"`
}

func newReport() *Report {
	return &Report{
		RunID:            uuid.NewString(),
		StartedAt:        time.Now().UTC(),
		StageDurationsMS: make(map[string]int64),
		StageResults:     make(map[string]string),
	}
}

// recordStage stores timing and classification for one executed stage and
// emits the matching metrics.
func (r *Report) recordStage(name string, dur time.Duration, se *StageError, rec metrics.Recorder) {
	r.StageDurationsMS[name] = dur.Milliseconds()
	rec.ObserveStageDuration(name, dur)

	switch {
	case se == nil:
		r.StageResults[name] = string(metrics.ResultSuccess)
		rec.IncStageResult(name, metrics.ResultSuccess)
	case se.Kind == StageErrorWarning:
		r.StageResults[name] = string(metrics.ResultWarning)
		rec.IncStageResult(name, metrics.ResultWarning)
		r.Errors = append(r.Errors, se.Error())
	case se.Kind == StageErrorCanceled:
		r.StageResults[name] = string(metrics.ResultCanceled)
		rec.IncStageResult(name, metrics.ResultCanceled)
		r.Errors = append(r.Errors, se.Error())
	default:
		r.StageResults[name] = string(metrics.ResultFatal)
		rec.IncStageResult(name, metrics.ResultFatal)
		r.Errors = append(r.Errors, se.Error())
	}
}

// finish fills the summary fields once all stages have run.
func (r *Report) finish(total time.Duration, st *buildState, fatal error) {
	r.Duration = total
	r.DurationMS = total.Milliseconds()
	r.PagesWritten = st.pagesWritten
	r.Documents = len(st.entries)
	r.DescribeFailures = st.describeFailures

	switch {
	case fatal != nil:
		r.Outcome = OutcomeFailed
		var se *StageError
		if errors.As(fatal, &se) && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
		}
	case st.describeFailures > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// ToJSON serializes the report.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Persist writes the report to path atomically.
func (r *Report) Persist(path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

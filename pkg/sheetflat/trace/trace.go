// Package trace records the ordered narration of one flattening run.
package trace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
)

// Recorder is an append-only list of steps. Each step is also written to
// the logger. A Recorder belongs to one run and is not safe for concurrent use.
type Recorder struct {
	steps  []models.Step
	logger *slog.Logger
}

// NewRecorder returns an empty recorder logging through logger.
// A nil logger falls back to slog.Default.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Add appends a step with the given status.
func (r *Recorder) Add(step, details string, status models.StepStatus) {
	r.steps = append(r.steps, models.Step{Step: step, Details: details, Status: status})

	level := slog.LevelInfo
	switch status {
	case models.StatusWarning:
		level = slog.LevelWarn
	case models.StatusError:
		level = slog.LevelError
	}
	r.logger.Log(context.Background(), level, details,
		slog.String("step", step),
		slog.String("status", string(status)))
}

// Success appends a successful step.
func (r *Recorder) Success(step, format string, args ...any) {
	r.Add(step, fmt.Sprintf(format, args...), models.StatusSuccess)
}

// Warn appends a warning step.
func (r *Recorder) Warn(step, format string, args ...any) {
	r.Add(step, fmt.Sprintf(format, args...), models.StatusWarning)
}

// Error appends an error step.
func (r *Recorder) Error(step, format string, args ...any) {
	r.Add(step, fmt.Sprintf(format, args...), models.StatusError)
}

// Steps returns a copy of the recorded steps.
func (r *Recorder) Steps() []models.Step {
	out := make([]models.Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int { return len(r.steps) }

// Last returns the most recent step.
func (r *Recorder) Last() (models.Step, bool) {
	if len(r.steps) == 0 {
		return models.Step{}, false
	}
	return r.steps[len(r.steps)-1], true
}

// Count returns the number of steps with the given status.
func Count(steps []models.Step, status models.StepStatus) int {
	n := 0
	for _, s := range steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

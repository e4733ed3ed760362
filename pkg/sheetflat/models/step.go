package models

// StepStatus is the outcome of a traced stage.
type StepStatus string

const (
	// StatusSuccess marks a stage that did what it set out to do.
	StatusSuccess StepStatus = "success"
	// StatusWarning marks a soft anomaly; processing continued.
	StatusWarning StepStatus = "warning"
	// StatusError marks a fatal fault; processing stopped.
	StatusError StepStatus = "error"
)

// Step is one entry of a run's trace.
type Step struct {
	// Step names the stage, e.g. "Processing Sheet: Q1".
	Step string `json:"step"`
	// Details describes what the stage did.
	Details string `json:"details"`
	// Status is the stage outcome.
	Status StepStatus `json:"status"`
}

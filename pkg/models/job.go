package models

import "time"

const (
	JobStatusIdle      = "idle"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusError     = "error"
)

// JobStatus is the progress snapshot of the analysis job. Only the latest
// values are kept; there is no history of intermediate states.
type JobStatus struct {
	Status     string     `json:"status"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message"`
	ResultFile *string    `json:"result_file"`
	Error      *string    `json:"error"`
	StartTime  *time.Time `json:"start_time"`
	RunID      string     `json:"run_id,omitempty"`
}

// Terminal reports whether the status is completed or error.
func (s JobStatus) Terminal() bool {
	return s.Status == JobStatusCompleted || s.Status == JobStatusError
}

// AnalysisRequest is the input of one pipeline run.
type AnalysisRequest struct {
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

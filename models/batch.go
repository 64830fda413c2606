package models

import "time"

// BatchState is the batch synchronizer state machine
type BatchState string

const (
	BatchIdle       BatchState = "idle"
	BatchConfirming BatchState = "confirming"
	BatchRunning    BatchState = "running"
	BatchDone       BatchState = "done"
)

// BatchResult is the per-record outcome of one synchronization run
type BatchResult struct {
	RecordKey      string    `json:"recordKey"`
	DisplayName    string    `json:"displayName"`
	Success        bool      `json:"success"`
	AssetsUploaded int       `json:"assetsUploaded"`
	Error          string    `json:"error,omitempty"`
	RanAt          time.Time `json:"ranAt"`
}

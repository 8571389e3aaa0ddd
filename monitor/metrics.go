package monitor

import "time"

type OpMetrics struct {
	Op            string        `json:"op"`
	Calls         int           `json:"calls"`
	Errors        int           `json:"errors"`
	TotalDuration time.Duration `json:"total_duration"`
	LastError     string        `json:"last_error,omitempty"`
}

type Snapshot struct {
	Ops       map[string]OpMetrics `json:"ops"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
}

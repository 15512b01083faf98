package types

import "time"

// BatteryStatus is the last known state of one watched battery.
// This struct is shared between the daemon and client packages.
type BatteryStatus struct {
	Source    string    `json:"source"`
	Battery   string    `json:"battery"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	AlertAt   int       `json:"alertAt"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DaemonStatus is returned by GET /status.
type DaemonStatus struct {
	Version      string          `json:"version"`
	Threshold    int             `json:"threshold"`
	Step         int             `json:"step"`
	PollInterval string          `json:"pollInterval"`
	StartedAt    time.Time       `json:"startedAt"`
	Batteries    []BatteryStatus `json:"batteries"`
}

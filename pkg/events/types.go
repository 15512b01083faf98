package events

import (
	"encoding/json"
	"time"
)

// Event name constants
const (
	// MonitorPolled is published after every poll of a battery source.
	MonitorPolled = "monitor.polled"
	// AlertFired is published whenever a low battery notification is due.
	AlertFired = "alert.fired"
)

// Event is a generic event published by a monitor.
type Event struct {
	Name string          // event name
	Data json.RawMessage // Raw JSON payload
}

// PolledEvent is the typed payload for monitor.polled.
type PolledEvent struct {
	Source   string    `json:"source"`
	Battery  string    `json:"battery,omitempty"`
	Capacity int       `json:"capacity"`
	Status   string    `json:"status,omitempty"`
	AlertAt  int       `json:"alertAt"`
	Error    string    `json:"error,omitempty"`
	Ts       time.Time `json:"ts"`
}

// AlertFiredEvent is the typed payload for alert.fired. AlertAt is the
// re-armed alert level after this alert.
type AlertFiredEvent struct {
	Source    string    `json:"source"`
	Battery   string    `json:"battery"`
	Capacity  int       `json:"capacity"`
	Threshold int       `json:"threshold"`
	AlertAt   int       `json:"alertAt"`
	Delivered bool      `json:"delivered"`
	Ts        time.Time `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.AlertFiredEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Battery, payload.Capacity)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}

package source

import "strings"

// Status represents the charging state reported by a power supply.
type Status int

const (
	// StatusOther is any state that is neither charging nor discharging,
	// e.g. "Full", "Not charging" or "Unknown".
	StatusOther Status = iota
	// StatusCharging indicates the battery is charging.
	StatusCharging
	// StatusDischarging indicates the battery is discharging.
	StatusDischarging
)

func (s Status) String() string {
	switch s {
	case StatusCharging:
		return "charging"
	case StatusDischarging:
		return "discharging"
	default:
		return "other"
	}
}

// ParseStatus classifies a raw status value. Matching is case-insensitive.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "charging":
		return StatusCharging
	case "discharging":
		return StatusDischarging
	default:
		return StatusOther
	}
}

// Reading is a snapshot of one battery taken from its source.
type Reading struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Status    Status `json:"status"`
	RawStatus string `json:"rawStatus"`
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

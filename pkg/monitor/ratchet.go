package monitor

import "github.com/charlie0129/batalert/pkg/source"

// Ratchet decides when a low battery alert is due.
//
// alertAt starts at the configured threshold. Each alert re-arms it at
// capacity-step, so the next alert fires only after the battery lost another
// step percent. Charging resets it to the threshold. Any other status leaves
// it alone. There is no floor: near empty it may go negative, after which no
// reading can fire until the battery charges again.
//
// A Ratchet is owned by a single monitor and is not safe for concurrent use.
type Ratchet struct {
	threshold int
	step      int
	alertAt   int
}

func NewRatchet(threshold, step int) *Ratchet {
	return &Ratchet{
		threshold: threshold,
		step:      step,
		alertAt:   threshold,
	}
}

// AlertAt returns the capacity at or below which the next alert fires.
func (r *Ratchet) AlertAt() int {
	return r.alertAt
}

// Observe feeds a reading and reports whether an alert must be sent for it.
func (r *Ratchet) Observe(reading source.Reading) bool {
	switch {
	case reading.Status == source.StatusDischarging && reading.Capacity <= r.alertAt:
		r.alertAt = reading.Capacity - r.step
		return true
	case reading.Status == source.StatusCharging:
		r.alertAt = r.threshold
	}

	return false
}

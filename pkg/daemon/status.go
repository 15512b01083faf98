package daemon

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/events"
	"github.com/charlie0129/batalert/pkg/types"
	"github.com/charlie0129/batalert/pkg/version"
)

// StatusStore keeps the latest poll of every battery for the status API.
// It only holds copies published by the monitors, never their alert state.
type StatusStore struct {
	conf      *config.Config
	startedAt time.Time

	mu        sync.RWMutex
	batteries map[string]types.BatteryStatus
}

func NewStatusStore(conf *config.Config) *StatusStore {
	return &StatusStore{
		conf:      conf,
		startedAt: time.Now(),
		batteries: make(map[string]types.BatteryStatus),
	}
}

// Consume applies monitor.polled events from ch until it is closed.
func (s *StatusStore) Consume(ch <-chan events.Event) {
	for ev := range ch {
		if ev.Name != events.MonitorPolled {
			continue
		}
		p, err := events.DecodeAs[events.PolledEvent](ev)
		if err != nil {
			logrus.WithError(err).Warn("failed to decode poll event")
			continue
		}
		s.Update(p)
	}
}

// Update records a poll. A failed poll keeps the last good reading and only
// sets the error.
func (s *StatusStore) Update(p events.PolledEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.batteries[p.Source]
	b.Source = p.Source
	b.Battery = p.Battery
	b.AlertAt = p.AlertAt
	b.Error = p.Error
	b.UpdatedAt = p.Ts
	if p.Error == "" {
		b.Capacity = p.Capacity
		b.Status = p.Status
	}
	s.batteries[p.Source] = b
}

// Status returns a snapshot sorted by source.
func (s *StatusStore) Status() types.DaemonStatus {
	s.mu.RLock()
	batteries := make([]types.BatteryStatus, 0, len(s.batteries))
	for _, b := range s.batteries {
		batteries = append(batteries, b)
	}
	s.mu.RUnlock()

	sort.Slice(batteries, func(i, j int) bool {
		return batteries[i].Source < batteries[j].Source
	})

	return types.DaemonStatus{
		Version:      version.Version,
		Threshold:    s.conf.Threshold,
		Step:         s.conf.Step,
		PollInterval: s.conf.PollInterval.String(),
		StartedAt:    s.startedAt,
		Batteries:    batteries,
	}
}

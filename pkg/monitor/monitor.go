// Package monitor watches a single battery source and sends low battery
// alerts.
package monitor

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/events"
	"github.com/charlie0129/batalert/pkg/metrics"
	"github.com/charlie0129/batalert/pkg/notify"
	"github.com/charlie0129/batalert/pkg/source"
)

const (
	alertBody     = "Charge your battery soon to avoid shutdown"
	notifyTimeout = 5 * time.Second
)

// Monitor polls one battery source and owns its alert state.
type Monitor struct {
	path     string
	conf     *config.Config
	reader   source.Reader
	notifier notify.Notifier
	hub      *events.EventHub
	ratchet  *Ratchet

	// name is the last battery name read from the source.
	name string

	lastPrintTime time.Time
	lastStatus    pollStatus
}

// New creates a monitor for the source at path. conf is shared between
// monitors and must not be modified. hub may be nil.
func New(path string, conf *config.Config, reader source.Reader, notifier notify.Notifier, hub *events.EventHub) *Monitor {
	return &Monitor{
		path:     path,
		conf:     conf,
		reader:   reader,
		notifier: notifier,
		hub:      hub,
		ratchet:  NewRatchet(conf.Threshold, conf.Step),
		name:     filepath.Base(filepath.Dir(path)),
	}
}

// Path returns the source this monitor watches.
func (m *Monitor) Path() string {
	return m.path
}

// AlertAt returns the capacity at which the next alert fires.
// It must only be called from the goroutine running the monitor.
func (m *Monitor) AlertAt() int {
	return m.ratchet.AlertAt()
}

// Run polls the source once right away and then every poll interval, until
// ctx is done. It always returns ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	m.logger().WithField("interval", m.conf.PollInterval).Info("monitor starts")

	ticker := time.NewTicker(m.conf.PollInterval)
	defer ticker.Stop()

	for {
		m.Poll(ctx)

		select {
		case <-ctx.Done():
			m.logger().Info("monitor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll reads the source once and sends an alert if one is due. It reports
// whether an alert fired. Read and delivery failures are logged, never
// returned: the next poll tries again.
func (m *Monitor) Poll(ctx context.Context) bool {
	reading, err := m.reader.Read(ctx, m.path)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		m.logger().WithError(err).Warn("failed to read battery source, skipping this poll")
		metrics.ReadErrors.WithLabelValues(m.path).Inc()
		m.hub.Publish(events.MonitorPolled, events.PolledEvent{
			Source:  m.path,
			Battery: m.name,
			AlertAt: m.ratchet.AlertAt(),
			Error:   err.Error(),
			Ts:      time.Now(),
		})
		return false
	}

	if reading.Name != "" {
		m.name = reading.Name
	}

	previous := m.ratchet.AlertAt()
	fire := m.ratchet.Observe(reading)

	metrics.BatteryCapacity.WithLabelValues(m.name).Set(float64(reading.Capacity))
	metrics.AlertThreshold.WithLabelValues(m.name).Set(float64(m.ratchet.AlertAt()))

	m.printStatus(reading)

	if !fire && previous != m.ratchet.AlertAt() {
		m.logger().WithFields(logrus.Fields{
			"capacity": reading.Capacity,
			"alertAt":  m.ratchet.AlertAt(),
		}).Info("battery is charging, alert threshold reset")
	}

	if fire {
		m.alert(ctx, reading, previous)
	}

	m.hub.Publish(events.MonitorPolled, events.PolledEvent{
		Source:   m.path,
		Battery:  m.name,
		Capacity: reading.Capacity,
		Status:   reading.RawStatus,
		AlertAt:  m.ratchet.AlertAt(),
		Ts:       time.Now(),
	})

	return fire
}

func (m *Monitor) alert(ctx context.Context, reading source.Reading, threshold int) {
	logger := m.logger().WithFields(logrus.Fields{
		"capacity":  reading.Capacity,
		"threshold": threshold,
		"alertAt":   m.ratchet.AlertAt(),
	})
	logger.Info("battery is low, sending alert")
	metrics.AlertsFired.WithLabelValues(m.name).Inc()

	n := notify.Notification{
		Summary: fmt.Sprintf("Battery %s at %d%%", m.name, reading.Capacity),
		Body:    alertBody,
		Icon:    m.conf.Icon,
		Urgency: notify.UrgencyCritical,
		Timeout: m.conf.Timeout,
	}

	nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	err := m.notifier.Notify(nctx, n)
	cancel()
	if err != nil {
		logger.WithError(err).Error("failed to deliver notification")
		metrics.NotifyErrors.WithLabelValues(m.name).Inc()
	}

	m.hub.Publish(events.AlertFired, events.AlertFiredEvent{
		Source:    m.path,
		Battery:   m.name,
		Capacity:  reading.Capacity,
		Threshold: threshold,
		AlertAt:   m.ratchet.AlertAt(),
		Delivered: err == nil,
		Ts:        time.Now(),
	})
}

func (m *Monitor) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"battery": m.name,
		"source":  m.path,
	})
}

type pollStatus struct {
	capacity int
	status   string
	alertAt  int
}

// printStatus logs every poll, at debug level when something changed and at
// trace level otherwise.
func (m *Monitor) printStatus(reading source.Reading) {
	currentStatus := pollStatus{
		capacity: reading.Capacity,
		status:   reading.RawStatus,
		alertAt:  m.ratchet.AlertAt(),
	}

	entry := m.logger().WithFields(logrus.Fields{
		"capacity": reading.Capacity,
		"status":   reading.RawStatus,
		"alertAt":  m.ratchet.AlertAt(),
	})

	defer func() { m.lastPrintTime = time.Now() }()

	if time.Since(m.lastPrintTime) < m.conf.PollInterval+time.Second && reflect.DeepEqual(m.lastStatus, currentStatus) {
		entry.Trace("battery status")
		return
	}

	entry.Debug("battery status")

	m.lastStatus = currentStatus
}

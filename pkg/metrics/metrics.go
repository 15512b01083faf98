// Package metrics provides Prometheus metrics for batalert.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BatteryCapacity tracks the last read capacity of each battery.
var BatteryCapacity = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "batalert",
	Name:      "battery_capacity_percent",
	Help:      "Last read battery capacity in percent.",
}, []string{"battery"})

// AlertThreshold tracks the capacity at which the next alert fires.
var AlertThreshold = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "batalert",
	Name:      "alert_threshold_percent",
	Help:      "Capacity at or below which the next alert fires.",
}, []string{"battery"})

// AlertsFired counts low battery alerts.
var AlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "batalert",
	Name:      "alerts_total",
	Help:      "Total low battery alerts fired.",
}, []string{"battery"})

// ReadErrors counts failed polls by source path.
var ReadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "batalert",
	Name:      "read_errors_total",
	Help:      "Total failed reads of a battery source.",
}, []string{"source"})

// NotifyErrors counts notifications that could not be delivered.
var NotifyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "batalert",
	Name:      "notify_errors_total",
	Help:      "Total notifications that failed to be delivered.",
}, []string{"battery"})

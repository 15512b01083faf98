package config

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/batalert/pkg/notify"
	"github.com/charlie0129/batalert/pkg/source"
)

const (
	DefaultThreshold    = 15
	DefaultStep         = 3
	DefaultPollInterval = 5000 * time.Millisecond
	DefaultTimeout      = 15 * time.Second
	DefaultIcon         = "/usr/share/icons/Adwaita/256x256/legacy/battery-caution.png"
)

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the process-wide configuration. It is resolved once at startup
// and must not be modified afterwards.
type Config struct {
	// Threshold is the capacity at or below which the first alert fires.
	Threshold int
	// Step is how many percent the battery has to discharge further before
	// the alert repeats.
	Step         int
	PollInterval time.Duration
	// Timeout is the auto-dismiss duration of a notification.
	Timeout time.Duration
	Icon    string
	Sources []string
	// DiscoverAll watches every battery found under the sysfs power_supply
	// class in addition to Sources.
	DiscoverAll bool
	Notifier    string
	// SocketPath is where the status server listens. Empty disables it.
	SocketPath string
	// HistoryPath is the alert history database. Empty disables it.
	HistoryPath string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threshold:    DefaultThreshold,
		Step:         DefaultStep,
		PollInterval: DefaultPollInterval,
		Timeout:      DefaultTimeout,
		Icon:         DefaultIcon,
		Sources:      []string{source.DefaultPath},
		Notifier:     notify.KindAuto,
		SocketPath:   DefaultSocketPath(),
		HistoryPath:  DefaultHistoryPath(),
	}
}

// Validate checks the configuration for values the monitors cannot work with.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return pkgerrors.Wrapf(ErrInvalidConfig, "alert threshold must be between 0 and 100, got %d", c.Threshold)
	}
	if c.Step < 1 {
		return pkgerrors.Wrapf(ErrInvalidConfig, "notification step must be at least 1, got %d", c.Step)
	}
	if c.Timeout < 0 {
		return pkgerrors.Wrapf(ErrInvalidConfig, "notification timeout must not be negative, got %s", c.Timeout)
	}
	if c.PollInterval <= 0 {
		return pkgerrors.Wrapf(ErrInvalidConfig, "poll interval must be positive, got %s", c.PollInterval)
	}
	if len(c.Sources) == 0 && !c.DiscoverAll {
		return pkgerrors.Wrap(ErrInvalidConfig, "at least one battery source is required")
	}
	switch c.Notifier {
	case notify.KindAuto, notify.KindDBus, notify.KindExec:
	default:
		return pkgerrors.Wrapf(ErrInvalidConfig, "unknown notifier %q", c.Notifier)
	}

	return nil
}

func (c Config) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"threshold":    c.Threshold,
		"step":         c.Step,
		"pollInterval": c.PollInterval,
		"timeout":      c.Timeout,
		"icon":         c.Icon,
		"sources":      c.Sources,
		"discoverAll":  c.DiscoverAll,
		"notifier":     c.Notifier,
		"socket":       c.SocketPath,
		"history":      c.HistoryPath,
	}
}

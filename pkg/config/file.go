package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"
)

// RawFileConfig is the TOML config file. Pointer fields tell unset keys
// apart from zero values, so unset keys keep their defaults.
type RawFileConfig struct {
	Alert            *int     `toml:"alert"`
	NotificationStep *int     `toml:"notification-step"`
	TimeoutSeconds   *int     `toml:"timeout"`
	PollIntervalMs   *int     `toml:"poll-interval-ms"`
	Icon             *string  `toml:"icon"`
	Uevent           []string `toml:"uevent"`
	All              *bool    `toml:"all"`
	Notifier         *string  `toml:"notifier"`
	Socket           *string  `toml:"socket"`
	History          *string  `toml:"history"`
}

// LoadFile reads a TOML config file. A missing or empty file yields an empty
// config.
func LoadFile(path string) (*RawFileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RawFileConfig{}, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read config file %s", path)
	}

	if strings.TrimSpace(string(b)) == "" {
		return &RawFileConfig{}, nil
	}

	raw := &RawFileConfig{}
	md, err := toml.Decode(string(b), raw)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to decode config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, pkgerrors.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}

	return raw, nil
}

// Apply overlays the keys set in the file onto c.
func (r *RawFileConfig) Apply(c *Config) {
	if r == nil {
		return
	}
	if r.Alert != nil {
		c.Threshold = *r.Alert
	}
	if r.NotificationStep != nil {
		c.Step = *r.NotificationStep
	}
	if r.TimeoutSeconds != nil {
		c.Timeout = time.Duration(*r.TimeoutSeconds) * time.Second
	}
	if r.PollIntervalMs != nil {
		c.PollInterval = time.Duration(*r.PollIntervalMs) * time.Millisecond
	}
	if r.Icon != nil {
		c.Icon = *r.Icon
	}
	if r.Uevent != nil {
		c.Sources = append([]string(nil), r.Uevent...)
	}
	if r.All != nil {
		c.DiscoverAll = *r.All
	}
	if r.Notifier != nil {
		c.Notifier = *r.Notifier
	}
	if r.Socket != nil {
		c.SocketPath = *r.Socket
	}
	if r.History != nil {
		c.HistoryPath = *r.History
	}
}

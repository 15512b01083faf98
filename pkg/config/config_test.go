package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileMissing(t *testing.T) {
	raw, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	c := Default()
	raw.Apply(&c)
	if !reflect.DeepEqual(c, Default()) {
		t.Errorf("missing file changed defaults: %+v", c)
	}
}

func TestLoadFileEmpty(t *testing.T) {
	raw, err := LoadFile(writeFile(t, "  \n"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if raw.Alert != nil || raw.Uevent != nil {
		t.Errorf("empty file produced values: %+v", raw)
	}
}

func TestLoadFileApply(t *testing.T) {
	path := writeFile(t, `
alert = 20
notification-step = 5
timeout = 0
poll-interval-ms = 1000
icon = "/tmp/bat.png"
uevent = ["/sys/class/power_supply/BAT0/uevent", "/sys/class/power_supply/BAT1/uevent"]
notifier = "exec"
history = ""
`)
	raw, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	c := Default()
	raw.Apply(&c)

	if c.Threshold != 20 || c.Step != 5 {
		t.Errorf("threshold/step = %d/%d", c.Threshold, c.Step)
	}
	if c.Timeout != 0 {
		t.Errorf("timeout = %s, want 0 (explicitly set)", c.Timeout)
	}
	if c.PollInterval != time.Second {
		t.Errorf("poll interval = %s", c.PollInterval)
	}
	if c.Icon != "/tmp/bat.png" || c.Notifier != "exec" {
		t.Errorf("icon/notifier = %s/%s", c.Icon, c.Notifier)
	}
	if len(c.Sources) != 2 {
		t.Errorf("sources = %v", c.Sources)
	}
	if c.HistoryPath != "" {
		t.Errorf("history = %q, want disabled", c.HistoryPath)
	}
	if c.SocketPath != DefaultSocketPath() {
		t.Errorf("socket = %q, want default", c.SocketPath)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "alert = ")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := LoadFile(writeFile(t, "alrt = 10")); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"threshold zero", func(c *Config) { c.Threshold = 0 }, false},
		{"threshold too high", func(c *Config) { c.Threshold = 101 }, true},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, true},
		{"zero step", func(c *Config) { c.Step = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"zero interval", func(c *Config) { c.PollInterval = 0 }, true},
		{"no sources", func(c *Config) { c.Sources = nil }, true},
		{"no sources but discover", func(c *Config) { c.Sources = nil; c.DiscoverAll = true }, false},
		{"bad notifier", func(c *Config) { c.Notifier = "smoke" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("XDG_STATE_HOME", "/home/u/.local/state")
	t.Setenv("XDG_CONFIG_HOME", "/home/u/.config")

	if got := DefaultSocketPath(); got != "/run/user/1000/batalert.sock" {
		t.Errorf("DefaultSocketPath() = %s", got)
	}
	if got := DefaultHistoryPath(); got != "/home/u/.local/state/batalert/history.db" {
		t.Errorf("DefaultHistoryPath() = %s", got)
	}
	if got := DefaultConfigPath(); got != "/home/u/.config/batalert/config.toml" {
		t.Errorf("DefaultConfigPath() = %s", got)
	}
}

package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/events"
	"github.com/charlie0129/batalert/pkg/notify"
	"github.com/charlie0129/batalert/pkg/source"
)

// fakeReader returns queued results in order and repeats the last one.
type fakeReader struct {
	mu      sync.Mutex
	results []fakeResult
	calls   int
}

type fakeResult struct {
	reading source.Reading
	err     error
}

func (f *fakeReader) Read(ctx context.Context, _ string) (source.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return source.Reading{}, err
	}
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	return f.results[i].reading, f.results[i].err
}

func readings(rs ...source.Reading) *fakeReader {
	f := &fakeReader{}
	for _, r := range rs {
		f.results = append(f.results, fakeResult{reading: r})
	}
	return f
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testConfig() *config.Config {
	c := config.Default()
	c.Icon = "/tmp/icon.png"
	c.PollInterval = 10 * time.Millisecond
	return &c
}

const testPath = "/sys/class/power_supply/BAT0/uevent"

func TestMonitorPollSequence(t *testing.T) {
	reader := readings(
		discharging(20), discharging(16), discharging(15),
		discharging(14), discharging(12), discharging(11),
	)
	notifier := &fakeNotifier{}
	m := New(testPath, testConfig(), reader, notifier, nil)

	var firedAt []int
	for i := 0; i < 6; i++ {
		if m.Poll(context.Background()) {
			firedAt = append(firedAt, reader.results[i].reading.Capacity)
		}
	}

	if len(firedAt) != 2 || firedAt[0] != 15 || firedAt[1] != 12 {
		t.Fatalf("alerts fired at %v, want [15 12]", firedAt)
	}
	if notifier.count() != 2 {
		t.Fatalf("sent %d notifications, want 2", notifier.count())
	}

	n := notifier.sent[0]
	if n.Summary != "Battery BAT0 at 15%" {
		t.Errorf("summary = %q", n.Summary)
	}
	if n.Body != "Charge your battery soon to avoid shutdown" {
		t.Errorf("body = %q", n.Body)
	}
	if n.Icon != "/tmp/icon.png" || n.Urgency != notify.UrgencyCritical || n.Timeout != 15*time.Second {
		t.Errorf("unexpected notification %+v", n)
	}
	if m.AlertAt() != 9 {
		t.Errorf("AlertAt() = %d, want 9", m.AlertAt())
	}
}

func TestMonitorReadErrorSkipsPoll(t *testing.T) {
	reader := &fakeReader{results: []fakeResult{
		{reading: discharging(15)},
		{err: source.ErrMalformedSource},
		{err: source.ErrSourceUnavailable},
		{reading: discharging(12)},
	}}
	notifier := &fakeNotifier{}
	m := New(testPath, testConfig(), reader, notifier, nil)

	want := []bool{true, false, false, true}
	for i, w := range want {
		if got := m.Poll(context.Background()); got != w {
			t.Errorf("poll %d fired = %t, want %t", i, got, w)
		}
	}
	if m.AlertAt() != 9 {
		t.Errorf("AlertAt() = %d, want 9", m.AlertAt())
	}
}

func TestMonitorDeliveryFailureIsNotFatal(t *testing.T) {
	reader := readings(discharging(15), discharging(14), discharging(12))
	notifier := &fakeNotifier{err: notify.ErrDeliveryFailed}
	hub := events.NewEventHub()
	alerts := hub.Subscribe()
	m := New(testPath, testConfig(), reader, notifier, hub)

	for i := 0; i < 3; i++ {
		m.Poll(context.Background())
	}

	// The ratchet advances even if delivery failed, so 14 does not retry.
	if notifier.count() != 2 {
		t.Errorf("attempted %d notifications, want 2", notifier.count())
	}

	var fired []events.AlertFiredEvent
	for len(alerts) > 0 {
		ev := <-alerts
		if ev.Name != events.AlertFired {
			continue
		}
		p, err := events.DecodeAs[events.AlertFiredEvent](ev)
		if err != nil {
			t.Fatal(err)
		}
		fired = append(fired, p)
	}
	if len(fired) != 2 {
		t.Fatalf("got %d alert events, want 2", len(fired))
	}
	if fired[0].Delivered || fired[0].Threshold != 15 || fired[0].AlertAt != 12 {
		t.Errorf("first alert event = %+v", fired[0])
	}
}

func TestMonitorPublishesPolls(t *testing.T) {
	reader := &fakeReader{results: []fakeResult{
		{reading: discharging(50)},
		{err: errors.New("boom")},
	}}
	hub := events.NewEventHub()
	ch := hub.Subscribe()
	m := New(testPath, testConfig(), reader, &fakeNotifier{}, hub)

	m.Poll(context.Background())
	m.Poll(context.Background())

	first, err := events.DecodeAs[events.PolledEvent](<-ch)
	if err != nil {
		t.Fatal(err)
	}
	if first.Battery != "BAT0" || first.Capacity != 50 || first.Status != "Discharging" || first.AlertAt != 15 || first.Error != "" {
		t.Errorf("first poll event = %+v", first)
	}

	second, err := events.DecodeAs[events.PolledEvent](<-ch)
	if err != nil {
		t.Fatal(err)
	}
	if second.Error == "" || second.Source != testPath {
		t.Errorf("second poll event = %+v", second)
	}
}

func TestMonitorNameFallsBackToDirectory(t *testing.T) {
	m := New("/sys/class/power_supply/BAT1/uevent", testConfig(), readings(discharging(50)), &fakeNotifier{}, nil)
	if m.name != "BAT1" {
		t.Errorf("name = %s, want BAT1", m.name)
	}
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	reader := readings(discharging(15), discharging(14), discharging(12), discharging(11))
	notifier := &fakeNotifier{}
	m := New(testPath, testConfig(), reader, notifier, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for notifier.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d alerts after 2s", notifier.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	// Capacity stays at 11 with alertAt 9, so nothing beyond the two alerts.
	if got := notifier.count(); got != 2 {
		t.Errorf("sent %d notifications, want 2", got)
	}
}

func TestMonitorsAreIndependent(t *testing.T) {
	conf := testConfig()
	a := New("/sys/class/power_supply/BAT0/uevent", conf, readings(discharging(15), discharging(12)), &fakeNotifier{}, nil)
	b := New("/sys/class/power_supply/BAT1/uevent", conf, readings(
		source.Reading{Name: "BAT1", Capacity: 80, Status: source.StatusDischarging},
		source.Reading{Name: "BAT1", Capacity: 14, Status: source.StatusCharging},
	), &fakeNotifier{}, nil)

	a.Poll(context.Background())
	b.Poll(context.Background())
	a.Poll(context.Background())
	b.Poll(context.Background())

	if a.AlertAt() != 9 {
		t.Errorf("BAT0 AlertAt() = %d, want 9", a.AlertAt())
	}
	if b.AlertAt() != 15 {
		t.Errorf("BAT1 AlertAt() = %d, want 15", b.AlertAt())
	}
}

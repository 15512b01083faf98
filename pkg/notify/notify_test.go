package notify

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

type fakeBusObject struct {
	method string
	args   []interface{}
	err    error
}

func (f *fakeBusObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Err: f.err}
}

func testNotification() Notification {
	return Notification{
		Summary: "Battery BAT0 at 15%",
		Body:    "Charge your battery soon to avoid shutdown",
		Icon:    "/tmp/icon.png",
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
	}
}

func TestDBusNotify(t *testing.T) {
	obj := &fakeBusObject{}
	d := &DBus{obj: obj}

	if err := d.Notify(context.Background(), testNotification()); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}

	if obj.method != "org.freedesktop.Notifications.Notify" {
		t.Errorf("method = %s", obj.method)
	}
	if len(obj.args) != 8 {
		t.Fatalf("got %d args, want 8", len(obj.args))
	}
	if obj.args[2] != "/tmp/icon.png" || obj.args[3] != "Battery BAT0 at 15%" {
		t.Errorf("unexpected icon/summary args: %v", obj.args)
	}
	hints, ok := obj.args[6].(map[string]dbus.Variant)
	if !ok {
		t.Fatalf("hints has type %T", obj.args[6])
	}
	if got := hints["urgency"].Value(); got != byte(2) {
		t.Errorf("urgency hint = %v, want 2", got)
	}
	if obj.args[7] != int32(15000) {
		t.Errorf("timeout = %v, want 15000", obj.args[7])
	}
}

func TestDBusNotifyError(t *testing.T) {
	d := &DBus{obj: &fakeBusObject{err: errors.New("org.freedesktop.DBus.Error.ServiceUnknown")}}

	err := d.Notify(context.Background(), testNotification())
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("Notify() error = %v, want ErrDeliveryFailed", err)
	}
}

func TestExecNotify(t *testing.T) {
	var gotName string
	var gotArgs []string
	e := NewExec()
	e.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return nil, nil
	}

	if err := e.Notify(context.Background(), testNotification()); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}

	want := []string{
		"-a", "batalert",
		"-u", "critical",
		"-t", "15000",
		"-i", "/tmp/icon.png",
		"--", "Battery BAT0 at 15%", "Charge your battery soon to avoid shutdown",
	}
	if gotName != "notify-send" {
		t.Errorf("command = %s", gotName)
	}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %q, want %q", gotArgs, want)
	}
}

func TestExecNotifyError(t *testing.T) {
	e := NewExec()
	e.run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("cannot open display\n"), errors.New("exit status 1")
	}

	err := e.Notify(context.Background(), testNotification())
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("Notify() error = %v, want ErrDeliveryFailed", err)
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New("carrier-pigeon"); err == nil || !strings.Contains(err.Error(), `"carrier-pigeon"`) {
		t.Fatalf("New() with unknown kind error = %v, want it named", err)
	}
	n, err := New(KindExec)
	if err != nil {
		t.Fatalf("New(exec) error: %v", err)
	}
	if _, ok := n.(*Exec); !ok {
		t.Errorf("New(exec) = %T", n)
	}
}

func TestTimeoutMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int32
	}{
		{0, 0},
		{1500 * time.Millisecond, 1500},
		{15 * time.Second, 15000},
		{1000 * time.Hour, 2147483647},
	}
	for _, tt := range tests {
		if got := timeoutMillis(tt.in); got != tt.want {
			t.Errorf("timeoutMillis(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

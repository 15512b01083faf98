// Package notify delivers desktop notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrDeliveryFailed is returned when the notification service rejects or
// cannot receive a notification.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Urgency levels as defined by the freedesktop notification spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	default:
		return fmt.Sprintf("urgency(%d)", byte(u))
	}
}

// Notification is a fire-and-forget desktop notification.
type Notification struct {
	Summary string
	Body    string
	Icon    string
	Urgency Urgency
	// Timeout is how long the notification stays on screen.
	// Zero means it never expires.
	Timeout time.Duration
}

// Notifier sends desktop notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Kinds accepted by New.
const (
	KindAuto = "auto"
	KindDBus = "dbus"
	KindExec = "exec"
)

// New returns a notifier of the given kind. KindAuto prefers D-Bus and falls
// back to notify-send when the session bus cannot be reached.
func New(kind string) (Notifier, error) {
	switch kind {
	case KindDBus:
		return NewDBus()
	case KindExec:
		return NewExec(), nil
	case KindAuto, "":
		n, err := NewDBus()
		if err == nil {
			return n, nil
		}
		logrus.WithError(err).Warn("session bus not reachable, falling back to notify-send")
		return NewExec(), nil
	default:
		return nil, pkgerrors.Errorf("unknown notifier %q, must be one of %s, %s, %s", kind, KindAuto, KindDBus, KindExec)
	}
}

func timeoutMillis(d time.Duration) int32 {
	ms := d.Milliseconds()
	if ms > int64(^uint32(0)>>1) {
		return int32(^uint32(0) >> 1)
	}
	return int32(ms)
}

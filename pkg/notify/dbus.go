package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
)

const (
	dbusDest      = "org.freedesktop.Notifications"
	dbusPath      = "/org/freedesktop/Notifications"
	dbusNotify    = dbusDest + ".Notify"
	dbusAppName   = "batalert"
	dbusUrgency   = "urgency"
	dbusNoReplace = uint32(0)
)

// busObject is the part of dbus.BusObject we call.
type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBus sends notifications to org.freedesktop.Notifications on the session bus.
type DBus struct {
	obj busObject
}

var _ Notifier = &DBus{}

// NewDBus connects to the shared session bus.
func NewDBus() (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to connect to session bus")
	}

	return &DBus{obj: conn.Object(dbusDest, dbusPath)}, nil
}

func (d *DBus) Notify(ctx context.Context, n Notification) error {
	hints := map[string]dbus.Variant{
		dbusUrgency: dbus.MakeVariant(byte(n.Urgency)),
	}

	call := d.obj.CallWithContext(ctx, dbusNotify, 0,
		dbusAppName,
		dbusNoReplace,
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints,
		timeoutMillis(n.Timeout),
	)
	if call.Err != nil {
		return pkgerrors.Wrapf(ErrDeliveryFailed, "dbus: %v", call.Err)
	}

	return nil
}

package notify

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Exec sends notifications by running notify-send.
type Exec struct {
	// Command is the binary to run. Defaults to notify-send.
	Command string

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

var _ Notifier = &Exec{}

func NewExec() *Exec {
	return &Exec{
		Command: "notify-send",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

func (e *Exec) Notify(ctx context.Context, n Notification) error {
	args := e.args(n)
	out, err := e.run(ctx, e.Command, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return pkgerrors.Wrapf(ErrDeliveryFailed, "%s: %s", e.Command, msg)
	}

	return nil
}

func (e *Exec) args(n Notification) []string {
	args := []string{
		"-a", dbusAppName,
		"-u", n.Urgency.String(),
		"-t", strconv.Itoa(int(timeoutMillis(n.Timeout))),
	}
	if n.Icon != "" {
		args = append(args, "-i", n.Icon)
	}

	return append(args, "--", n.Summary, n.Body)
}

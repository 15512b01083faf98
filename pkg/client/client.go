package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client talks to a running batalert daemon over its unix socket.
type Client struct {
	socketPath string
	httpClient *http.Client
}

// NewClient is a constructor for creating a new Client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					d := net.Dialer{}
					conn, err := d.DialContext(ctx, "unix", socketPath)
					if err != nil {
						// A socket left behind by a killed daemon refuses connections.
						if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
							return nil, ErrDaemonNotRunning
						}
						if errors.Is(err, fs.ErrPermission) {
							return nil, ErrPermissionDenied
						}
						logrus.Errorf("failed to connect to unix socket: %v", err)
						return nil, err
					}
					return conn, nil
				},
			},
		},
	}
}

// Get sends a GET request to the daemon and returns the response body.
func (c *Client) Get(path string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"path": path,
		"unix": c.socketPath,
	}).Debug("sending request")

	resp, err := c.httpClient.Get("http://unix" + path)
	if err != nil {
		for _, sentinel := range []error{ErrDaemonNotRunning, ErrPermissionDenied} {
			if errors.Is(err, sentinel) {
				return "", sentinel
			}
		}
		return "", pkgerrors.Wrapf(err, "failed to send request")
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to read response body")
	}
	body := string(b)

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("got %d: %s", resp.StatusCode, body)
	}

	return body, nil
}

package daemon

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/charlie0129/batalert/pkg/client"
)

func TestListenKeepsLiveSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "batalert.sock")
	store := NewStatusStore(testConf())

	first, err := listen(socketPath, store)
	if err != nil {
		t.Fatalf("listen() error = %v", err)
	}
	defer first.shutdown()

	second, err := listen(socketPath, store)
	if !errors.Is(err, errSocketInUse) {
		if second != nil {
			second.shutdown()
		}
		t.Fatalf("second listen() error = %v, want errSocketInUse", err)
	}

	if _, err := client.NewClient(socketPath).GetStatus(); err != nil {
		t.Errorf("running server lost its socket: %v", err)
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "batalert.sock")

	// A killed daemon leaves its socket file behind.
	l, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatal(err)
	}
	l.(*net.UnixListener).SetUnlinkOnClose(false)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(socketPath); err != nil {
		t.Fatalf("stale socket not left behind: %v", err)
	}

	srv, err := listen(socketPath, NewStatusStore(testConf()))
	if err != nil {
		t.Fatalf("listen() over stale socket error = %v", err)
	}
	defer srv.shutdown()

	if _, err := client.NewClient(socketPath).GetVersion(); err != nil {
		t.Errorf("GetVersion() error = %v", err)
	}
}

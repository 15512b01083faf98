package client

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/charlie0129/batalert/pkg/types"
)

func newUnixServer(t *testing.T, router http.Handler) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "test.sock")
	l, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewUnstartedServer(router)
	_ = ts.Listener.Close()
	ts.Listener = l
	ts.Start()
	t.Cleanup(ts.Close)
	return socketPath
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/status", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, types.DaemonStatus{
			Version:   "v1.2.3",
			Threshold: 15,
			Step:      3,
			Batteries: []types.BatteryStatus{{Source: "/b/BAT0/uevent", Battery: "BAT0", Capacity: 40, Status: "Discharging", AlertAt: 15}},
		})
	})
	r.GET("/version", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, "v1.2.3")
	})
	r.GET("/broken", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})
	return r
}

func TestClientGetStatus(t *testing.T) {
	c := NewClient(newUnixServer(t, testRouter()))

	st, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if st.Version != "v1.2.3" || len(st.Batteries) != 1 || st.Batteries[0].Capacity != 40 {
		t.Errorf("GetStatus() = %+v", st)
	}

	v, err := c.GetVersion()
	if err != nil || v != "v1.2.3" {
		t.Errorf("GetVersion() = %q, %v", v, err)
	}
}

func TestClientErrors(t *testing.T) {
	socketPath := newUnixServer(t, testRouter())

	tests := []struct {
		name       string
		socketPath string
		path       string
		wantErr    error
	}{
		{"not found", socketPath, "/limit", ErrNotFound},
		{"daemon not running", filepath.Join(t.TempDir(), "missing.sock"), "/status", ErrDaemonNotRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.socketPath).Get(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get(%s) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}

	t.Run("server error", func(t *testing.T) {
		_, err := NewClient(socketPath).Get("/broken")
		if err == nil {
			t.Fatal("Get(/broken) succeeded, want error")
		}
	})
}

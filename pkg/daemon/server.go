package daemon

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type server struct {
	store *StatusStore
	srv   *http.Server
	l     net.Listener
}

func (s *server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", s.getStatus)
	router.GET("/version", getVersion)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// errSocketInUse is returned by listen when another process answers on the
// socket.
var errSocketInUse = errors.New("socket in use")

// listen starts the status server on a unix socket. A stale socket left by a
// previous run is removed first, a live one is left alone.
func listen(socketPath string, store *StatusStore) (*server, error) {
	if err := removeStaleSocket(socketPath); err != nil {
		return nil, err
	}

	l, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to listen on %s", socketPath)
	}

	s := &server{store: store, l: l}
	s.srv = &http.Server{
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.Infof("status server listening on %s", l.Addr().String())
		if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("status server stopped: %v", err)
		}
	}()

	return s, nil
}

// removeStaleSocket removes socketPath unless something still accepts
// connections on it.
func removeStaleSocket(socketPath string) error {
	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	if err == nil {
		_ = conn.Close()
		return pkgerrors.Wrapf(errSocketInUse, "another batalert is already serving %s", socketPath)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if !errors.Is(err, syscall.ECONNREFUSED) {
		return pkgerrors.Wrapf(err, "failed to check socket %s", socketPath)
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove stale socket %s", socketPath)
	}
	return nil
}

func (s *server) shutdown() {
	logrus.Info("shutting down status server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logrus.Errorf("failed to shutdown status server: %v", err)
	}
}

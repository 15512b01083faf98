// Package daemon runs the battery monitors and the services around them.
package daemon

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/events"
	"github.com/charlie0129/batalert/pkg/history"
	"github.com/charlie0129/batalert/pkg/notify"
	"github.com/charlie0129/batalert/pkg/source"
)

// Run watches every configured battery until ctx is done. It returns an
// error wrapping source.ErrSourceUnavailable when a source does not exist at
// startup, and ctx.Err() after a normal shutdown.
func Run(ctx context.Context, conf *config.Config) error {
	notifier, err := notify.New(conf.Notifier)
	if err != nil {
		return err
	}

	return run(ctx, conf, source.UeventReader{}, notifier, source.DefaultRoot)
}

func run(ctx context.Context, conf *config.Config, reader source.Reader, notifier notify.Notifier, discoverRoot string) error {
	hub := events.NewEventHub()
	sup := NewSupervisor(conf, reader, notifier, hub)
	sup.discoverRoot = discoverRoot

	// Missing sources are fatal, check them before anything else starts.
	sources, err := sup.Validate()
	if err != nil {
		return err
	}
	logrus.WithField("sources", sources).Info("battery sources found")

	consumers := &sync.WaitGroup{}

	store := NewStatusStore(conf)
	storeCh := hub.Subscribe()
	consumers.Add(1)
	go func() {
		defer consumers.Done()
		store.Consume(storeCh)
	}()

	var db *history.DB
	if conf.HistoryPath != "" {
		db, err = history.Open(conf.HistoryPath)
		if err != nil {
			logrus.WithError(err).Warn("alert history disabled")
		} else {
			historyCh := hub.Subscribe()
			consumers.Add(1)
			go func() {
				defer consumers.Done()
				// Drain until the hub closes, so alerts fired right before
				// shutdown are still written.
				db.Consume(context.Background(), historyCh)
			}()
		}
	}

	var srv *server
	if conf.SocketPath != "" {
		srv, err = listen(conf.SocketPath, store)
		if err != nil {
			logrus.WithError(err).Warn("status server disabled")
		}
	}

	err = sup.RunSources(ctx, sources)

	if srv != nil {
		srv.shutdown()
	}

	if n := hub.Dropped(); n > 0 {
		logrus.WithField("dropped", n).Warn("some events were dropped by slow subscribers")
	}
	hub.Close()
	consumers.Wait()

	if db != nil {
		if err := db.Close(); err != nil {
			logrus.Errorf("failed to close alert history: %v", err)
		}
	}

	logrus.Info("exiting")
	return err
}

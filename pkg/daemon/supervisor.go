package daemon

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/events"
	"github.com/charlie0129/batalert/pkg/monitor"
	"github.com/charlie0129/batalert/pkg/notify"
	"github.com/charlie0129/batalert/pkg/source"
)

// Supervisor runs one monitor per battery source.
type Supervisor struct {
	conf     *config.Config
	reader   source.Reader
	notifier notify.Notifier
	hub      *events.EventHub

	// discoverRoot is where batteries are discovered when DiscoverAll is set.
	discoverRoot string
}

func NewSupervisor(conf *config.Config, reader source.Reader, notifier notify.Notifier, hub *events.EventHub) *Supervisor {
	return &Supervisor{
		conf:         conf,
		reader:       reader,
		notifier:     notifier,
		hub:          hub,
		discoverRoot: source.DefaultRoot,
	}
}

// Sources returns the configured sources followed by discovered ones,
// without duplicates.
func (s *Supervisor) Sources() ([]string, error) {
	seen := make(map[string]bool)
	var sources []string
	add := func(paths []string) {
		for _, p := range paths {
			if seen[p] {
				continue
			}
			seen[p] = true
			sources = append(sources, p)
		}
	}

	add(s.conf.Sources)

	if s.conf.DiscoverAll {
		found, err := source.Discover(s.discoverRoot)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			logrus.WithField("root", s.discoverRoot).Warn("no batteries discovered")
		}
		add(found)
	}

	if len(sources) == 0 {
		return nil, errors.New("no battery sources to watch")
	}

	return sources, nil
}

// Validate checks that every source exists. The error wraps
// source.ErrSourceUnavailable and names the missing path.
func (s *Supervisor) Validate() ([]string, error) {
	sources, err := s.Sources()
	if err != nil {
		return nil, err
	}

	for _, p := range sources {
		if err := source.Exists(p); err != nil {
			return nil, err
		}
	}

	return sources, nil
}

// Run validates the sources and runs them with RunSources.
func (s *Supervisor) Run(ctx context.Context) error {
	sources, err := s.Validate()
	if err != nil {
		return err
	}

	return s.RunSources(ctx, sources)
}

// RunSources starts a monitor for each of sources and blocks until all of
// them have returned, which normally only happens when ctx is done. sources
// are taken as they are, nothing is discovered again. A monitor that stops,
// even by panicking, does not affect the others.
func (s *Supervisor) RunSources(ctx context.Context, sources []string) error {
	wg := &sync.WaitGroup{}
	for _, p := range sources {
		m := monitor.New(p, s.conf, s.reader, s.notifier, s.hub)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runMonitor(ctx, m)
		}()
	}

	logrus.WithField("count", len(sources)).Info("all monitors started")
	wg.Wait()

	return ctx.Err()
}

func runMonitor(ctx context.Context, m *monitor.Monitor) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"source": m.Path(),
				"panic":  r,
			}).Error("monitor crashed, other batteries are still watched")
		}
	}()

	err := m.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).WithField("source", m.Path()).Error("monitor exited unexpectedly")
	}
}

package dev

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Session wires the watcher, the rescan of the view tables, and the browser
// reload channel together for one serve run.
type Session struct {
	watcher *Watcher
	reload  *ReloadServer
	rescan  func() error
	logger  *slog.Logger
}

// NewSession creates a development session over the given application root.
// rescan rebuilds the view mapping tables; it is called once per detected
// change before connected browsers are told to reload.
func NewSession(root string, rescan func() error, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		watcher: NewWatcher(WatcherConfig{Root: root}),
		reload:  NewReloadServer(),
		rescan:  rescan,
		logger:  logger,
	}
}

// Handler returns the WebSocket endpoint handler for ReloadEndpoint.
func (s *Session) Handler() http.HandlerFunc {
	return s.reload.HandleWebSocket
}

// Run watches for changes until the context is canceled.
func (s *Session) Run(ctx context.Context) error {
	s.watcher.OnChange(func(change Change) {
		start := time.Now()
		if err := s.rescan(); err != nil {
			s.logger.Error("rescan failed", "file", change.Path, "error", err)
			s.reload.NotifyError(err.Error())
			return
		}
		s.logger.Info("rescanned views",
			"file", change.Path,
			"elapsed", time.Since(start),
			"clients", s.reload.ClientCount())
		s.reload.NotifyReload(change.Path)
	})

	defer s.reload.Close()
	err := s.watcher.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// Stop ends the session.
func (s *Session) Stop() {
	s.watcher.Stop()
}

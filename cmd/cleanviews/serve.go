package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cleanviews/cleanviews/internal/dev"
	"github.com/cleanviews/cleanviews/pkg/filter"
	"github.com/cleanviews/cleanviews/pkg/resources"
	"github.com/cleanviews/cleanviews/pkg/views"
)

func serveCmd() *cobra.Command {
	var (
		root    string
		addr    string
		devMode bool
		verbose bool
		flags   viewFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an application directory with extensionless routing",
		Long: `Serve the given directory: view templates become reachable under
their extensionless URLs, extension-bearing requests are redirected
to the canonical form, and everything else is served as-is.

Prometheus metrics are exposed on /metrics. With --dev the directory
is watched and connected browsers reload when views change.

Examples:
  cleanviews serve
  cleanviews serve --root ./webapp --addr :3000
  cleanviews serve --scan-paths "/*.xhtml/*" --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(root, addr, devMode, verbose, flags)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Application directory to serve")
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Watch for changes and reload browsers")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log routing decisions")
	flags.register(cmd)

	return cmd
}

func runServe(root, addr string, devMode, verbose bool, flags viewFlags) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	build := func() (http.Handler, error) {
		return buildHandler(root, devMode, flags, logger)
	}

	handler, err := build()
	if err != nil {
		return err
	}

	// The handler chain is rebuilt on rescan in dev mode; requests always
	// go through the current one.
	var current atomic.Value
	current.Store(handler)
	serve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current.Load().(http.Handler).ServeHTTP(w, r)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	if devMode {
		session := dev.NewSession(root, func() error {
			rebuilt, err := build()
			if err != nil {
				return err
			}
			current.Store(rebuilt)
			return nil
		}, logger)
		mux.HandleFunc(dev.ReloadEndpoint, session.Handler())
		go session.Run(ctx)
	}
	mux.Handle("/", serve)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving views", "addr", addr, "root", root, "dev", devMode)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildHandler scans the application root and assembles the router: the
// forwarding filter in front, the metrics endpoint, and the template
// dispatcher for everything else.
func buildHandler(root string, devMode bool, flags viewFlags, logger *slog.Logger) (http.Handler, error) {
	cfg, err := flags.config()
	if err != nil {
		return nil, err
	}

	store := resources.NewOSDirStore(root)
	runtime := views.NewRuntime(cfg, store)

	result, err := runtime.ScanResult()
	if err != nil {
		return nil, err
	}
	resolver, err := runtime.Resolver()
	if err != nil {
		return nil, err
	}

	logger.Info("scanned views",
		"urls", result.Len(),
		"extensions", result.Extensions(),
		"multiviews", result.MultiViews())

	disp := &dispatcher{store: store, logger: logger}
	if devMode {
		disp.devScript = dev.ClientScript
	}

	router := chi.NewRouter()
	router.Use(filter.Forwarding(resolver,
		filter.WithLogger(logger),
		filter.WithObserver(filter.Metrics()),
		filter.WithObserver(filter.Tracing()),
	))
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/*", disp)

	return router, nil
}

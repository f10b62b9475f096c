// Package dashboard serves the scouting views over HTTP as a JSON API.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/pitwall/internal/config"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Store  store.Store
	Config *config.Config
	Port   int
	Out    io.Writer
}

// server is the state shared by all handlers. Settings mutations from
// concurrent requests are serialized by mu.
type server struct {
	store store.Store
	cfg   *config.Config

	mu   sync.Mutex
	sess *settings.Session
}

func newServer(st store.Store, cfg *config.Config) (*server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	sess, err := settings.Open(st)
	if err != nil {
		return nil, err
	}
	return &server{store: st, cfg: cfg, sess: sess}, nil
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Store == nil {
		return fmt.Errorf("dashboard: store is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	srv, err := newServer(opts.Store, opts.Config)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, srv)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		httpSrv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/setlist2spotify/internal/server"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"
)

// newAPIRouter builds the router the web client talks to.
func (r *Runner) newAPIRouter() *server.ChiRouter {
	router := server.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		server.RequestLogger(r.logger),
		middleware.Recoverer,
		server.CORS(r.config.Server.AllowedOrigins),
	)
	server.NewAPI(r.engine, r.logger, version).Register(router)
	return router
}

// Serve starts the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, cfg.Addr(), r.newAPIRouter(), r.logger)
}

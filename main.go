package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"hottakes/auth"
	"hottakes/crud"
	"hottakes/feed"
	"hottakes/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running
	// in production, which requires a .config.json file and keeps the posting
	// gate's override switched off.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	// Set up the logger. Dev gets pretty console output, prod gets json lines.
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if !config.IsProd() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zlog.Logger = logger

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithTake(),
		crud.WithLike(),
		crud.WithFeed(),
		crud.WithDenylist(),
	)
	must(err)

	// Set up the identity guard and the feed hub.
	tokens, err := auth.NewTokenManager(config.JWTSecret, config.TokenTTL, services.Denylist)
	must(err)
	hub := feed.NewHub(logger)

	// The posting gate's override is only ever active outside production.
	gateOverride := !config.IsProd()

	// Set up a webserver.
	server := http.NewServer(services, hub, tokens, gateOverride, logger)

	// Run the hub's fan-out loop, the webserver, and a signal watcher as one
	// group: when any of them stops, everything winds down.
	ctx, cancel := context.WithCancel(context.Background())
	var g run.Group
	g.Add(func() error {
		return hub.Run(ctx)
	}, func(error) {
		cancel()
	})
	g.Add(func() error {
		return server.ListenAndServe(config.Port)
	}, func(error) {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	})
	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		var signalErr run.SignalError
		if errors.As(err, &signalErr) {
			logger.Info().Str("signal", signalErr.Signal.String()).Msg("shutting down")
			return
		}
		logger.Fatal().Err(err).Msg("run group failed")
	}
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/chronoflow/chronod/internal/bridge"
	"github.com/chronoflow/chronod/internal/config"
	"github.com/chronoflow/chronod/internal/notify"
	"github.com/chronoflow/chronod/internal/poller"
	"github.com/chronoflow/chronod/internal/store"
	"github.com/chronoflow/chronod/internal/trigger"
)

// chronod is the background watcher: it polls the ChronoFlow store, shows
// desktop notifications for due events, and forwards play-sound requests to
// foreground agents over the bridge. It has no audio output of its own.

func main() {
	app := cli.App{
		Name:     "chronod",
		HelpName: "chronod",
		Usage:    "ChronoFlow background reminder watcher",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "path to config file",
				Value: config.DefaultPath(),
			},
			cli.StringFlag{
				Name:  "email, e",
				Usage: "account to poll (overrides config)",
			},
			cli.BoolFlag{
				Name:  "once",
				Usage: "run a single check and exit",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if email := c.String("email"); email != "" {
		cfg.Email = email
	}
	if cfg.Email == "" {
		return errors.New("no account email configured (set email in config or pass --email)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Signal received, shutting down: %s", sig)
		cancel()
	}()

	client := store.NewClient(cfg.APIBaseURL, cfg.Token)
	if err := client.Health(ctx); err != nil {
		log.Printf("Store not reachable yet, polling anyway: %v", err)
	}

	hub := bridge.NewHub()

	var notifier trigger.Notifier
	if n, err := notify.NewDBusNotifier("ChronoFlow", cfg.Icon); err != nil {
		log.Printf("Desktop notifications unavailable: %v", err)
	} else {
		notifier = n
		defer n.Close()
	}

	coordinator := trigger.New(notifier, hub, client)
	tick := poller.Pipeline(client, coordinator, cfg.Email)

	if c.Bool("once") {
		tick(ctx)
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/bridge", hub.Handler())
	srv := &http.Server{Addr: cfg.BridgeListen, Handler: mux}
	go func() {
		log.Printf("Bridge listening on %s", cfg.BridgeListen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Bridge server stopped: %v", err)
		}
	}()

	p := poller.New(ctx, cfg.PollInterval(), tick)
	if err := p.Start(); err != nil {
		return err
	}
	log.Printf("Watching events for %s every %s", cfg.Email, cfg.PollInterval())

	<-ctx.Done()

	p.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/urfave/cli"

	"github.com/chronoflow/chronod/internal/audio"
	"github.com/chronoflow/chronod/internal/bridge"
	"github.com/chronoflow/chronod/internal/config"
	"github.com/chronoflow/chronod/internal/models"
	"github.com/chronoflow/chronod/internal/notify"
	"github.com/chronoflow/chronod/internal/poller"
	"github.com/chronoflow/chronod/internal/store"
	"github.com/chronoflow/chronod/internal/trigger"
)

// chronoagent is the foreground context: a tray app with its own poll loop,
// local notification and audio delivery, and a bridge subscription so the
// watcher can play sounds through it.

func main() {
	cliApp := cli.App{
		Name:     "chronoagent",
		HelpName: "chronoagent",
		Usage:    "ChronoFlow foreground reminder agent",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "path to config file",
				Value: config.DefaultPath(),
			},
			cli.StringFlag{
				Name:  "preview-sound",
				Usage: "play one tone sequence (beep, chime or bell) and exit",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if sound := c.String("preview-sound"); sound != "" {
		return previewSound(models.SoundType(sound))
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Email == "" {
		return errors.New("no account email configured (set email in config)")
	}

	if err := setupAutostart(cfg.Autostart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	fyneApp := app.NewWithID("io.chronoflow.agent")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := store.NewClient(cfg.APIBaseURL, cfg.Token)
	if err := client.Health(ctx); err != nil {
		log.Printf("Store not reachable yet, polling anyway: %v", err)
	}

	coordinator := trigger.New(notify.NewFyneNotifier(fyneApp), audio.LocalSounder{}, client)
	tick := poller.Pipeline(client, coordinator, cfg.Email)

	p := poller.New(ctx, cfg.PollInterval(), tick)
	if err := p.Start(); err != nil {
		return err
	}
	log.Printf("Watching events for %s every %s", cfg.Email, cfg.PollInterval())

	// Subscribe to the watcher's bridge to play sounds on its behalf.
	sub := bridge.NewSubscriber(cfg.BridgeURL, func(msg bridge.Message) {
		if msg.Type != bridge.TypePlaySound {
			return
		}
		if _, err := audio.Play(msg.SoundType); err != nil {
			log.Printf("Failed to play bridged sound: %v", err)
		}
	})
	go sub.Run(ctx)

	setupSystemTray(fyneApp, func() {
		go tick(ctx)
	}, func() {
		cancel()
		fyneApp.Quit()
	})

	fyneApp.Run()

	cancel()
	p.Stop()
	return nil
}

func previewSound(sound models.SoundType) error {
	player, err := audio.Play(sound)
	if err != nil {
		return err
	}
	player.Wait()
	return nil
}

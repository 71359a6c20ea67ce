package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/retailcast/retailcast/internal/assignment"
	"github.com/retailcast/retailcast/internal/bus"
	"github.com/retailcast/retailcast/internal/config"
	"github.com/retailcast/retailcast/internal/content"
	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/playlist"
	"github.com/retailcast/retailcast/internal/report"
)

// console bundles the wired core components behind the CLI commands.
type console struct {
	store       *db.Store
	directory   *location.Directory
	watcher     *location.Watcher
	bus         *bus.Bus
	engine      *playlist.Engine
	contents    *content.Service
	assignments *assignment.Service
	reporter    *report.Reporter
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	app, err := wire(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start console")
	}
	defer app.close()

	root := &cobra.Command{
		Use:           "retailcast",
		Short:         "retail digital-signage console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		app.contentCommand(),
		app.deviceCommand(),
		app.playlistCommand(),
		app.assignmentCommand(),
		app.reportCommand(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func wire(cfg *config.Config) (*console, error) {
	store, err := db.Open(cfg.DataDir, cfg.SchemaVersion)
	if err != nil {
		return nil, err
	}

	directory, err := location.Load(cfg.ReferenceDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	watcher, err := location.Watch(directory)
	if err != nil {
		log.Warn().Err(err).Msg("reference data watcher unavailable; edits need a restart")
	}

	b := bus.New()
	return &console{
		store:       store,
		directory:   directory,
		watcher:     watcher,
		bus:         b,
		engine:      playlist.NewEngine(store, directory, b),
		contents:    content.NewService(store, b),
		assignments: assignment.NewService(store, directory, b),
		reporter:    report.New(store, directory),
	}, nil
}

func (c *console) close() {
	if c.watcher != nil {
		_ = c.watcher.Close()
	}
	if err := c.store.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
}

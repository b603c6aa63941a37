// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/sweeparr/internal/api/routes"
	"github.com/autobrr/sweeparr/internal/cleaner"
	"github.com/autobrr/sweeparr/internal/config"
	"github.com/autobrr/sweeparr/internal/database"
	"github.com/autobrr/sweeparr/internal/services/arr"
	"github.com/autobrr/sweeparr/internal/services/discovery"
	"github.com/autobrr/sweeparr/internal/services/radarr"
	"github.com/autobrr/sweeparr/internal/services/sonarr"
)

// ServeCommand returns the daemon command, the default mode of operation
func ServeCommand(version string) *cobra.Command {
	var configPath string

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the queue cleaning daemon",
		Long:  `Polls the configured Sonarr and Radarr queues at a fixed interval and removes items that are stuck, dangerous, or will never complete.`,
	}

	command.Flags().StringVar(&configPath, "config", "config.toml", "path to config file")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(configPath, version)
	}

	return command
}

// loadConfig resolves configuration: environment-only when the required
// variables are present, otherwise the TOML file with environment overrides
// on top.
func loadConfig(configPath string) *config.Config {
	if config.HasRequiredEnvVars() {
		cfg := config.New()
		config.LoadEnvOverrides(cfg)
		return cfg
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.New()
		config.LoadEnvOverrides(cfg)
		log.Warn().Err(err).Msg("Failed to load configuration file, using defaults")
	}
	return cfg
}

// applyDiscovery fills unconfigured backends from Docker labels or a
// discovery config file
func applyDiscovery(ctx context.Context, cfg *config.Config) {
	manager, err := discovery.NewManager(cfg.Discovery.ConfigFile)
	if err != nil {
		log.Warn().Err(err).Msg("Service discovery unavailable")
		return
	}
	defer manager.Close()

	endpoints, err := manager.DiscoverAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Service discovery failed")
		return
	}

	for _, endpoint := range endpoints {
		if err := discovery.ValidateEndpoint(endpoint); err != nil {
			log.Warn().Err(err).Str("type", endpoint.Type).Msg("Ignoring discovered service")
			continue
		}

		switch endpoint.Type {
		case "sonarr":
			if !cfg.Sonarr.Configured() {
				cfg.Sonarr.URL = endpoint.URL
				cfg.Sonarr.APIKey = endpoint.APIKey
				log.Info().Str("url", endpoint.URL).Msg("Discovered Sonarr instance")
			}
		case "radarr":
			if !cfg.Radarr.Configured() {
				cfg.Radarr.URL = endpoint.URL
				cfg.Radarr.APIKey = endpoint.APIKey
				log.Info().Str("url", endpoint.URL).Msg("Discovered Radarr instance")
			}
		}
	}
}

// buildClients creates one queue client per configured backend
func buildClients(cfg *config.Config) []*arr.Client {
	var clients []*arr.Client
	if cfg.Sonarr.Configured() {
		clients = append(clients, sonarr.NewClient(cfg.Sonarr.URL, cfg.Sonarr.APIKey, cfg.Cleaner.Timeout()))
	}
	if cfg.Radarr.Configured() {
		clients = append(clients, radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, cfg.Cleaner.Timeout()))
	}
	return clients
}

// backendRunner pairs a backend client with its own engine. Trackers key
// state by bare item id, so each backend gets a private tracker: item ids are
// only unique within one backend, and the end-of-cycle purge of vanished
// items must never see another backend's queue.
type backendRunner struct {
	client *arr.Client
	engine *cleaner.Engine
}

func buildRunners(cfg *config.Config, db *database.DB, stats *cleaner.StatsRegistry) []backendRunner {
	var runners []backendRunner
	for _, client := range buildClients(cfg) {
		tracker := cleaner.NewEscalationTracker(cfg.Cleaner.StrikeCount, cfg.Cleaner.NoProgressStrikeCount)
		runners = append(runners, backendRunner{
			client: client,
			engine: cleaner.NewEngine(tracker, cfg.Cleaner.NoProgressThresholdBytes, db, stats),
		})
	}
	return runners
}

// missingSearchSchedule gates the periodic missing-episode search. The clock
// is anchored at construction, so the first search waits a full interval
// after startup instead of firing on the first cycle.
type missingSearchSchedule struct {
	every time.Duration
	last  time.Time
}

func newMissingSearchSchedule(every time.Duration) *missingSearchSchedule {
	return &missingSearchSchedule{every: every, last: time.Now()}
}

// due reports whether a search should run now; mark records a successful
// run. A failed search is not marked, so it retries on the next cycle.
func (s *missingSearchSchedule) due(now time.Time) bool {
	if s.every <= 0 {
		return false
	}
	return now.Sub(s.last) >= s.every
}

func (s *missingSearchSchedule) mark(now time.Time) {
	s.last = now
}

func runServe(configPath, version string) error {
	log.Info().
		Str("version", version).
		Msg("Starting sweeparr")

	cfg := loadConfig(configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Discovery.Enabled && (!cfg.Sonarr.Configured() || !cfg.Radarr.Configured()) {
		applyDiscovery(ctx, cfg)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	stats := cleaner.NewStatsRegistry()
	runners := buildRunners(cfg, db, stats)

	if os.Getenv("GIN_MODE") == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.SetupRoutes(r, stats, db)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("address", cfg.Server.ListenAddr).
			Str("mode", gin.Mode()).
			Msg("Starting status server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down status server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		runLoop(gctx, runners, cfg)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server error")
		return err
	}

	log.Info().Msg("Sweeparr exiting")
	return nil
}

// runLoop drives the cleaning cycles. Backends are processed sequentially
// within one cycle and the loop sleeps a full interval after each cycle
// finishes, so wall-clock drift is possible and accepted.
func runLoop(ctx context.Context, runners []backendRunner, cfg *config.Config) {
	interval := cfg.Cleaner.Interval()

	log.Info().
		Dur("interval", interval).
		Int("backends", len(runners)).
		Int("strikeCount", cfg.Cleaner.StrikeCount).
		Msg("Starting cleaning loop")

	missingSearch := newMissingSearchSchedule(cfg.Cleaner.MissingSearchEvery())

	for {
		for _, runner := range runners {
			// A fetch failure aborts only this backend's cycle; the error is
			// already logged and tracking state is untouched.
			_ = runner.engine.RunCycle(ctx, runner.client)
		}

		if missingSearch.due(time.Now()) {
			for _, runner := range runners {
				if runner.client.Name() != "sonarr" {
					continue
				}
				if err := runner.client.TriggerMissingSearch(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to trigger missing episode search")
				} else {
					log.Info().Msg("Triggered missing episode search")
					missingSearch.mark(time.Now())
				}
			}
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("Cleaning loop stopped")
			return
		case <-time.After(interval):
		}
	}
}

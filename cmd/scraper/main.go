package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"uae_edu/internal/adapters/caa"
	"uae_edu/internal/adapters/living"
	"uae_edu/internal/adapters/observability"
	"uae_edu/internal/adapters/portal"
	redisad "uae_edu/internal/adapters/redis"
	"uae_edu/internal/app"
	"uae_edu/internal/domain"
	"uae_edu/internal/export"
	"uae_edu/internal/shared"
	mysqlrepo "uae_edu/internal/storage/mysql"
	"uae_edu/internal/transport"
)

func main() {
	full := flag.Bool("full", false, "include the browser-rendered portal source (slow)")
	debug := flag.Bool("debug", false, "verbose logging")
	out := flag.String("out", "", "output path (overrides OUTPUT_PATH)")
	flag.Parse()

	cfg := shared.Load()
	if *out != "" {
		cfg.OutputPath = *out
	}

	// global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, *debug)
	observability.Serve()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Bool("full", *full).Int("workers", cfg.Workers).
		Str("output", cfg.OutputPath).Msg("scraper starting")

	// Page cache replays captured bodies on reruns within the TTL.
	var cache domain.PageCache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("page cache enabled")
	}

	adapters := []domain.SourceAdapter{
		caa.New(transport.NewFetcher(transport.Options{
			Timeout:     cfg.RequestTimeout,
			MaxRetries:  cfg.MaxRetries,
			BackoffBase: cfg.BackoffBase,
			HostDelay:   cfg.CAADelay,
		}, cache), cfg.CAAListURL),
		living.New(transport.NewFetcher(transport.Options{
			Timeout:     cfg.RequestTimeout,
			MaxRetries:  cfg.MaxRetries,
			BackoffBase: cfg.BackoffBase,
			HostDelay:   cfg.LivingDelay,
		}, cache), cfg.LivingCostURL),
	}
	if *full {
		browser := transport.NewBrowser(ctx, cfg.PageTimeout)
		adapters = append(adapters,
			portal.New(browser, cfg.PortalUniversityURL, cfg.PortalProgrammeURL, cfg.PortalMaxPages))
	}

	pipe := app.NewPipeline(adapters, cfg.Workers, cfg.RunTimeout)

	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		pipe.WithRepository(mysqlrepo.New(db))
	}

	res, err := pipe.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDataset) {
			log.Error().Err(err).Msg("run produced no data; nothing written")
		} else {
			log.Error().Err(err).Msg("run failed")
		}
		os.Exit(1)
	}

	if err := export.Write(export.Build(res), cfg.OutputPath); err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(1)
	}
	log.Info().Str("path", cfg.OutputPath).Msg("done")
}

package main

import (
	"context"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"seminary/internal/adapters/observability"
	"seminary/internal/adapters/places"
	redisad "seminary/internal/adapters/redis"
	"seminary/internal/app"
	"seminary/internal/calllog"
	"seminary/internal/catalog"
	"seminary/internal/domain"
	"seminary/internal/shared"
	mysqlrepo "seminary/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.MySQLDSN == "" || cfg.PlacesKey == "" {
		log.Fatal().Msg("ingestor needs MYSQL_DSN and GOOGLE_MAPS_API_KEY")
	}

	cat := catalog.Load(cfg.VenuesCSV, cfg.ActivitiesCSV)
	log.Info().
		Str("base", cfg.PlacesBase).
		Int("workers", cfg.Workers).
		Int("venues", len(cat.Venues())).
		Msg("ingestor starting")

	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Str("error", calllog.Redact(err.Error())).Msg("database connection failed")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS, places.WithLimit(cfg.ReviewLimit))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Places client")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; cached reviews will expire on their own")
		} else {
			cache = rc
		}
	}

	ing := app.NewIngestionService(client, repo, cache)
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, v := range cat.Venues() {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(v domain.Venue) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := ing.IngestVenue(ctx, v); err != nil {
				log.Warn().Str("venue", v.Name).Str("place_id", v.PlaceID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("venue", v.Name).Msg("ingest ok")
		}(v)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}

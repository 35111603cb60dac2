package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"seminary/internal/adapters/deepseek"
	server "seminary/internal/adapters/http_server"
	"seminary/internal/adapters/observability"
	"seminary/internal/adapters/places"
	redisad "seminary/internal/adapters/redis"
	"seminary/internal/app"
	"seminary/internal/calllog"
	"seminary/internal/catalog"
	"seminary/internal/domain"
	"seminary/internal/query"
	"seminary/internal/shared"
	mysqlrepo "seminary/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(reg)

	ctx := context.Background()

	// catalog and prompts are read once; both fail soft
	cat := catalog.Load(cfg.VenuesCSV, cfg.ActivitiesCSV)
	instructions, err := query.LoadInstructions(cfg.PromptsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load system instructions failed")
	}

	calls := calllog.New(cfg.CallLogCapacity)
	gen := deepseek.New(deepseek.Config{
		URL:     cfg.DeepSeekURL,
		APIKey:  cfg.DeepSeekKey,
		Model:   cfg.DeepSeekModel,
		Timeout: cfg.DeepSeekTimeout,
		RPS:     cfg.DeepSeekRPS,
	}, calls)
	if !gen.Configured() {
		log.Warn().Msg("generator not configured; recommendations will fail fast")
	}

	// review backends are optional
	var (
		placesClient domain.PlacesClient
		repo         domain.ReviewRepository
		cache        domain.Cache
	)
	if cfg.PlacesKey != "" {
		pc, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS,
			places.WithCallLog(calls), places.WithLimit(cfg.ReviewLimit))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Places client")
		}
		placesClient = pc
	}
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Str("error", calllog.Redact(err.Error())).Msg("database connection failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; review cache disabled")
		} else {
			cache = rc
		}
	}

	reviews := app.NewReviewService(placesClient, repo, cache, cfg.CacheTTL, cfg.ReviewLimit)
	recs := app.NewRecommendationService(cat, gen,
		app.WithReviews(reviews),
		app.WithCallLog(calls),
		app.WithInstructions(instructions),
		app.WithDeadline(cfg.RequestDeadline),
	)

	// http
	srv := server.New(cfg.RequestDeadline + 30*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Recs: recs, Calls: calls, LogsKey: cfg.LogsKey})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Int("venues", len(cat.Venues())).
		Int("activity_categories", cat.Activities().Len()).
		Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

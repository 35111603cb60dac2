package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultLogsKey guards the call-log routes when LOGS_ACCESS_KEY is unset.
// It is a weak shared secret meant for local debugging only.
const DefaultLogsKey = "seminary_debug"

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string // optional; reviews are not persisted without it
	RedisAddr   string // optional; reviews are not cached without it
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	DeepSeekKey     string
	DeepSeekURL     string
	DeepSeekModel   string
	DeepSeekTimeout time.Duration // per attempt
	DeepSeekRPS     int
	RequestDeadline time.Duration // whole generator call, retries included

	PlacesKey  string
	PlacesBase string
	PlacesRPS  int

	VenuesCSV     string
	ActivitiesCSV string
	PromptsDir    string

	LogsKey         string
	CallLogCapacity int
	Workers         int
	ReviewLimit     int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	seconds := func(k string, def int) time.Duration { return time.Duration(atoi(k, def)) * time.Second }

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    os.Getenv("MYSQL_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    seconds("CACHE_TTL_SECONDS", 900),

		DeepSeekKey:     os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekURL:     env("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:   env("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepSeekTimeout: seconds("DEEPSEEK_TIMEOUT_SECONDS", 90),
		DeepSeekRPS:     atoi("DEEPSEEK_RPS", 2),
		RequestDeadline: seconds("REQUEST_DEADLINE_SECONDS", 240),

		PlacesKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		PlacesBase: env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesRPS:  atoi("PLACES_RPS", 5),

		VenuesCSV:     env("VENUES_CSV", "salles_seminaires.csv"),
		ActivitiesCSV: env("ACTIVITIES_CSV", "activités-vosges.csv"),
		PromptsDir:    os.Getenv("PROMPTS_DIR"),

		LogsKey:         env("LOGS_ACCESS_KEY", DefaultLogsKey),
		CallLogCapacity: atoi("CALL_LOG_CAPACITY", 20),
		Workers:         atoi("INGEST_WORKERS", 4),
		ReviewLimit:     atoi("REVIEW_LIMIT", 5),
	}
	if c.DeepSeekKey == "" {
		log.Warn().Msg("DEEPSEEK_API_KEY is empty")
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY is empty; reviews disabled")
	}
	if c.LogsKey == DefaultLogsKey {
		log.Warn().Msg("LOGS_ACCESS_KEY uses the default debug key")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	UploadBase  string
	Debounce    time.Duration
	WriteBudget time.Duration
	SeedWorkers int
	SeedRPS     int
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
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", ""),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		UploadBase:  env("UPLOAD_BASE_URL", "https://cdn.tripmarket.local"),
		Debounce:    time.Duration(atoi("REFRESH_DEBOUNCE_MS", 800)) * time.Millisecond,
		WriteBudget: time.Duration(atoi("WRITE_BUDGET_SECONDS", 15)) * time.Second,
		SeedWorkers: atoi("SEED_WORKERS", 4),
		SeedRPS:     atoi("SEED_RPS", 20),
	}
	if c.MySQLDSN == "" {
		log.Warn().Msg("MYSQL_DSN is empty, running on the fixture dataset")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

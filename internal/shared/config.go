package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	MetricsAddr string
	OutputPath  string

	// Source endpoints
	CAAListURL          string
	PortalUniversityURL string
	PortalProgrammeURL  string
	LivingCostURL       string

	// Transport tuning
	RequestTimeout time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	CAADelay       time.Duration
	PortalDelay    time.Duration
	LivingDelay    time.Duration
	PageTimeout    time.Duration
	PortalMaxPages int
	RunTimeout     time.Duration
	Workers        int

	// Optional collaborators; empty disables them.
	MySQLDSN  string
	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration
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
	secs := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}
	millis := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Millisecond
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		MetricsAddr: env("METRICS_ADDR", ""),
		OutputPath:  env("OUTPUT_PATH", "output/uae_education_data.json"),

		CAAListURL:          env("CAA_LIST_URL", "https://www.caa.ae/Pages/Institutes/All.aspx"),
		PortalUniversityURL: env("PORTAL_UNIVERSITY_URL", "https://www.bachelorsportal.com/search/universities/bachelor/united-arab-emirates"),
		PortalProgrammeURL:  env("PORTAL_PROGRAMME_URL", "https://www.bachelorsportal.com/search/bachelor/united-arab-emirates"),
		LivingCostURL:       env("LIVING_COST_URL", "https://www.universityliving.com/blog/student-finances/cost-of-living-in-dubai/"),

		RequestTimeout: secs("REQUEST_TIMEOUT_SECONDS", 15),
		MaxRetries:     atoi("MAX_RETRIES", 2),
		BackoffBase:    millis("BACKOFF_BASE_MS", 500),
		CAADelay:       millis("CAA_DELAY_MS", 300),
		PortalDelay:    millis("PORTAL_DELAY_MS", 1500),
		LivingDelay:    millis("LIVING_DELAY_MS", 200),
		PageTimeout:    secs("PAGE_TIMEOUT_SECONDS", 30),
		PortalMaxPages: atoi("PORTAL_MAX_PAGES", 5),
		RunTimeout:     secs("RUN_TIMEOUT_SECONDS", 600),
		Workers:        atoi("SCRAPE_WORKERS", 3),

		MySQLDSN:  env("MYSQL_DSN", ""),
		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  secs("CACHE_TTL_SECONDS", 900),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

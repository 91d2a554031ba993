package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SiteFile string // path to the site.yaml file (optional, empty = built-in defaults)

	// Scraping
	FetchTimeout time.Duration // per-page HTTP timeout
	PacingDelay  time.Duration // delay between products in a batch re-check
	StaleAfter   time.Duration // skip products checked more recently than this

	// Scheduler
	RecheckInterval time.Duration // interval between automatic batch re-checks

	// Auth
	JWTSecret string        // HMAC secret for bearer tokens
	TokenTTL  time.Duration // issued token lifetime
	DevTokens bool          // expose the dev-only token endpoint

	// Notifications
	EmailAPIURL   string // transactional mail provider endpoint
	EmailAPIKey   string // provider API key
	EmailFrom     string // sender address
	TelegramToken string // optional, empty = telegram mirror disabled
	TelegramChat  int64  // chat ID for the telegram mirror

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	// Local development convenience; absent file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DROPALERT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DROPALERT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DROPALERT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DROPALERT_PRETTY_LOG", true),

		// Site config
		SiteFile: getenv("DROPALERT_SITE_FILE", ""),

		// Scraping
		FetchTimeout: mustDuration("DROPALERT_FETCH_TIMEOUT", 15*time.Second),
		PacingDelay:  mustDuration("DROPALERT_PACING_DELAY", time.Second),
		StaleAfter:   mustDuration("DROPALERT_STALE_AFTER", time.Hour),

		// Scheduler
		RecheckInterval: mustDuration("DROPALERT_RECHECK_INTERVAL", time.Hour),

		// Auth
		JWTSecret: requireEnv("DROPALERT_JWT_SECRET"),
		TokenTTL:  mustDuration("DROPALERT_TOKEN_TTL", 24*time.Hour),
		DevTokens: mustBool("DROPALERT_DEV_TOKENS", false),

		// Notifications
		EmailAPIURL:   requireEnv("DROPALERT_EMAIL_API_URL"),
		EmailAPIKey:   requireEnv("DROPALERT_EMAIL_API_KEY"),
		EmailFrom:     getenv("DROPALERT_EMAIL_FROM", "alerts@dropalert.local"),
		TelegramToken: getenv("DROPALERT_TELEGRAM_TOKEN", ""),
		TelegramChat:  getenvInt64("DROPALERT_TELEGRAM_CHAT", 0),

		// Redis settings
		RedisAddr:           requireEnv("DROPALERT_REDIS_ADDR"),
		RedisUser:           getenv("DROPALERT_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("DROPALERT_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("DROPALERT_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	if cfg.TelegramToken != "" && cfg.TelegramChat == 0 {
		panic("❌ FATAL: DROPALERT_TELEGRAM_CHAT is required when DROPALERT_TELEGRAM_TOKEN is set")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.JWTSecret = "***REDACTED***"
		cfgCopy.EmailAPIKey = "***REDACTED***"
		cfgCopy.TelegramToken = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

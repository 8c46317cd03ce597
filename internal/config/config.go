package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	MetricsAddr string
	Location    *time.Location
	LogLevel    string
	LogFile     string
	Env         string // dev|prod
	SentryDSN   string
	Release     string
	CORSOrigins string

	JWTSecret string
	JWTTTL    time.Duration

	SchedulerInterval time.Duration

	BotToken     string // пусто — уведомления в Telegram выключены
	AdminChatIDs []int64

	DefaultAdminEmail    string
	DefaultAdminPassword string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	tz := getenv("TZ", "Europe/Paris")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Errorf("TZ: %w", err))
	}

	chatIDs, err := parseIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		errs = append(errs, fmt.Errorf("ADMIN_CHAT_IDS: %w", err))
	}
	jwtTTL, err := parseDuration("JWT_TTL", "24h")
	if err != nil {
		errs = append(errs, err)
	}
	interval, err := parseDuration("SCHEDULER_INTERVAL", "1m")
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		MetricsAddr:          getenv("METRICS_ADDR", ":9090"),
		Location:             loc,
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFile:              os.Getenv("LOG_FILE"),
		Env:                  getenv("ENV", "dev"),
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		Release:              os.Getenv("RELEASE"),
		CORSOrigins:          getenv("CORS_ORIGINS", "http://localhost:3000"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTTTL:               jwtTTL,
		SchedulerInterval:    interval,
		BotToken:             os.Getenv("BOT_TOKEN"),
		AdminChatIDs:         chatIDs,
		DefaultAdminEmail:    getenv("DEFAULT_ADMIN_EMAIL", "admin@epitech.eu"),
		DefaultAdminPassword: getenv("DEFAULT_ADMIN_PASSWORD", "admin123"),
	}
	if err := cfg.require(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) require() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required env is empty: %s", strings.Join(missing, ", "))
	}
	if c.SchedulerInterval <= 0 {
		return errors.New("SCHEDULER_INTERVAL must be positive")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(k, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(k, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

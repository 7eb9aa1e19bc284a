package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the landing backend.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Kavvi     KavviConfig     `yaml:"kavvi"`
	Google    GoogleConfig    `yaml:"google"`
	Landing   LandingConfig   `yaml:"landing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the bind host, defaulting to all interfaces.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "0.0.0.0"
	}
	return s.Host
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds the optional Redis connection for the attempt store.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// RateLimitConfig holds the sliding-window abuse limits.
type RateLimitConfig struct {
	// Driver selects the attempt store backend: "postgres" (default) or
	// "redis".
	Driver               string `yaml:"driver"`
	IPWindowHours        int    `yaml:"ip_window_hours"`
	IPMaxAttempts        int    `yaml:"ip_max_attempts"`
	EmailWindowHours     int    `yaml:"email_window_hours"`
	EmailMaxAttempts     int    `yaml:"email_max_attempts"`
	CleanupIntervalHours int    `yaml:"cleanup_interval_hours"`
}

// IPWindow returns the IP policy window duration.
func (r RateLimitConfig) IPWindow() time.Duration {
	if r.IPWindowHours <= 0 {
		return time.Hour
	}
	return time.Duration(r.IPWindowHours) * time.Hour
}

// EmailWindow returns the email policy window duration.
func (r RateLimitConfig) EmailWindow() time.Duration {
	if r.EmailWindowHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(r.EmailWindowHours) * time.Hour
}

// CleanupInterval returns how often the attempt sweep runs.
func (r RateLimitConfig) CleanupInterval() time.Duration {
	if r.CleanupIntervalHours <= 0 {
		return time.Hour
	}
	return time.Duration(r.CleanupIntervalHours) * time.Hour
}

// KavviConfig holds the KAVVI CRM API settings.
type KavviConfig struct {
	BaseURL         string `yaml:"base_url"`
	SubmitSecret    string `yaml:"submit_secret"`
	EventsIngestURL string `yaml:"events_ingest_url"`
}

// GoogleConfig holds Google Calendar OAuth credentials.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// Enabled reports whether calendar integration is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// LandingConfig holds funnel business settings.
type LandingConfig struct {
	Source        string `yaml:"source"`
	TrialDays     int    `yaml:"trial_days"`
	SalesRepEmail string `yaml:"sales_rep_email"`
}

// TrialDuration returns the trial length, defaulting to 3 days.
func (l LandingConfig) TrialDuration() time.Duration {
	days := l.TrialDays
	if days <= 0 {
		days = 3
	}
	return time.Duration(days) * 24 * time.Hour
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads the YAML config (if present) and applies environment
// variable overrides. Secrets are expected to arrive via environment, never
// the YAML file. A .env file is honored for local development.
func LoadFromEnv(path string) (*Config, error) {
	// Best-effort: absence of .env is normal outside local dev.
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.applyDefaults()
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if secret := os.Getenv("LANDINGS_SUBMIT_SECRET"); secret != "" {
		cfg.Kavvi.SubmitSecret = secret
	}
	if ingest := os.Getenv("EVENTS_INGEST_URL"); ingest != "" {
		cfg.Kavvi.EventsIngestURL = ingest
	}
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.Google.ClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.Google.ClientSecret = secret
	}
	if uri := os.Getenv("GOOGLE_REDIRECT_URI"); uri != "" {
		cfg.Google.RedirectURI = uri
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.RateLimit.Driver == "" {
		c.RateLimit.Driver = "postgres"
	}
	if c.RateLimit.IPWindowHours == 0 {
		c.RateLimit.IPWindowHours = 1
	}
	if c.RateLimit.IPMaxAttempts == 0 {
		c.RateLimit.IPMaxAttempts = 5
	}
	if c.RateLimit.EmailWindowHours == 0 {
		c.RateLimit.EmailWindowHours = 24
	}
	if c.RateLimit.EmailMaxAttempts == 0 {
		c.RateLimit.EmailMaxAttempts = 3
	}
	if c.Kavvi.BaseURL == "" {
		c.Kavvi.BaseURL = "https://api.kavvicrm.com.br"
	}
	if c.Landing.Source == "" {
		c.Landing.Source = "landing-whatsapp"
	}
	if c.Landing.TrialDays == 0 {
		c.Landing.TrialDays = 3
	}
	if c.Landing.SalesRepEmail == "" {
		c.Landing.SalesRepEmail = "vendas@kavvicrm.com.br"
	}
}

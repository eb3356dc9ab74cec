package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the optional YAML file applied over the defaults.
const FileEnv = "STOREFRONT_CONFIG"

type Config struct {
	// Commerce backend, including its path prefix.
	APIURL           string        `yaml:"api_url"`
	ImageURL         string        `yaml:"image_url"`
	PlaceholderImage string        `yaml:"placeholder_image"`
	RequestTimeout   time.Duration `yaml:"request_timeout"` // 0 means no client timeout

	HTTPAddr         string   `yaml:"http_addr"`
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`

	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Timezone  string `yaml:"timezone"`

	CartStaleAfter time.Duration `yaml:"cart_stale_after"`
	SSERetry       time.Duration `yaml:"sse_retry"`

	// Optional live-feed sinks.
	DatabaseDSN   string `yaml:"database_dsn"`
	RunMigrations bool   `yaml:"run_migrations"`
	RabbitMQURL   string `yaml:"rabbitmq_url"`
}

func Default() Config {
	return Config{
		APIURL:           "http://localhost:8080/api",
		ImageURL:         "http://localhost:8080/api/images",
		HTTPAddr:         ":8090",
		CORSAllowOrigins: []string{"*"},
		Env:              "development",
		LogLevel:         "info",
		LogFormat:        "text",
		Timezone:         "Local",
		CartStaleAfter:   5 * time.Minute,
		SSERetry:         3 * time.Second,
		RunMigrations:    true,
	}
}

// Load applies, in order: defaults, the YAML file named by STOREFRONT_CONFIG,
// then environment variables. The result is validated.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIURL = getenv("STOREFRONT_API_URL", c.APIURL)
	c.ImageURL = getenv("STOREFRONT_IMAGE_URL", c.ImageURL)
	c.PlaceholderImage = getenv("STOREFRONT_PLACEHOLDER_IMAGE", c.PlaceholderImage)
	c.HTTPAddr = getenv("HTTP_ADDR", c.HTTPAddr)
	c.Env = getenv("APP_ENV", c.Env)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)
	c.Timezone = getenv("TIMEZONE", c.Timezone)
	c.DatabaseDSN = getenv("DATABASE_DSN", c.DatabaseDSN)
	c.RabbitMQURL = getenv("RABBITMQ_URL", c.RabbitMQURL)

	if v := getenv("CORS_ALLOW_ORIGINS", ""); v != "" {
		c.CORSAllowOrigins = splitCSV(v)
	}

	var errs []error
	c.RequestTimeout = envDuration("STOREFRONT_REQUEST_TIMEOUT", c.RequestTimeout, &errs)
	c.CartStaleAfter = envDuration("CART_STALE_AFTER", c.CartStaleAfter, &errs)
	c.SSERetry = envDuration("SSE_RETRY", c.SSERetry, &errs)

	if v := getenv("RUN_MIGRATIONS", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RUN_MIGRATIONS: %w", err))
		} else {
			c.RunMigrations = b
		}
	}
	return errors.Join(errs...)
}

// Validate rejects settings the storefront cannot start with.
func (c Config) Validate() error {
	var errs []error
	if err := validateURL("api url", c.APIURL, "http", "https"); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL("image url", c.ImageURL, "http", "https"); err != nil {
		errs = append(errs, err)
	}
	if c.RabbitMQURL != "" {
		if err := validateURL("rabbitmq url", c.RabbitMQURL, "amqp", "amqps"); err != nil {
			errs = append(errs, err)
		}
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout must not be negative"))
	}
	if c.CartStaleAfter <= 0 {
		errs = append(errs, errors.New("cart stale-after must be positive"))
	}
	if c.SSERetry <= 0 {
		errs = append(errs, errors.New("sse retry must be positive"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone. "Local" and "" use the host zone.
func (c Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func validateURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: want %s://host", name, raw, strings.Join(schemes, " or "))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration, errs *[]error) time.Duration {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return d
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath     = "config/config.yaml"
	defaultPort           = "4000"
	defaultRedisURL       = "redis://localhost:6379/0"
	defaultGeocoderURL    = "https://nominatim.openstreetmap.org"
	defaultGeocoderLang   = "es"
	defaultSessionIdle    = 30 * time.Minute
	defaultSweepEvery     = time.Minute
	defaultCatalogTTL     = 10 * time.Minute
	defaultAccessTokenTTL = 15 * time.Minute
	defaultRefreshTTL     = 30 * 24 * time.Hour
	defaultS3Region       = "eu-west-1"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret          string `yaml:"jwt_secret"`
		AccessTokenMinutes int    `yaml:"access_token_minutes"`
		RefreshTokenHours  int    `yaml:"refresh_token_hours"`
	} `yaml:"auth"`
	S3 struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"s3"`
	Geocoder struct {
		URL      string `yaml:"url"`
		Language string `yaml:"language"`
	} `yaml:"geocoder"`
	Search struct {
		SessionIdleMinutes  int `yaml:"session_idle_minutes"`
		SweepEverySeconds   int `yaml:"sweep_every_seconds"`
		CatalogCacheMinutes int `yaml:"catalog_cache_minutes"`
	} `yaml:"search"`
}

// Load reads the YAML file at CONFIG_PATH (config/config.yaml by default),
// applies environment overrides and validates the result. A missing file is
// not an error; the environment alone may configure the service.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.S3.Region, "S3_REGION")
	setString(&c.S3.Bucket, "S3_BUCKET")
	setString(&c.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "S3_SECRET_KEY")
	setString(&c.S3.PublicURL, "S3_PUBLIC_URL")
	setString(&c.Geocoder.URL, "GEOCODER_URL")
	setString(&c.Geocoder.Language, "GEOCODER_LANGUAGE")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}

	if err := setInt(&c.Search.SessionIdleMinutes, "SESSION_IDLE_MINUTES"); err != nil {
		return err
	}
	if err := setInt(&c.Search.CatalogCacheMinutes, "CATALOG_CACHE_MINUTES"); err != nil {
		return err
	}
	if err := setInt(&c.Auth.AccessTokenMinutes, "ACCESS_TOKEN_MINUTES"); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	if c.Redis.URL == "" {
		c.Redis.URL = defaultRedisURL
	}
	if c.Geocoder.URL == "" {
		c.Geocoder.URL = defaultGeocoderURL
	}
	if c.Geocoder.Language == "" {
		c.Geocoder.Language = defaultGeocoderLang
	}
	if c.S3.Region == "" {
		c.S3.Region = defaultS3Region
	}
	if c.Search.SessionIdleMinutes == 0 {
		c.Search.SessionIdleMinutes = int(defaultSessionIdle / time.Minute)
	}
	if c.Search.SweepEverySeconds == 0 {
		c.Search.SweepEverySeconds = int(defaultSweepEvery / time.Second)
	}
	if c.Search.CatalogCacheMinutes == 0 {
		c.Search.CatalogCacheMinutes = int(defaultCatalogTTL / time.Minute)
	}
	if c.Auth.AccessTokenMinutes == 0 {
		c.Auth.AccessTokenMinutes = int(defaultAccessTokenTTL / time.Minute)
	}
	if c.Auth.RefreshTokenHours == 0 {
		c.Auth.RefreshTokenHours = int(defaultRefreshTTL / time.Hour)
	}
}

// Validate reports the first missing or out-of-range setting.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Server.Port, err)
	}
	if c.Search.SessionIdleMinutes < 0 || c.Search.SweepEverySeconds < 0 || c.Search.CatalogCacheMinutes < 0 {
		return fmt.Errorf("search durations must be positive")
	}
	if c.Auth.AccessTokenMinutes < 0 || c.Auth.RefreshTokenHours < 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}
	return nil
}

func (c Config) Addr() string                  { return ":" + c.Server.Port }
func (c Config) SessionIdle() time.Duration    { return time.Duration(c.Search.SessionIdleMinutes) * time.Minute }
func (c Config) SweepEvery() time.Duration     { return time.Duration(c.Search.SweepEverySeconds) * time.Second }
func (c Config) CatalogTTL() time.Duration     { return time.Duration(c.Search.CatalogCacheMinutes) * time.Minute }
func (c Config) AccessTokenTTL() time.Duration { return time.Duration(c.Auth.AccessTokenMinutes) * time.Minute }
func (c Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTokenHours) * time.Hour
}

// PhotosEnabled is false when no bucket is configured; uploads are then rejected.
func (c Config) PhotosEnabled() bool { return c.S3.Bucket != "" }

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func setInt(dst *int, name string) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = n
	return nil
}

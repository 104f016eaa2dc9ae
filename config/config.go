package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the service configuration. Values come from DefaultConfig, then
// the optional TOML file, then the environment.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Storage  StorageConfig  `toml:"storage"`
	Cards    CardsConfig    `toml:"cards"`
	Game     GameConfig     `toml:"game"`
}

type ServerConfig struct {
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	PublicBaseURL  string   `toml:"public_base_url"` // used in QR codes and local upload URLs
	BodyLimitMB    int      `toml:"body_limit_mb"`
}

type DatabaseConfig struct {
	URL string `toml:"url"` // postgres DSN or sqlite://path
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	ServiceToken string `toml:"service_token"` // admin endpoints
}

// StorageConfig selects where profile pictures go. R2 is used when the
// account id and bucket are both set, the local directory otherwise.
type StorageConfig struct {
	R2AccountID       string `toml:"r2_account_id"`
	R2AccessKeyID     string `toml:"r2_access_key_id"`
	R2AccessKeySecret string `toml:"r2_access_key_secret"`
	R2Bucket          string `toml:"r2_bucket"`
	CDNBaseURL        string `toml:"cdn_base_url"`
	LocalDir          string `toml:"local_dir"`
}

type CardsConfig struct {
	APIBaseURL   string `toml:"api_base_url"`
	APIKey       string `toml:"api_key"`
	RateInterval string `toml:"rate_interval"`
	CacheTTL     string `toml:"cache_ttl"`
}

type GameConfig struct {
	RoundTTL              string `toml:"round_ttl"`
	JanitorInterval       string `toml:"janitor_interval"`
	LeaderboardRefresh    string `toml:"leaderboard_refresh"`
	LeaderboardMinGames   int    `toml:"leaderboard_min_games"`
	LeaderboardMaxEntries int    `toml:"leaderboard_max_entries"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "5200",
			AllowedOrigins: []string{"http://localhost:3000"},
			PublicBaseURL:  "http://localhost:5200",
			BodyLimitMB:    8,
		},
		Database: DatabaseConfig{
			URL: "sqlite://prize-trainer.db",
		},
		Storage: StorageConfig{
			LocalDir: "uploads",
		},
		Cards: CardsConfig{
			APIBaseURL:   "https://api.pokemontcg.io/v2",
			RateInterval: "100ms",
			CacheTTL:     "24h",
		},
		Game: GameConfig{
			RoundTTL:              "2h",
			JanitorInterval:       "5m",
			LeaderboardRefresh:    "5m",
			LeaderboardMinGames:   5,
			LeaderboardMaxEntries: 100,
		},
	}
}

// Load reads .env, the TOML file named by PRIZE_TRAINER_CONFIG (default
// prize-trainer.toml, skipped when absent) and environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	path := os.Getenv("PRIZE_TRAINER_CONFIG")
	if path == "" {
		path = "prize-trainer.toml"
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile parses a TOML file over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set("PORT", &c.Server.Port)
	set("PUBLIC_BASE_URL", &c.Server.PublicBaseURL)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	set("DATABASE_URL", &c.Database.URL)

	set("JWT_SECRET", &c.Auth.JWTSecret)
	set("SERVICE_TOKEN", &c.Auth.ServiceToken)

	set("CLOUDFLARE_ACCOUNT_ID", &c.Storage.R2AccountID)
	set("R2_ACCESS_KEY_ID", &c.Storage.R2AccessKeyID)
	set("R2_ACCESS_KEY_SECRET", &c.Storage.R2AccessKeySecret)
	set("R2_BUCKET_NAME", &c.Storage.R2Bucket)
	set("CDN_BASE_URL", &c.Storage.CDNBaseURL)
	set("UPLOAD_DIR", &c.Storage.LocalDir)

	set("POKEMONTCG_API_URL", &c.Cards.APIBaseURL)
	set("POKEMONTCG_API_KEY", &c.Cards.APIKey)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("body limit must be positive: %d", c.Server.BodyLimitMB)
	}
	if c.Database.URL == "" {
		return errors.New("database url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}

	durations := map[string]string{
		"cards.rate_interval":      c.Cards.RateInterval,
		"cards.cache_ttl":          c.Cards.CacheTTL,
		"game.round_ttl":           c.Game.RoundTTL,
		"game.janitor_interval":    c.Game.JanitorInterval,
		"game.leaderboard_refresh": c.Game.LeaderboardRefresh,
	}
	for key, v := range durations {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive: %q", key, v)
		}
	}

	if c.Game.LeaderboardMinGames < 1 {
		return fmt.Errorf("leaderboard min games must be at least 1: %d", c.Game.LeaderboardMinGames)
	}
	if c.Game.LeaderboardMaxEntries < 1 {
		return fmt.Errorf("leaderboard max entries must be at least 1: %d", c.Game.LeaderboardMaxEntries)
	}

	if c.R2Enabled() && (c.Storage.R2AccessKeyID == "" || c.Storage.R2AccessKeySecret == "") {
		return errors.New("r2 access key id and secret are required when r2 is configured")
	}
	return nil
}

// R2Enabled reports whether uploads go to Cloudflare R2.
func (c *Config) R2Enabled() bool {
	return c.Storage.R2AccountID != "" && c.Storage.R2Bucket != ""
}

// Durations parsed from the config. Call Validate first; these panic on
// malformed values.

func (c *Config) RateInterval() time.Duration       { return mustDuration(c.Cards.RateInterval) }
func (c *Config) CardCacheTTL() time.Duration       { return mustDuration(c.Cards.CacheTTL) }
func (c *Config) RoundTTL() time.Duration           { return mustDuration(c.Game.RoundTTL) }
func (c *Config) JanitorInterval() time.Duration    { return mustDuration(c.Game.JanitorInterval) }
func (c *Config) LeaderboardRefresh() time.Duration { return mustDuration(c.Game.LeaderboardRefresh) }

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid duration %q", v))
	}
	return d
}

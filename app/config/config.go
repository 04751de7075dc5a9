// Package config loads service configuration from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/address-offers/internal/locality"
)

type AppConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS; empty allows any origin
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StoreConfig struct {
	Driver   string `mapstructure:"driver"`   // mongo or memory
	Snapshot string `mapstructure:"snapshot"` // .xlsx served by the memory driver; empty uses the built-in sample
}

type MongoConfig struct {
	URI          string        `mapstructure:"uri"`
	Database     string        `mapstructure:"database"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	L1Size  int           `mapstructure:"l1_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type MeiliConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Index  string `mapstructure:"index"`
}

type NormalizerConfig struct {
	StreetRules string `mapstructure:"street_rules"` // empty uses the embedded rules
}

type OffersConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the full service configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Meili      MeiliConfig      `mapstructure:"meili"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Search     locality.Config  `mapstructure:"search"`
	Offers     OffersConfig     `mapstructure:"offers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.allowed_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.snapshot", "")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "address_offers")
	v.SetDefault("mongo.query_timeout", "3s")
	v.SetDefault("redis.url", "")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.l1_size", 10000)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("meili.url", "")
	v.SetDefault("meili.api_key", "")
	v.SetDefault("meili.index", "settlements")
	v.SetDefault("normalizer.street_rules", "")

	def := locality.DefaultConfig()
	v.SetDefault("search.settlement_limit", def.SettlementLimit)
	v.SetDefault("search.street_limit", def.StreetLimit)
	v.SetDefault("search.street_overfetch", def.StreetOverfetch)
	v.SetDefault("search.number_limit", def.NumberLimit)
	v.SetDefault("search.min_query_length", def.MinQueryLength)

	v.SetDefault("offers.timeout", "5s")
}

// Load reads path (if non-empty) or ./config/app.yaml, then applies environment overrides
// such as MONGO_URI or SEARCH_STREET_LIMIT. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown store.driver %q (want mongo or memory)", c.Store.Driver)
	}
	if c.Store.Driver == "mongo" && c.Mongo.URI == "" {
		return errors.New("mongo.uri is required for the mongo driver")
	}
	if c.Cache.L1Size <= 0 {
		return fmt.Errorf("cache.l1_size must be positive, got %d", c.Cache.L1Size)
	}
	return nil
}

// IsProduction reports whether app.env is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

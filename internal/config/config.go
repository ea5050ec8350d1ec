// Package config loads the service configuration from YAML, environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "YANTRA_"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Engine    EngineConfig    `yaml:"engine"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Live      LiveConfig      `yaml:"live"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"5s"`
	CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
	MetricsPath     string        `yaml:"metrics_path" default:"/metrics" validate:"startswith=/"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"auto" validate:"oneof=auto console json"`
}

type EngineConfig struct {
	// StandardMeridian is the zone meridian request clocks are read in,
	// degrees east. 82.5 is Indian Standard Time.
	StandardMeridian float64 `yaml:"standard_meridian" default:"82.5" validate:"gte=-180,lte=180"`
	Workers          int     `yaml:"workers" validate:"gte=0"`
}

type CacheConfig struct {
	Backend         string        `yaml:"backend" default:"memory" validate:"oneof=none memory redis layered"`
	TTL             time.Duration `yaml:"ttl" default:"10m"`
	MaxEntries      int           `yaml:"max_entries" default:"1000" validate:"gt=0"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" default:"5m" validate:"gt=0"`
	Redis           RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Host         string        `yaml:"host" default:"localhost"`
	Port         int           `yaml:"port" default:"6379" validate:"gt=0,lte=65535"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db" validate:"gte=0"`
	Prefix       string        `yaml:"prefix" default:"yantra"`
	PoolSize     int           `yaml:"pool_size" default:"10" validate:"gt=0"`
	MinIdleConns int           `yaml:"min_idle_conns" default:"2" validate:"gte=0"`
	PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
	PingTimeout  time.Duration `yaml:"ping_timeout" default:"5s" validate:"gt=0"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" default:"true"`
	RPS     float64 `yaml:"rps" default:"10" validate:"gt=0"`
	Burst   int     `yaml:"burst" default:"20" validate:"gt=0"`
}

type LiveConfig struct {
	Interval time.Duration `yaml:"interval" default:"5s" validate:"gte=100ms"`
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads a YAML configuration file over the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides it with YANTRA_*
// environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return err
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}
	float := func(name string, dst *float64) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = f
		return nil
	}
	duration := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("REDIS_HOST", &c.Cache.Redis.Host)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.RateLimit.Enabled = enabled
	}

	for _, err := range []error{
		float("MERIDIAN", &c.Engine.StandardMeridian),
		num("WORKERS", &c.Engine.Workers),
		num("REDIS_PORT", &c.Cache.Redis.Port),
		num("REDIS_DB", &c.Cache.Redis.DB),
		duration("CACHE_TTL", &c.Cache.TTL),
		duration("REDIS_PING_TIMEOUT", &c.Cache.Redis.PingTimeout),
		duration("LIVE_INTERVAL", &c.Live.Interval),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

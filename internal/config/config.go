// Package config loads the demo configuration from yaml files and PACE_
// prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/romdo/go-pace"
)

// EnvPrefix prefixes environment variable overrides, e.g. PACE_SERVER_PORT.
const EnvPrefix = "PACE"

// Config is the complete demo configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
	Panels       PanelsConfig       `mapstructure:"panels" yaml:"panels"`
	Search       pace.Config        `mapstructure:"search" yaml:"search"`
	Click        pace.Config        `mapstructure:"click" yaml:"click"`
	Traversal    TraversalConfig    `mapstructure:"traversal" yaml:"traversal"`
	Colors       ColorsConfig       `mapstructure:"colors" yaml:"colors"`
	Universities UniversitiesConfig `mapstructure:"universities" yaml:"universities"`

	file string
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type PanelsConfig struct {
	MaxLines int `mapstructure:"max_lines" yaml:"max_lines"`
}

type TraversalConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

type ColorsConfig struct {
	Delay    time.Duration `mapstructure:"delay" yaml:"delay"`
	Sequence []string      `mapstructure:"sequence" yaml:"sequence"`
}

type UniversitiesConfig struct {
	ProxyURL    string        `mapstructure:"proxy_url" yaml:"proxy_url"`
	UpstreamURL string        `mapstructure:"upstream_url" yaml:"upstream_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst       int           `mapstructure:"burst" yaml:"burst"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RedisAddr   string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPrefix string        `mapstructure:"redis_prefix" yaml:"redis_prefix"`
}

// File returns the config file Load read, if any.
func (c *Config) File() string {
	return c.file
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("panels.max_lines", 500)

	// Every key needs a default for env overrides to be decoded.
	v.SetDefault("search.wait", "1s")
	v.SetDefault("search.max_wait", "0s")
	v.SetDefault("search.leading", false)
	v.SetDefault("search.trailing", true)
	v.SetDefault("click.wait", "2s")
	v.SetDefault("click.max_wait", "0s")
	v.SetDefault("click.leading", false)
	v.SetDefault("click.trailing", false)

	v.SetDefault("traversal.interval", "5s")

	v.SetDefault("colors.delay", "1s")
	v.SetDefault("colors.sequence",
		[]string{"yellow", "pink", "green", "purple", "cyan"},
	)

	v.SetDefault("universities.proxy_url", "https://api.allorigins.win/get")
	v.SetDefault("universities.upstream_url",
		"http://universities.hipolabs.com/search",
	)
	v.SetDefault("universities.timeout", "15s")
	v.SetDefault("universities.rate_limit", 1.0)
	v.SetDefault("universities.burst", 3)
	v.SetDefault("universities.cache_ttl", "10m")
	v.SetDefault("universities.redis_addr", "")
	v.SetDefault("universities.redis_prefix", "pace:universities")
}

// Load reads the configuration. With an empty path, pace.yaml is looked up
// in the working directory and ./config, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.file = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Search.Wait < 0 {
		errs = append(errs, errors.New("search.wait must not be negative"))
	}
	if c.Click.Wait < 0 {
		errs = append(errs, errors.New("click.wait must not be negative"))
	}
	if c.Traversal.Interval <= 0 {
		errs = append(errs, errors.New("traversal.interval must be positive"))
	}
	if c.Colors.Delay < 0 {
		errs = append(errs, errors.New("colors.delay must not be negative"))
	}
	if c.Panels.MaxLines <= 0 {
		errs = append(errs, errors.New("panels.max_lines must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"classmap-server-go/mapview"
)

const (
	SourceFile  = "file"
	SourceRedis = "redis"
)

// Config holds all server and build settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Redis   RedisConfig   `yaml:"redis"`
	Map     MapConfig     `yaml:"map"`
	Page    PageConfig    `yaml:"page"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	SessionSecret string `yaml:"session_secret"`
}

// DataConfig says where the roster comes from.
type DataConfig struct {
	Dir    string `yaml:"dir"`
	Source string `yaml:"source"` // file, redis
	Watch  bool   `yaml:"watch"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MapConfig configures the map widget and page framing.
type MapConfig struct {
	Token            string `yaml:"token"`
	StyleURL         string `yaml:"style_url"`
	Variant          string `yaml:"variant"` // fixed, responsive
	RecenterOnResize bool   `yaml:"recenter_on_resize"`
	Breakpoint       int    `yaml:"breakpoint"`
}

type PageConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			SessionSecret: "classmap-dev-secret",
		},
		Data: DataConfig{
			Dir:    "data",
			Source: SourceFile,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Map: MapConfig{
			StyleURL:   mapview.DefaultStyleURL,
			Variant:    mapview.VariantFixed.String(),
			Breakpoint: mapview.DefaultBreakpoint,
		},
		Page: PageConfig{
			Title:       "Blair Magnet Class of '23 Destinations",
			Description: "Where the Blair Magnet class of 2023 is headed after graduation",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	// Mapbox token: the plain name wins over the name the page toolchain used.
	if tok := os.Getenv("NEXT_PUBLIC_MAPBOX_TOKEN"); tok != "" {
		c.Map.Token = tok
	}
	if tok := os.Getenv("MAPBOX_TOKEN"); tok != "" {
		c.Map.Token = tok
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.Server.SessionSecret = secret
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		c.Redis.Password = pw
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.Redis.DB = n
		}
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, err := mapview.ParseVariant(c.Map.Variant); err != nil {
		return err
	}
	switch c.Data.Source {
	case SourceFile, SourceRedis:
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}
	if c.Map.Breakpoint <= 0 {
		return fmt.Errorf("map breakpoint must be positive, got %d", c.Map.Breakpoint)
	}
	if c.Data.Watch && c.Data.Source != SourceFile {
		return errors.New("data.watch requires the file data source")
	}
	return nil
}

// PageOptions converts the map settings for mapview. Call Validate first.
func (c *Config) PageOptions() mapview.Options {
	opts := mapview.DefaultOptions()
	opts.Variant, _ = mapview.ParseVariant(c.Map.Variant)
	opts.StyleURL = c.Map.StyleURL
	opts.RecenterOnResize = c.Map.RecenterOnResize
	opts.Breakpoint = c.Map.Breakpoint
	return opts
}

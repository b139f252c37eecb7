// Package config loads graphlive.toml.
//
// A file has five optional sections:
//
//	[layout]
//	algorithm = "force"
//	auto_layout = true
//	width = 800
//	height = 600
//
//	[cache]
//	backend = "file"   # none, file, redis
//	ttl = "24h"
//
//	[storage]
//	backend = "mongo"  # file, mongo
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
//
// Keys missing from the file keep the values of [Default]. Unknown keys and
// values that fail validation are INVALID_CONFIG errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/layout"
)

// FileName is the config file looked up in the working directory.
const FileName = "graphlive.toml"

// Config is the full application configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// LayoutConfig selects the algorithm and its canvas.
type LayoutConfig struct {
	Algorithm  string  `toml:"algorithm" validate:"required"`
	AutoLayout bool    `toml:"auto_layout"`
	Width      float64 `toml:"width" validate:"gt=0"`
	Height     float64 `toml:"height" validate:"gt=0"`
	Iterations int     `toml:"iterations" validate:"gte=1,lte=100000"`
	Padding    float64 `toml:"padding" validate:"gte=0"`
	Seed       uint64  `toml:"seed"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" validate:"oneof=none file redis"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl" validate:"gte=0"`
	Scope         string        `toml:"scope"`
	RedisAddr     string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db" validate:"gte=0"`
}

// StorageConfig selects where scenes are saved.
type StorageConfig struct {
	Backend  string `toml:"backend" validate:"oneof=file mongo"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// ServerConfig configures graphlive serve.
type ServerConfig struct {
	Addr         string        `toml:"addr" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
	Metrics      bool          `toml:"metrics"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Algorithm:  layout.NameForce,
			AutoLayout: true,
			Width:      layout.DefaultConfig.Width,
			Height:     layout.DefaultConfig.Height,
			Iterations: layout.DefaultConfig.Iterations,
			Padding:    layout.DefaultConfig.Padding,
			Seed:       layout.DefaultConfig.Seed,
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     24 * time.Hour,
		},
		Storage: StorageConfig{Backend: "file"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			Metrics:      true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path on top of [Default]. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the first config file that exists: ./graphlive.toml, then
// ~/.config/graphlive/config.toml. It returns "" when neither exists.
func Find() string {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "graphlive", "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

var validate = newValidator()

// newValidator reports fields by their toml keys.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and that the layout algorithm is known.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if !slices.Contains(layout.Names(), c.Layout.Algorithm) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.algorithm: unknown algorithm %q (choose from %s)",
			c.Layout.Algorithm, strings.Join(layout.Names(), ", "))
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s: failed %s", field, fe.Tag())
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

// Params converts the canvas settings for layout.New.
func (l LayoutConfig) Params() layout.Config {
	return layout.Config{
		Width:      l.Width,
		Height:     l.Height,
		Iterations: l.Iterations,
		Padding:    l.Padding,
		Seed:       l.Seed,
	}
}

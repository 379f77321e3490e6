package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cactus/pkg/cache"
	"github.com/matzehuels/cactus/pkg/layout"
	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/route"
	"github.com/matzehuels/cactus/pkg/source/mongo"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the optional config file. Flags override it.
type Config struct {
	Render   RenderConfig    `toml:"render"`
	Layout   layout.Options  `toml:"layout"`
	Viewport viewport.Config `toml:"viewport"`
	Cache    CacheConfig     `toml:"cache"`
	Server   ServerConfig    `toml:"server"`
	Mongo    mongo.Options   `toml:"mongo"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Width        float64  `toml:"width"`
	Height       float64  `toml:"height"`
	Bundling     float64  `toml:"bundling"`
	ControlRatio float64  `toml:"control_ratio"`
	Formats      []string `toml:"formats"`
	// Style is a path to a TOML or JSON style file.
	Style string `toml:"style"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string             `toml:"backend"`
	Dir     string             `toml:"dir"`
	Redis   cache.RedisOptions `toml:"redis"`
}

// ServerConfig configures "cactus serve".
type ServerConfig struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:        pipeline.DefaultWidth,
			Height:       pipeline.DefaultHeight,
			ControlRatio: route.DefaultControlRatio,
			Formats:      []string{pipeline.FormatSVG},
		},
		Layout:   layout.DefaultOptions(),
		Viewport: viewport.DefaultConfig(),
		Cache:    CacheConfig{Backend: backendFile},
		Server:   ServerConfig{Addr: ":8080", SessionTTL: 30 * time.Minute},
		Mongo:    mongo.Options{Fields: mongo.DefaultFields(), Timeout: mongo.DefaultTimeout},
	}
}

// configPath returns $XDG_CONFIG_HOME/cactus/config.toml, or
// ~/.config/cactus/config.toml.
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly. Unknown keys are returned as warnings.
func loadConfig(path string, explicit bool) (*Config, []string, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil, nil
		}
		return nil, nil, fmt.Errorf("config %s: %w", path, err)
	}
	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown config key %q", key.String()))
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, warnings, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case backendFile, backendRedis, backendNone, "":
	default:
		return fmt.Errorf("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Render.Bundling < 0 || c.Render.Bundling > 1 {
		return fmt.Errorf("render.bundling must be in [0, 1], got %g", c.Render.Bundling)
	}
	return nil
}

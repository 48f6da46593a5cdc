package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is the application name used for directories and display.
const appName = "archview"

// Config is the optional on-disk configuration, read from
// ~/.config/archview/config.toml. Every field has a working default so the
// file is never required.
type Config struct {
	// SnapshotDir overrides the snapshot catalog directory.
	SnapshotDir string `toml:"snapshot_dir"`

	// Engine selects the layout engine: "layered" (built in) or "dot"
	// (graphviz).
	Engine string `toml:"engine"`

	// Direction is the diagram flow direction: "down" or "right".
	Direction string `toml:"direction"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// Sessions selects the session backend: "memory", "file" or "redis".
	Sessions string `toml:"sessions"`

	// RedisAddr, RedisPassword and RedisDB configure the redis session
	// backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// MongoURI, when set, stores snapshots in mongo instead of the local
	// snapshot directory.
	MongoURI string `toml:"mongo_uri"`
}

func defaultConfig() Config {
	return Config{
		Engine:    "layered",
		Direction: "down",
		Server: ServerConfig{
			Addr:     ":8780",
			Sessions: "memory",
		},
	}
}

// configPath returns the config file location, honoring XDG_CONFIG_HOME.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// cacheDir returns the cache directory using XDG standard.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"github.com/Zuo-Peng/chatlog-export/internal/store"
)

type Config struct {
	LogRoot  string   `toml:"log_root"`
	Include  string   `toml:"include"`
	Timezone string   `toml:"timezone"`
	LogLevel string   `toml:"log_level"`
	LogFile  string   `toml:"log_file"`
	Database Database `toml:"database"`
}

type Database struct {
	Driver   string `toml:"driver"`
	Path     string `toml:"path"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

// DefaultPath returns ~/.config/chatlog/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatlog", "config.toml"), nil
}

// Load builds the configuration from defaults, the TOML file and the
// environment, in that order of precedence. An empty path reads the default
// file if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogRoot:  filepath.Join(home, ".local", "share", "chatterino", "Logs", "Twitch", "Channels"),
		Include:  "**/*.log",
		Timezone: "Local",
		LogLevel: "info",
		LogFile:  "",
		Database: Database{
			Driver: store.DriverSQLite,
			Path:   filepath.Join(home, ".config", "chatlog", "chatlog.db"),
			Host:   "127.0.0.1",
			Name:   "chatlogs",
		},
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".config", "chatlog", "config.toml")
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.applyEnv()
	if cfg.Database.Port == 0 {
		cfg.Database.Port = store.DefaultPort(cfg.Database.Driver)
	}

	// expand ~ in paths
	cfg.LogRoot = expandHome(cfg.LogRoot, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)
	cfg.Database.Path = expandHome(cfg.Database.Path, home)

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogRoot = envStr("CHATLOG_LOG_ROOT", c.LogRoot)
	c.Include = envStr("CHATLOG_INCLUDE", c.Include)
	c.Timezone = envStr("CHATLOG_TIMEZONE", c.Timezone)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.LogFile = envStr("CHATLOG_LOG_FILE", c.LogFile)
	c.Database.Driver = envStr("CHATLOG_DB_DRIVER", c.Database.Driver)
	c.Database.Path = envStr("CHATLOG_DB_PATH", c.Database.Path)
	c.Database.Host = envStr("CHATLOG_DB_HOST", c.Database.Host)
	c.Database.Port = envInt("CHATLOG_DB_PORT", c.Database.Port)
	c.Database.Name = envStr("CHATLOG_DB_NAME", c.Database.Name)
	c.Database.User = envStr("DB_USER", c.Database.User)
	c.Database.Password = envStr("DB_PASS", c.Database.Password)
}

// Validate checks the values that would otherwise fail halfway through a run.
func (c *Config) Validate() error {
	var errs []error
	if c.LogRoot == "" {
		errs = append(errs, errors.New("log_root is empty"))
	}
	if c.Include != "" && !doublestar.ValidatePattern(c.Include) {
		errs = append(errs, fmt.Errorf("include: invalid pattern %q", c.Include))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if !lo.Contains(store.Drivers, c.Database.Driver) {
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q (want one of %v)", c.Database.Driver, store.Drivers))
	}
	if c.Database.Driver != store.DriverSQLite {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is empty"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Errorf("database.port: %d out of range", c.Database.Port))
		}
	}
	return errors.Join(errs...)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StoreOptions maps the database section onto store.Options.
func (c *Config) StoreOptions(loc *time.Location) store.Options {
	return store.Options{
		Driver:   c.Database.Driver,
		Path:     c.Database.Path,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
		Location: loc,
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

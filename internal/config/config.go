// Package config loads pathlinker settings from a TOML file and the
// environment.
//
// Values are layered: built-in defaults, then the config file, then
// PATHLINKER_* environment variables. Command-line flags are applied by the
// caller on top of the result.
//
//	[cache]
//	backend = "redis"          # file, redis or none
//	redis_addr = "localhost:6379"
//	namespace = "lab-a"
//
//	[server]
//	addr = ":8080"
//
//	[neo4j]
//	uri = "neo4j://localhost:7687"
//	username = "neo4j"
//
//	[run]
//	k = 100
//	weight = "probability"
//	timeout = "30s"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

const appName = "pathlinker"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Neo4j  Neo4jConfig  `toml:"neo4j"`
	Run    RunConfig    `toml:"run"`
}

type CacheConfig struct {
	Backend       string `toml:"backend"`        // PATHLINKER_CACHE_BACKEND (default "file")
	Dir           string `toml:"dir"`            // PATHLINKER_CACHE_DIR (default $XDG_CACHE_HOME/pathlinker)
	RedisAddr     string `toml:"redis_addr"`     // PATHLINKER_REDIS_ADDR
	RedisPassword string `toml:"redis_password"` // PATHLINKER_REDIS_PASSWORD
	RedisDB       int    `toml:"redis_db"`       // PATHLINKER_REDIS_DB
	Namespace     string `toml:"namespace"`      // PATHLINKER_CACHE_NAMESPACE (optional key prefix)
}

type ServerConfig struct {
	Addr string `toml:"addr"` // PATHLINKER_SERVER_ADDR (default ":8080")
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`      // PATHLINKER_NEO4J_URI
	Database string `toml:"database"` // PATHLINKER_NEO4J_DATABASE
	Username string `toml:"username"` // PATHLINKER_NEO4J_USERNAME
	Password string `toml:"password"` // PATHLINKER_NEO4J_PASSWORD
	Query    string `toml:"query"`    // PATHLINKER_NEO4J_QUERY (default: every named relationship)
}

// RunConfig holds defaults for run options. Zero values defer to the
// pipeline defaults.
type RunConfig struct {
	K       int      `toml:"k"`       // PATHLINKER_K
	Weight  string   `toml:"weight"`  // PATHLINKER_WEIGHT
	Timeout Duration `toml:"timeout"` // PATHLINKER_TIMEOUT
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: BackendFile},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pathlinker/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/pathlinker, falling back to
// ~/.cache.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path selects [DefaultPath], which may be
// missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if !explicit && os.IsNotExist(err) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PATHLINKER_CACHE_BACKEND", &c.Cache.Backend)
	str("PATHLINKER_CACHE_DIR", &c.Cache.Dir)
	str("PATHLINKER_REDIS_ADDR", &c.Cache.RedisAddr)
	str("PATHLINKER_REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("PATHLINKER_CACHE_NAMESPACE", &c.Cache.Namespace)
	str("PATHLINKER_SERVER_ADDR", &c.Server.Addr)
	str("PATHLINKER_NEO4J_URI", &c.Neo4j.URI)
	str("PATHLINKER_NEO4J_DATABASE", &c.Neo4j.Database)
	str("PATHLINKER_NEO4J_USERNAME", &c.Neo4j.Username)
	str("PATHLINKER_NEO4J_PASSWORD", &c.Neo4j.Password)
	str("PATHLINKER_NEO4J_QUERY", &c.Neo4j.Query)
	str("PATHLINKER_WEIGHT", &c.Run.Weight)

	if v, ok := lookup("PATHLINKER_REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "PATHLINKER_REDIS_DB")
		}
		c.Cache.RedisDB = n
	}
	if v, ok := lookup("PATHLINKER_K"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "PATHLINKER_K")
		}
		c.Run.K = n
	}
	if v, ok := lookup("PATHLINKER_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "PATHLINKER_TIMEOUT")
		}
		c.Run.Timeout.Duration = d
	}
	return nil
}

// Validate checks value ranges and normalizes names.
func (c *Config) Validate() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = BackendFile
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}

	if c.Run.K != 0 {
		if err := errors.ValidateK(c.Run.K, pipeline.MaxK); err != nil {
			return fmt.Errorf("run.k: %w", err)
		}
	}
	if c.Run.Weight != "" {
		w, err := graph.ParseWeighting(c.Run.Weight)
		if err != nil {
			return fmt.Errorf("run.weight: %w", err)
		}
		c.Run.Weight = string(w)
	}
	if c.Run.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "run.timeout must not be negative")
	}
	return nil
}

// Options returns run options seeded with the configured defaults.
func (r RunConfig) Options() pipeline.Options {
	return pipeline.Options{
		K:       r.K,
		Weight:  graph.Weighting(r.Weight),
		Timeout: r.Timeout.Duration,
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
)

var envVars = []string{
	"PATHLINKER_CACHE_BACKEND", "PATHLINKER_CACHE_DIR", "PATHLINKER_REDIS_ADDR",
	"PATHLINKER_REDIS_PASSWORD", "PATHLINKER_REDIS_DB", "PATHLINKER_CACHE_NAMESPACE",
	"PATHLINKER_SERVER_ADDR", "PATHLINKER_NEO4J_URI", "PATHLINKER_NEO4J_DATABASE",
	"PATHLINKER_NEO4J_USERNAME", "PATHLINKER_NEO4J_PASSWORD", "PATHLINKER_NEO4J_QUERY",
	"PATHLINKER_K", "PATHLINKER_WEIGHT", "PATHLINKER_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Run.K != 0 || cfg.Run.Weight != "" {
		t.Errorf("Run = %+v, want zero", cfg.Run)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[cache]
backend = "Redis"
redis_addr = "cache:6379"
redis_db = 2
namespace = "lab"

[server]
addr = ":9000"

[neo4j]
uri = "neo4j://db:7687"
query = "MATCH (a)-->(b) RETURN a.name AS from, b.name AS to"

[run]
k = 100
weight = "Probability"
timeout = "45s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 || cfg.Cache.Namespace != "lab" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Neo4j.URI != "neo4j://db:7687" {
		t.Errorf("Neo4j.URI = %q", cfg.Neo4j.URI)
	}
	if cfg.Run.K != 100 || cfg.Run.Weight != "probability" || cfg.Run.Timeout.Duration != 45*time.Second {
		t.Errorf("Run = %+v", cfg.Run)
	}

	opts := cfg.Run.Options()
	if opts.K != 100 || opts.Weight != graph.Probability || opts.Timeout != 45*time.Second {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "pathlinker"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pathlinker", "config.toml"), []byte("[server]\naddr = \":7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\naddr = \":9000\"\n[run]\nk = 10\n")
	t.Setenv("PATHLINKER_SERVER_ADDR", ":3000")
	t.Setenv("PATHLINKER_K", "20")
	t.Setenv("PATHLINKER_TIMEOUT", "2m")
	t.Setenv("PATHLINKER_CACHE_BACKEND", "none")
	t.Setenv("PATHLINKER_NEO4J_PASSWORD", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Run.K != 20 {
		t.Errorf("Run.K = %d, want 20", cfg.Run.K)
	}
	if cfg.Run.Timeout.Duration != 2*time.Minute {
		t.Errorf("Run.Timeout = %v, want 2m", cfg.Run.Timeout)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Neo4j.Password != "secret" {
		t.Errorf("Neo4j.Password not applied")
	}
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "UnknownKey", body: "[cache]\nbackend = \"file\"\ncolour = \"red\"\n"},
		{name: "BadTOML", body: "[cache\n"},
		{name: "UnknownBackend", body: "[cache]\nbackend = \"memcached\"\n"},
		{name: "RedisWithoutAddr", body: "[cache]\nbackend = \"redis\"\n"},
		{name: "BadWeight", body: "[run]\nweight = \"cosine\"\n"},
		{name: "KTooLarge", body: "[run]\nk = 1000000\n"},
		{name: "BadTimeout", body: "[run]\ntimeout = \"soon\"\n"},
		{name: "BadEnvK", env: map[string]string{"PATHLINKER_K": "many"}},
		{name: "BadEnvTimeout", env: map[string]string{"PATHLINKER_TIMEOUT": "-"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateCodes(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "tape"
	if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Validate() = %v, want INVALID_INPUT", err)
	}
}

// Package config reads service settings from flags, falling back to
// VOIL_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const ServiceName = "voil"

// Backend names accepted by -backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

type Config struct {
	Addr     string
	DiagAddr string
	Routes   bool

	Backend    string
	SQLitePath string
	KVURL      string
	KVTimeout  time.Duration

	// KVServeAddr, when set, also exposes the configured backend over the
	// kvhttp protocol so other instances can use it as a remote store.
	KVServeAddr string
}

// Load parses args (without the program name).
func Load(args []string) (Config, error) {
	var c Config

	fs := flag.NewFlagSet(ServiceName, flag.ContinueOnError)
	fs.BoolVar(&c.Routes, "routes", getEnvBool("VOIL_ROUTES", false), "Generate router documentation")
	fs.StringVar(&c.Addr, "addr", getEnv("VOIL_ADDR", ":3333"), "application address")
	fs.StringVar(&c.DiagAddr, "diag_addr", getEnv("VOIL_DIAG_ADDR", ":9999"), "diagnostics (metrics) address")
	fs.StringVar(&c.Backend, "backend", getEnv("VOIL_BACKEND", BackendMemory), "key-value backend: memory, sqlite or http")
	fs.StringVar(&c.SQLitePath, "sqlite_path", getEnv("VOIL_SQLITE_PATH", "voil.db"), "sqlite database file")
	fs.StringVar(&c.KVURL, "kv_url", getEnv("VOIL_KV_URL", ""), "base URL of the remote kv backend")
	fs.DurationVar(&c.KVTimeout, "kv_timeout", getEnvDuration("VOIL_KV_TIMEOUT", 10*time.Second), "remote kv request timeout")
	fs.StringVar(&c.KVServeAddr, "kv_serve_addr", getEnv("VOIL_KV_SERVE_ADDR", ""), "expose the backend over HTTP on this address")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: sqlite backend needs -sqlite_path")
		}
	case BackendHTTP:
		if c.KVURL == "" {
			return errors.New("config: http backend needs -kv_url")
		}
		if c.KVTimeout <= 0 {
			return errors.New("config: -kv_timeout must be positive")
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return fallback
}
